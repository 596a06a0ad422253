package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vaxcert/internal/authn"
	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
	dErrors "vaxcert/pkg/domain-errors"
	"vaxcert/pkg/platform/httputil"
	"vaxcert/pkg/platform/middleware/admin"
	"vaxcert/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// Service defines the registry operations exposed over HTTP.
type Service interface {
	Initialize(ctx context.Context, admin id.Identity, name, symbol string) (*models.InitResult, error)
	Admin(ctx context.Context) (id.Identity, error)
	Metadata(ctx context.Context) (*models.RegistryMetadata, error)
	OwnerOf(ctx context.Context, tokenID id.TokenID) (id.Identity, bool, error)
	MintWithAttrs(ctx context.Context, to id.Identity, attrs models.VaccineAttrs) (id.TokenID, error)
	GetAttrs(ctx context.Context, tokenID id.TokenID) (*models.VaccineAttrs, error)
	UpdateAttrs(ctx context.Context, caller id.Identity, tokenID id.TokenID, attrs models.VaccineAttrs) error
	Transfer(ctx context.Context, from, to id.Identity, tokenID id.TokenID) error
	Verify(ctx context.Context, tokenID id.TokenID) (*models.Verification, error)
	Nonce(ctx context.Context, identity id.Identity) (uint64, error)
}

// Handler serves the registry and certificate endpoints.
type Handler struct {
	registry      Service
	logger        *slog.Logger
	bootstrapHash string
}

// New creates a Handler. A non-empty bootstrapHash guards initialization.
func New(registry Service, logger *slog.Logger, bootstrapHash string) *Handler {
	return &Handler{
		registry:      registry,
		logger:        logger,
		bootstrapHash: bootstrapHash,
	}
}

// Register mounts the routes on r.
func (h *Handler) Register(r chi.Router) {
	r.With(admin.RequireBootstrapToken(h.bootstrapHash, h.logger)).
		Post("/registry/initialize", h.HandleInitialize)
	r.Get("/registry/admin", h.HandleAdmin)
	r.Get("/registry/metadata", h.HandleMetadata)
	r.Get("/identities/{identity}/nonce", h.HandleNonce)

	r.Group(func(r chi.Router) {
		r.Use(authn.Middleware)
		r.Post("/certificates", h.HandleMint)
		r.Put("/certificates/{id}/attrs", h.HandleUpdateAttrs)
		r.Post("/certificates/{id}/transfer", h.HandleTransfer)
	})
	r.Get("/certificates/{id}/owner", h.HandleOwnerOf)
	r.Get("/certificates/{id}/attrs", h.HandleGetAttrs)
	r.Get("/certificates/{id}/verify", h.HandleVerify)
}

func (h *Handler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[InitializeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.registry.Initialize(ctx, id.Identity(req.Admin), req.Name, req.Symbol)
	if err != nil {
		h.fail(ctx, w, "failed to initialize registry", err)
		return
	}

	if res.AlreadyInitialized {
		httputil.WriteJSON(w, http.StatusOK, InitializeResponse{Initialized: false, AlreadyInitialized: true})
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, InitializeResponse{Initialized: true})
}

func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	adm, err := h.registry.Admin(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to read admin", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AdminResponse{Admin: adm.String()})
}

func (h *Handler) HandleMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meta, err := h.registry.Metadata(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to read registry metadata", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toMetadataResponse(meta))
}

// HandleNonce reports the nonce the identity's next signature must cover.
func (h *Handler) HandleNonce(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := id.Identity(chi.URLParam(r, "identity"))

	nonce, err := h.registry.Nonce(ctx, identity)
	if err != nil {
		h.fail(ctx, w, "failed to read nonce", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NonceResponse{Identity: identity.String(), Nonce: nonce})
}

func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[MintRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	tokenID, err := h.registry.MintWithAttrs(ctx, id.Identity(req.To), req.attrs())
	if err != nil {
		h.fail(ctx, w, "failed to mint certificate", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, MintResponse{TokenID: tokenID})
}

func (h *Handler) HandleOwnerOf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}

	owner, found, err := h.registry.OwnerOf(ctx, tokenID)
	if err != nil {
		h.fail(ctx, w, "failed to read owner", err)
		return
	}

	res := OwnerResponse{}
	if found {
		o := owner.String()
		res.Owner = &o
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleGetAttrs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}

	attrs, err := h.registry.GetAttrs(ctx, tokenID)
	if err != nil {
		h.fail(ctx, w, "failed to read attrs", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, attrs)
}

func (h *Handler) HandleUpdateAttrs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateAttrsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.registry.UpdateAttrs(ctx, id.Identity(req.Caller), tokenID, req.attrs()); err != nil {
		h.fail(ctx, w, "failed to update attrs", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[TransferRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.registry.Transfer(ctx, id.Identity(req.From), id.Identity(req.To), tokenID); err != nil {
		h.fail(ctx, w, "failed to transfer certificate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}

	v, err := h.registry.Verify(ctx, tokenID)
	if err != nil {
		h.fail(ctx, w, "failed to verify certificate", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVerifyResponse(v))
}

func (h *Handler) tokenID(w http.ResponseWriter, r *http.Request) (id.TokenID, bool) {
	tokenID, err := id.ParseTokenID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return tokenID, true
}

// fail logs client errors at warn and everything else at error.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if code := dErrors.CodeOf(err); code == dErrors.CodeInternal || code == dErrors.CodeTimeout {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
