// Package admin guards operator-only routes.
package admin

import (
	"log/slog"
	"net/http"

	dErrors "vaxcert/pkg/domain-errors"
	"vaxcert/pkg/platform/httputil"
	"vaxcert/pkg/requestcontext"
	"vaxcert/pkg/secrets"
)

// BootstrapTokenHeader carries the plaintext operator token.
const BootstrapTokenHeader = "X-Bootstrap-Token"

// RequireBootstrapToken admits requests whose X-Bootstrap-Token matches the
// configured bcrypt hash. An empty hash disables the guard.
func RequireBootstrapToken(hash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if hash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := secrets.Verify(r.Header.Get(BootstrapTokenHeader), hash); err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "bootstrap token rejected",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "bootstrap token required"))
					return
				}
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
