package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"vaxcert/internal/authn"
	"vaxcert/internal/registry/models"
	"vaxcert/internal/registry/store"
	id "vaxcert/pkg/domain"
	"vaxcert/pkg/testutil"
)

type signer struct {
	identity id.Identity
	priv     ed25519.PrivateKey
}

// SignedCallSuite drives the service with real ed25519 proofs.
type SignedCallSuite struct {
	suite.Suite
	service *Service
	admin   signer
	alice   signer
	bob     signer
}

func TestSignedCallSuite(t *testing.T) {
	suite.Run(t, new(SignedCallSuite))
}

func (s *SignedCallSuite) newSigner() signer {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	s.Require().NoError(err)
	account, err := authn.EncodeAccountID(pub)
	s.Require().NoError(err)
	return signer{identity: id.Identity(account), priv: priv}
}

func (s *SignedCallSuite) SetupTest() {
	s.service = New(
		NewStoreTx(store.NewInMemory().RunInTx),
		authn.NewSignatureAuthenticator(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	s.admin, s.alice, s.bob = s.newSigner(), s.newSigner(), s.newSigner()

	_, err := s.service.Initialize(context.Background(), s.admin.identity, "VaxCert", "VAX")
	s.Require().NoError(err)
}

// signed returns a context carrying sig over call at the signer's current nonce.
func (s *SignedCallSuite) signed(by signer, call models.Call) context.Context {
	nonce, err := s.service.Nonce(context.Background(), by.identity)
	s.Require().NoError(err)
	sig := authn.Sign(by.priv, call.WithNonce(nonce))
	return authn.WithCredentials(context.Background(), authn.Credentials{Signature: sig})
}

func (s *SignedCallSuite) mint(to id.Identity, attrs models.VaccineAttrs) (context.Context, id.TokenID) {
	ctx := s.signed(s.admin, models.MintCall(to, attrs))
	tokenID, err := s.service.MintWithAttrs(ctx, to, attrs)
	s.Require().NoError(err)
	return ctx, tokenID
}

func (s *SignedCallSuite) owner(tokenID id.TokenID) id.Identity {
	owner, ok, err := s.service.OwnerOf(context.Background(), tokenID)
	s.Require().NoError(err)
	s.Require().True(ok)
	return owner
}

func (s *SignedCallSuite) TestNonceAdvancesOnCommit() {
	nonce, err := s.service.Nonce(context.Background(), s.admin.identity)
	s.Require().NoError(err)
	s.Zero(nonce)

	s.mint(s.alice.identity, testutil.NewAttrsBuilder().Build())

	nonce, err = s.service.Nonce(context.Background(), s.admin.identity)
	s.Require().NoError(err)
	s.Equal(uint64(1), nonce)

	_, err = s.service.Nonce(context.Background(), "not an identity")
	s.Error(err)
}

func (s *SignedCallSuite) TestMintReplayIsRejected() {
	attrs := testutil.NewAttrsBuilder().Build()
	ctx, tokenID := s.mint(s.alice.identity, attrs)
	s.Equal(id.TokenID(1), tokenID)

	_, err := s.service.MintWithAttrs(ctx, s.alice.identity, attrs)
	s.ErrorIs(err, models.ErrUnauthenticated)

	meta, err := s.service.Metadata(context.Background())
	s.Require().NoError(err)
	s.Equal(uint64(1), meta.Issued, "replayed mint must not issue a record")
}

func (s *SignedCallSuite) TestTransferReplayAfterRoundTripIsRejected() {
	_, tokenID := s.mint(s.alice.identity, testutil.NewAttrsBuilder().Build())

	aliceToBob := s.signed(s.alice, models.TransferCall(s.alice.identity, s.bob.identity, tokenID))
	s.Require().NoError(s.service.Transfer(aliceToBob, s.alice.identity, s.bob.identity, tokenID))

	bobToAlice := s.signed(s.bob, models.TransferCall(s.bob.identity, s.alice.identity, tokenID))
	s.Require().NoError(s.service.Transfer(bobToAlice, s.bob.identity, s.alice.identity, tokenID))
	s.Equal(s.alice.identity, s.owner(tokenID))

	err := s.service.Transfer(aliceToBob, s.alice.identity, s.bob.identity, tokenID)
	s.ErrorIs(err, models.ErrUnauthenticated)
	s.Equal(s.alice.identity, s.owner(tokenID))
}

func (s *SignedCallSuite) TestUpdateReplayIsRejected() {
	_, tokenID := s.mint(s.alice.identity, testutil.NewAttrsBuilder().Build())
	first := testutil.NewAttrsBuilder().WithBatch("B-02").Build()
	second := testutil.NewAttrsBuilder().WithBatch("B-03").Build()

	replayed := s.signed(s.alice, models.UpdateAttrsCall(s.alice.identity, tokenID, first))
	s.Require().NoError(s.service.UpdateAttrs(replayed, s.alice.identity, tokenID, first))
	s.Require().NoError(s.service.UpdateAttrs(
		s.signed(s.alice, models.UpdateAttrsCall(s.alice.identity, tokenID, second)),
		s.alice.identity, tokenID, second,
	))

	err := s.service.UpdateAttrs(replayed, s.alice.identity, tokenID, first)
	s.ErrorIs(err, models.ErrUnauthenticated)

	got, err := s.service.GetAttrs(context.Background(), tokenID)
	s.Require().NoError(err)
	s.Equal(second, *got)
}

func (s *SignedCallSuite) TestRejectedCallKeepsNonce() {
	_, tokenID := s.mint(s.alice.identity, testutil.NewAttrsBuilder().Build())
	ctx := s.signed(s.alice, models.TransferCall(s.alice.identity, s.bob.identity, tokenID))

	// Signed for bob as recipient; presenting it for carol fails and spends nothing.
	carol := s.newSigner()
	err := s.service.Transfer(ctx, s.alice.identity, carol.identity, tokenID)
	s.ErrorIs(err, models.ErrUnauthenticated)

	s.Require().NoError(s.service.Transfer(ctx, s.alice.identity, s.bob.identity, tokenID))
	s.Equal(s.bob.identity, s.owner(tokenID))
}
