package authn

import (
	"net/http"
	"strings"
)

// SignatureHeader carries the base64 ed25519 signature over the call message.
const SignatureHeader = "X-Call-Signature"

// Middleware copies the Authorization bearer token and X-Call-Signature
// header into the request context. It never rejects a request; the
// authenticator decides whether the proof is sufficient.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds := Credentials{Signature: strings.TrimSpace(r.Header.Get(SignatureHeader))}
		if scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
			creds.Bearer = strings.TrimSpace(token)
		}
		next.ServeHTTP(w, r.WithContext(WithCredentials(r.Context(), creds)))
	})
}
