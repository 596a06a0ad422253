package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vaxcert/internal/authn"
	id "vaxcert/pkg/domain"
)

const signingKeyEnv = "VAXCERT_AUTH_JWT_SIGNING_KEY"

type tokenOutput struct {
	Token     string `json:"token"`
	Subject   string `json:"subject"`
	ExpiresAt string `json:"expires_at"`
}

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the jwt auth mode",
		Long: `Issue an HS256 bearer token whose subject is the given identity.

The key, issuer and audience must match the server's VAXCERT_AUTH_JWT_*
settings.

Examples:
  vaxctl token --identity GABC... --ttl 15m
  VAXCERT_AUTH_JWT_SIGNING_KEY=... vaxctl token --identity GABC...`,
		Args: cobra.NoArgs,
		RunE: runToken,
	}
	cmd.Flags().String("identity", "", "Identity to place in the sub claim")
	cmd.Flags().String("key", "", "HS256 signing key (env: "+signingKeyEnv+")")
	cmd.Flags().String("issuer", "vaxcert", "iss claim")
	cmd.Flags().String("audience", "vaxcert-registry", "aud claim")
	cmd.Flags().Duration("ttl", 15*time.Minute, "Token lifetime")
	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	identityStr, _ := cmd.Flags().GetString("identity")
	identity, err := id.ParseIdentity(identityStr)
	if err != nil {
		return fmt.Errorf("--identity: %w", err)
	}

	key, _ := cmd.Flags().GetString("key")
	if key == "" {
		key = os.Getenv(signingKeyEnv)
	}
	if len(key) < 32 {
		return fmt.Errorf("signing key must be at least 32 bytes (--key or %s)", signingKeyEnv)
	}
	issuer, _ := cmd.Flags().GetString("issuer")
	audience, _ := cmd.Flags().GetString("audience")
	ttl, _ := cmd.Flags().GetDuration("ttl")
	if ttl <= 0 {
		return fmt.Errorf("--ttl must be positive")
	}

	now := time.Now()
	token, err := authn.NewJWTAuthenticator(key, issuer, audience).IssueToken(identity, now, ttl)
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(tokenOutput{
			Token:     token,
			Subject:   identity.String(),
			ExpiresAt: now.Add(ttl).UTC().Format(time.RFC3339),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
