package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"vaxcert/internal/authn"
)

type keyOutput struct {
	Identity string `json:"identity"`
	Seed     string `json:"seed"`
}

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate an ed25519 identity and its secret seed",
		Long: `Generate a new ed25519 keypair.

The identity (G...) is the public account id used as admin, owner or
recipient. The seed (S...) signs calls; keep it secret.

Examples:
  vaxctl keygen
  vaxctl keygen --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pub, priv, err := ed25519.GenerateKey(rand.Reader)
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}
			identity, err := authn.EncodeAccountID(pub)
			if err != nil {
				return err
			}
			out := keyOutput{Identity: identity, Seed: authn.EncodeSeed(priv)}

			if jsonOutput(cmd) {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "identity: %s\nseed:     %s\n", out.Identity, out.Seed)
			return nil
		},
	}
}
