package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"vaxcert/pkg/secrets"
)

type bootstrapOutput struct {
	Token string `json:"token"`
	Hash  string `json:"hash"`
}

func newBootstrapTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap-token",
		Short: "Generate the operator token that guards registry initialization",
		Long: `Generate a random bootstrap token and its bcrypt hash.

Configure the server with VAXCERT_BOOTSTRAP_TOKEN_HASH=<hash> and send the
token in the X-Bootstrap-Token header when calling POST /registry/initialize.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := secrets.Generate()
			if err != nil {
				return err
			}
			hash, err := secrets.Hash(token)
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(bootstrapOutput{Token: token, Hash: hash})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token: %s\nhash:  %s\n", token, hash)
			return nil
		},
	}
}
