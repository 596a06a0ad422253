package main

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vaxcert/internal/authn"
	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
)

// seedEnv is read when --seed is not given.
const seedEnv = "VAXCERT_SEED"

type signOutput struct {
	Header    string `json:"header"`
	Signature string `json:"signature"`
	Message   string `json:"message"`
}

func newSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Produce the X-Call-Signature value for a gated call",
		Long: `Sign the canonical message of a registry call with an ed25519 seed.

The signer must be the identity the registry asks for proof from: the admin
for mint, the current owner for update-attrs, and the sender for transfer.
--nonce must be the signer's current nonce (GET /identities/{identity}/nonce);
each committed call consumes one.

Environment variables:
  VAXCERT_SEED  Seed used when --seed is not given`,
	}
	cmd.PersistentFlags().String("seed", "", "Signer seed S... (env: VAXCERT_SEED)")
	cmd.PersistentFlags().Uint64("nonce", 0, "Signer's current nonce")

	cmd.AddCommand(newSignMintCmd(), newSignUpdateAttrsCmd(), newSignTransferCmd())
	return cmd
}

func addAttrFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Vaccine name")
	cmd.Flags().String("batch", "", "Batch identifier")
	cmd.Flags().Uint64("exp-date", 0, "Expiry date (unix seconds)")
	cmd.Flags().Uint64("taken-date", 0, "Date administered (unix seconds)")
}

func attrsFromFlags(cmd *cobra.Command) models.VaccineAttrs {
	name, _ := cmd.Flags().GetString("name")
	batch, _ := cmd.Flags().GetString("batch")
	exp, _ := cmd.Flags().GetUint64("exp-date")
	taken, _ := cmd.Flags().GetUint64("taken-date")
	return models.VaccineAttrs{Name: name, Batch: batch, ExpDate: exp, TakenDate: taken}
}

func identityFlag(cmd *cobra.Command, name string) (id.Identity, error) {
	v, _ := cmd.Flags().GetString(name)
	identity, err := id.ParseIdentity(v)
	if err != nil {
		return "", fmt.Errorf("--%s: %w", name, err)
	}
	return identity, nil
}

func tokenIDFlag(cmd *cobra.Command) (id.TokenID, error) {
	v, _ := cmd.Flags().GetString("token-id")
	tokenID, err := id.ParseTokenID(v)
	if err != nil {
		return 0, fmt.Errorf("--token-id: %w", err)
	}
	return tokenID, nil
}

func newSignMintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Sign a mint_with_attrs call (admin seed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to, err := identityFlag(cmd, "to")
			if err != nil {
				return err
			}
			return signAndPrint(cmd, models.MintCall(to, attrsFromFlags(cmd)))
		},
	}
	cmd.Flags().String("to", "", "Recipient identity")
	addAttrFlags(cmd)
	return cmd
}

func newSignUpdateAttrsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-attrs",
		Short: "Sign an update_attrs call (owner seed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			caller, err := identityFlag(cmd, "caller")
			if err != nil {
				return err
			}
			tokenID, err := tokenIDFlag(cmd)
			if err != nil {
				return err
			}
			return signAndPrint(cmd, models.UpdateAttrsCall(caller, tokenID, attrsFromFlags(cmd)))
		},
	}
	cmd.Flags().String("caller", "", "Claimed owner identity")
	cmd.Flags().String("token-id", "", "Certificate id")
	addAttrFlags(cmd)
	return cmd
}

func newSignTransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Sign a transfer call (sender seed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := identityFlag(cmd, "from")
			if err != nil {
				return err
			}
			to, err := identityFlag(cmd, "to")
			if err != nil {
				return err
			}
			tokenID, err := tokenIDFlag(cmd)
			if err != nil {
				return err
			}
			return signAndPrint(cmd, models.TransferCall(from, to, tokenID))
		},
	}
	cmd.Flags().String("from", "", "Current owner identity")
	cmd.Flags().String("to", "", "Recipient identity")
	cmd.Flags().String("token-id", "", "Certificate id")
	return cmd
}

func loadSeed(cmd *cobra.Command) (ed25519.PrivateKey, error) {
	seed, _ := cmd.Flags().GetString("seed")
	if seed == "" {
		seed = os.Getenv(seedEnv)
	}
	if seed == "" {
		return nil, errors.New("a signer seed is required (--seed or VAXCERT_SEED)")
	}
	priv, err := authn.DecodeSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return priv, nil
}

func signAndPrint(cmd *cobra.Command, call models.Call) error {
	priv, err := loadSeed(cmd)
	if err != nil {
		return err
	}
	nonce, _ := cmd.Flags().GetUint64("nonce")
	call = call.WithNonce(nonce)
	sig := authn.Sign(priv, call)

	if jsonOutput(cmd) {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(signOutput{
			Header:    authn.SignatureHeader,
			Signature: sig,
			Message:   string(call.Message()),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), sig)
	return nil
}
