// Command vaxctl is the operator and holder toolkit for the certificate
// registry: key generation, call signing, JWT issuance and bootstrap tokens.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vaxctl",
		Short:         "Tools for working with the vaccine certificate registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("json", false, "Output as JSON")

	root.AddCommand(
		newKeygenCmd(),
		newSignCmd(),
		newTokenCmd(),
		newBootstrapTokenCmd(),
	)
	return root
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
