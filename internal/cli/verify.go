package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipscout/pipscout/internal/verify"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var signaturePath string
	var keyPath string

	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Check a detached PGP signature over an artifact",
		Long: `Verifies a downloaded artifact against a detached PGP signature
(armored .asc or binary .sig) using a user-supplied public key ring.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verifier, err := verify.NewGPGVerifier(keyPath)
			if err != nil {
				return err
			}

			entity, err := verifier.VerifyFile(args[0], signaturePath)
			if err != nil {
				return err
			}

			fmt.Printf("Good signature on %s\n", args[0])
			fmt.Printf("Signed by: %s\n", verify.SignerIdentity(entity))
			return nil
		},
	}

	cmd.Flags().StringVarP(&signaturePath, "signature", "s", "", "Detached signature file")
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "Public key ring (armored or binary)")
	cmd.MarkFlagRequired("signature")
	cmd.MarkFlagRequired("key")

	return cmd
}
