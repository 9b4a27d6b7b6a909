package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"bb84/internal/crypto"
)

// otp encrypt|decrypt <key> <text>: apply the demo one-time pad.
func otpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "otp",
		Short: "Encrypt or decrypt text with a key bit string (demo only)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "encrypt <key> <plaintext>",
			Short: "Encrypt plaintext; prints base64",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := crypto.ParseBits(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), crypto.EncryptOTP(args[1], key))
				return nil
			},
		},
		&cobra.Command{
			Use:   "decrypt <key> <ciphertext>",
			Short: "Decrypt base64 ciphertext",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := crypto.ParseBits(args[0])
				if err != nil {
					return err
				}
				pt, err := crypto.DecryptOTP(args[1], key)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), pt)
				return nil
			},
		},
	)
	return cmd
}
