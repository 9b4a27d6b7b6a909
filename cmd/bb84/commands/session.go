package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"bb84/internal/crypto"
	"bb84/internal/domain"
)

// status: print the server's session snapshot.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the session status from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			snap, err := appCtx.Server.Status(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snap)
		},
	}
}

// reset: return the server's session to idle.
func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the session on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if err := appCtx.Server.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "session reset")
			return nil
		},
	}
}

// send <sender> <message>: post a chat message, encrypting it with --key.
func sendCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "send <sender> <message>",
		Short: "Post a chat message to the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bits, err := crypto.ParseBits(key)
			if err != nil {
				return err
			}
			msg := sendMessage(args[0], args[1], bits)

			ctx, cancel := commandContext(cmd)
			defer cancel()
			if err := appCtx.Server.PostMessage(ctx, msg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "final key as 0/1 string; encrypts the message when set")
	return cmd
}

// messages: list chat messages, decrypting encrypted ones with --key.
func messagesCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List chat messages in the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bits, err := crypto.ParseBits(key)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			msgs, err := appCtx.Server.Messages(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range msgs {
				fmt.Fprintf(out, "%s  %-6s %s\n", m.Timestamp.Format("15:04:05"), m.Sender, readable(m.Content, m.Encrypted, bits))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "final key as 0/1 string for decrypting")
	return cmd
}

func sendMessage(sender, text string, key []domain.Bit) domain.SendMessageEvent {
	if len(key) == 0 {
		return domain.SendMessageEvent{Sender: sender, Content: text}
	}
	return domain.SendMessageEvent{Sender: sender, Content: crypto.EncryptOTP(text, key), Encrypted: true}
}

// readable decrypts content when possible and marks what it could not.
func readable(content string, encrypted bool, key []domain.Bit) string {
	if !encrypted {
		return content
	}
	if len(key) == 0 {
		return "[encrypted] " + content
	}
	pt, err := crypto.DecryptOTP(content, key)
	if err != nil {
		return "[undecryptable] " + content
	}
	return pt
}
