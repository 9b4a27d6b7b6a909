package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"bb84/internal/crypto"
	"bb84/internal/domain"
)

// simulate: run one full exchange and print the result.
func simulateCmd() *cobra.Command {
	var (
		bits    int
		eveProb float64
		remote  bool
		asJSON  bool
		name    string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one BB84 exchange and print the sifted and final keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("bits") {
				bits = cfg.DefaultBits
			}
			if !cmd.Flags().Changed("eve-prob") {
				eveProb = cfg.DefaultEveProb
			}

			var (
				res domain.SimulationResult
				err error
			)
			if remote {
				ctx, cancel := commandContext(cmd)
				defer cancel()
				res, err = appCtx.Server.Simulate(ctx, bits, eveProb)
			} else {
				res, err = appCtx.Simulation.Run(bits, eveProb)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := printJSON(out, res); err != nil {
					return err
				}
			} else {
				printSimulation(out, res)
			}

			if appCtx.Reports != nil {
				if name == "" {
					name = "simulation-" + time.Now().UTC().Format("20060102T150405Z")
				}
				path, err := appCtx.Reports.SaveReport(name, res)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "saved", path)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&bits, "bits", "n", 0, "number of bits Alice sends (default from config)")
	f.Float64Var(&eveProb, "eve-prob", 0, "interception probability in [0, 1] (default from config)")
	f.BoolVar(&remote, "remote", false, "run on the server instead of locally")
	f.BoolVar(&asJSON, "json", false, "print the full result as JSON")
	f.StringVar(&reportDir, "save", "", "directory to save the result in")
	f.StringVar(&name, "name", "", "report name when saving (default timestamped)")
	return cmd
}

func printSimulation(w io.Writer, r domain.SimulationResult) {
	fmt.Fprintf(w, "alice bits       %s\n", crypto.FormatBits(r.AliceBits))
	fmt.Fprintf(w, "alice bases      %s\n", formatBases(r.AliceBases))
	fmt.Fprintf(w, "bob bases        %s\n", formatBases(r.BobBases))
	fmt.Fprintf(w, "bob measurements %s\n", crypto.FormatBits(r.BobMeasurements))
	fmt.Fprintf(w, "matched          %d of %d\n", len(r.MatchedIndices), len(r.AliceBits))
	fmt.Fprintf(w, "alice sifted     %s\n", crypto.FormatBits(r.AliceSifted))
	fmt.Fprintf(w, "bob sifted       %s\n", crypto.FormatBits(r.BobSifted))
	fmt.Fprintf(w, "qber             %.4f\n", r.QBER)
	fmt.Fprintf(w, "final key        %s\n", crypto.FormatBits(r.FinalKey))
	fmt.Fprintf(w, "fingerprint      %s\n", crypto.KeyFingerprint(r.FinalKey))
	fmt.Fprintf(w, "eve intercepted  %t\n", r.EveIntercepted)
}

// formatBases renders rectilinear as + and diagonal as x.
func formatBases(bases []domain.Basis) string {
	b := make([]byte, len(bases))
	for i, v := range bases {
		if v == domain.Diagonal {
			b[i] = 'x'
		} else {
			b[i] = '+'
		}
	}
	return string(b)
}
