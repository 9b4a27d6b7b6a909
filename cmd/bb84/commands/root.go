package commands

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bb84/internal/app"
)

const requestTimeout = 10 * time.Second

var (
	configFile string
	cfg        app.Config
	logger     zerolog.Logger
	appCtx     *app.App

	reportDir string
)

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	configFile, reportDir = "", ""

	root := &cobra.Command{
		Use:          "bb84",
		Short:        "BB84 quantum key distribution demo",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = app.LoadConfig(v, configFile)
			if err != nil {
				return err
			}
			logger, err = app.NewLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			appCtx = app.New(cfg, logger, &http.Client{Timeout: requestTimeout}, reportDir)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "YAML config file")
	pf.String("server", "", "server base URL (default http://127.0.0.1:8000)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (console or json)")
	pf.Int64("seed", 0, "random seed; 0 seeds from the clock")
	for key, flag := range map[string]string{
		"server_url": "server",
		"log.level":  "log-level",
		"log.format": "log-format",
		"seed":       "seed",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		serveCmd(v),
		simulateCmd(),
		statusCmd(),
		resetCmd(),
		sendCmd(),
		messagesCmd(),
		otpCmd(),
	)
	return root
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, requestTimeout)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
