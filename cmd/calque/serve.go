package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"

	"github.com/calque-dev/calque"
	"github.com/calque-dev/calque/pkg/serve"
)

var (
	serveConfigPath string
	serveSuccess    string
	serveFailure    string
	serveTerminator string
	serveReadyFile  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as an outline server for merge-shell integration",
	Long: `Run calque as a long-lived server that reads requests from stdin
and answers on stdout.

A request is two lines: the path of the source file to outline, then
the path its report should be written to. The response is one token
line, OK when the report was written and KO otherwise. A request line
holding only the terminator word ends the loop without a response.

The process outlines one file per request, keeps no state between
requests, and runs until the terminator, end of input, or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a YAML config file")
	serveCmd.Flags().StringVar(&serveSuccess, "success-token", "", "Token answered after a served request")
	serveCmd.Flags().StringVar(&serveFailure, "failure-token", "", "Token answered after a failed request")
	serveCmd.Flags().StringVar(&serveTerminator, "terminator", "", "Request line that ends the loop")
	serveCmd.Flags().StringVar(&serveReadyFile, "ready-file", "", "File touched once the server accepts requests")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := serveConfig()
	if err != nil {
		return err
	}

	o, err := calque.New()
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())
	ctx, cancel := context.WithCancel(slogctx.NewCtx(context.Background(), logger))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	srv := serve.NewServer(o, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}

// serveConfig layers flag overrides over the config file values.
func serveConfig() (serve.Config, error) {
	cfg := serve.DefaultConfig()
	if serveConfigPath != "" {
		loaded, err := serve.LoadConfig(serveConfigPath)
		if err != nil {
			return serve.Config{}, err
		}
		cfg = loaded
	}
	if serveSuccess != "" {
		cfg.SuccessToken = serveSuccess
	}
	if serveFailure != "" {
		cfg.FailureToken = serveFailure
	}
	if serveTerminator != "" {
		cfg.Terminator = serveTerminator
	}
	if serveReadyFile != "" {
		cfg.ReadyFile = serveReadyFile
	}
	return cfg, nil
}
