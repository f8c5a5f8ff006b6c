package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-validator/internal/api"
	"github.com/insightdelivered/statement-validator/internal/extractor"
	"github.com/insightdelivered/statement-validator/internal/lineextract"
	"github.com/insightdelivered/statement-validator/internal/writer"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(g *globals) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if addr != "" {
				g.cfg.Server.Addr = addr
			}

			lx, err := lineextract.New(ctx, g.cfg.LLM.Provider, geminiConfig(g))
			if err != nil {
				return err
			}

			if !extractor.IsOCRAvailable() {
				g.log.Warn().Msg("pdftoppm/tesseract not found; only PDFs with a text layer can be converted")
			}

			h := &api.Handler{
				Lines:     lx,
				OCR:       ocrOptions(g),
				UploadDir: g.cfg.Server.UploadDir,
				OutputDir: g.cfg.Output.Dir,
				Format:    writer.Format(g.cfg.Output.Format),
				Log:       g.log,
			}
			app := api.NewApp(h, g.cfg.Server.MaxUploadMB, g.cfg.Server.StaticDir)

			return serve(ctx, g, func() error { return app.Listen(g.cfg.Server.Addr) },
				func() error { return app.ShutdownWithTimeout(shutdownTimeout) })
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

// serve runs listen until it fails or ctx is cancelled, then shuts down.
func serve(ctx context.Context, g *globals, listen, shutdown func() error) error {
	errCh := make(chan error, 1)
	go func() {
		g.log.Info().
			Str("addr", g.cfg.Server.Addr).
			Str("extractor", g.cfg.LLM.Provider).
			Msg("statement-validator listening")
		errCh <- listen()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		g.log.Info().Msg("shutting down")
		if err := shutdown(); err != nil {
			return err
		}
		return <-errCh
	}
}
