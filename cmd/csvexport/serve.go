package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oleg578/csvresult"
	"github.com/oleg578/csvresult/httpresult"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve file",
		Short: "Serve records as a delimited-text download",
		Long: `Serve re-reads file on every request and answers GET / with the converted
text, using the dialect's content type and file name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd.ErrOrStderr())

			d, err := opts.dialect(cmd)
			if err != nil {
				return err
			}
			path := args[0]

			srv := &http.Server{
				Addr:              addr,
				Handler:           httpresult.Handler(newProducer(path, d, logger), httpresult.WithLogger(logger)),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr, "path", path)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

// newProducer re-reads path and converts it on every request.
func newProducer(path string, d *csvresult.Dialect, logger *slog.Logger) httpresult.Producer {
	return func(r *http.Request) (*csvresult.Result, error) {
		records, err := readRecordsFile(path, nil)
		if err != nil {
			logger.Error("read failed", "path", path, "error", err)
			return nil, err
		}
		res, err := csvresult.SerializeDialect(records, d)
		if err != nil {
			logger.Error("serialize failed", "path", path, "error", err)
			return nil, err
		}
		logger.Debug("served", "remote", r.RemoteAddr, "rows", len(records), "bytes", res.Len())
		return res, nil
	}
}
