// Package httpresult delivers a csvresult.Result as an HTTP download.
package httpresult

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/oleg578/csvresult"
)

var errNilResult = errors.New("httpresult: result is nil")

// Producer builds the result for a request.
type Producer func(r *http.Request) (*csvresult.Result, error)

// SetHeaders writes Content-Type, Content-Length and, when the result names
// a file, an attachment Content-Disposition.
func SetHeaders(h http.Header, res *csvresult.Result) {
	h.Set("Content-Type", res.ContentType)
	h.Set("Content-Length", strconv.Itoa(res.Len()))
	if res.FileDownloadName != "" {
		if cd := mime.FormatMediaType("attachment", map[string]string{"filename": res.FileDownloadName}); cd != "" {
			h.Set("Content-Disposition", cd)
		}
	}
}

// Write sends res with status 200.
func Write(w http.ResponseWriter, res *csvresult.Result) error {
	if res == nil {
		return errNilResult
	}
	SetHeaders(w.Header(), res)
	w.WriteHeader(http.StatusOK)
	_, err := res.WriteTo(w)
	return err
}

// HandlerOption configures Handler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for failures after the response has
// started. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(c *handlerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Handler serves the result of produce for GET and HEAD requests.
func Handler(produce Producer, opts ...HandlerOption) http.Handler {
	cfg := handlerConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		res, err := produce(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if res == nil {
			http.Error(w, errNilResult.Error(), http.StatusInternalServerError)
			return
		}

		if r.Method == http.MethodHead {
			SetHeaders(w.Header(), res)
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := Write(w, res); err != nil {
			// status is already sent; the client sees a short body
			cfg.logger.Error("write response failed",
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"bytes", res.Len(),
				"error", err,
			)
		}
	})
}
