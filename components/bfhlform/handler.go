package bfhlform

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-bfhl/pkg/client"
	"github.com/goliatone/go-bfhl/pkg/view"
)

const (
	actionSubmit = "submit"
	actionFilter = "filter"
)

// RequestIDHeader carries the id assigned to every handled request.
const RequestIDHeader = "X-Request-Id"

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Handler builds the page handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds the page handler from a pre-constructed Options
// value. Defaults are re-applied so a zero Options is usable.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodPost:
		default:
			w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodHead, http.MethodPost}, ", "))
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		requestID := uuid.NewString()
		w.Header().Set(RequestIDHeader, requestID)
		logger := opts.Logger.With(zap.String("request_id", requestID))

		form := view.New(opts.Submitter)
		if r.Method == http.MethodPost {
			if err := handlePost(w, r, opts, form, logger); err != nil {
				writeError(w, err)
				return
			}
		}

		renderer := opts.Renderer
		if renderer == nil {
			var err error
			if renderer, err = embeddedRenderer(); err != nil {
				logger.Error("bfhlform: load embedded templates", zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}

		data := pageData(opts, r.URL.Path, form.State(), form.Blocks())
		html, err := renderer.RenderTemplate(PageTemplate, data)
		if err != nil {
			logger.Error("bfhlform: render page", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = io.WriteString(w, html)
	})
}

func handlePost(w http.ResponseWriter, r *http.Request, opts Options, form *view.Form, logger *zap.Logger) error {
	r.Body = http.MaxBytesReader(w, r.Body, opts.MaxUploadBytes)
	if err := parseForm(r, opts.MaxUploadBytes); err != nil {
		if isTooLarge(err) {
			return StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
		}
		return StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("bfhlform: parse form: %w", err)}
	}

	form.SetJSON(r.FormValue("json"))
	form.Select(r.Form["filter"])

	switch action := strings.TrimSpace(r.FormValue("action")); action {
	case actionFilter:
		resp, err := client.DecodeResponse([]byte(r.FormValue("response")))
		if err != nil {
			return StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("bfhlform: restore response: %w", err)}
		}
		form.Restore(resp)
		logger.Debug("bfhlform: filter applied", zap.Strings("filters", form.State().Selected))
		return nil
	case "", actionSubmit:
		file, err := readUpload(r)
		if err != nil {
			return StatusError{Code: http.StatusBadRequest, Err: err}
		}
		form.SetFile(file)

		started := time.Now()
		err = form.Submit(r.Context())
		logSubmission(logger, form.State(), err, time.Since(started))
		return nil
	default:
		return StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("bfhlform: unknown action %q", action)}
	}
}

func parseForm(r *http.Request, limit int64) error {
	err := r.ParseMultipartForm(limit)
	if errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	return err
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return true
	}
	// multipart flattens some read errors into text.
	return strings.Contains(err.Error(), "request body too large")
}

func readUpload(r *http.Request) (*view.File, error) {
	fh, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("bfhlform: read upload: %w", err)
	}
	defer fh.Close()

	content, err := io.ReadAll(fh)
	if err != nil {
		return nil, fmt.Errorf("bfhlform: read upload: %w", err)
	}
	return &view.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func logSubmission(logger *zap.Logger, state view.State, err error, elapsed time.Duration) {
	fields := []zap.Field{
		zap.String("file", state.FileName),
		zap.Duration("elapsed", elapsed),
	}
	var validation *view.ValidationError
	switch {
	case err == nil:
		logger.Info("bfhlform: submission succeeded", append(fields, zap.Int("keys", len(state.Response)))...)
	case errors.As(err, &validation):
		logger.Info("bfhlform: submission rejected", append(fields, zap.String("reason", state.Error))...)
	default:
		logger.Warn("bfhlform: submission failed", append(fields, zap.String("reason", state.Error), zap.Error(err))...)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	http.Error(w, http.StatusText(code), code)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
