package client

import (
	"net/http"
	"strings"
	"time"
)

const (
	DefaultPath    = "/api/bfhl"
	DefaultTimeout = 30 * time.Second

	DataField = "data[]"
	FileField = "file"
)

type Options struct {
	BaseURL    string
	Path       string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Path:      DefaultPath,
		Timeout:   DefaultTimeout,
		UserAgent: "go-bfhl",
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	opts.BaseURL = strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	opts.Path = strings.TrimSpace(opts.Path)
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if !strings.HasPrefix(opts.Path, "/") {
		opts.Path = "/" + opts.Path
	}
	if opts.Timeout < 0 {
		opts.Timeout = 0
	}
	return opts
}

// WithBaseURL sets the scheme and host the endpoint path is resolved against.
func WithBaseURL(base string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.BaseURL = base
	}
}

func WithPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Path = path
	}
}

// WithTimeout bounds a single submission. Zero disables the client-side limit.
func WithTimeout(timeout time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Timeout = timeout
	}
}

func WithUserAgent(agent string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.UserAgent = agent
	}
}

func WithHTTPClient(client *http.Client) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HTTPClient = client
	}
}
