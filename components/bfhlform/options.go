package bfhlform

import (
	"net/http"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-bfhl/pkg/render/template"
	"github.com/goliatone/go-bfhl/pkg/view"
)

const (
	defaultRoutePath      = "/"
	defaultTitle          = "Submit Your Roll Number"
	defaultMaxUploadBytes = 32 << 20
	defaultContractFile   = "openapi.yaml"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath      string
	Title          string
	Intro          string
	MaxUploadBytes int64
	Theme          *theme.RendererConfig
	Submitter      view.Submitter
	Renderer       template.TemplateRenderer
	Guard          GuardFunc
	Logger         *zap.Logger
	// ContractFile is served next to the page with the backend's OpenAPI
	// document. Empty disables the route.
	ContractFile string
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:      defaultRoutePath,
		Title:          defaultTitle,
		MaxUploadBytes: defaultMaxUploadBytes,
		ContractFile:   defaultContractFile,
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
	if strings.TrimSpace(opts.RoutePath) == "" {
		opts.RoutePath = defaultRoutePath
	}
	if strings.TrimSpace(opts.Title) == "" {
		opts.Title = defaultTitle
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.ContractFile = strings.Trim(strings.TrimSpace(opts.ContractFile), "/")
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithTitle(title string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Title = title
	}
}

// WithIntro sets HTML shown under the title. It is sanitised before
// rendering.
func WithIntro(html string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Intro = html
	}
}

func WithMaxUploadBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxUploadBytes = limit
	}
}

func WithTheme(cfg *theme.RendererConfig) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Theme = cfg
	}
}

func WithSubmitter(submitter view.Submitter) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Submitter = submitter
	}
}

func WithRenderer(renderer template.TemplateRenderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithContractFile(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ContractFile = name
	}
}
