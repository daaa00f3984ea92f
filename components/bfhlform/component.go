package bfhlform

import (
	"net/http"
	"sync"
)

// Component is a configured page. Its handler, and the view.Form plumbing
// behind it, is built on first use and shared by every route it registers.
type Component struct {
	opts Options

	once    sync.Once
	handler http.Handler
}

func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return c.opts
}

func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	c.once.Do(func() { c.handler = HandlerWithOptions(c.opts) })
	return c.handler
}

func (c *Component) MountPath(basePath string) string {
	return pagePath(basePath, c.Options().RoutePath)
}

// RegisterRoutes installs the page and its contract document under basePath.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (Routes, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return registerRoutes(mux, basePath, c.opts, c.Handler())
}
