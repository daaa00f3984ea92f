package bfhlform

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/goliatone/go-bfhl/pkg/contract"
)

// Mux is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Routes are the ServeMux patterns a registration installed. Contract is
// empty when the contract route is disabled.
type Routes struct {
	Page     string
	Contract string
}

// MountPath is where the page answers under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	return pagePath(basePath, NewOptions(fns...).RoutePath)
}

// RegisterRoutes installs the page, and the contract document beside it,
// under basePath on mux.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (Routes, error) {
	return registerRoutes(mux, basePath, NewOptions(fns...), nil)
}

// RegisterRoutesWithOptions is RegisterRoutes for an Options value built
// elsewhere; it is normalised again before use.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (Routes, error) {
	return registerRoutes(mux, basePath, NewOptions(func(o *Options) { *o = opts }), nil)
}

func registerRoutes(mux Mux, basePath string, opts Options, page http.Handler) (Routes, error) {
	if mux == nil {
		return Routes{}, errors.New("bfhlform: missing mux")
	}
	if page == nil {
		page = HandlerWithOptions(opts)
	}

	mount := pagePath(basePath, opts.RoutePath)
	routes := Routes{Page: mount}
	if strings.HasSuffix(mount, "/") {
		// a bare "/dir/" pattern would also match every path below it.
		routes.Page += "{$}"
	}
	mux.Handle(routes.Page, page)

	if opts.ContractFile != "" {
		routes.Contract = http.MethodGet + " " + contractPath(mount, opts.ContractFile)
		mux.Handle(routes.Contract, http.HandlerFunc(serveContract))
	}
	return routes, nil
}

// pagePath joins basePath and routePath into an absolute path. A trailing
// slash on routePath is kept.
func pagePath(basePath, routePath string) string {
	route := strings.TrimSpace(routePath)
	if route == "" {
		route = "/"
	}
	joined := path.Join("/", strings.TrimSpace(basePath), route)
	if strings.HasSuffix(route, "/") && joined != "/" {
		joined += "/"
	}
	return joined
}

// contractPath places name in the directory the page is mounted in.
func contractPath(mount, name string) string {
	dir := mount
	if !strings.HasSuffix(dir, "/") {
		dir = path.Dir(dir)
	}
	return path.Join(dir, name)
}

func serveContract(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(contract.Raw())
}
