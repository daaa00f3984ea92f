package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-bfhl/pkg/filters"
	"github.com/goliatone/go-bfhl/pkg/render/template"
)

// Option configures the adapter before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	globalData map[string]any
}

// WithBaseDir loads templates from a directory on disk. When combined with
// WithFS the directory takes precedence, which lets operators override the
// embedded templates one file at a time.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine renders pongo2 templates and caches parsed files until Reload.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	tplExt      string
}

var (
	_ template.TemplateRenderer = (*Engine)(nil)
	_ template.Reloader         = (*Engine)(nil)
)

// New constructs an Engine.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".tpl",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("bfhl", loaders...),
		templates:   make(map[string]*pongo2.Template),
		tplExt:      cfg.extension,
	}
	registerDefaultFilters()

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	return engine, nil
}

// RenderTemplate renders the named template file. The extension is optional.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	templatePath := name
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, data, fmt.Sprintf("template %q", templatePath), out)
}

// RenderString parses and renders templateContent.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}

	tmpl, err := e.templateSet.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	return e.execute(tmpl, data, "template string", out)
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.templateSet == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}

	globalCtx, err := convertToContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}
	e.templateSet.Globals.Update(globalCtx)
	return nil
}

// Reload drops every parsed template so the next render reads from the
// loaders again.
func (e *Engine) Reload() {
	if e == nil {
		return
	}
	e.mu.Lock()
	e.templates = make(map[string]*pongo2.Template)
	e.mu.Unlock()
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, what string, out []io.Writer) (string, error) {
	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer

	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()

	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %s: %w", what, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return convertMapToContext(map[string]any(v))
	case map[string]any:
		return convertMapToContext(v)
	default:
		m, err := jsonToMap(v)
		if err != nil {
			return nil, err
		}
		return convertMapToContext(m)
	}
}

func convertMapToContext(in map[string]any) (pongo2.Context, error) {
	out := make(pongo2.Context, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

// convertValue flattens structs into maps so templates can address fields
// the same way regardless of the Go type that carried them.
func convertValue(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string, bool, int, int64, float64, json.Number:
		return v, nil
	case []string:
		return v, nil
	case pongo2.Context:
		return convertMap(map[string]any(v))
	case map[string]any:
		return convertMap(v)
	case []any:
		return convertSlice(v)
	default:
		raw, err := jsonToAny(v)
		if err != nil {
			return nil, err
		}
		switch decoded := raw.(type) {
		case map[string]any:
			return convertMap(decoded)
		case []any:
			return convertSlice(decoded)
		default:
			return decoded, nil
		}
	}
}

func convertMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

func convertSlice(in []any) ([]any, error) {
	out := make([]any, 0, len(in))
	for _, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func jsonToMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func jsonToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// pongo2 keeps filters in a process wide registry without locking.
var registerFiltersOnce sync.Once

func registerDefaultFilters() {
	registerFiltersOnce.Do(func() {
		if !pongo2.FilterExists("trim") {
			_ = pongo2.RegisterFilter("trim", filterTrim)
		}
		if !pongo2.FilterExists("filterkey") {
			_ = pongo2.RegisterFilter("filterkey", filterKey)
		}
	})
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterKey exposes filters.Key so templates can derive element ids from a
// filter label.
func filterKey(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(filters.Key(in.String())), nil
}
