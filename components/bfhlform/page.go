package bfhlform

import (
	"embed"
	"encoding/json"
	"io/fs"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-bfhl/pkg/client"
	"github.com/goliatone/go-bfhl/pkg/filters"
	"github.com/goliatone/go-bfhl/pkg/render/template"
	"github.com/goliatone/go-bfhl/pkg/render/template/gotemplate"
	"github.com/goliatone/go-bfhl/pkg/view"
)

// PageTemplate is the template name the handler renders.
const PageTemplate = "page"

// StylesheetAsset is the asset key resolved through the theme's AssetURL.
const StylesheetAsset = "bfhl.css"

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Templates returns the embedded page templates. Pass it to gotemplate.WithFS
// next to gotemplate.WithBaseDir to override single files from disk.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

var (
	defaultRendererOnce sync.Once
	defaultRenderer     template.TemplateRenderer
	defaultRendererErr  error
)

func embeddedRenderer() (template.TemplateRenderer, error) {
	defaultRendererOnce.Do(func() {
		defaultRenderer, defaultRendererErr = gotemplate.New(gotemplate.WithFS(Templates()))
	})
	return defaultRenderer, defaultRendererErr
}

var (
	introPolicyOnce sync.Once
	introPolicy     *bluemonday.Policy
)

func sanitizeIntro(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	introPolicyOnce.Do(func() {
		introPolicy = bluemonday.UGCPolicy()
	})
	return strings.TrimSpace(introPolicy.Sanitize(trimmed))
}

type optionView struct {
	Label    string `json:"label"`
	Key      string `json:"key"`
	Selected bool   `json:"selected"`
}

type themeView struct {
	Name       string `json:"name,omitempty"`
	Variant    string `json:"variant,omitempty"`
	Stylesheet string `json:"stylesheet,omitempty"`
	CSSVars    string `json:"css_vars,omitempty"`
}

func pageData(opts Options, action string, state view.State, blocks []view.Block) map[string]any {
	selected := make(map[string]bool, len(state.Selected))
	for _, label := range state.Selected {
		selected[label] = true
	}
	options := make([]optionView, 0, len(filters.Labels()))
	for _, opt := range filters.Options() {
		options = append(options, optionView{Label: opt.Label, Key: opt.Key, Selected: selected[opt.Label]})
	}

	if blocks == nil {
		blocks = []view.Block{}
	}

	return map[string]any{
		"title":            opts.Title,
		"intro":            sanitizeIntro(opts.Intro),
		"theme":            buildTheme(opts.Theme),
		"action":           action,
		"json":             state.JSON,
		"error":            state.Error,
		"submit_label":     view.LabelSubmit,
		"submitting_label": view.LabelSubmitting,
		"has_response":     state.Response != nil,
		"response_raw":     encodeResponse(state.Response),
		"options":          options,
		"blocks":           blocks,
	}
}

func buildTheme(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		return themeView{}
	}
	out := themeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		CSSVars: cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		out.Stylesheet = cfg.AssetURL(StylesheetAsset)
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(cssValue(vars[key]))
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// cssValue drops characters that would let a value escape its declaration
// or the style element.
func cssValue(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>':
			return -1
		}
		return r
	}, strings.TrimSpace(v))
}

func encodeResponse(resp client.Response) string {
	if resp == nil {
		return ""
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return ""
	}
	return string(raw)
}
