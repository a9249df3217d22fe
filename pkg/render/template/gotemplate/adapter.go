package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stoewer/go-strcase"

	"github.com/goliatone/go-oasgen/pkg/render/template"
)

// Option configures the pongo2 adapter before construction.
type Option func(*config)

type config struct {
	autoescape bool
	templateFn map[string]any
	bannedTags []string
}

// WithAutoescape toggles HTML escaping of printed values. Generated artifacts
// are usually source code, so escaping is off unless requested.
func WithAutoescape(enabled bool) Option {
	return func(cfg *config) {
		cfg.autoescape = enabled
	}
}

// WithTemplateFunc registers additional filters when the engine loads. Values
// must be pongo2.FilterFunction or func(input any, param any) (any, error).
// Names that are already registered keep their existing filter.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFn == nil {
			cfg.templateFn = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFn[strings.TrimSpace(name)] = fn
		}
	}
}

// WithBannedTags bans additional pongo2 tags on top of the file-reaching ones
// that are always banned.
func WithBannedTags(tags ...string) Option {
	return func(cfg *config) {
		for _, tag := range tags {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				cfg.bannedTags = append(cfg.bannedTags, trimmed)
			}
		}
	}
}

// Tags that would reach outside the supplied template string.
var fileTags = []string{"include", "extends", "import", "ssi"}

// Engine satisfies the template.TemplateRenderer contract using a pongo2
// template set that has no file loader behind it.
type Engine struct {
	mu sync.Mutex

	templateSet *pongo2.TemplateSet
	autoescape  bool
}

// Ensure Engine implements the TemplateRenderer interface.
var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	set := pongo2.NewSet("oasgen", pongo2.NewFSLoader(noFiles{}))
	for _, tag := range append(append([]string(nil), fileTags...), cfg.bannedTags...) {
		if err := set.BanTag(tag); err != nil {
			return nil, fmt.Errorf("gotemplate: ban tag %q: %w", tag, err)
		}
	}

	engine := &Engine{
		templateSet: set,
		autoescape:  cfg.autoescape,
	}
	registerDefaultFilters()

	for name, fn := range cfg.templateFn {
		if err := engine.registerTemplateFunc(name, fn); err != nil {
			return nil, fmt.Errorf("gotemplate: register template func %q: %w", name, err)
		}
	}

	return engine, nil
}

// RenderString parses templateContent and executes it against data. The
// rendered text is returned and copied to every writer in out.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}

	source := templateContent
	if !e.autoescape {
		source = "{% autoescape off %}" + templateContent + "{% endautoescape %}"
	}

	e.mu.Lock()
	tmpl, err := e.templateSet.FromString(source)
	e.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}

	viewContext, err := contextFrom(data)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(viewContext, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute template string: %w", err)
	}

	rendered := buf.String()
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", fmt.Errorf("gotemplate: write output: %w", err)
		}
	}
	return rendered, nil
}

// RegisterFilter registers a template filter. pongo2 keeps filters in a
// process wide table, so a name can only be registered once.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

func (e *Engine) registerTemplateFunc(name string, fn any) error {
	if name == "" || fn == nil {
		return errors.New("filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return nil
	}

	switch filter := fn.(type) {
	case pongo2.FilterFunction:
		return pongo2.RegisterFilter(name, filter)
	case func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error):
		return pongo2.RegisterFilter(name, filter)
	case func(input any, param any) (any, error):
		return e.RegisterFilter(name, filter)
	default:
		return fmt.Errorf("unsupported filter signature %T", fn)
	}
}

// noFiles backs the template set loader; every lookup misses.
type noFiles struct{}

func (noFiles) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// contextFrom accepts the map shapes render contexts are built as. The map is
// handed to pongo2 as is and never written to.
func contextFrom(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	default:
		return nil, fmt.Errorf("gotemplate: unsupported data type %T, want map[string]any", data)
	}
}

var sanitizer = bluemonday.StrictPolicy()

// DefaultFilters lists the filters every Engine registers.
var DefaultFilters = []string{"trim", "lowerfirst", "pascal", "camel", "snake", "kebab", "sanitize"}

func registerDefaultFilters() {
	defaults := map[string]pongo2.FilterFunction{
		"trim":       filterTrim,
		"lowerfirst": filterLowerFirst,
		"pascal":     stringFilter(strcase.UpperCamelCase),
		"camel":      stringFilter(strcase.LowerCamelCase),
		"snake":      stringFilter(strcase.SnakeCase),
		"kebab":      stringFilter(strcase.KebabCase),
		"sanitize":   stringFilter(sanitizer.Sanitize),
	}
	for name, fn := range defaults {
		if !pongo2.FilterExists(name) {
			_ = pongo2.RegisterFilter(name, fn)
		}
	}
}

func stringFilter(fn func(string) string) pongo2.FilterFunction {
	return func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		if in.Len() <= 0 {
			return pongo2.AsValue(""), nil
		}
		return pongo2.AsValue(fn(in.String())), nil
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	t := in.String()

	var (
		firstNonWhitespaceIndex int
		firstRune               rune
		firstRuneSize           int
	)

	for i, r := range t {
		if !strings.ContainsRune(" \t\n\r", r) {
			firstNonWhitespaceIndex = i
			firstRune = r
			firstRuneSize = utf8.RuneLen(r)
			break
		}
	}

	if firstRune == 0 {
		return pongo2.AsValue(t), nil
	}

	prefix := t[:firstNonWhitespaceIndex]
	loweredRune := strings.ToLower(string(firstRune))
	rest := t[firstNonWhitespaceIndex+firstRuneSize:]

	return pongo2.AsValue(prefix + loweredRune + rest), nil
}
