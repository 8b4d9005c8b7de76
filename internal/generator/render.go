package generator

import (
	"bytes"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

// Renderer renders the templates of one file system (usually an embed.FS).
// Parsed templates are cached by path.
type Renderer struct {
	fsys    fs.FS
	funcMap template.FuncMap

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewRenderer creates a renderer over fsys with the built-in helpers.
func NewRenderer(fsys fs.FS) *Renderer {
	return &Renderer{
		fsys:    fsys,
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// Render executes the template at path with data.
func (r *Renderer) Render(path string, data any) ([]byte, error) {
	tmpl, err := r.template(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", path, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) template(path string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.cache[path]; ok {
		return tmpl, nil
	}

	src, err := fs.ReadFile(r.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template '%s': %w", path, err)
	}
	tmpl, err := template.New(path).Funcs(r.funcMap).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", path, err)
	}
	r.cache[path] = tmpl
	return tmpl, nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"pascalCase": PascalCase, // set_message → SetMessage
		"camelCase":  CamelCase,  // set_message → setMessage
		"quote":      strconv.Quote,
		"join":       strings.Join,
		"lower":      strings.ToLower,
	}
}

// PascalCase joins the '_' or '-' separated words of s, capitalizing each.
// Examples: set_message → SetMessage, peer-to-peer → PeerToPeer
func PascalCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	var b strings.Builder
	for _, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// CamelCase is PascalCase with a lowercase first letter.
// Example: set_message → setMessage
func CamelCase(s string) string {
	p := []rune(PascalCase(s))
	if len(p) == 0 {
		return ""
	}
	p[0] = unicode.ToLower(p[0])
	return string(p)
}
