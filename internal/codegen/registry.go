package codegen

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed registry/diem.yaml
var registryFS embed.FS

// RegistryPath is the embedded Diem type registry.
const RegistryPath = "registry/diem.yaml"

// Registry maps container names to their serialization formats.
type Registry struct {
	containers map[string]*ContainerFormat
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{containers: make(map[string]*ContainerFormat)}
}

// LoadRegistry parses the embedded Diem type registry. It is parsed on every
// call so callers may mutate the result.
func LoadRegistry() (*Registry, error) {
	data, err := registryFS.ReadFile(RegistryPath)
	if err != nil {
		return nil, err
	}
	return ParseRegistry(data)
}

// ParseRegistry decodes a serde-reflection registry document.
func ParseRegistry(data []byte) (*Registry, error) {
	reg := NewRegistry()
	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("parsing type registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *Registry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: registry must be a mapping of type names", node.Line)
	}
	if r.containers == nil {
		r.containers = make(map[string]*ContainerFormat)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if _, dup := r.containers[name]; dup {
			return fmt.Errorf("line %d: duplicate type %q", node.Content[i].Line, name)
		}
		var cf ContainerFormat
		if err := cf.UnmarshalYAML(node.Content[i+1]); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		r.containers[name] = &cf
	}
	return nil
}

// Names returns every container name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.containers))
	for name := range r.containers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the container named name.
func (r *Registry) Get(name string) (*ContainerFormat, bool) {
	c, ok := r.containers[name]
	return c, ok
}

// Set adds or replaces a container.
func (r *Registry) Set(name string, c *ContainerFormat) {
	r.containers[name] = c
}

// Len returns the number of containers.
func (r *Registry) Len() int { return len(r.containers) }

// Validate checks that every TYPENAME reference resolves.
func (r *Registry) Validate() error {
	for _, name := range r.Names() {
		var missing string
		r.containers[name].walk(func(f *Format) {
			if f.Kind == FormatTypeName && missing == "" {
				if _, ok := r.containers[f.Name]; !ok {
					missing = f.Name
				}
			}
		})
		if missing != "" {
			return fmt.Errorf("type %s references unknown type %s", name, missing)
		}
	}
	return nil
}

// ReplaceKeywords renames every container, type reference, field and
// variant whose name is in keywords by appending an underscore.
func ReplaceKeywords(r *Registry, keywords map[string]bool) {
	rename := func(s string) string {
		if keywords[s] {
			return s + "_"
		}
		return s
	}

	renamed := make(map[string]*ContainerFormat, len(r.containers))
	for name, c := range r.containers {
		c.walk(func(f *Format) {
			if f.Kind == FormatTypeName {
				f.Name = rename(f.Name)
			}
		})
		for i := range c.Fields {
			c.Fields[i].Name = rename(c.Fields[i].Name)
		}
		for i := range c.Variants {
			v := &c.Variants[i]
			v.Name = rename(v.Name)
			for j := range v.Format.Fields {
				v.Format.Fields[j].Name = rename(v.Format.Fields[j].Name)
			}
		}
		renamed[rename(name)] = c
	}
	r.containers = renamed
}

// walk visits every format reachable from c, depth first.
func (c *ContainerFormat) walk(visit func(*Format)) {
	if c.Elem != nil {
		c.Elem.walk(visit)
	}
	for i := range c.Elems {
		c.Elems[i].walk(visit)
	}
	for i := range c.Fields {
		c.Fields[i].Format.walk(visit)
	}
	for i := range c.Variants {
		vf := &c.Variants[i].Format
		if vf.Elem != nil {
			vf.Elem.walk(visit)
		}
		for j := range vf.Elems {
			vf.Elems[j].walk(visit)
		}
		for j := range vf.Fields {
			vf.Fields[j].Format.walk(visit)
		}
	}
}

func (f *Format) walk(visit func(*Format)) {
	visit(f)
	for _, child := range []*Format{f.Elem, f.Key, f.Value} {
		if child != nil {
			child.walk(visit)
		}
	}
	for i := range f.Elems {
		f.Elems[i].walk(visit)
	}
}
