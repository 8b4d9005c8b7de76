// Package codegen describes client-binding generation for Diem packages:
// the type registry that backs generated types, the ABI descriptors the
// compiler emits, and the Installer capability a language backend provides.
//
// The TypeScript backend lives in the typescript subpackage.
package codegen

// Encoding is a serialization format a generated module supports.
type Encoding int

const (
	BCS Encoding = iota
)

func (e Encoding) String() string {
	switch e {
	case BCS:
		return "bcs"
	default:
		return "unknown"
	}
}

// ModuleConfig names a generated type module and its encodings.
type ModuleConfig struct {
	Name      string
	Encodings []Encoding
}

// HasEncoding reports whether e is enabled.
func (c ModuleConfig) HasEncoding(e Encoding) bool {
	for _, have := range c.Encodings {
		if have == e {
			return true
		}
	}
	return false
}

// Installer writes generated client code into an output directory. Each
// install owns its module directory and rewrites it completely.
type Installer interface {
	InstallSerdeRuntime() error
	InstallBCSRuntime() error
	// ReplaceKeywords renames registry entries that collide with reserved
	// words of the target language.
	ReplaceKeywords(reg *Registry)
	InstallModule(cfg ModuleConfig, reg *Registry) error
	InstallTransactionBuilders(name string, abis []ScriptABI) error
}
