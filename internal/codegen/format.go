package codegen

import (
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FormatKind identifies the shape of a serialized value.
type FormatKind int

const (
	FormatUnit FormatKind = iota
	FormatBool
	FormatI8
	FormatI16
	FormatI32
	FormatI64
	FormatI128
	FormatU8
	FormatU16
	FormatU32
	FormatU64
	FormatU128
	FormatF32
	FormatF64
	FormatChar
	FormatStr
	FormatBytes
	FormatTypeName
	FormatOption
	FormatSeq
	FormatMap
	FormatTuple
	FormatTupleArray
)

var primitiveFormats = map[string]FormatKind{
	"UNIT":  FormatUnit,
	"BOOL":  FormatBool,
	"I8":    FormatI8,
	"I16":   FormatI16,
	"I32":   FormatI32,
	"I64":   FormatI64,
	"I128":  FormatI128,
	"U8":    FormatU8,
	"U16":   FormatU16,
	"U32":   FormatU32,
	"U64":   FormatU64,
	"U128":  FormatU128,
	"F32":   FormatF32,
	"F64":   FormatF64,
	"CHAR":  FormatChar,
	"STR":   FormatStr,
	"BYTES": FormatBytes,
}

// Format describes how one value is serialized. Which fields are set
// depends on Kind:
//
//	FormatTypeName    Name
//	FormatOption      Elem
//	FormatSeq         Elem
//	FormatMap         Key, Value
//	FormatTuple       Elems
//	FormatTupleArray  Elem, Size
type Format struct {
	Kind  FormatKind
	Name  string
	Elem  *Format
	Key   *Format
	Value *Format
	Elems []Format
	Size  int
}

// Primitive reports whether f has no nested formats.
func (f Format) Primitive() bool {
	return f.Kind < FormatTypeName
}

// Named is a field or a named variant payload.
type Named struct {
	Name   string
	Format Format
}

// VariantKind identifies the payload shape of an enum variant.
type VariantKind int

const (
	VariantUnit VariantKind = iota
	VariantNewType
	VariantTuple
	VariantStruct
)

// VariantFormat is the payload of one enum variant.
type VariantFormat struct {
	Kind   VariantKind
	Elem   *Format
	Elems  []Format
	Fields []Named
}

// Variant is an enum alternative with its wire index.
type Variant struct {
	Index  uint32
	Name   string
	Format VariantFormat
}

// ContainerKind identifies the shape of a named type.
type ContainerKind int

const (
	ContainerUnitStruct ContainerKind = iota
	ContainerNewTypeStruct
	ContainerTupleStruct
	ContainerStruct
	ContainerEnum
)

// ContainerFormat describes a named type in the registry. Variants are
// kept sorted by index.
type ContainerFormat struct {
	Kind     ContainerKind
	Elem     *Format
	Elems    []Format
	Fields   []Named
	Variants []Variant
}

func (f *Format) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		kind, ok := primitiveFormats[node.Value]
		if !ok {
			return fmt.Errorf("line %d: unknown format %q", node.Line, node.Value)
		}
		*f = Format{Kind: kind}
		return nil
	}

	tag, body, err := singleKey(node)
	if err != nil {
		return err
	}

	switch tag {
	case "TYPENAME":
		if body.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: TYPENAME must be a name", body.Line)
		}
		*f = Format{Kind: FormatTypeName, Name: body.Value}
	case "OPTION", "SEQ":
		elem, err := decodeFormat(body)
		if err != nil {
			return err
		}
		kind := FormatOption
		if tag == "SEQ" {
			kind = FormatSeq
		}
		*f = Format{Kind: kind, Elem: elem}
	case "MAP":
		fields, err := mappingFields(body, "KEY", "VALUE")
		if err != nil {
			return err
		}
		key, err := decodeFormat(fields["KEY"])
		if err != nil {
			return err
		}
		value, err := decodeFormat(fields["VALUE"])
		if err != nil {
			return err
		}
		*f = Format{Kind: FormatMap, Key: key, Value: value}
	case "TUPLE":
		elems, err := decodeFormats(body)
		if err != nil {
			return err
		}
		*f = Format{Kind: FormatTuple, Elems: elems}
	case "TUPLEARRAY":
		fields, err := mappingFields(body, "CONTENT", "SIZE")
		if err != nil {
			return err
		}
		elem, err := decodeFormat(fields["CONTENT"])
		if err != nil {
			return err
		}
		size, err := strconv.Atoi(fields["SIZE"].Value)
		if err != nil || size < 0 {
			return fmt.Errorf("line %d: invalid TUPLEARRAY size %q", fields["SIZE"].Line, fields["SIZE"].Value)
		}
		*f = Format{Kind: FormatTupleArray, Elem: elem, Size: size}
	default:
		return fmt.Errorf("line %d: unknown format %q", node.Line, tag)
	}
	return nil
}

func (v *VariantFormat) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Value != "UNIT" {
			return fmt.Errorf("line %d: unknown variant format %q", node.Line, node.Value)
		}
		*v = VariantFormat{Kind: VariantUnit}
		return nil
	}

	tag, body, err := singleKey(node)
	if err != nil {
		return err
	}
	switch tag {
	case "NEWTYPE":
		elem, err := decodeFormat(body)
		if err != nil {
			return err
		}
		*v = VariantFormat{Kind: VariantNewType, Elem: elem}
	case "TUPLE":
		elems, err := decodeFormats(body)
		if err != nil {
			return err
		}
		*v = VariantFormat{Kind: VariantTuple, Elems: elems}
	case "STRUCT":
		fields, err := decodeNamed(body)
		if err != nil {
			return err
		}
		*v = VariantFormat{Kind: VariantStruct, Fields: fields}
	default:
		return fmt.Errorf("line %d: unknown variant format %q", node.Line, tag)
	}
	return nil
}

func (c *ContainerFormat) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Value != "UNITSTRUCT" {
			return fmt.Errorf("line %d: unknown container format %q", node.Line, node.Value)
		}
		*c = ContainerFormat{Kind: ContainerUnitStruct}
		return nil
	}

	tag, body, err := singleKey(node)
	if err != nil {
		return err
	}
	switch tag {
	case "NEWTYPESTRUCT":
		elem, err := decodeFormat(body)
		if err != nil {
			return err
		}
		*c = ContainerFormat{Kind: ContainerNewTypeStruct, Elem: elem}
	case "TUPLESTRUCT":
		elems, err := decodeFormats(body)
		if err != nil {
			return err
		}
		*c = ContainerFormat{Kind: ContainerTupleStruct, Elems: elems}
	case "STRUCT":
		fields, err := decodeNamed(body)
		if err != nil {
			return err
		}
		*c = ContainerFormat{Kind: ContainerStruct, Fields: fields}
	case "ENUM":
		variants, err := decodeVariants(body)
		if err != nil {
			return err
		}
		*c = ContainerFormat{Kind: ContainerEnum, Variants: variants}
	default:
		return fmt.Errorf("line %d: unknown container format %q", node.Line, tag)
	}
	return nil
}

func decodeFormat(node *yaml.Node) (*Format, error) {
	var f Format
	if err := f.UnmarshalYAML(node); err != nil {
		return nil, err
	}
	return &f, nil
}

func decodeFormats(node *yaml.Node) ([]Format, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of formats", node.Line)
	}
	out := make([]Format, 0, len(node.Content))
	for _, n := range node.Content {
		f, err := decodeFormat(n)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, nil
}

// decodeNamed reads a list of single-entry mappings, preserving order.
func decodeNamed(node *yaml.Node) ([]Named, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of named formats", node.Line)
	}
	out := make([]Named, 0, len(node.Content))
	for _, n := range node.Content {
		name, body, err := singleKey(n)
		if err != nil {
			return nil, err
		}
		f, err := decodeFormat(body)
		if err != nil {
			return nil, err
		}
		out = append(out, Named{Name: name, Format: *f})
	}
	return out, nil
}

func decodeVariants(node *yaml.Node) ([]Variant, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected variants by index", node.Line)
	}
	seen := make(map[uint32]bool)
	out := make([]Variant, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		idx, err := strconv.ParseUint(node.Content[i].Value, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid variant index %q", node.Content[i].Line, node.Content[i].Value)
		}
		if seen[uint32(idx)] {
			return nil, fmt.Errorf("line %d: duplicate variant index %d", node.Content[i].Line, idx)
		}
		seen[uint32(idx)] = true

		name, body, err := singleKey(node.Content[i+1])
		if err != nil {
			return nil, err
		}
		var vf VariantFormat
		if err := vf.UnmarshalYAML(body); err != nil {
			return nil, err
		}
		out = append(out, Variant{Index: uint32(idx), Name: name, Format: vf})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Index < out[b].Index })
	return out, nil
}

func singleKey(node *yaml.Node) (string, *yaml.Node, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return "", nil, fmt.Errorf("line %d: expected a single-entry mapping", node.Line)
	}
	return node.Content[0].Value, node.Content[1], nil
}

func mappingFields(node *yaml.Node, keys ...string) (map[string]*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	fields := make(map[string]*yaml.Node, len(keys))
	for i := 0; i+1 < len(node.Content); i += 2 {
		fields[node.Content[i].Value] = node.Content[i+1]
	}
	for _, k := range keys {
		if fields[k] == nil {
			return nil, fmt.Errorf("line %d: missing %s", node.Line, k)
		}
	}
	return fields, nil
}
