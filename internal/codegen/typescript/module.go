package typescript

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/simonhull/shuffle/internal/codegen"
)

const moduleHeader = `import { Serializer, Deserializer } from "../serde/mod.ts";
import { BcsSerializer, BcsDeserializer } from "../bcs/mod.ts";
import { Optional, Seq, Tuple, ListTuple, unit, bool, int8, int16, int32, int64, int128, uint8, uint16, uint32, uint64, uint128, float32, float64, char, str, bytes } from "../serde/mod.ts";
`

var primitiveNames = map[codegen.FormatKind]struct{ typ, method string }{
	codegen.FormatUnit:  {"unit", "Unit"},
	codegen.FormatBool:  {"bool", "Bool"},
	codegen.FormatI8:    {"int8", "I8"},
	codegen.FormatI16:   {"int16", "I16"},
	codegen.FormatI32:   {"int32", "I32"},
	codegen.FormatI64:   {"int64", "I64"},
	codegen.FormatI128:  {"int128", "I128"},
	codegen.FormatU8:    {"uint8", "U8"},
	codegen.FormatU16:   {"uint16", "U16"},
	codegen.FormatU32:   {"uint32", "U32"},
	codegen.FormatU64:   {"uint64", "U64"},
	codegen.FormatU128:  {"uint128", "U128"},
	codegen.FormatF32:   {"float32", "F32"},
	codegen.FormatF64:   {"float64", "F64"},
	codegen.FormatChar:  {"char", "Char"},
	codegen.FormatStr:   {"str", "Str"},
	codegen.FormatBytes: {"bytes", "Bytes"},
}

// moduleEmitter renders the classes of one registry as a TypeScript module.
type moduleEmitter struct {
	b       strings.Builder
	cfg     codegen.ModuleConfig
	reg     *codegen.Registry
	helpers map[string]codegen.Format
}

// EmitModule renders reg as a single TypeScript module. Output depends only
// on the registry content: containers are emitted by name and helpers by
// their mangled name.
func EmitModule(cfg codegen.ModuleConfig, reg *codegen.Registry) ([]byte, error) {
	e := &moduleEmitter{cfg: cfg, reg: reg, helpers: make(map[string]codegen.Format)}
	e.b.WriteString(moduleHeader)

	for _, name := range reg.Names() {
		c, _ := reg.Get(name)
		if err := e.container(name, c); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	e.helperClass()
	return []byte(e.b.String()), nil
}

func (e *moduleEmitter) line(format string, args ...any) {
	fmt.Fprintf(&e.b, format, args...)
	e.b.WriteByte('\n')
}

// typeOf returns the TypeScript type of f and records the helpers it needs.
func (e *moduleEmitter) typeOf(f codegen.Format) string {
	if p, ok := primitiveNames[f.Kind]; ok {
		return p.typ
	}
	switch f.Kind {
	case codegen.FormatTypeName:
		return f.Name
	case codegen.FormatOption:
		return "Optional<" + e.typeOf(*f.Elem) + ">"
	case codegen.FormatSeq:
		return "Seq<" + e.typeOf(*f.Elem) + ">"
	case codegen.FormatMap:
		return "Map<" + e.typeOf(*f.Key) + "," + e.typeOf(*f.Value) + ">"
	case codegen.FormatTuple:
		parts := make([]string, len(f.Elems))
		for i, el := range f.Elems {
			parts[i] = e.typeOf(el)
		}
		return "Tuple<[" + strings.Join(parts, ", ") + "]>"
	case codegen.FormatTupleArray:
		return "ListTuple<[" + e.typeOf(*f.Elem) + "]>"
	}
	return "unknown"
}

func mangle(f codegen.Format) string {
	if p, ok := primitiveNames[f.Kind]; ok {
		return p.method
	}
	switch f.Kind {
	case codegen.FormatTypeName:
		return f.Name
	case codegen.FormatOption:
		return "Option" + mangle(*f.Elem)
	case codegen.FormatSeq:
		return "Vector" + mangle(*f.Elem)
	case codegen.FormatMap:
		return "Map" + mangle(*f.Key) + "To" + mangle(*f.Value)
	case codegen.FormatTuple:
		var b strings.Builder
		b.WriteString("Tuple")
		for _, el := range f.Elems {
			b.WriteString(mangle(el))
		}
		return b.String()
	case codegen.FormatTupleArray:
		return "Array" + strconv.Itoa(f.Size) + mangle(*f.Elem) + "Array"
	}
	return "Unknown"
}

// serialize returns the statement writing value.
func (e *moduleEmitter) serialize(f codegen.Format, value string) string {
	if p, ok := primitiveNames[f.Kind]; ok {
		return fmt.Sprintf("serializer.serialize%s(%s);", p.method, value)
	}
	if f.Kind == codegen.FormatTypeName {
		return value + ".serialize(serializer);"
	}
	e.needHelper(f)
	return fmt.Sprintf("Helpers.serialize%s(%s, serializer);", mangle(f), value)
}

// deserialize returns the expression reading one value.
func (e *moduleEmitter) deserialize(f codegen.Format) string {
	if p, ok := primitiveNames[f.Kind]; ok {
		return fmt.Sprintf("deserializer.deserialize%s()", p.method)
	}
	if f.Kind == codegen.FormatTypeName {
		return f.Name + ".deserialize(deserializer)"
	}
	e.needHelper(f)
	return fmt.Sprintf("Helpers.deserialize%s(deserializer)", mangle(f))
}

func (e *moduleEmitter) needHelper(f codegen.Format) {
	name := mangle(f)
	if _, ok := e.helpers[name]; ok {
		return
	}
	e.helpers[name] = f
	for _, child := range []*codegen.Format{f.Elem, f.Key, f.Value} {
		if child != nil && !child.Primitive() && child.Kind != codegen.FormatTypeName {
			e.needHelper(*child)
		}
	}
	for _, el := range f.Elems {
		if !el.Primitive() && el.Kind != codegen.FormatTypeName {
			e.needHelper(el)
		}
	}
}

// containerFields flattens every container shape into named fields.
func containerFields(c *codegen.ContainerFormat) []codegen.Named {
	switch c.Kind {
	case codegen.ContainerNewTypeStruct:
		return []codegen.Named{{Name: "value", Format: *c.Elem}}
	case codegen.ContainerTupleStruct:
		return tupleFields(c.Elems)
	case codegen.ContainerStruct:
		return c.Fields
	}
	return nil
}

func variantFields(v codegen.VariantFormat) []codegen.Named {
	switch v.Kind {
	case codegen.VariantNewType:
		return []codegen.Named{{Name: "value", Format: *v.Elem}}
	case codegen.VariantTuple:
		return tupleFields(v.Elems)
	case codegen.VariantStruct:
		return v.Fields
	}
	return nil
}

func tupleFields(elems []codegen.Format) []codegen.Named {
	fields := make([]codegen.Named, len(elems))
	for i, el := range elems {
		fields[i] = codegen.Named{Name: "field" + strconv.Itoa(i), Format: el}
	}
	return fields
}

func (e *moduleEmitter) container(name string, c *codegen.ContainerFormat) error {
	if c.Kind == codegen.ContainerEnum {
		return e.enum(name, c)
	}
	e.line("export class %s {", name)
	e.line("")
	e.classBody(name, containerFields(c), "", -1)
	e.bcsMethods(name)
	e.line("}")
	return nil
}

// classBody writes the constructor, serialize and the static loader.
// variantIndex < 0 means a plain struct.
func (e *moduleEmitter) classBody(name string, fields []codegen.Named, parent string, variantIndex int64) {
	params := make([]string, len(fields))
	for i, f := range fields {
		params[i] = fmt.Sprintf("public %s: %s", f.Name, e.typeOf(f.Format))
	}
	e.line("constructor (%s) {", strings.Join(params, ", "))
	if parent != "" {
		e.line("  super();")
	}
	e.line("}")
	e.line("")

	e.line("public serialize(serializer: Serializer): void {")
	if variantIndex >= 0 {
		e.line("  serializer.serializeVariantIndex(%d);", variantIndex)
	}
	for _, f := range fields {
		e.line("  %s", e.serialize(f.Format, "this."+f.Name))
	}
	e.line("}")
	e.line("")

	loader := "deserialize"
	if parent != "" {
		loader = "load"
	}
	e.line("static %s(deserializer: Deserializer): %s {", loader, name)
	args := make([]string, len(fields))
	for i, f := range fields {
		e.line("  const %s = %s;", f.Name, e.deserialize(f.Format))
		args[i] = f.Name
	}
	e.line("  return new %s(%s);", name, strings.Join(args, ","))
	e.line("}")
	e.line("")
}

func (e *moduleEmitter) enum(name string, c *codegen.ContainerFormat) error {
	if len(c.Variants) == 0 {
		return fmt.Errorf("enum has no variants")
	}
	e.line("export abstract class %s {", name)
	e.line("abstract serialize(serializer: Serializer): void;")
	e.line("")
	e.line("static deserialize(deserializer: Deserializer): %s {", name)
	e.line("  const index = deserializer.deserializeVariantIndex();")
	e.line("  switch (index) {")
	for _, v := range c.Variants {
		e.line("    case %d: return %sVariant%s.load(deserializer);", v.Index, name, v.Name)
	}
	e.line("    default: throw new Error(\"Unknown variant index for %s: \" + index);", name)
	e.line("  }")
	e.line("}")
	e.line("")
	e.bcsMethods(name)
	e.line("}")
	e.line("")

	for _, v := range c.Variants {
		variant := name + "Variant" + v.Name
		e.line("")
		e.line("export class %s extends %s {", variant, name)
		e.line("")
		e.classBody(variant, variantFields(v.Format), name, int64(v.Index))
		e.line("}")
	}
	return nil
}

func (e *moduleEmitter) bcsMethods(name string) {
	if !e.cfg.HasEncoding(codegen.BCS) {
		return
	}
	e.line("public bcsSerialize(): Uint8Array {")
	e.line("  const serializer = new BcsSerializer();")
	e.line("  this.serialize(serializer);")
	e.line("  return serializer.getBytes();")
	e.line("}")
	e.line("")
	e.line("static bcsDeserialize(input: Uint8Array): %s {", name)
	e.line("  const deserializer = new BcsDeserializer(input);")
	e.line("  const value = %s.deserialize(deserializer);", name)
	e.line("  if (deserializer.getBufferOffset() !== input.length) {")
	e.line("    throw new Error(\"Some input bytes were not read\");")
	e.line("  }")
	e.line("  return value;")
	e.line("}")
	e.line("")
}

func (e *moduleEmitter) helperClass() {
	// needHelper registers nested helpers on insertion, so the set is
	// already closed here.
	names := make([]string, 0, len(e.helpers))
	for name := range e.helpers {
		names = append(names, name)
	}
	sort.Strings(names)

	e.line("export class Helpers {")
	for _, name := range names {
		e.helper(name, e.helpers[name])
	}
	e.line("}")
	e.line("")
}

func (e *moduleEmitter) helper(name string, f codegen.Format) {
	typ := e.typeOf(f)
	e.line("  static serialize%s(value: %s, serializer: Serializer): void {", name, typ)
	switch f.Kind {
	case codegen.FormatOption:
		e.line("    if (value !== null) {")
		e.line("      serializer.serializeOptionTag(true);")
		e.line("      %s", e.serialize(*f.Elem, "value"))
		e.line("    } else {")
		e.line("      serializer.serializeOptionTag(false);")
		e.line("    }")
	case codegen.FormatSeq:
		e.line("    serializer.serializeLen(value.length);")
		e.line("    value.forEach((item: %s) => {", e.typeOf(*f.Elem))
		e.line("      %s", e.serialize(*f.Elem, "item"))
		e.line("    });")
	case codegen.FormatMap:
		e.line("    serializer.serializeLen(value.size);")
		e.line("    const offsets: number[] = [];")
		e.line("    for (const [k, v] of value.entries()) {")
		e.line("      offsets.push(serializer.getBufferOffset());")
		e.line("      %s", e.serialize(*f.Key, "k"))
		e.line("      %s", e.serialize(*f.Value, "v"))
		e.line("    }")
		e.line("    serializer.sortMapEntries(offsets);")
	case codegen.FormatTuple:
		for i, el := range f.Elems {
			e.line("    %s", e.serialize(el, fmt.Sprintf("value[%d]", i)))
		}
	case codegen.FormatTupleArray:
		e.line("    value.forEach((item) => {")
		e.line("      %s", e.serialize(*f.Elem, "item[0]"))
		e.line("    });")
	}
	e.line("  }")
	e.line("")

	e.line("  static deserialize%s(deserializer: Deserializer): %s {", name, typ)
	switch f.Kind {
	case codegen.FormatOption:
		e.line("    const tag = deserializer.deserializeOptionTag();")
		e.line("    if (!tag) {")
		e.line("      return null;")
		e.line("    }")
		e.line("    return %s;", e.deserialize(*f.Elem))
	case codegen.FormatSeq:
		e.line("    const length = deserializer.deserializeLen();")
		e.line("    const list: %s = [];", typ)
		e.line("    for (let i = 0; i < length; i++) {")
		e.line("      list.push(%s);", e.deserialize(*f.Elem))
		e.line("    }")
		e.line("    return list;")
	case codegen.FormatMap:
		e.line("    const length = deserializer.deserializeLen();")
		e.line("    const obj = new Map<%s, %s>();", e.typeOf(*f.Key), e.typeOf(*f.Value))
		e.line("    let previousKeyStart = 0;")
		e.line("    let previousKeyEnd = 0;")
		e.line("    for (let i = 0; i < length; i++) {")
		e.line("      const keyStart = deserializer.getBufferOffset();")
		e.line("      const key = %s;", e.deserialize(*f.Key))
		e.line("      const keyEnd = deserializer.getBufferOffset();")
		e.line("      if (i > 0) {")
		e.line("        deserializer.checkThatKeySlicesAreIncreasing([previousKeyStart, previousKeyEnd], [keyStart, keyEnd]);")
		e.line("      }")
		e.line("      previousKeyStart = keyStart;")
		e.line("      previousKeyEnd = keyEnd;")
		e.line("      const value = %s;", e.deserialize(*f.Value))
		e.line("      obj.set(key, value);")
		e.line("    }")
		e.line("    return obj;")
	case codegen.FormatTuple:
		parts := make([]string, len(f.Elems))
		for i, el := range f.Elems {
			parts[i] = e.deserialize(el)
		}
		e.line("    return [%s];", strings.Join(parts, ", "))
	case codegen.FormatTupleArray:
		e.line("    const list: %s = [];", typ)
		e.line("    for (let i = 0; i < %d; i++) {", f.Size)
		e.line("      list.push([%s]);", e.deserialize(*f.Elem))
		e.line("    }")
		e.line("    return list;")
	}
	e.line("  }")
	e.line("")
}
