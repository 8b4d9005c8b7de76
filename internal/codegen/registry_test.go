package codegen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_Embedded(t *testing.T) {
	reg, err := LoadRegistry()
	require.NoError(t, err)

	for _, name := range []string{"AccountAddress", "Script", "ScriptFunction", "TransactionPayload", "TypeTag", "Identifier"} {
		_, ok := reg.Get(name)
		assert.True(t, ok, "registry missing %s", name)
	}

	addr, _ := reg.Get("AccountAddress")
	require.Equal(t, ContainerNewTypeStruct, addr.Kind)
	assert.Equal(t, FormatTupleArray, addr.Elem.Kind)
	assert.Equal(t, 16, addr.Elem.Size)
	assert.Equal(t, FormatU8, addr.Elem.Elem.Kind)

	payload, _ := reg.Get("TransactionPayload")
	require.Equal(t, ContainerEnum, payload.Kind)
	names := make([]string, len(payload.Variants))
	for i, v := range payload.Variants {
		names[i] = v.Name
		assert.Equal(t, uint32(i), v.Index)
	}
	assert.Equal(t, []string{"WriteSet", "Script", "Module", "ScriptFunction"}, names)
}

func TestLoadRegistry_FreshEachCall(t *testing.T) {
	a, err := LoadRegistry()
	require.NoError(t, err)
	ReplaceKeywords(a, map[string]bool{"module": true})

	b, err := LoadRegistry()
	require.NoError(t, err)
	sf, _ := b.Get("ScriptFunction")
	assert.Equal(t, "module", sf.Fields[0].Name)
}

func TestParseRegistry_Shapes(t *testing.T) {
	doc := `
Pair:
  TUPLESTRUCT:
    - U64
    - OPTION: STR
Marker: UNITSTRUCT
Table:
  STRUCT:
    - entries:
        MAP:
          KEY: STR
          VALUE:
            SEQ:
              TYPENAME: Pair
    - tag:
        TUPLE:
          - BOOL
          - U128
Choice:
  ENUM:
    1:
      Second:
        TUPLE:
          - U8
          - U8
    0:
      First:
        STRUCT:
          - x: I32
`
	reg, err := ParseRegistry([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"Choice", "Marker", "Pair", "Table"}, reg.Names())

	table, _ := reg.Get("Table")
	want := []Named{
		{Name: "entries", Format: Format{
			Kind:  FormatMap,
			Key:   &Format{Kind: FormatStr},
			Value: &Format{Kind: FormatSeq, Elem: &Format{Kind: FormatTypeName, Name: "Pair"}},
		}},
		{Name: "tag", Format: Format{
			Kind:  FormatTuple,
			Elems: []Format{{Kind: FormatBool}, {Kind: FormatU128}},
		}},
	}
	if diff := cmp.Diff(want, table.Fields); diff != "" {
		t.Errorf("Table fields mismatch (-want +got):\n%s", diff)
	}

	choice, _ := reg.Get("Choice")
	require.Len(t, choice.Variants, 2)
	assert.Equal(t, "First", choice.Variants[0].Name)
	assert.Equal(t, VariantStruct, choice.Variants[0].Format.Kind)
	assert.Equal(t, "Second", choice.Variants[1].Name)
	assert.Equal(t, VariantTuple, choice.Variants[1].Format.Kind)

	marker, _ := reg.Get("Marker")
	assert.Equal(t, ContainerUnitStruct, marker.Kind)
}

func TestParseRegistry_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown primitive": "A:\n  NEWTYPESTRUCT: U256\n",
		"unknown container": "A:\n  RECORD: []\n",
		"dangling typename": "A:\n  NEWTYPESTRUCT:\n    TYPENAME: B\n",
		"duplicate variant": "A:\n  ENUM:\n    0:\n      X: UNIT\n    0:\n      Y: UNIT\n",
		"bad tuplearray":    "A:\n  NEWTYPESTRUCT:\n    TUPLEARRAY:\n      CONTENT: U8\n",
		"not a mapping":     "- A\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestReplaceKeywords(t *testing.T) {
	doc := `
function:
  STRUCT:
    - module: STR
    - name: STR
Holder:
  STRUCT:
    - inner:
        OPTION:
          TYPENAME: function
Kind:
  ENUM:
    0:
      delete: UNIT
    1:
      Keep:
        STRUCT:
          - new: BOOL
`
	reg, err := ParseRegistry([]byte(doc))
	require.NoError(t, err)

	ReplaceKeywords(reg, map[string]bool{"function": true, "module": true, "delete": true, "new": true})

	assert.Equal(t, []string{"Holder", "Kind", "function_"}, reg.Names())

	fn, _ := reg.Get("function_")
	assert.Equal(t, "module_", fn.Fields[0].Name)
	assert.Equal(t, "name", fn.Fields[1].Name)

	holder, _ := reg.Get("Holder")
	assert.Equal(t, "function_", holder.Fields[0].Format.Elem.Name)

	kind, _ := reg.Get("Kind")
	assert.Equal(t, "delete_", kind.Variants[0].Name)
	assert.Equal(t, "Keep", kind.Variants[1].Name)
	assert.Equal(t, "new_", kind.Variants[1].Format.Fields[0].Name)

	assert.NoError(t, reg.Validate())
}
