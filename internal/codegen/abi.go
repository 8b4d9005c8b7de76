package codegen

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/simonhull/shuffle/internal/account"
	"github.com/simonhull/shuffle/internal/bcs"
	"github.com/simonhull/shuffle/internal/errs"
	"github.com/simonhull/shuffle/internal/filesystem"
)

// ABIExt is the extension of compiled ABI descriptor files.
const ABIExt = ".abi"

// TypeTagKind is the variant of a Move type tag, in wire order.
type TypeTagKind uint32

const (
	TypeBool TypeTagKind = iota
	TypeU8
	TypeU64
	TypeU128
	TypeAddress
	TypeSigner
	TypeVector
	TypeStruct
)

// TypeTag is a Move type as it appears in an ABI.
type TypeTag struct {
	Kind   TypeTagKind
	Elem   *TypeTag   // TypeVector
	Struct *StructTag // TypeStruct
}

// StructTag names a Move struct type.
type StructTag struct {
	Address    account.Address
	Module     string
	Name       string
	TypeParams []TypeTag
}

func (t TypeTag) String() string {
	switch t.Kind {
	case TypeBool:
		return "bool"
	case TypeU8:
		return "u8"
	case TypeU64:
		return "u64"
	case TypeU128:
		return "u128"
	case TypeAddress:
		return "address"
	case TypeSigner:
		return "signer"
	case TypeVector:
		return "vector<" + t.Elem.String() + ">"
	case TypeStruct:
		s := fmt.Sprintf("%s::%s::%s", t.Struct.Address.Hex(), t.Struct.Module, t.Struct.Name)
		if len(t.Struct.TypeParams) > 0 {
			params := make([]string, len(t.Struct.TypeParams))
			for i, p := range t.Struct.TypeParams {
				params[i] = p.String()
			}
			s += "<" + strings.Join(params, ", ") + ">"
		}
		return s
	default:
		return fmt.Sprintf("unknown(%d)", t.Kind)
	}
}

// IsBytes reports whether t is vector<u8>.
func (t TypeTag) IsBytes() bool {
	return t.Kind == TypeVector && t.Elem != nil && t.Elem.Kind == TypeU8
}

// ModuleID identifies a published module.
type ModuleID struct {
	Address account.Address
	Name    string
}

// ArgumentABI is one value parameter of a script or script function.
type ArgumentABI struct {
	Name string
	Type TypeTag
}

// TypeArgumentABI is one type parameter.
type TypeArgumentABI struct {
	Name string
}

// ScriptABIKind distinguishes the two ABI variants, in wire order.
type ScriptABIKind uint32

const (
	TransactionScriptABI ScriptABIKind = iota
	ScriptFunctionABI
)

// ScriptABI describes one callable entry point of the package. Code is set
// only for transaction scripts; Module only for script functions.
type ScriptABI struct {
	Kind   ScriptABIKind
	Name   string
	Doc    string
	Code   []byte
	Module ModuleID
	TyArgs []TypeArgumentABI
	Args   []ArgumentABI
}

// DecodeScriptABI reads one BCS-encoded ABI descriptor.
func DecodeScriptABI(data []byte) (ScriptABI, error) {
	r := bcs.NewReader(data)
	abi, err := readScriptABI(r)
	if err != nil {
		return ScriptABI{}, err
	}
	if err := r.Finish(); err != nil {
		return ScriptABI{}, err
	}
	return abi, nil
}

func readScriptABI(r *bcs.Reader) (ScriptABI, error) {
	var abi ScriptABI
	variant, err := r.VariantIndex()
	if err != nil {
		return abi, err
	}
	abi.Kind = ScriptABIKind(variant)
	if abi.Kind != TransactionScriptABI && abi.Kind != ScriptFunctionABI {
		return abi, fmt.Errorf("unknown script ABI variant %d", variant)
	}

	if abi.Name, err = r.String(); err != nil {
		return abi, err
	}
	switch abi.Kind {
	case TransactionScriptABI:
		if abi.Doc, err = r.String(); err != nil {
			return abi, err
		}
		if abi.Code, err = r.Bytes(); err != nil {
			return abi, err
		}
	case ScriptFunctionABI:
		if abi.Module, err = readModuleID(r); err != nil {
			return abi, err
		}
		if abi.Doc, err = r.String(); err != nil {
			return abi, err
		}
	}

	n, err := r.Length()
	if err != nil {
		return abi, err
	}
	for i := 0; i < n; i++ {
		name, err := r.String()
		if err != nil {
			return abi, err
		}
		abi.TyArgs = append(abi.TyArgs, TypeArgumentABI{Name: name})
	}

	if n, err = r.Length(); err != nil {
		return abi, err
	}
	for i := 0; i < n; i++ {
		name, err := r.String()
		if err != nil {
			return abi, err
		}
		tag, err := readTypeTag(r)
		if err != nil {
			return abi, fmt.Errorf("argument %s: %w", name, err)
		}
		abi.Args = append(abi.Args, ArgumentABI{Name: name, Type: tag})
	}
	return abi, nil
}

func readAddress(r *bcs.Reader) (account.Address, error) {
	var addr account.Address
	b, err := r.FixedBytes(account.AddressLength)
	if err != nil {
		return addr, err
	}
	copy(addr[:], b)
	return addr, nil
}

func readModuleID(r *bcs.Reader) (ModuleID, error) {
	addr, err := readAddress(r)
	if err != nil {
		return ModuleID{}, err
	}
	name, err := r.String()
	if err != nil {
		return ModuleID{}, err
	}
	return ModuleID{Address: addr, Name: name}, nil
}

func readTypeTag(r *bcs.Reader) (TypeTag, error) {
	variant, err := r.VariantIndex()
	if err != nil {
		return TypeTag{}, err
	}
	tag := TypeTag{Kind: TypeTagKind(variant)}
	switch tag.Kind {
	case TypeBool, TypeU8, TypeU64, TypeU128, TypeAddress, TypeSigner:
	case TypeVector:
		elem, err := readTypeTag(r)
		if err != nil {
			return TypeTag{}, err
		}
		tag.Elem = &elem
	case TypeStruct:
		st := &StructTag{}
		if st.Address, err = readAddress(r); err != nil {
			return TypeTag{}, err
		}
		if st.Module, err = r.String(); err != nil {
			return TypeTag{}, err
		}
		if st.Name, err = r.String(); err != nil {
			return TypeTag{}, err
		}
		n, err := r.Length()
		if err != nil {
			return TypeTag{}, err
		}
		for i := 0; i < n; i++ {
			p, err := readTypeTag(r)
			if err != nil {
				return TypeTag{}, err
			}
			st.TypeParams = append(st.TypeParams, p)
		}
		tag.Struct = st
	default:
		return TypeTag{}, fmt.Errorf("unknown type tag variant %d", variant)
	}
	return tag, nil
}

// EncodeScriptABI writes abi in the compiler's descriptor format.
func EncodeScriptABI(abi ScriptABI) []byte {
	w := bcs.NewWriter().VariantIndex(uint32(abi.Kind)).String(abi.Name)
	if abi.Kind == ScriptFunctionABI {
		w.FixedBytes(abi.Module.Address[:]).String(abi.Module.Name).String(abi.Doc)
	} else {
		w.String(abi.Doc).ByteSeq(abi.Code)
	}
	w.Length(len(abi.TyArgs))
	for _, ta := range abi.TyArgs {
		w.String(ta.Name)
	}
	w.Length(len(abi.Args))
	for _, a := range abi.Args {
		w.String(a.Name)
		writeTypeTag(w, a.Type)
	}
	return w.Bytes()
}

func writeTypeTag(w *bcs.Writer, t TypeTag) {
	w.VariantIndex(uint32(t.Kind))
	switch t.Kind {
	case TypeVector:
		writeTypeTag(w, *t.Elem)
	case TypeStruct:
		w.FixedBytes(t.Struct.Address[:]).String(t.Struct.Module).String(t.Struct.Name)
		w.Length(len(t.Struct.TypeParams))
		for _, p := range t.Struct.TypeParams {
			writeTypeTag(w, p)
		}
	}
}

// ReadABIs decodes every ABI descriptor under dir. No descriptors yields an
// empty slice. A malformed file fails the whole read with errs.ErrParse
// naming the file. The result is sorted by function name, then module.
func ReadABIs(dir string) ([]ScriptABI, error) {
	paths, err := filesystem.FindFiles(dir, ABIExt)
	if err != nil {
		return nil, errs.New(errs.ErrIO, dir, err)
	}

	abis := make([]ScriptABI, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.New(errs.ErrIO, path, err)
		}
		abi, err := DecodeScriptABI(data)
		if err != nil {
			return nil, errs.New(errs.ErrParse, path, err)
		}
		abis = append(abis, abi)
	}

	sort.SliceStable(abis, func(i, j int) bool {
		if abis[i].Name != abis[j].Name {
			return abis[i].Name < abis[j].Name
		}
		if abis[i].Module.Name != abis[j].Module.Name {
			return abis[i].Module.Name < abis[j].Module.Name
		}
		return abis[i].Kind < abis[j].Kind
	})
	return abis, nil
}
