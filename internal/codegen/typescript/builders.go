package typescript

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/simonhull/shuffle/internal/account"
	"github.com/simonhull/shuffle/internal/codegen"
	"github.com/simonhull/shuffle/internal/generator"
)

// builderArg is one value parameter of a generated builder.
type builderArg struct {
	Name      string
	Type      string
	Serialize string // script functions: statement writing the argument with "serializer"
	Argument  string // scripts: TransactionArgument expression
}

// builder is the view of one encode method.
type builder struct {
	Method        string
	Doc           []string
	Function      bool
	Name          string
	TyArgs        []string
	Args          []builderArg
	Params        string
	ModuleAddress string
	ModuleName    string
	CodeConst     string
	CodeHex       string
}

type buildersView struct {
	TypesModule string
	Builders    []builder
}

func newBuildersView(typesModule string, abis []codegen.ScriptABI) (*buildersView, error) {
	view := &buildersView{TypesModule: typesModule}
	seen := make(map[string]bool, len(abis))

	for _, abi := range abis {
		b := builder{
			Name:     abi.Name,
			Doc:      docLines(abi.Doc),
			Function: abi.Kind == codegen.ScriptFunctionABI,
		}
		if b.Function {
			b.Method = "encode" + generator.PascalCase(abi.Name) + "ScriptFunction"
			b.ModuleAddress = addressLiteral(abi.Module.Address)
			b.ModuleName = abi.Module.Name
		} else {
			b.Method = "encode" + generator.PascalCase(abi.Name) + "Script"
			b.CodeConst = strings.ToUpper(abi.Name) + "_CODE"
			b.CodeHex = hex.EncodeToString(abi.Code)
		}
		if seen[b.Method] {
			return nil, fmt.Errorf("duplicate builder %s", b.Method)
		}
		seen[b.Method] = true

		var params []string
		for _, ta := range abi.TyArgs {
			name := safeName(ta.Name)
			b.TyArgs = append(b.TyArgs, name)
			params = append(params, name+": DiemTypes.TypeTag")
		}
		for _, a := range abi.Args {
			arg, err := newBuilderArg(a)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", abi.Name, err)
			}
			b.Args = append(b.Args, arg)
			params = append(params, arg.Name+": "+arg.Type)
		}
		b.Params = strings.Join(params, ", ")
		view.Builders = append(view.Builders, b)
	}
	return view, nil
}

func newBuilderArg(a codegen.ArgumentABI) (builderArg, error) {
	name := safeName(a.Name)
	arg := builderArg{Name: name}
	switch {
	case a.Type.Kind == codegen.TypeBool:
		arg.Type = "boolean"
		arg.Serialize = fmt.Sprintf("serializer.serializeBool(%s);", name)
		arg.Argument = fmt.Sprintf("new DiemTypes.TransactionArgumentVariantBool(%s)", name)
	case a.Type.Kind == codegen.TypeU8:
		arg.Type = "number"
		arg.Serialize = fmt.Sprintf("serializer.serializeU8(%s);", name)
		arg.Argument = fmt.Sprintf("new DiemTypes.TransactionArgumentVariantU8(%s)", name)
	case a.Type.Kind == codegen.TypeU64:
		arg.Type = "bigint"
		arg.Serialize = fmt.Sprintf("serializer.serializeU64(%s);", name)
		arg.Argument = fmt.Sprintf("new DiemTypes.TransactionArgumentVariantU64(%s)", name)
	case a.Type.Kind == codegen.TypeU128:
		arg.Type = "bigint"
		arg.Serialize = fmt.Sprintf("serializer.serializeU128(%s);", name)
		arg.Argument = fmt.Sprintf("new DiemTypes.TransactionArgumentVariantU128(%s)", name)
	case a.Type.Kind == codegen.TypeAddress:
		arg.Type = "DiemTypes.AccountAddress"
		arg.Serialize = fmt.Sprintf("%s.serialize(serializer);", name)
		arg.Argument = fmt.Sprintf("new DiemTypes.TransactionArgumentVariantAddress(%s)", name)
	case a.Type.IsBytes():
		arg.Type = "Uint8Array"
		arg.Serialize = fmt.Sprintf("serializer.serializeBytes(%s);", name)
		arg.Argument = fmt.Sprintf("new DiemTypes.TransactionArgumentVariantU8Vector(%s)", name)
	default:
		return arg, fmt.Errorf("argument %s: unsupported type %s", a.Name, a.Type)
	}
	return arg, nil
}

// addressLiteral renders an address as the ListTuple AccountAddress expects.
func addressLiteral(addr account.Address) string {
	parts := make([]string, len(addr))
	for i, b := range addr {
		parts[i] = fmt.Sprintf("[%d]", b)
	}
	return "new DiemTypes.AccountAddress([" + strings.Join(parts, ", ") + "])"
}

func docLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.ReplaceAll(strings.TrimRight(l, " \t"), "*/", "* /")
	}
	return lines
}
