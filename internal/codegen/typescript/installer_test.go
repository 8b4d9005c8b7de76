package typescript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/shuffle/internal/account"
	"github.com/simonhull/shuffle/internal/codegen"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func setMessage() codegen.ScriptABI {
	addr, _ := account.ParseAddress("0xe110")
	return codegen.ScriptABI{
		Kind:   codegen.ScriptFunctionABI,
		Name:   "set_message",
		Doc:    "Stores the message under the signer.",
		Module: codegen.ModuleID{Address: addr, Name: "Message"},
		Args: []codegen.ArgumentABI{{
			Name: "message_bytes",
			Type: codegen.TypeTag{Kind: codegen.TypeVector, Elem: &codegen.TypeTag{Kind: codegen.TypeU8}},
		}},
	}
}

func TestInstaller_Runtimes(t *testing.T) {
	dir := t.TempDir()
	inst := NewInstaller(dir)

	require.NoError(t, inst.InstallSerdeRuntime())
	require.NoError(t, inst.InstallBCSRuntime())

	for _, rel := range []string{
		"serde/mod.ts", "serde/types.ts", "serde/binarySerializer.ts", "serde/binaryDeserializer.ts",
		"bcs/mod.ts", "bcs/bcsSerializer.ts", "bcs/bcsDeserializer.ts",
	} {
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(rel)))
	}
	assert.Contains(t, readFile(t, filepath.Join(dir, "bcs", "mod.ts")), "bcsSerializer.ts")
}

func TestInstaller_ReplacesModuleDirectory(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "diemStdlib", "stale.ts")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	require.NoError(t, NewInstaller(dir).InstallTransactionBuilders("diemStdlib", nil))

	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(dir, "diemStdlib", ModuleFile))
}

func TestInstallModule_DiemTypes(t *testing.T) {
	dir := t.TempDir()
	inst := NewInstaller(dir)

	reg, err := codegen.LoadRegistry()
	require.NoError(t, err)
	inst.ReplaceKeywords(reg)

	cfg := codegen.ModuleConfig{Name: "diemTypes", Encodings: []codegen.Encoding{codegen.BCS}}
	require.NoError(t, inst.InstallModule(cfg, reg))

	src := readFile(t, filepath.Join(dir, "diemTypes", ModuleFile))
	assert.Contains(t, src, "export class AccountAddress {")
	assert.Contains(t, src, "constructor (public value: ListTuple<[uint8]>) {")
	assert.Contains(t, src, "export abstract class TransactionPayload {")
	assert.Contains(t, src, "export class TransactionPayloadVariantScriptFunction extends TransactionPayload {")
	assert.Contains(t, src, "case 3: return TransactionPayloadVariantScriptFunction.load(deserializer);")
	assert.Contains(t, src, "public module_: ModuleId")
	assert.Contains(t, src, "public function_: Identifier")
	assert.Contains(t, src, "static serializeArray16U8Array(value: ListTuple<[uint8]>, serializer: Serializer): void {")
	assert.Contains(t, src, "static deserializeVectorTupleAccessPathWriteOp(deserializer: Deserializer): Seq<Tuple<[AccessPath, WriteOp]>> {")
	assert.Contains(t, src, "static serializeTupleAccessPathWriteOp(")
	assert.Contains(t, src, "public bcsSerialize(): Uint8Array {")
	assert.NotContains(t, src, "public module: ")
}

func TestEmitModule_WithoutBCS(t *testing.T) {
	reg, err := codegen.ParseRegistry([]byte("Flag:\n  NEWTYPESTRUCT: BOOL\n"))
	require.NoError(t, err)

	src, err := EmitModule(codegen.ModuleConfig{Name: "flags"}, reg)
	require.NoError(t, err)
	assert.NotContains(t, string(src), "bcsSerialize")
	assert.Contains(t, string(src), "serializer.serializeBool(this.value);")
}

func TestEmitModule_MapAndOption(t *testing.T) {
	doc := `
Book:
  STRUCT:
    - pages:
        MAP:
          KEY: U64
          VALUE:
            OPTION: STR
`
	reg, err := codegen.ParseRegistry([]byte(doc))
	require.NoError(t, err)

	src, err := EmitModule(codegen.ModuleConfig{Name: "books"}, reg)
	require.NoError(t, err)
	out := string(src)
	assert.Contains(t, out, "Helpers.serializeMapU64ToOptionStr(this.pages, serializer);")
	assert.Contains(t, out, "static serializeOptionStr(value: Optional<str>, serializer: Serializer): void {")
	assert.Contains(t, out, "serializer.sortMapEntries(offsets);")
}

func TestEmitModule_Deterministic(t *testing.T) {
	emit := func() []byte {
		reg, err := codegen.LoadRegistry()
		require.NoError(t, err)
		codegen.ReplaceKeywords(reg, Keywords)
		src, err := EmitModule(codegen.ModuleConfig{Name: "diemTypes", Encodings: []codegen.Encoding{codegen.BCS}}, reg)
		require.NoError(t, err)
		return src
	}
	assert.Equal(t, emit(), emit())
}

func TestInstallTransactionBuilders_ScriptFunction(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewInstaller(dir).InstallTransactionBuilders("diemStdlib", []codegen.ScriptABI{setMessage()}))

	src := readFile(t, filepath.Join(dir, "diemStdlib", ModuleFile))
	assert.Contains(t, src, `import * as DiemTypes from "../diemTypes/mod.ts";`)
	assert.Contains(t, src, "export class Stdlib {")
	assert.Contains(t, src, "static encodeSetMessageScriptFunction(message_bytes: Uint8Array): DiemTypes.TransactionPayload {")
	assert.Contains(t, src, "serializer.serializeBytes(message_bytes);")
	assert.Contains(t, src, `new DiemTypes.Identifier("Message")`)
	assert.Contains(t, src, `new DiemTypes.Identifier("set_message")`)
	assert.Contains(t, src, "[225], [16]])")
	assert.Contains(t, src, "* Stores the message under the signer.")
	assert.Equal(t, 1, strings.Count(src, "static encode"))
}

func TestInstallTransactionBuilders_Script(t *testing.T) {
	abi := codegen.ScriptABI{
		Kind:   codegen.TransactionScriptABI,
		Name:   "peer_to_peer",
		Code:   []byte{0xa1, 0x1c, 0xeb, 0x0b},
		TyArgs: []codegen.TypeArgumentABI{{Name: "currency"}},
		Args: []codegen.ArgumentABI{
			{Name: "payee", Type: codegen.TypeTag{Kind: codegen.TypeAddress}},
			{Name: "amount", Type: codegen.TypeTag{Kind: codegen.TypeU64}},
			{Name: "new", Type: codegen.TypeTag{Kind: codegen.TypeBool}},
		},
	}
	dir := t.TempDir()
	require.NoError(t, NewInstaller(dir).InstallTransactionBuilders("diemStdlib", []codegen.ScriptABI{abi}))

	src := readFile(t, filepath.Join(dir, "diemStdlib", ModuleFile))
	assert.Contains(t, src,
		"static encodePeerToPeerScript(currency: DiemTypes.TypeTag, payee: DiemTypes.AccountAddress, amount: bigint, new_: boolean): DiemTypes.Script {")
	assert.Contains(t, src, "const tyArgs: Seq<DiemTypes.TypeTag> = [currency];")
	assert.Contains(t, src,
		"const args: Seq<DiemTypes.TransactionArgument> = [new DiemTypes.TransactionArgumentVariantAddress(payee), new DiemTypes.TransactionArgumentVariantU64(amount), new DiemTypes.TransactionArgumentVariantBool(new_)];")
	assert.Contains(t, src, `static PEER_TO_PEER_CODE = Stdlib.fromHexString("a11ceb0b");`)
}

func TestInstallTransactionBuilders_ArgumentTypes(t *testing.T) {
	args := []codegen.ArgumentABI{
		{Name: "a", Type: codegen.TypeTag{Kind: codegen.TypeU8}},
		{Name: "b", Type: codegen.TypeTag{Kind: codegen.TypeU128}},
		{Name: "c", Type: codegen.TypeTag{Kind: codegen.TypeBool}},
	}
	abi := setMessage()
	abi.Args = args

	view, err := newBuildersView(DefaultTypesModule, []codegen.ScriptABI{abi})
	require.NoError(t, err)
	assert.Equal(t, "a: number, b: bigint, c: boolean", view.Builders[0].Params)
}

func TestInstallTransactionBuilders_Unsupported(t *testing.T) {
	abi := setMessage()
	abi.Args = []codegen.ArgumentABI{{
		Name: "ids",
		Type: codegen.TypeTag{Kind: codegen.TypeVector, Elem: &codegen.TypeTag{Kind: codegen.TypeU64}},
	}}

	err := NewInstaller(t.TempDir()).InstallTransactionBuilders("diemStdlib", []codegen.ScriptABI{abi})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type vector<u64>")
}

func TestInstallTransactionBuilders_DuplicateMethod(t *testing.T) {
	other := setMessage()
	other.Module.Name = "Other"

	err := NewInstaller(t.TempDir()).InstallTransactionBuilders("diemStdlib", []codegen.ScriptABI{setMessage(), other})
	assert.ErrorContains(t, err, "duplicate builder encodeSetMessageScriptFunction")
}
