package typescript

// Keywords are TypeScript reserved and contextual words that cannot be used
// as generated identifiers.
var Keywords = map[string]bool{
	"abstract": true, "any": true, "as": true, "async": true, "await": true,
	"bigint": true, "boolean": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "constructor": true, "continue": true,
	"debugger": true, "declare": true, "default": true, "delete": true,
	"do": true, "else": true, "enum": true, "export": true, "extends": true,
	"false": true, "finally": true, "for": true, "from": true, "function": true,
	"get": true, "if": true, "implements": true, "import": true, "in": true,
	"infer": true, "instanceof": true, "interface": true, "is": true,
	"keyof": true, "let": true, "module": true, "namespace": true, "never": true,
	"new": true, "null": true, "number": true, "object": true, "of": true,
	"package": true, "private": true, "protected": true, "public": true,
	"readonly": true, "require": true, "return": true, "set": true,
	"static": true, "string": true, "super": true, "switch": true,
	"symbol": true, "this": true, "throw": true, "true": true, "try": true,
	"type": true, "typeof": true, "undefined": true, "unique": true,
	"unknown": true, "var": true, "void": true, "while": true, "with": true,
	"yield": true,
}

// safeName appends an underscore to names that collide with a keyword.
func safeName(name string) string {
	if Keywords[name] {
		return name + "_"
	}
	return name
}
