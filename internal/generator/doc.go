// Package generator provides template rendering and file operations for
// everything shuffle writes to disk: new project skeletons and generated
// binding modules.
//
// # Operations
//
// Scaffolding validates every file before writing any of them, so a new
// project never lands half-written on top of existing files:
//
//	ops := []generator.Operation{
//	    &generator.WriteFileOp{Path: "Shuffle.toml", Content: cfg, Mode: 0644},
//	}
//	err := generator.Execute(ctx, ops, generator.ExecuteOptions{Root: root})
//
// # Transactions
//
// A generated module owns its output directory. A Transaction stages the
// module's files next to it and swaps them in on Commit, so regeneration is
// a full overwrite and a failed run leaves the previous module in place:
//
//	tx := generator.NewTransaction("main/generated/diemStdlib")
//	tx.AddFile("mod.ts", content)
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
package generator
