// Package exec runs the external tools shuffle depends on (the Move
// compiler and the Deno test runner).
//
// # Basic Usage
//
//	executor := exec.NewExecutor(nil)
//	err := executor.Run(ctx, "move", "build", "--path", "main")
//
// # Fluent commands
//
//	err := exec.NewGenericCommand(executor, "deno").
//	    WithArgs("test", "--allow-net", "e2e").
//	    WithEnv("PROJECT_PATH=" + root).
//	    WithDir(root).
//	    WithSpinner("Running e2e tests").
//	    Run(ctx)
//
// Spinners render only when stderr is a terminal; otherwise output streams
// straight through. The command constructor can be swapped in tests, so
// collaborators built on an Executor are tested with a helper process
// instead of real binaries.
package exec
