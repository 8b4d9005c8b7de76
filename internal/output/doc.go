// Package output provides styled terminal output for the shuffle CLI.
//
// # Usage
//
//	output.Success("Generated TypeScript bindings")
//	output.Info("Next steps:")
//	output.Step("shuffle test e2e")
//	output.Warn("main has no script functions")
//	output.Error("Something went wrong")
//
// # Verbose Mode
//
//	output.SetVerbose(true)
//	output.Verbose("Reading ABIs from main/build")
//
// # Styling
//
//   - Success: ✅ green bold
//   - Error: ❌ red bold
//   - Warn: ⚠️ yellow
//   - Info: ℹ️ cyan
//   - Step: indented gray
//   - Verbose: 🔍 gray (when enabled)
//
// Output goes to os.Stdout unless redirected with SetWriter, which tests
// use to capture messages.
package output
