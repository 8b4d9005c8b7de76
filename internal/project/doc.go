// Package project anchors every shuffle operation to a single project root.
//
// # Overview
//
// A project root is the directory that directly contains Shuffle.toml.
// Locate is the only place shuffle searches the filesystem for it; every
// other package receives the resolved root as a parameter.
//
//	root, err := project.Locate(cwd)
//	if err != nil {
//	    return err // errs.ErrNotFound with an actionable message
//	}
//	cfg, err := project.LoadConfig(root)
//
// # Home
//
// Cross-project state (account keys) lives under a Home, which defaults
// to ~/.shuffle but is always passed explicitly so tests can point it at
// a temporary directory:
//
//	home, err := project.DefaultHome()
//	key, err := home.GenerateKey(project.TestAccount)
//
// # Creation
//
// Scaffolder writes a new project: Shuffle.toml, a sample Move package
// under main/, and Deno test skeletons under e2e/ and integration/.
package project
