package commands

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/simonhull/shuffle/internal/logger"
	"github.com/simonhull/shuffle/internal/output"
	"github.com/simonhull/shuffle/internal/project"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// Defaults for a local test network.
const (
	DefaultJSONRPCURL = "http://127.0.0.1:8080/v1"
	DefaultRESTURL    = "http://127.0.0.1:8080"
)

// RootCmd creates and returns the root command for the Shuffle CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "shuffle",
		Short: "Build, bind and test Move packages",
		Long: `Shuffle builds the Move package of a project, generates TypeScript
bindings for its types and transaction builders, and runs its tests.

Commands are run from anywhere inside a project; the root is the nearest
directory containing Shuffle.toml.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			output.SetVerbose(verbose)
			_ = godotenv.Load()

			v, err := newViper(cmd.Flags())
			if err != nil {
				return err
			}
			level, err := logger.ParseLevel(v.GetString("log-level"))
			if err != nil {
				return err
			}
			log := logger.NewLogger(level, os.Stderr)
			if verbose {
				if log, err = logger.NewProduction(logger.LevelDebug); err != nil {
					return err
				}
			}
			logger.SetDefault(log)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Default().Sync()
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error or silent")
	flags.String("home", "", "Shuffle home directory (default: ~/.shuffle)")
	flags.String("json-rpc-url", DefaultJSONRPCURL, "JSON-RPC endpoint of the network")
	flags.String("rest-url", DefaultRESTURL, "REST endpoint of the network")

	return cmd
}

// Settings are the network and home settings shared by every command.
// Flags win over SHUFFLE_* environment variables, which win over defaults.
type Settings struct {
	Home       project.Home
	JSONRPCURL string
	RESTURL    string
}

// LoadSettings resolves Settings from the command's flags and the environment.
func LoadSettings(flags *pflag.FlagSet) (*Settings, error) {
	v, err := newViper(flags)
	if err != nil {
		return nil, err
	}

	s := &Settings{
		JSONRPCURL: v.GetString("json-rpc-url"),
		RESTURL:    v.GetString("rest-url"),
	}
	if dir := v.GetString("home"); dir != "" {
		s.Home = project.NewHome(dir)
		return s, nil
	}
	home, err := project.DefaultHome()
	if err != nil {
		return nil, err
	}
	s.Home = home
	return s, nil
}

// newViper binds flags with SHUFFLE_* environment overrides, e.g.
// --json-rpc-url and SHUFFLE_JSON_RPC_URL.
func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("SHUFFLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}
	return v, nil
}

// projectRoot locates the project containing the working directory and
// loads its Shuffle.toml, so a malformed config stops every project command.
func projectRoot() (string, *project.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}
	root, err := project.Locate(wd)
	if err != nil {
		return "", nil, err
	}
	cfg, err := project.LoadConfig(root)
	if err != nil {
		return "", nil, err
	}
	logger.Default().Debug("loaded project", logger.F("root", root), logger.F("blockchain", cfg.Blockchain))
	return root, cfg, nil
}
