// Package rxconfig resolves the CLI's ambient configuration — verbosity
// and the bootstrap project-layout root — from flags, RX_*-prefixed
// environment variables, and an optional config file, via
// github.com/spf13/viper (SPEC_FULL.md §10).
package rxconfig

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the resolved ambient configuration for one CLI invocation.
type Config struct {
	// Verbose enables the engine's V(1) opcode-level execution trace.
	Verbose bool
	// ProjectRoot is the directory the bootstrap compiler tree
	// (project/bootstrap/{stable,experimental}/) is resolved under.
	ProjectRoot string
}

// BindFlags registers the persistent flags Load reads back, on the root
// command so every subcommand inherits them.
func BindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool("verbose", false, "enable V(1) execution tracing")
	cmd.PersistentFlags().String("project-root", ".", "bootstrap project layout root")
}

// Load resolves Config from (in increasing precedence) an optional
// ./rxconfig.yaml, RX_VERBOSE/RX_PROJECT_ROOT environment variables, and
// the flags BindFlags registered.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("project-root", cmd.PersistentFlags().Lookup("project-root")); err != nil {
		return nil, err
	}

	v.SetConfigName("rxconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	return &Config{
		Verbose:     v.GetBool("verbose"),
		ProjectRoot: v.GetString("project-root"),
	}, nil
}
