// Package cmd implements the process command surface, replacing the
// teacher's main.go flag.Parse()-based CLI with spf13/cobra the way
// cryptorun's src/cmd/cprotocol wires its root command and persistent
// flags, keeping the teacher's flags-override-environment behavior.
package cmd

import (
	"github.com/spf13/cobra"
)

// Execute builds and runs the root command, returning any error from
// the invoked subcommand.
func Execute() error {
	var opts serveOptions

	root := &cobra.Command{
		Use:   "icehockey-analytics",
		Short: "Hockey analytics query, clip, and market API",
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to an optional YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.teamCode, "team", "MTL", "focus team code for startup logging")

	root.AddCommand(serveCmd(&opts))
	root.AddCommand(versionCmd())

	return root.Execute()
}

func serveCmd(opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*opts)
		},
	}
	cmd.Flags().StringVar(&opts.listenAddr, "listen-addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&opts.principalsFile, "principals", "", "path to a YAML principal table")
	return cmd
}

// version is set at build time via -ldflags, falling back to "dev".
var version = "dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(version)
			return nil
		},
	}
}
