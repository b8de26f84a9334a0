// Package cli holds the chess3d command tree.
package cli

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/benbeisheim/chess3d-backend/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:  "chess3d",
		Args: cobra.NoArgs,
		Long: heredoc.Doc(`chess3d hosts authoritative chess games for the 3D client and
			offers a few tools for working with positions directly.`),

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// global flags
	root.PersistentFlags().StringP("config", "c", "", "Path to the config file")
	root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")

	versionStr := "v0.1.0\n"
	root.SetVersionTemplate(versionStr)
	root.Version = versionStr

	// Register the various commands.
	root.AddCommand(Serve())
	root.AddCommand(FEN())
	root.AddCommand(Perft())
	root.AddCommand(SelfPlay())

	return root
}

// loadConfig reads the config named by --config and applies its log level.
// --trace overrides the configured level.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return cfg, err
	}
	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		level = logrus.TraceLevel
	}
	logrus.SetLevel(level)
	return cfg, nil
}
