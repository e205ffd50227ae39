package main

import (
	"os"

	"github.com/spf13/cobra"

	"arcanist/internal/config"
)

var (
	configPath string
	userID     string
	userName   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "arcanist",
		Short:        "Tabletop dice checks with stateless rerolls",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Project config file")
	root.PersistentFlags().StringVar(&userID, "user", os.Getenv("USER"), "Player id used to select the active character")
	root.PersistentFlags().StringVar(&userName, "as", "", "Display name when the player has no character")

	root.AddCommand(initCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(rerollCmd())
	root.AddCommand(rollCmd())
	root.AddCommand(rollStatsCmd())
	root.AddCommand(characterCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	return root
}
