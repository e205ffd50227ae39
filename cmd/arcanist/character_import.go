package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arcanist/internal/ingest"
)

func characterImportCmd() *cobra.Command {
	var options ingest.Options
	cmd := &cobra.Command{
		Use:   "import <path>...",
		Short: "Import markdown character sheets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Player == "" {
				options.Player = userID
			}
			return runImport(cmd, args, options)
		},
	}
	cmd.Flags().StringVar(&options.Player, "player", "", "Owner of sheets that name no player (default --user)")
	cmd.Flags().StringArrayVar(&options.Exclude, "exclude", nil, "Path to skip (repeatable)")
	cmd.Flags().BoolVar(&options.DryRun, "dry-run", false, "Report what would be imported without writing")
	return cmd
}

func runImport(cmd *cobra.Command, roots []string, options ingest.Options) error {
	ctx := context.Background()

	a, err := openApp(ctx, appOptions{surface: "cli"})
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	result, err := ingest.Run(ctx, a.db, roots, options)
	if err != nil {
		return err
	}

	renderCharacters(cmd.OutOrStdout(), result.Imported)
	verb := "Imported"
	if options.DryRun {
		verb = "Would import"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d, skipped %d duplicates and %d other files.\n",
		verb, len(result.Imported), result.Duplicates, result.FilesSkipped)

	for _, err := range result.Errors {
		fmt.Fprintf(os.Stderr, "  - %v\n", err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d sheets could not be imported", len(result.Errors))
	}
	return nil
}
