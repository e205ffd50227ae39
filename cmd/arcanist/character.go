package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"arcanist/internal/character"
)

func characterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "character",
		Aliases: []string{"char"},
		Short:   "Manage your characters",
	}
	cmd.AddCommand(characterCreateCmd())
	cmd.AddCommand(characterShowCmd())
	cmd.AddCommand(characterListCmd())
	cmd.AddCommand(characterLuckCmd())
	cmd.AddCommand(characterUseCmd())
	cmd.AddCommand(characterImportCmd())
	return cmd
}

func characterCreateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create <str:dex:con:int:wis:cha>",
		Short: "Create a character and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scores, err := character.ParseScores(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, err := openApp(ctx, appOptions{surface: "cli"})
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			snap, err := a.svc.CreateCharacter(ctx, a.user(), name, scores)
			if err != nil {
				return err
			}
			printCharacter(cmd.OutOrStdout(), snap)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Character name")
	return cmd
}

func characterShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your active character",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, appOptions{surface: "cli"})
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			snap, err := a.svc.Character(ctx, a.user())
			if err != nil {
				return err
			}
			printCharacter(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

func characterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, appOptions{surface: "cli"})
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			chars, err := a.svc.Characters(ctx, a.user())
			if err != nil {
				return err
			}
			renderCharacters(cmd.OutOrStdout(), chars)
			return nil
		},
	}
}

func characterLuckCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "luck <on|off>",
		Short:     "Grant or clear luck on your active character",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var luck bool
			switch strings.ToLower(args[0]) {
			case "on", "true", "yes":
				luck = true
			case "off", "false", "no":
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}

			ctx := context.Background()
			a, err := openApp(ctx, appOptions{surface: "cli"})
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			snap, err := a.svc.SetLuck(ctx, a.user(), luck)
			if err != nil {
				return err
			}
			printCharacter(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

func characterUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Make a character active; an id prefix is enough",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, appOptions{surface: "cli"})
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			snap, err := a.svc.UseCharacter(ctx, a.user(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now active.\n", snap.DisplayName())
			return nil
		},
	}
}

func printCharacter(w io.Writer, snap *character.Snapshot) {
	fmt.Fprintf(w, "%s (%s)\n", snap.DisplayName(), snap.ID)
	for _, a := range character.Abilities {
		fmt.Fprintf(w, "  %-13s %2d (%+d)\n", a, snap.Scores.Score(a), snap.Modifier(a))
	}
	fmt.Fprintf(w, "  Luck          %s\n", yesNo(snap.Luck))
}

func renderCharacters(w io.Writer, chars []character.Snapshot) {
	if len(chars) == 0 {
		fmt.Fprintln(w, "No characters found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "ID", "Name", "Stats", "Luck"})
	for _, c := range chars {
		active := ""
		if c.Default {
			active = "*"
		}
		t.AppendRow(table.Row{active, c.ID, c.DisplayName(), c.Scores.String(), yesNo(c.Luck)})
	}
	t.Render()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
