package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"arcanist/internal/service"
)

func rollCmd() *cobra.Command {
	var in service.DieInput
	cmd := &cobra.Command{
		Use:   "roll <dice>",
		Short: "Roll dice, e.g. 20, d20 or 3d6",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, sides, err := parseDice(args[0])
			if err != nil {
				return err
			}
			in.Sides = sides
			if count > 1 {
				in.Count = count
			}

			ctx := context.Background()
			a, err := openApp(ctx, appOptions{surface: "cli"})
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			out, err := a.svc.RollDie(in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&in.Advantage, "advantage", "a", false, "Roll twice and keep the higher")
	cmd.Flags().BoolVarP(&in.Disadvantage, "disadvantage", "x", false, "Roll twice and keep the lower")
	return cmd
}

// parseDice reads "S", "dS" or "NdS".
func parseDice(text string) (count, sides int, err error) {
	text = strings.ToLower(strings.TrimSpace(text))
	countText, sidesText, found := strings.Cut(text, "d")
	if !found {
		sidesText, countText = countText, ""
	}
	count = 1
	if countText != "" {
		count, err = strconv.Atoi(countText)
		if err != nil || count < 1 {
			return 0, 0, fmt.Errorf("invalid dice count in %q", text)
		}
	}
	sides, err = strconv.Atoi(sidesText)
	if err != nil || sides < 1 {
		return 0, 0, fmt.Errorf("invalid dice sides in %q", text)
	}
	return count, sides, nil
}

func rollStatsCmd() *cobra.Command {
	var save bool
	var name string
	cmd := &cobra.Command{
		Use:   "rollstats",
		Short: "Roll 3d6 for each ability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, appOptions{surface: "cli"})
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			out, err := a.svc.RollStats(ctx, a.user(), name, save)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, out.Message)
			if out.Character != nil {
				fmt.Fprintf(w, "\nSaved %s (%s) as your active character.\n", out.Character.DisplayName(), out.Character.ID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Store the scores as a new active character")
	cmd.Flags().StringVar(&name, "name", "", "Character name when saving")
	return cmd
}
