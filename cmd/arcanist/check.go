package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"arcanist/internal/check"
	"arcanist/internal/service"
)

func checkCmd() *cobra.Command {
	var in service.CheckInput
	var modifier, difficulty int
	cmd := &cobra.Command{
		Use:   "check [stat]",
		Short: "Roll a d20 check",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				in.Stat = args[0]
			}
			if cmd.Flags().Changed("modifier") {
				in.Modifier = &modifier
			}
			if cmd.Flags().Changed("dc") {
				in.Difficulty = &difficulty
			}
			return runCheck(cmd, in)
		},
	}
	cmd.Flags().IntVarP(&modifier, "modifier", "m", 0, "Flat modifier added to each roll")
	cmd.Flags().IntVarP(&difficulty, "dc", "d", 0, "Difficulty class")
	cmd.Flags().BoolVarP(&in.Advantage, "advantage", "a", false, "Roll with advantage")
	cmd.Flags().BoolVarP(&in.Disadvantage, "disadvantage", "x", false, "Roll with disadvantage")
	cmd.Flags().IntVarP(&in.Repetitions, "repeat", "n", 0, "Number of attempts")
	return cmd
}

func runCheck(cmd *cobra.Command, in service.CheckInput) error {
	ctx := context.Background()

	a, err := openApp(ctx, appOptions{surface: "cli"})
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	outcome, err := a.svc.Check(ctx, a.user(), in)
	if err != nil {
		return err
	}
	printOutcome(cmd.OutOrStdout(), outcome)
	return nil
}

func rerollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reroll <action-id>",
		Short: "Activate a Reroll action printed by check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			a, err := openApp(ctx, appOptions{surface: "cli"})
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			outcome, err := a.svc.Reroll(ctx, a.user(), args[0])
			if err != nil {
				return userError(err)
			}
			printOutcome(cmd.OutOrStdout(), outcome)
			return nil
		},
	}
}

func printOutcome(w io.Writer, outcome check.Outcome) {
	fmt.Fprintln(w, outcome.Message)
	for _, act := range outcome.Actions {
		fmt.Fprintf(w, "\n[%s] arcanist reroll %q\n", act.Title, act.ID)
	}
}
