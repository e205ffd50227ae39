package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func querySQLCmd() *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Execute a raw SQL query against the character store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSQL(cmd, query, parseParams(params))
		},
	}
	cmd.Flags().StringArrayVar(&params, "param", nil, "Positional query parameter (repeatable)")
	return cmd
}

func runSQL(cmd *cobra.Command, query string, params []any) error {
	ctx := context.Background()

	a, err := openApp(ctx, appOptions{surface: "cli"})
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	rows, err := a.db.RunSQL(ctx, query, params)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(payload))
	return nil
}

// parseParams passes integers and booleans through typed; everything else is a string.
func parseParams(values []string) []any {
	params := make([]any, 0, len(values))
	for _, value := range values {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			params = append(params, n)
			continue
		}
		if b, err := strconv.ParseBool(value); err == nil {
			params = append(params, b)
			continue
		}
		params = append(params, value)
	}
	return params
}
