package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Simplici0/vitrina/internal/pricing"
)

func newPrettyCmd(a *app) *cobra.Command {
	var endings []string

	cmd := &cobra.Command{
		Use:   "pretty VALUE",
		Short: "Round a value to the nearest price with an allowed ending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}

			rounded := pricing.PrettyPrice(raw, endings)
			if a.output == outputJSON {
				return a.writeJSON(cmd.OutOrStdout(), map[string]float64{"raw": raw, "value": rounded})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(rounded, 'f', -1, 64))
			return err
		},
	}

	cmd.Flags().StringSliceVar(&endings, "endings", pricing.DefaultEndings, "allowed digit endings")
	return cmd
}
