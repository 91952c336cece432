package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/vitrina/internal/pricing"
)

type recommendFlags struct {
	cost     float64
	category string
	low      float64
	mid      float64
	high     float64
	premium  float64
	endings  []string
}

func newRecommendCmd(a *app) *cobra.Command {
	var f recommendFlags

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Compute the four tier prices for a cost and pick one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := pricing.Options{CategoryName: f.category}
			if rule := f.overrides(cmd); !rule.IsEmpty() {
				opts.Rule = &rule
			}

			rec, err := a.engine.Recommend(f.cost, opts)
			if err != nil {
				return err
			}
			a.logger.Debug("recommended",
				zap.Float64("cost", f.cost),
				zap.String("tier", string(rec.AppliedTier)),
				zap.String("reason", rec.Reason),
			)

			if a.output == outputJSON {
				return a.writeJSON(cmd.OutOrStdout(), rec)
			}
			return writeRecommendation(cmd.OutOrStdout(), rec)
		},
	}

	cmd.Flags().Float64Var(&f.cost, "cost", 0, "cost price")
	cmd.Flags().StringVar(&f.category, "category", "", "category name")
	cmd.Flags().Float64Var(&f.low, "margin-low", 0, "override the low tier margin")
	cmd.Flags().Float64Var(&f.mid, "margin-mid", 0, "override the mid tier margin")
	cmd.Flags().Float64Var(&f.high, "margin-high", 0, "override the high tier margin")
	cmd.Flags().Float64Var(&f.premium, "margin-premium", 0, "override the premium tier margin")
	cmd.Flags().StringSliceVar(&f.endings, "endings", nil, `override the price endings; "" disables rounding`)
	_ = cmd.MarkFlagRequired("cost")
	return cmd
}

// overrides keeps only the flags the user actually set.
func (f recommendFlags) overrides(cmd *cobra.Command) pricing.RuleOverrides {
	var rule pricing.RuleOverrides
	set := func(name string, v float64) *float64 {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		return &v
	}
	rule.Low = set("margin-low", f.low)
	rule.Mid = set("margin-mid", f.mid)
	rule.High = set("margin-high", f.high)
	rule.Premium = set("margin-premium", f.premium)
	if cmd.Flags().Changed("endings") {
		rule.Endings = append([]string{}, f.endings...)
	}
	return rule
}

func writeRecommendation(w io.Writer, rec pricing.Recommendation) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIER\tPRICE\t")
	for _, t := range pricing.Tiers {
		marker := ""
		if t == rec.AppliedTier {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t, formatPrice(rec.Price(t)), marker)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	endings := strings.Join(rec.Endings, ",")
	if endings == "" {
		endings = "none"
	}
	_, err := fmt.Fprintf(w, "\nsuggested %s (%s, margin %.0f%%, reason %s, endings %s)\n",
		formatPrice(rec.Suggested), rec.AppliedTier, rec.AppliedMargin*100, rec.Reason, endings)
	return err
}
