package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/vitrina/internal/pricing"
)

type comboResult struct {
	Breakdown      pricing.ComboCostBreakdown `json:"breakdown"`
	Recommendation *pricing.Recommendation    `json:"recommendation,omitempty"`
}

func newComboCmd(a *app) *cobra.Command {
	var (
		rawItems  []string
		packaging float64
		recommend bool
		category  string
	)

	cmd := &cobra.Command{
		Use:   "combo",
		Short: "Add up the cost of a bundle and optionally price it",
		Long: `Each --item is COST:QTY. Unparseable costs or quantities count as 0,
so a partially filled bundle still produces a total.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := make([]pricing.ComboItem, 0, len(rawItems))
			for _, raw := range rawItems {
				items = append(items, parseItemFlag(raw))
			}

			result := comboResult{Breakdown: pricing.AggregateComboCost(items, packaging)}
			if recommend {
				rec, err := a.engine.Recommend(result.Breakdown.TotalCost, pricing.Options{CategoryName: category})
				if err != nil {
					return err
				}
				result.Recommendation = &rec
			}
			a.logger.Debug("combo cost",
				zap.Int("items", len(items)),
				zap.Float64("total_cost", result.Breakdown.TotalCost),
			)

			if a.output == outputJSON {
				return a.writeJSON(cmd.OutOrStdout(), result)
			}
			return writeCombo(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringArrayVar(&rawItems, "item", nil, "bundle line as COST:QTY (repeatable)")
	cmd.Flags().Float64Var(&packaging, "packaging", 0, "flat packaging cost")
	cmd.Flags().BoolVar(&recommend, "recommend", false, "also recommend a price for the total")
	cmd.Flags().StringVar(&category, "category", "", "category used for the recommendation")
	return cmd
}

// parseItemFlag splits COST:QTY; a missing quantity counts as 0.
func parseItemFlag(raw string) pricing.ComboItem {
	cost, qty, _ := strings.Cut(raw, ":")
	return pricing.ParseComboItem(cost, qty)
}

func writeCombo(w io.Writer, result comboResult) error {
	b := result.Breakdown
	if _, err := fmt.Fprintf(w, "items     %s\npackaging %s\ntotal     %s\n",
		formatPrice(b.ItemsCost), formatPrice(b.PackagingCost), formatPrice(b.TotalCost)); err != nil {
		return err
	}
	if result.Recommendation == nil {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return writeRecommendation(w, *result.Recommendation)
}
