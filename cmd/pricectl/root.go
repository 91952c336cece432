package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/vitrina/internal/config"
	"github.com/Simplici0/vitrina/internal/logging"
	"github.com/Simplici0/vitrina/internal/pricing"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// app holds the state shared by every subcommand.
type app struct {
	output      string
	pricingFile string
	verbose     bool

	logger *zap.Logger
	engine *pricing.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "pricectl",
		Short: "Recommend retail prices from cost prices",
		Long: `pricectl runs the vitrina pricing engine locally.

Examples:
  pricectl recommend --cost 100
  pricectl recommend --cost 400 --category Perfumería --output json
  pricectl pretty 1243 --endings 9,0
  pricectl combo --item 10:2 --item 5:1 --packaging 3 --recommend`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.logger.Sync() },
	}

	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", outputText, "output format (text, json)")
	cmd.PersistentFlags().StringVar(&a.pricingFile, "pricing-file", "", "YAML file with margins, endings and premium categories")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newRecommendCmd(a))
	cmd.AddCommand(newPrettyCmd(a))
	cmd.AddCommand(newComboCmd(a))
	return cmd
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	if a.output != outputText && a.output != outputJSON {
		return fmt.Errorf("unknown output format %q (want %s or %s)", a.output, outputText, outputJSON)
	}

	if a.verbose {
		logCfg := logging.DefaultConfig()
		logCfg.Level = "debug"
		logger, err := logging.New(logCfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		a.logger = logger
	}

	engineCfg, err := config.LoadPricing(a.pricingFile)
	if err != nil {
		return err
	}
	a.engine = pricing.NewEngine(engineCfg)
	a.logger.Debug("pricing engine ready",
		zap.String("pricing_file", a.pricingFile),
		zap.Strings("premium_categories", engineCfg.PremiumCategories),
		zap.Float64("premium_cost_floor", engineCfg.PremiumCostFloor),
		zap.Float64("low_ticket_ceiling", engineCfg.LowTicketCeiling),
	)
	return nil
}

func (a *app) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
