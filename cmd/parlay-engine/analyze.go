package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/yourusername/parlay-engine/internal/models"
	"github.com/yourusername/parlay-engine/internal/service"
)

var (
	analyzeInput string
	analyzeUser  string
	analyzeStake string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "Path to an analyze request JSON file")
	analyzeCmd.Flags().StringVarP(&analyzeUser, "user", "u", "", "User whose bankroll settings size the stake")
	analyzeCmd.Flags().StringVarP(&analyzeStake, "stake", "s", "", "Stake the user intends to place, compared with the recommendation")
	_ = analyzeCmd.MarkFlagRequired("input")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a parlay and recommend a stake",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req service.AnalyzeRequest
		if err := readJSONFile(analyzeInput, &req); err != nil {
			return err
		}
		if analyzeUser != "" {
			req.UserID = analyzeUser
		}
		if analyzeStake != "" {
			stake, err := decimal.NewFromString(analyzeStake)
			if err != nil {
				return fmt.Errorf("invalid stake %q: %w", analyzeStake, err)
			}
			req.UserStake = models.Some(stake)
		}

		deps, err := setupDependencies(cmd.Context())
		if err != nil {
			return err
		}
		defer deps.Close()

		analyzer, err := service.NewParlayAnalyzerFromConfig(cfg, deps.analyzerDeps(), logger)
		if err != nil {
			return fmt.Errorf("failed to build analyzer: %w", err)
		}

		analysis, err := analyzer.Analyze(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(analysis)
	},
}
