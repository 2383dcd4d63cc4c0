package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/yourusername/parlay-engine/internal/kelly"
)

var (
	kellyProbability float64
	kellyAmerican    int
	kellyDecimal     float64
	kellyBankroll    string
	kellyMultiplier  string
	kellyMaxBet      float64
	kellyUnitSize    string
	kellyStake       string
)

func init() {
	kellyCmd.Flags().Float64VarP(&kellyProbability, "probability", "p", 0, "Win probability in (0, 1)")
	kellyCmd.Flags().IntVarP(&kellyAmerican, "odds", "o", 0, "American odds, e.g. +150 or -110")
	kellyCmd.Flags().Float64Var(&kellyDecimal, "decimal-odds", 0, "Decimal odds, used when --odds is not set")
	kellyCmd.Flags().StringVarP(&kellyBankroll, "bankroll", "b", "", "Bankroll (defaults to kelly.default_bankroll)")
	kellyCmd.Flags().StringVarP(&kellyMultiplier, "multiplier", "m", "", "full, half or quarter (defaults to kelly.default_multiplier)")
	kellyCmd.Flags().Float64Var(&kellyMaxBet, "max-bet", 0, "Maximum bankroll fraction per bet (defaults to kelly.max_bet_percent)")
	kellyCmd.Flags().StringVar(&kellyUnitSize, "unit-size", "", "Unit size for stake in units (defaults to kelly.default_unit_size)")
	kellyCmd.Flags().StringVarP(&kellyStake, "stake", "s", "", "Stake to compare with the recommendation")
	_ = kellyCmd.MarkFlagRequired("probability")
}

// kellyOutput is the kelly command's JSON output
type kellyOutput struct {
	Result     kelly.Result           `json:"result"`
	StakeUnits *decimal.Decimal       `json:"stake_units,omitempty"`
	Comparison *kelly.StakeComparison `json:"comparison,omitempty"`
}

var kellyCmd = &cobra.Command{
	Use:   "kelly",
	Short: "Size a single bet with the Kelly criterion",
	RunE: func(cmd *cobra.Command, args []string) error {
		optimizer, err := kelly.NewOptimizer(cfg.KellyPolicy(), logger)
		if err != nil {
			return err
		}

		in, err := kellyInput()
		if err != nil {
			return err
		}

		out := kellyOutput{Result: optimizer.Recommend(in)}
		if !out.Result.IsValid {
			return printJSON(out)
		}

		unitSize := decimal.NewFromFloat(cfg.Kelly.DefaultUnitSize)
		if kellyUnitSize != "" {
			if unitSize, err = decimal.NewFromString(kellyUnitSize); err != nil {
				return fmt.Errorf("invalid unit size %q: %w", kellyUnitSize, err)
			}
		}
		if units, err := kelly.StakeInUnits(out.Result.RecommendedStake, unitSize); err == nil {
			out.StakeUnits = &units
		}

		if kellyStake != "" {
			stake, err := decimal.NewFromString(kellyStake)
			if err != nil {
				return fmt.Errorf("invalid stake %q: %w", kellyStake, err)
			}
			cmp, err := optimizer.CompareStake(stake, out.Result)
			if err != nil {
				return err
			}
			out.Comparison = &cmp
		}

		return printJSON(out)
	},
}

func kellyInput() (kelly.Input, error) {
	in := kelly.Input{
		WinProbability:  kellyProbability,
		AmericanOdds:    kellyAmerican,
		DecimalOdds:     kellyDecimal,
		Bankroll:        decimal.NewFromFloat(cfg.Kelly.DefaultBankroll),
		KellyMultiplier: kelly.Multiplier(cfg.Kelly.DefaultMultiplier),
		MaxBetPercent:   cfg.Kelly.MaxBetPercent,
	}

	if kellyBankroll != "" {
		bankroll, err := decimal.NewFromString(kellyBankroll)
		if err != nil {
			return kelly.Input{}, fmt.Errorf("invalid bankroll %q: %w", kellyBankroll, err)
		}
		in.Bankroll = bankroll
	}
	if kellyMultiplier != "" {
		m, err := kelly.ParseMultiplier(kellyMultiplier)
		if err != nil {
			return kelly.Input{}, err
		}
		in.KellyMultiplier = m
	}
	if kellyMaxBet > 0 {
		in.MaxBetPercent = kellyMaxBet
	}

	return in, nil
}
