package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "bessctl",
		Short:        "Offline load curve and BESS viability calculator",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(curveCmd())
	rootCmd.AddCommand(regionsCmd())
	rootCmd.AddCommand(viabilityCmd())
	return rootCmd
}

func curveCmd() *cobra.Command {
	var opts curveOptions

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Reconcile a monthly consumption into a 24 hour load curve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCurve(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().Float64VarP(&opts.MonthlyKWh, "consumption", "c", 0, "monthly consumption in kWh")
	cmd.Flags().Float64VarP(&opts.PeakShare, "peak-share", "s", 15, "share of daily energy consumed in the peak window, in percent")
	cmd.Flags().StringVarP(&opts.Profile, "profile", "p", "residential", "load profile archetype")
	cmd.Flags().IntSliceVar(&opts.PeakHours, "peak-hours", []int{18, 19, 20}, "hours of the tariff peak window")
	cmd.Flags().Float64Var(&opts.MinMonthlyKWh, "min-consumption", 100, "smallest accepted monthly consumption in kWh")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("consumption")
	return cmd
}

func regionsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the states and their tax and irradiation data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRegions(cmd.OutOrStdout(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func viabilityCmd() *cobra.Command {
	var opts viabilityOptions

	cmd := &cobra.Command{
		Use:   "viability",
		Short: "Compute NPV, IRR and payback for an investment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runViability(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().Float64VarP(&opts.Investment, "investment", "i", 0, "initial investment in BRL")
	cmd.Flags().Float64SliceVar(&opts.CashFlows, "cash-flow", nil, "yearly cash flow in BRL, repeat once per year")
	cmd.Flags().Float64Var(&opts.Annual, "annual", 0, "uniform yearly cash flow in BRL, used with --years")
	cmd.Flags().IntVar(&opts.Years, "years", 0, "number of years for --annual")
	cmd.Flags().Float64VarP(&opts.Rate, "rate", "r", 0.1, "discount rate as a fraction")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("investment")
	cmd.MarkFlagsMutuallyExclusive("cash-flow", "annual")
	return cmd
}
