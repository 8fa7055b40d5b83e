package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/marcus-medeiros/analise-bess/internal/domain/loadcurve"
	"github.com/marcus-medeiros/analise-bess/internal/domain/regional"
	"github.com/marcus-medeiros/analise-bess/internal/domain/viability"
	"github.com/marcus-medeiros/analise-bess/pkg/logger"
)

type curveOptions struct {
	MonthlyKWh    float64
	PeakShare     float64
	Profile       string
	PeakHours     []int
	MinMonthlyKWh float64
	JSON          bool
}

type viabilityOptions struct {
	Investment float64
	CashFlows  []float64
	Annual     float64
	Years      int
	Rate       float64
	JSON       bool
}

func runCurve(ctx context.Context, out io.Writer, opts curveOptions) error {
	window, err := loadcurve.NewPeakWindow(opts.PeakHours...)
	if err != nil {
		return err
	}
	svc := loadcurve.NewService(loadcurve.Config{
		PeakWindow:               window,
		MinMonthlyConsumptionKWh: opts.MinMonthlyKWh,
	}, logger.NewWithWriter(os.Stderr, os.Getenv("LOG_LEVEL")))

	resp, err := svc.Build(ctx, loadcurve.Request{
		MonthlyConsumptionKWh: opts.MonthlyKWh,
		PeakSharePercent:      opts.PeakShare,
		Profile:               opts.Profile,
	})
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeJSON(out, resp)
	}
	printCurve(out, resp, window)
	return nil
}

func runRegions(out io.Writer, asJSON bool) error {
	states := regional.DefaultTable().States()
	if asJSON {
		return writeJSON(out, states)
	}
	printRegions(out, states)
	return nil
}

func runViability(out io.Writer, opts viabilityOptions) error {
	flows := opts.CashFlows
	if len(flows) == 0 {
		if opts.Years <= 0 {
			return fmt.Errorf("provide --cash-flow or --annual with --years")
		}
		flows = viability.UniformCashFlows(opts.Annual, opts.Years)
	}

	result, err := viability.Evaluate(viability.Input{
		Investment:   opts.Investment,
		CashFlows:    flows,
		DiscountRate: opts.Rate,
	})
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeJSON(out, result)
	}
	printViability(out, opts.Investment, opts.Rate, result)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
