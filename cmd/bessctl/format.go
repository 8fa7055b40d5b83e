package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/marcus-medeiros/analise-bess/internal/domain/loadcurve"
	"github.com/marcus-medeiros/analise-bess/internal/domain/regional"
	"github.com/marcus-medeiros/analise-bess/internal/domain/viability"
)

func printCurve(out io.Writer, resp loadcurve.Response, window loadcurve.PeakWindow) {
	fmt.Fprintf(out, "Load curve (%s)\n", resp.Profile)
	fmt.Fprintf(out, "  Monthly consumption:  %.2f kWh\n", resp.MonthlyConsumptionKWh)
	fmt.Fprintf(out, "  Daily consumption:    %.2f kWh\n", resp.DailyConsumptionKWh)
	fmt.Fprintf(out, "  Peak share:           %.2f %%\n", resp.PeakSharePercent)
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "HOUR\tDEMAND kW\tWINDOW\t")
	for _, p := range resp.Curve {
		marker := ""
		if window.Contains(p.Hour) {
			marker = "peak"
		}
		fmt.Fprintf(tw, "%02d\t%.2f\t%s\t\n", p.Hour, p.DemandKW, marker)
	}
	_ = tw.Flush()

	s := resp.Summary
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Peak demand:          %.2f kW at %02dh\n", s.PeakDemandKW, s.PeakHour)
	if s.PeakWindowHour >= 0 {
		fmt.Fprintf(out, "  Peak window demand:   %.2f kW at %02dh\n", s.PeakWindowDemandKW, s.PeakWindowHour)
	}
	fmt.Fprintf(out, "  Energy in window:     %.2f kWh/day\n", s.EnergyPeakKWh)
	fmt.Fprintf(out, "  Energy off window:    %.2f kWh/day\n", s.EnergyOffPeakKWh)
	fmt.Fprintf(out, "  Load factor:          %.3f\n", s.LoadFactor)
}

func printRegions(out io.Writer, states []regional.State) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "UF\tSTATE\tICMS\tPIS/COFINS\tIRRADIATION kWh/m2/day")
	for _, s := range states {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\n", s.Code, s.Name, percent(s.ICMS), percent(s.PISCOFINS), s.IrradiationKWhM2Day)
	}
	_ = tw.Flush()
}

func printViability(out io.Writer, investment, rate float64, r viability.Result) {
	fmt.Fprintln(out, "Viability")
	fmt.Fprintln(out, strings.Repeat("-", 9))
	fmt.Fprintf(out, "  Investment:           R$ %.2f\n", investment)
	fmt.Fprintf(out, "  Discount rate:        %s\n", percent(rate))
	fmt.Fprintf(out, "  Horizon:              %d years\n", r.Years)
	fmt.Fprintf(out, "  NPV:                  R$ %.2f\n", r.NPV)
	if r.IRR != nil {
		fmt.Fprintf(out, "  IRR:                  %s\n", percent(*r.IRR))
	} else {
		fmt.Fprintln(out, "  IRR:                  n/a")
	}
	fmt.Fprintf(out, "  Simple payback:       %s\n", years(r.SimplePaybackYears))
	fmt.Fprintf(out, "  Discounted payback:   %s\n", years(r.DiscountedPaybackYears))
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func years(v *int) string {
	if v == nil {
		return "not reached"
	}
	return fmt.Sprintf("%d years", *v)
}
