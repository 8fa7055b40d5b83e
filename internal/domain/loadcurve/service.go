package loadcurve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/marcus-medeiros/analise-bess/pkg/errors"
)

// Service exposes load curve synthesis.
type Service interface {
	Build(ctx context.Context, req Request) (Response, error)
	Profiles(ctx context.Context) []ProfileInfo
	PeakWindow() PeakWindow
}

type service struct {
	cfg    Config
	logger *slog.Logger
}

// NewService wires up the load curve domain. An empty peak window falls back to 18h-20h.
func NewService(cfg Config, logger *slog.Logger) Service {
	if cfg.PeakWindow.Len() == 0 {
		cfg.PeakWindow = DefaultPeakWindow()
	}
	return &service{cfg: cfg, logger: logger.With("component", "loadcurve.service")}
}

func (s *service) Build(_ context.Context, req Request) (Response, error) {
	if req.MonthlyConsumptionKWh < s.cfg.MinMonthlyConsumptionKWh {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("monthly consumption must be at least %.0f kWh", s.cfg.MinMonthlyConsumptionKWh), ErrInvalidInput)
	}

	profile, weights, err := resolveWeights(req)
	if err != nil {
		return Response{}, err
	}

	curve, err := Reconcile(req.MonthlyConsumptionKWh, req.PeakSharePercent, weights, s.cfg.PeakWindow)
	if err != nil {
		return Response{}, err
	}
	summary := Summarize(curve, s.cfg.PeakWindow)
	s.logger.Debug("load curve reconciled",
		"profile", profile,
		"monthly_kwh", req.MonthlyConsumptionKWh,
		"peak_share", req.PeakSharePercent,
		"peak_kw", summary.PeakDemandKW,
		"peak_hour", summary.PeakHour,
	)

	return Response{
		Profile:               profile,
		MonthlyConsumptionKWh: req.MonthlyConsumptionKWh,
		DailyConsumptionKWh:   req.MonthlyConsumptionKWh / DaysPerMonth,
		PeakSharePercent:      req.PeakSharePercent,
		PeakHours:             s.cfg.PeakWindow.Hours(),
		Curve:                 curve,
		Summary:               summary,
	}, nil
}

func (s *service) Profiles(_ context.Context) []ProfileInfo {
	archetypes := Archetypes()
	out := make([]ProfileInfo, 0, len(archetypes))
	for _, a := range archetypes {
		out = append(out, a.info())
	}
	return out
}

func (s *service) PeakWindow() PeakWindow {
	return s.cfg.PeakWindow
}

func resolveWeights(req Request) (string, []float64, error) {
	if len(req.Weights) > 0 {
		return ProfileCustom, req.Weights, nil
	}
	key := strings.TrimSpace(req.Profile)
	if key == "" {
		return "", nil, apperrors.Wrap(apperrors.CodeInvalidInput, "profile or weights are required", ErrInvalidInput)
	}
	archetype, ok := LookupArchetype(key)
	if !ok {
		return "", nil, apperrors.Wrap(apperrors.CodeInvalidArchetype, fmt.Sprintf("unknown profile %q", key), ErrInvalidArchetype)
	}
	return archetype.Key(), archetype.Weights(), nil
}
