package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marcus-medeiros/analise-bess/internal/domain/loadcurve"
	"github.com/marcus-medeiros/analise-bess/internal/domain/regional"
	"github.com/marcus-medeiros/analise-bess/internal/domain/tariff"
	"github.com/marcus-medeiros/analise-bess/internal/domain/viability"
	apperrors "github.com/marcus-medeiros/analise-bess/pkg/errors"
	"github.com/marcus-medeiros/analise-bess/pkg/util"
)

const codeScenarioError = "scenario_error"

// Service manages saved scenarios and runs the feasibility analysis.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Scenario, error)
	Get(ctx context.Context, id uuid.UUID) (Scenario, error)
	List(ctx context.Context) ([]Scenario, error)
	Analyze(ctx context.Context, id uuid.UUID, inv *InvestmentInput) (Analysis, error)
	Evaluate(ctx context.Context, req EvaluateRequest) (Analysis, error)
	TrendingStates(ctx context.Context) ([]StateCount, error)
}

type service struct {
	cfg     Config
	repo    Repository
	store   Store
	curves  loadcurve.Service
	regions *regional.Table
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires up the scenario domain.
func NewService(cfg Config, repo Repository, store Store, curves loadcurve.Service, regions *regional.Table, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		repo:    repo,
		store:   store,
		curves:  curves,
		regions: regions,
		logger:  logger.With("component", "scenario.service"),
		now:     util.NowUTC,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (Scenario, error) {
	name := strings.TrimSpace(req.Name)
	if s.cfg.MaxNameLength > 0 && len([]rune(name)) > s.cfg.MaxNameLength {
		return Scenario{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("name cannot exceed %d characters", s.cfg.MaxNameLength), nil)
	}
	region, err := s.lookupRegion(req.State)
	if err != nil {
		return Scenario{}, err
	}
	// Building the curve validates consumption, share and profile together.
	load, err := s.curves.Build(ctx, loadRequest(req, nil))
	if err != nil {
		return Scenario{}, err
	}

	sc := Scenario{
		ID:                    uuid.New(),
		Name:                  name,
		State:                 region.Code,
		MonthlyConsumptionKWh: req.MonthlyConsumptionKWh,
		PeakSharePercent:      req.PeakSharePercent,
		Profile:               load.Profile,
		CreatedAt:             s.now(),
	}
	if sc.Name == "" {
		sc.Name = fmt.Sprintf("%s - %s", region.Name, sc.Profile)
	}
	if err := s.repo.Insert(ctx, sc); err != nil {
		return Scenario{}, apperrors.Wrap(codeScenarioError, "failed to save scenario", err)
	}
	if err := s.store.IncrementState(ctx, region.Code); err != nil {
		s.logger.Warn("state counter increment failed", "state", region.Code, "error", err)
	}
	s.logger.Info("scenario created", "id", sc.ID, "state", sc.State, "profile", sc.Profile)
	return sc, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (Scenario, error) {
	sc, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return Scenario{}, apperrors.Wrap(codeScenarioError, "failed to load scenario", err)
	}
	if !found {
		return Scenario{}, apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("scenario %s not found", id), nil)
	}
	return sc, nil
}

func (s *service) List(ctx context.Context) ([]Scenario, error) {
	items, err := s.repo.List(ctx, s.cfg.ListLimit)
	if err != nil {
		return nil, apperrors.Wrap(codeScenarioError, "failed to list scenarios", err)
	}
	return items, nil
}

func (s *service) Analyze(ctx context.Context, id uuid.UUID, inv *InvestmentInput) (Analysis, error) {
	sc, err := s.Get(ctx, id)
	if err != nil {
		return Analysis{}, err
	}
	region, err := s.lookupRegion(sc.State)
	if err != nil {
		return Analysis{}, err
	}
	req := CreateRequest{
		State:                 sc.State,
		MonthlyConsumptionKWh: sc.MonthlyConsumptionKWh,
		PeakSharePercent:      sc.PeakSharePercent,
		Profile:               sc.Profile,
	}
	analysis, err := s.analyze(ctx, region, loadRequest(req, nil), inv)
	if err != nil {
		return Analysis{}, err
	}
	analysis.Scenario = &sc
	return analysis, nil
}

func (s *service) Evaluate(ctx context.Context, req EvaluateRequest) (Analysis, error) {
	region, err := s.lookupRegion(req.State)
	if err != nil {
		return Analysis{}, err
	}
	return s.analyze(ctx, region, loadRequest(req.CreateRequest, req.Weights), req.Investment)
}

func (s *service) TrendingStates(ctx context.Context) ([]StateCount, error) {
	items, err := s.store.TopStates(ctx, s.cfg.TopStates)
	if err != nil {
		return nil, apperrors.Wrap(codeScenarioError, "failed to load state counters", err)
	}
	return items, nil
}

func (s *service) analyze(ctx context.Context, region regional.State, req loadcurve.Request, inv *InvestmentInput) (Analysis, error) {
	load, err := s.curves.Build(ctx, req)
	if err != nil {
		return Analysis{}, err
	}
	cost, err := tariff.Decompose(load.Summary, s.cfg.Tariff, region.TotalTax())
	if err != nil {
		return Analysis{}, err
	}
	analysis := Analysis{Region: region, Load: load, Cost: cost}
	if inv == nil {
		return analysis, nil
	}

	storage, err := s.evaluateStorage(ctx, region, req, load, cost, s.withDefaults(*inv))
	if err != nil {
		return Analysis{}, err
	}
	analysis.Storage = &storage
	return analysis, nil
}

// evaluateStorage moves the whole peak energy to off-peak hours. The battery
// recharges off-peak, so the off-peak draw grows by the round-trip losses.
func (s *service) evaluateStorage(ctx context.Context, region regional.State, req loadcurve.Request, baseline loadcurve.Response, baselineCost tariff.Breakdown, inv Investment) (StorageResult, error) {
	if inv.LifetimeYears <= 0 {
		return StorageResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "investment lifetime must be positive", nil)
	}
	if math.IsNaN(inv.RoundTripEfficiency) || inv.RoundTripEfficiency <= 0 || inv.RoundTripEfficiency > 1 {
		return StorageResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "round-trip efficiency must be within (0, 1]", nil)
	}

	shiftedDaily := baseline.Summary.EnergyPeakKWh
	losses := shiftedDaily/inv.RoundTripEfficiency - shiftedDaily
	shiftedReq := req
	shiftedReq.MonthlyConsumptionKWh = req.MonthlyConsumptionKWh + losses*loadcurve.DaysPerMonth
	shiftedReq.PeakSharePercent = 0

	shifted, err := s.curves.Build(ctx, shiftedReq)
	if err != nil {
		return StorageResult{}, err
	}
	shiftedCost, err := tariff.Decompose(shifted.Summary, s.cfg.Tariff, region.TotalTax())
	if err != nil {
		return StorageResult{}, err
	}

	monthly := baselineCost.GrossTotal - shiftedCost.GrossTotal
	annual := 12*monthly - inv.AnnualOMBRL
	result, err := viability.Evaluate(viability.Input{
		Investment:   inv.CapexBRL,
		CashFlows:    viability.UniformCashFlows(annual, inv.LifetimeYears),
		DiscountRate: inv.DiscountRate,
	})
	if err != nil {
		return StorageResult{}, err
	}
	s.logger.Debug("storage evaluated", "state", region.Code, "monthly_savings", monthly, "npv", result.NPV)

	return StorageResult{
		ShiftedEnergyKWhDay: shiftedDaily,
		ShiftedCost:         shiftedCost,
		MonthlySavings:      monthly,
		AnnualCashFlow:      annual,
		Viability:           result,
	}, nil
}

func (s *service) withDefaults(in InvestmentInput) Investment {
	inv := s.cfg.Investment
	if in.CapexBRL != nil {
		inv.CapexBRL = *in.CapexBRL
	}
	if in.AnnualOMBRL != nil {
		inv.AnnualOMBRL = *in.AnnualOMBRL
	}
	if in.LifetimeYears != nil {
		inv.LifetimeYears = *in.LifetimeYears
	}
	if in.DiscountRate != nil {
		inv.DiscountRate = *in.DiscountRate
	}
	if in.RoundTripEfficiency != nil {
		inv.RoundTripEfficiency = *in.RoundTripEfficiency
	}
	return inv
}

func (s *service) lookupRegion(key string) (regional.State, error) {
	if strings.TrimSpace(key) == "" {
		return regional.State{}, apperrors.Wrap(apperrors.CodeInvalidInput, "state is required", nil)
	}
	region, ok := s.regions.Lookup(key)
	if !ok {
		return regional.State{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown state %q", key), nil)
	}
	return region, nil
}

func loadRequest(req CreateRequest, weights []float64) loadcurve.Request {
	return loadcurve.Request{
		MonthlyConsumptionKWh: req.MonthlyConsumptionKWh,
		PeakSharePercent:      req.PeakSharePercent,
		Profile:               req.Profile,
		Weights:               weights,
	}
}
