package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/marcus-medeiros/analise-bess/internal/domain/loadcurve"
	"github.com/marcus-medeiros/analise-bess/internal/domain/regional"
	"github.com/marcus-medeiros/analise-bess/internal/domain/scenario"
	"github.com/marcus-medeiros/analise-bess/internal/domain/viability"
	"github.com/marcus-medeiros/analise-bess/internal/infra/config"
	apperrors "github.com/marcus-medeiros/analise-bess/pkg/errors"
)

func TestRouter_BuildLoadCurve(t *testing.T) {
	server := newRouterUnderTest(t, &stubScenarios{}, nil)

	recorder := performRequest(server, http.MethodPost, "/api/v1/load-curves", `{"monthlyConsumptionKwh":15000,"peakSharePercent":15,"profile":"residential"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var got loadcurve.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Len(t, got.Curve, loadcurve.HoursPerDay)
	require.InDelta(t, 26.41, got.Curve[18].DemandKW, 0.01)
	require.Equal(t, []int{18, 19, 20}, got.PeakHours)
	require.InDelta(t, 75, got.Summary.EnergyPeakKWh, 1e-9)
}

func TestRouter_BuildLoadCurveErrors(t *testing.T) {
	server := newRouterUnderTest(t, &stubScenarios{}, nil)

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{"monthlyConsumptionKwh":"lots"}`, http.StatusBadRequest, "invalid_request"},
		{"below floor", `{"monthlyConsumptionKwh":50,"peakSharePercent":15,"profile":"residential"}`, http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"share out of range", `{"monthlyConsumptionKwh":1500,"peakSharePercent":120,"profile":"residential"}`, http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"short weights", `{"monthlyConsumptionKwh":1500,"peakSharePercent":15,"weights":[1,2,3]}`, http.StatusBadRequest, apperrors.CodeInvalidArchetype},
		{"unknown profile", `{"monthlyConsumptionKwh":1500,"peakSharePercent":15,"profile":"hotel"}`, http.StatusBadRequest, apperrors.CodeInvalidArchetype},
		{"unscalable weights", `{"monthlyConsumptionKwh":1500,"peakSharePercent":15,"weights":[` + tinyOffPeakWeights + `]}`, http.StatusBadRequest, apperrors.CodeInvalidArchetype},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := performRequest(server, http.MethodPost, "/api/v1/load-curves", tc.body)
			require.Equal(t, tc.status, recorder.Code)
			errBody := decodeErrorBody(t, recorder.Body.Bytes())
			require.Equal(t, tc.code, errBody["error"]["code"])
			require.NotEmpty(t, errBody["error"]["message"])
		})
	}
}

// tinyOffPeakWeights keeps 18h-20h at 1 and every other hour at 1e-320.
const tinyOffPeakWeights = "1e-320,1e-320,1e-320,1e-320,1e-320,1e-320,1e-320,1e-320,1e-320,1e-320,1e-320,1e-320," +
	"1e-320,1e-320,1e-320,1e-320,1e-320,1e-320,1,1,1,1e-320,1e-320,1e-320"

func TestRouter_BuildLoadCurveSubnormalWeights(t *testing.T) {
	server := newRouterUnderTest(t, &stubScenarios{}, nil)
	weights := strings.TrimSuffix(strings.Repeat("1e-320,", loadcurve.HoursPerDay), ",")

	recorder := performRequest(server, http.MethodPost, "/api/v1/load-curves", `{"monthlyConsumptionKwh":15000,"peakSharePercent":15,"weights":[`+weights+`]}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var got loadcurve.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.InDelta(t, 75, got.Summary.EnergyPeakKWh, 1e-9)
	require.InDelta(t, 425, got.Summary.EnergyOffPeakKWh, 1e-9)
}

func TestRouter_ProfilesAndRegions(t *testing.T) {
	server := newRouterUnderTest(t, &stubScenarios{}, nil)

	recorder := performRequest(server, http.MethodGet, "/api/v1/profiles", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `"residential"`)

	recorder = performRequest(server, http.MethodGet, "/api/v1/regions", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var list struct {
		Items []regional.State `json:"items"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &list))
	require.Len(t, list.Items, 9)

	recorder = performRequest(server, http.MethodGet, "/api/v1/regions/pe", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var state regional.State
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &state))
	require.Equal(t, "Pernambuco", state.Name)

	recorder = performRequest(server, http.MethodGet, "/api/v1/regions/sp", "")
	require.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = performRequest(server, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRouter_CreateScenario(t *testing.T) {
	id := uuid.New()
	svc := &stubScenarios{
		createFn: func(_ context.Context, req scenario.CreateRequest) (scenario.Scenario, error) {
			require.Equal(t, "BA", req.State)
			return scenario.Scenario{ID: id, Name: "Padaria", State: "BA"}, nil
		},
	}
	server := newRouterUnderTest(t, svc, nil)

	recorder := performRequest(server, http.MethodPost, "/api/v1/scenarios", `{"name":"Padaria","state":"BA","monthlyConsumptionKwh":3000,"peakSharePercent":10,"profile":"commercial"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var got scenario.Scenario
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, id, got.ID)

	recorder = performRequest(server, http.MethodPost, "/api/v1/scenarios", `{"monthlyConsumptionKwh":3000}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_GetScenario(t *testing.T) {
	svc := &stubScenarios{
		getFn: func(_ context.Context, id uuid.UUID) (scenario.Scenario, error) {
			return scenario.Scenario{}, apperrors.Wrap(apperrors.CodeNotFound, "scenario "+id.String()+" not found", nil)
		},
	}
	server := newRouterUnderTest(t, svc, nil)

	recorder := performRequest(server, http.MethodGet, "/api/v1/scenarios/not-a-uuid", "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = performRequest(server, http.MethodGet, "/api/v1/scenarios/"+uuid.NewString(), "")
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Equal(t, apperrors.CodeNotFound, decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_AnalyzeScenarioOptionalBody(t *testing.T) {
	var gotInvestment *scenario.InvestmentInput
	svc := &stubScenarios{
		analyzeFn: func(_ context.Context, _ uuid.UUID, inv *scenario.InvestmentInput) (scenario.Analysis, error) {
			gotInvestment = inv
			return scenario.Analysis{}, nil
		},
	}
	server := newRouterUnderTest(t, svc, nil)
	path := "/api/v1/scenarios/" + uuid.NewString() + "/analysis"

	recorder := performRequest(server, http.MethodPost, path, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Nil(t, gotInvestment)

	recorder = performRequest(server, http.MethodPost, path, `{"investment":{"capexBrl":120000}}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, gotInvestment)
	require.NotNil(t, gotInvestment.CapexBRL)
	require.Equal(t, 120000.0, *gotInvestment.CapexBRL)
	require.Nil(t, gotInvestment.DiscountRate)

	recorder = performRequest(server, http.MethodPost, path, `{"investment":{"discountRate":0,"annualOmBrl":0}}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, gotInvestment.DiscountRate)
	require.Zero(t, *gotInvestment.DiscountRate)
	require.NotNil(t, gotInvestment.AnnualOMBRL)
	require.Nil(t, gotInvestment.CapexBRL)
}

func TestRouter_TrendingStatesFailure(t *testing.T) {
	svc := &stubScenarios{
		trendingFn: func(context.Context) ([]scenario.StateCount, error) {
			return nil, errors.New("valkey unavailable")
		},
	}
	server := newRouterUnderTest(t, svc, nil)

	recorder := performRequest(server, http.MethodGet, "/api/v1/stats/states", "")
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "stats_failed", errBody["error"]["code"])
	require.NotContains(t, errBody["error"]["message"], "valkey")
}

func TestRouter_Viability(t *testing.T) {
	server := newRouterUnderTest(t, &stubScenarios{}, nil)

	recorder := performRequest(server, http.MethodPost, "/api/v1/viability", `{"investment":1000,"annualCashFlow":300,"years":5,"discountRate":0.1}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	var got viability.Result
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.InDelta(t, 137.24, got.NPV, 0.01)
	require.NotNil(t, got.IRR)
	require.Equal(t, 5, got.Years)

	recorder = performRequest(server, http.MethodPost, "/api/v1/viability", `{"investment":1000}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, apperrors.CodeInvalidInput, decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])

	recorder = performRequest(server, http.MethodPost, "/api/v1/viability", `{"investment":1000,"annualCashFlow":500,"years":400,"discountRate":-0.9}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, apperrors.CodeInvalidInput, decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_RetriesTransientAnalysisFailure(t *testing.T) {
	attempts := 0
	svc := &stubScenarios{
		evaluateFn: func(_ context.Context, req scenario.EvaluateRequest) (scenario.Analysis, error) {
			attempts++
			require.Equal(t, "CE", req.State)
			if attempts == 1 {
				return scenario.Analysis{}, errors.New("temporary failure")
			}
			return scenario.Analysis{Region: regional.State{Code: "CE"}}, nil
		},
	}
	server := newRouterUnderTest(t, svc, func(cfg *config.Config) {
		cfg.HTTP.Retry = config.RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: time.Millisecond}
	})

	recorder := performRequest(server, http.MethodPost, "/api/v1/analyses", `{"state":"CE","monthlyConsumptionKwh":4000,"profile":"industrial"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, 2, attempts)
}

func TestRouter_DoesNotRetryScenarioCreation(t *testing.T) {
	attempts := 0
	svc := &stubScenarios{
		createFn: func(context.Context, scenario.CreateRequest) (scenario.Scenario, error) {
			attempts++
			return scenario.Scenario{}, errors.New("db down")
		},
	}
	server := newRouterUnderTest(t, svc, func(cfg *config.Config) {
		cfg.HTTP.Retry = config.RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: time.Millisecond}
	})

	recorder := performRequest(server, http.MethodPost, "/api/v1/scenarios", `{"state":"CE","monthlyConsumptionKwh":4000}`)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.Equal(t, 1, attempts)
}

func TestRouter_RateLimit(t *testing.T) {
	server := newRouterUnderTest(t, &stubScenarios{}, func(cfg *config.Config) {
		cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	})

	recorder := performRequest(server, http.MethodGet, "/api/v1/regions", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = performRequest(server, http.MethodGet, "/api/v1/regions", "")
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	require.NotEmpty(t, recorder.Header().Get("Retry-After"))
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	server := newRouterUnderTest(t, &stubScenarios{}, func(cfg *config.Config) {
		cfg.HTTP.AllowedOrigins = []string{"https://dashboard.example"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/load-curves", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	recorder := httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Equal(t, "https://dashboard.example", recorder.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Origin", recorder.Header().Get("Vary"))
	require.Equal(t, "GET, POST, OPTIONS", recorder.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "Content-Type", recorder.Header().Get("Access-Control-Allow-Headers"))
	require.Equal(t, "600", recorder.Header().Get("Access-Control-Max-Age"))
}

func TestRouter_CORSSimpleRequest(t *testing.T) {
	server := newRouterUnderTest(t, &stubScenarios{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	recorder := httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Retry-After", recorder.Header().Get("Access-Control-Expose-Headers"))
	require.Empty(t, recorder.Header().Get("Vary"))
	require.Empty(t, recorder.Header().Get("Access-Control-Allow-Methods"))
}

func performRequest(server *http.Server, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, req)
	return recorder
}

func newRouterUnderTest(t *testing.T, scenarios scenario.Service, mutate func(*config.Config)) *http.Server {
	t.Helper()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	if mutate != nil {
		mutate(cfg)
	}
	logger := newTestLogger()
	curves := loadcurve.NewService(loadcurve.Config{MinMonthlyConsumptionKWh: 100}, logger)
	handler := NewHandler(curves, scenarios, regional.DefaultTable(), logger)
	return NewRouter(cfg, handler)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubScenarios struct {
	createFn   func(context.Context, scenario.CreateRequest) (scenario.Scenario, error)
	getFn      func(context.Context, uuid.UUID) (scenario.Scenario, error)
	analyzeFn  func(context.Context, uuid.UUID, *scenario.InvestmentInput) (scenario.Analysis, error)
	evaluateFn func(context.Context, scenario.EvaluateRequest) (scenario.Analysis, error)
	trendingFn func(context.Context) ([]scenario.StateCount, error)
}

func (s *stubScenarios) Create(ctx context.Context, req scenario.CreateRequest) (scenario.Scenario, error) {
	if s.createFn != nil {
		return s.createFn(ctx, req)
	}
	return scenario.Scenario{}, nil
}

func (s *stubScenarios) Get(ctx context.Context, id uuid.UUID) (scenario.Scenario, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return scenario.Scenario{ID: id}, nil
}

func (s *stubScenarios) List(context.Context) ([]scenario.Scenario, error) {
	return nil, nil
}

func (s *stubScenarios) Analyze(ctx context.Context, id uuid.UUID, inv *scenario.InvestmentInput) (scenario.Analysis, error) {
	if s.analyzeFn != nil {
		return s.analyzeFn(ctx, id, inv)
	}
	return scenario.Analysis{}, nil
}

func (s *stubScenarios) Evaluate(ctx context.Context, req scenario.EvaluateRequest) (scenario.Analysis, error) {
	if s.evaluateFn != nil {
		return s.evaluateFn(ctx, req)
	}
	return scenario.Analysis{}, nil
}

func (s *stubScenarios) TrendingStates(ctx context.Context) ([]scenario.StateCount, error) {
	if s.trendingFn != nil {
		return s.trendingFn(ctx)
	}
	return nil, nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var payload map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}
