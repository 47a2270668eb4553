package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/barberapp/barbershop-system/internal/core/domain"
	"github.com/barberapp/barbershop-system/internal/core/ports"
)

type stubLoyaltyService struct {
	getProfileFn   func(ctx context.Context, caller ports.Caller, customerID string) (*domain.LoyaltyProfile, error)
	registerFn     func(ctx context.Context, input ports.RegisterHaircutInput) (*ports.RegisterHaircutResult, error)
	availabilityFn func(ctx context.Context, caller ports.Caller, customerID string) (*ports.Availability, error)
	historyFn      func(ctx context.Context, caller ports.Caller, customerID string) ([]ports.HistoryEntry, error)
	statsFn        func(ctx context.Context, caller ports.Caller) (*ports.Stats, error)
}

func (s *stubLoyaltyService) GetOrCreateProfile(ctx context.Context, caller ports.Caller, customerID string) (*domain.LoyaltyProfile, error) {
	return s.getProfileFn(ctx, caller, customerID)
}

func (s *stubLoyaltyService) RegisterHaircut(ctx context.Context, input ports.RegisterHaircutInput) (*ports.RegisterHaircutResult, error) {
	return s.registerFn(ctx, input)
}

func (s *stubLoyaltyService) CheckFreeHaircutAvailability(ctx context.Context, caller ports.Caller, customerID string) (*ports.Availability, error) {
	return s.availabilityFn(ctx, caller, customerID)
}

func (s *stubLoyaltyService) ListHistory(ctx context.Context, caller ports.Caller, customerID string) ([]ports.HistoryEntry, error) {
	return s.historyFn(ctx, caller, customerID)
}

func (s *stubLoyaltyService) AggregateStats(ctx context.Context, caller ports.Caller) (*ports.Stats, error) {
	return s.statsFn(ctx, caller)
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, id, role string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", id)
	c.Set("role", role)
	return c
}

func TestLoyaltyHandler_GetProfile(t *testing.T) {
	e := echo.New()
	stub := &stubLoyaltyService{
		getProfileFn: func(_ context.Context, caller ports.Caller, customerID string) (*domain.LoyaltyProfile, error) {
			if caller.ID != "cust-1" || customerID != "cust-1" {
				t.Fatalf("profile must be scoped to the caller, got %s/%s", caller.ID, customerID)
			}
			return domain.NewLoyaltyProfile("cust-1", time.Now().UTC()), nil
		},
	}
	handler := NewLoyaltyHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/loyalty/profile", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "cust-1", "customer")

	if err := handler.GetProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["customer_id"] != "cust-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["points_to_next_free"] != float64(10) {
		t.Fatalf("expected points_to_next_free 10, got %v", resp["points_to_next_free"])
	}
}

func TestLoyaltyHandler_GetProfile_MissingClaims(t *testing.T) {
	e := echo.New()
	handler := NewLoyaltyHandler(&stubLoyaltyService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/loyalty/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.GetProfile(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestLoyaltyHandler_RegisterHaircut(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	now := time.Now().UTC()
	stub := &stubLoyaltyService{
		registerFn: func(_ context.Context, input ports.RegisterHaircutInput) (*ports.RegisterHaircutResult, error) {
			if input.CustomerID != "cust-1" || input.BarberID != "barb-1" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if !input.WantsFreeHaircut {
				t.Fatalf("wants_free_haircut not bound")
			}
			profile := domain.NewLoyaltyProfile("cust-1", now)
			profile.RegisterVisit(false, now)
			return &ports.RegisterHaircutResult{
				Haircut: &domain.HaircutRecord{
					ID:                 "rec-1",
					CustomerID:         "cust-1",
					BarberID:           "barb-1",
					OccurredAt:         now,
					ServiceDescription: "corte",
					Price:              20,
					PointsEarned:       1,
				},
				Profile: profile,
			}, nil
		},
	}
	handler := NewLoyaltyHandler(stub)

	body := strings.NewReader(`{"barber_id":"barb-1","service_description":"corte","price":20,"wants_free_haircut":true}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/loyalty/haircuts/cust-1", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "barb-1", "barber")
	c.SetParamNames("customer_id")
	c.SetParamValues("cust-1")

	if err := handler.RegisterHaircut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := resp["haircut"]; !ok {
		t.Fatalf("expected haircut in response")
	}
	if _, ok := resp["loyalty"]; !ok {
		t.Fatalf("expected loyalty in response")
	}
}

func TestLoyaltyHandler_RegisterHaircut_InvalidPayload(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	handler := NewLoyaltyHandler(&stubLoyaltyService{
		registerFn: func(context.Context, ports.RegisterHaircutInput) (*ports.RegisterHaircutResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/loyalty/haircuts/cust-1", strings.NewReader("not-json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "barb-1", "barber")

	err := handler.RegisterHaircut(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestLoyaltyHandler_RegisterHaircut_MissingFields(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	handler := NewLoyaltyHandler(&stubLoyaltyService{
		registerFn: func(context.Context, ports.RegisterHaircutInput) (*ports.RegisterHaircutResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	body := strings.NewReader(`{"price":20}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/loyalty/haircuts/cust-1", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "barb-1", "barber")

	err := handler.RegisterHaircut(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestLoyaltyHandler_CheckFreeHaircut(t *testing.T) {
	e := echo.New()
	stub := &stubLoyaltyService{
		availabilityFn: func(_ context.Context, caller ports.Caller, customerID string) (*ports.Availability, error) {
			if customerID != caller.ID {
				t.Fatalf("availability must be scoped to the caller")
			}
			return &ports.Availability{FreeHaircutsAvailable: 2, CurrentPoints: 3, PointsToNextFree: 7}, nil
		},
	}
	handler := NewLoyaltyHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/loyalty/free-haircut", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "cust-1", "customer")

	if err := handler.CheckFreeHaircut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["free_haircuts_available"] != float64(2) || resp["points_to_next_free"] != float64(7) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestLoyaltyHandler_History(t *testing.T) {
	e := echo.New()
	stub := &stubLoyaltyService{
		historyFn: func(_ context.Context, _ ports.Caller, customerID string) ([]ports.HistoryEntry, error) {
			if customerID != "cust-2" {
				t.Fatalf("expected path customer id, got %s", customerID)
			}
			return []ports.HistoryEntry{
				{ID: "rec-1", BarberName: "Marcos", Price: 20, PointsEarned: 1},
			}, nil
		},
	}
	handler := NewLoyaltyHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/loyalty/history/cust-2", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "barb-1", "barber")
	c.SetParamNames("customer_id")
	c.SetParamValues("cust-2")

	if err := handler.History(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["results"] != float64(1) {
		t.Fatalf("expected 1 result, got %v", resp["results"])
	}
}

func TestLoyaltyHandler_Stats(t *testing.T) {
	e := echo.New()
	stub := &stubLoyaltyService{
		statsFn: func(context.Context, ports.Caller) (*ports.Stats, error) {
			return &ports.Stats{
				Haircuts: domain.HaircutStats{TotalHaircuts: 5, TotalPaidHaircuts: 4, TotalFreeHaircuts: 1, TotalRevenue: 80},
				Loyalty:  domain.LoyaltyStats{TotalCustomers: 2},
			}, nil
		},
	}
	handler := NewLoyaltyHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/loyalty/stats", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "adm-1", "admin")

	if err := handler.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := resp["haircut_stats"]; !ok {
		t.Fatalf("expected haircut_stats in response")
	}
	if _, ok := resp["loyalty_stats"]; !ok {
		t.Fatalf("expected loyalty_stats in response")
	}
}
