package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Plantrich-blimp/plantrich-app/internal/advisor"
	"github.com/Plantrich-blimp/plantrich-app/internal/catalog"
	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
	"github.com/Plantrich-blimp/plantrich-app/internal/engine"
	"github.com/Plantrich-blimp/plantrich-app/internal/profile"
	"github.com/Plantrich-blimp/plantrich-app/internal/recommendation"
	"github.com/Plantrich-blimp/plantrich-app/internal/report"
	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
)

type memoryCatalogs map[contracts.ProductType][]contracts.Product

func (m memoryCatalogs) Load(ctx context.Context, pt contracts.ProductType) (contracts.Catalog, error) {
	products, ok := m[pt]
	if !ok {
		products = []contracts.Product{}
	}
	return contracts.Catalog{ProductType: pt, Products: products, Fingerprint: "test"}, nil
}

func testCatalogs() memoryCatalogs {
	f := contracts.Float
	return memoryCatalogs{
		contracts.ProductMutualFunds: {
			{Name: "Alpha Bluechip", Category: "LargeCap", CAGR: f(10), Rating: f(4.5), ExitLoad: "1% < 1y"},
			{Name: "Beta Emerging", Category: "Midcap", CAGR: f(18), Rating: f(4)},
			{Name: "Gamma Gilt", Category: "Debt", CAGR: f(7), Rating: f(3.5)},
		},
	}
}

func newTestAdvisor(opts advisor.Options) *advisor.Service {
	return advisor.NewService(profile.Defaults(), testCatalogs(), nil, opts, logger.Nop())
}

func newTestHandler() *AdvisorHandler {
	return NewAdvisorHandler(newTestAdvisor(advisor.Options{}), logger.Nop())
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	return httptest.NewRequest(method, target, &buf)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{engine.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", advisor.ErrUnknownProfile), http.StatusBadRequest},
		{advisor.ErrUnknownProductType, http.StatusBadRequest},
		{advisor.ErrUnknownFund, http.StatusBadRequest},
		{recommendation.ErrInvalidID, http.StatusBadRequest},
		{advisor.ErrBudgetExceeded, http.StatusUnprocessableEntity},
		{recommendation.ErrNotFound, http.StatusNotFound},
		{catalog.ErrSheetNotFound, http.StatusNotFound},
		{recommendation.ErrDisabled, http.StatusServiceUnavailable},
		{&catalog.LoadError{ProductType: contracts.ProductAIF, Source: "vault", Err: catalog.ErrSourceNotFound}, http.StatusServiceUnavailable},
		{&catalog.LoadError{ProductType: contracts.ProductAIF, Source: "vault", Err: fmt.Errorf("%w: timeout", catalog.ErrSourceUnavailable)}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestRespondErr_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	respondErr(rec, logger.Nop(), errors.New("dial tcp 10.0.0.1: refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
}

func TestAdvisorHandler_Profiles(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.ListProfiles(rec, httptest.NewRequest(http.MethodGet, "/api/profiles", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Profiles []contracts.AllocationProfile `json:"profiles"`
	}
	decodeBody(t, rec, &list)
	require.Len(t, list.Profiles, 3)
	assert.Equal(t, profile.Aggressive, list.Profiles[0].Name)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/profiles/moderate", nil), map[string]string{"name": "moderate"})
	rec = httptest.NewRecorder()
	h.GetProfile(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var p contracts.AllocationProfile
	decodeBody(t, rec, &p)
	assert.Equal(t, profile.Moderate, p.Name)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/profiles/reckless", nil), map[string]string{"name": "reckless"})
	rec = httptest.NewRecorder()
	h.GetProfile(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdvisorHandler_Allocate(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"valid", AllocationRequest{Profile: "Conservative", Amount: 100000}, http.StatusOK},
		{"unknown profile", AllocationRequest{Profile: "Reckless", Amount: 100000}, http.StatusBadRequest},
		{"negative amount", AllocationRequest{Profile: "Conservative", Amount: -1}, http.StatusBadRequest},
		{"unknown field", map[string]interface{}{"profile": "Moderate", "amount": 1, "currency": "INR"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Allocate(rec, jsonRequest(t, http.MethodPost, "/api/allocation", tt.body))
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	rec := httptest.NewRecorder()
	h.Allocate(rec, jsonRequest(t, http.MethodPost, "/api/allocation", AllocationRequest{Profile: "Conservative", Amount: 100000}))

	var resp struct {
		Entries []contracts.AllocationEntry `json:"entries"`
		Chart   report.PieChart             `json:"chart"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Entries, 4)
	assert.Equal(t, "Debt", resp.Entries[2].Category)
	assert.Equal(t, 60000.0, resp.Entries[2].Amount)
	assert.Len(t, resp.Chart.Slices, 4)
}

func TestAdvisorHandler_ListProducts(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/products/mutual-funds?min_cagr=8&min_rating=4", nil)
	req = mux.SetURLVars(req, map[string]string{"type": "mutual-funds"})
	rec := httptest.NewRecorder()
	h.ListProducts(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ProductsResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, contracts.ProductMutualFunds, resp.ProductType)
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "Alpha Bluechip", resp.Products[0].Name)
	assert.Equal(t, "Beta Emerging", resp.Products[1].Name)
	assert.Contains(t, resp.Categories, "Debt")

	t.Run("bad number", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products/mf?min_cagr=abc", nil)
		req = mux.SetURLVars(req, map[string]string{"type": "mf"})
		rec := httptest.NewRecorder()
		h.ListProducts(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products/bonds", nil)
		req = mux.SetURLVars(req, map[string]string{"type": "bonds"})
		rec := httptest.NewRecorder()
		h.ListProducts(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty type is not an error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products/aif", nil)
		req = mux.SetURLVars(req, map[string]string{"type": "aif"})
		rec := httptest.NewRecorder()
		h.ListProducts(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ProductsResponse
		decodeBody(t, rec, &resp)
		assert.True(t, resp.Empty)
		assert.Empty(t, resp.Products)
	})
}

func TestAdvisorHandler_Project(t *testing.T) {
	h := newTestHandler()

	years := 5
	rec := httptest.NewRecorder()
	h.Project(rec, jsonRequest(t, http.MethodPost, "/api/projection", advisor.ProjectionRequest{Principal: 1000, Rate: 10, Years: &years}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ProjectionResponse
	decodeBody(t, rec, &resp)
	assert.Len(t, resp.Series, 6)
	assert.Equal(t, 1610.51, resp.Final)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, resp.Chart.X)

	negative := -1
	rec = httptest.NewRecorder()
	h.Project(rec, jsonRequest(t, http.MethodPost, "/api/projection", advisor.ProjectionRequest{Principal: 1000, Rate: 10, Years: &negative}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvisorHandler_ProjectRejectsUnboundedHorizon(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name  string
		rate  float64
		years int
	}{
		{"horizon above the configured maximum", 10, 3000000},
		{"values overflow within the maximum", 1000000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years := tt.years
			rec := httptest.NewRecorder()
			require.NotPanics(t, func() {
				h.Project(rec, jsonRequest(t, http.MethodPost, "/api/projection",
					advisor.ProjectionRequest{Principal: 1000, Rate: tt.rate, Years: &years}))
			})
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var resp ErrorResponse
			decodeBody(t, rec, &resp)
			assert.Contains(t, resp.Error, "invalid input")
		})
	}
}

func TestAdvisorHandler_CreateRecommendation(t *testing.T) {
	h := newTestHandler()
	body := advisor.RecommendRequest{
		Profile: "Moderate",
		Amount:  100000,
		Picks: []advisor.Pick{
			{Fund: "Alpha Bluechip", Amount: 20000},
			{Fund: "Gamma Gilt", Amount: 30000},
		},
	}

	t.Run("json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.CreateRecommendation(rec, jsonRequest(t, http.MethodPost, "/api/recommendations", body))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var view RecommendationView
		decodeBody(t, rec, &view)
		assert.NotEmpty(t, view.ID)
		assert.Len(t, view.Rows, 2)
		assert.Len(t, view.CompositionChart.Slices, 2)
		require.NotNil(t, view.AllocationChart)
		assert.Equal(t, 5, view.Years)
	})

	t.Run("csv", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.CreateRecommendation(rec, jsonRequest(t, http.MethodPost, "/api/recommendations?format=csv", body))
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
		assert.Contains(t, rec.Body.String(), "Alpha Bluechip")
		assert.Contains(t, rec.Body.String(), "20000.00")
	})

	t.Run("xlsx", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.CreateRecommendation(rec, jsonRequest(t, http.MethodPost, "/api/recommendations?format=xlsx", body))
		require.Equal(t, http.StatusCreated, rec.Code)

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, []string{report.SummarySheet, report.ProjectionSheet}, f.GetSheetList())
	})

	t.Run("bad format", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.CreateRecommendation(rec, jsonRequest(t, http.MethodPost, "/api/recommendations?format=pdf", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown fund", func(t *testing.T) {
		bad := body
		bad.Picks = []advisor.Pick{{Fund: "Nope Fund", Amount: 1}}
		rec := httptest.NewRecorder()
		h.CreateRecommendation(rec, jsonRequest(t, http.MethodPost, "/api/recommendations", bad))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdvisorHandler_StrictBudget(t *testing.T) {
	h := NewAdvisorHandler(newTestAdvisor(advisor.Options{StrictBudget: true}), logger.Nop())

	rec := httptest.NewRecorder()
	h.CreateRecommendation(rec, jsonRequest(t, http.MethodPost, "/api/recommendations", advisor.RecommendRequest{
		Profile: "Conservative",
		Amount:  100000,
		Picks:   []advisor.Pick{{Fund: "Alpha Bluechip", Amount: 50000}},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdvisorHandler_HistoryWithoutDatabase(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.ListRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ListRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations?limit=-3", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/recommendations/x", nil), map[string]string{"id": "x"})
	rec = httptest.NewRecorder()
	h.GetRecommendation(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type fakeBook struct {
	sections map[string]contracts.Table
	order    []string
}

func (b fakeBook) Sheets(ctx context.Context) ([]string, error) {
	return b.order, nil
}

func (b fakeBook) Section(ctx context.Context, name string) (contracts.Table, error) {
	for _, n := range b.order {
		if strings.EqualFold(n, name) {
			return b.sections[n], nil
		}
	}
	return contracts.Table{}, catalog.ErrSheetNotFound
}

func TestOnboardingHandler(t *testing.T) {
	book := fakeBook{
		order: []string{"Risk Profiling", "KYC"},
		sections: map[string]contracts.Table{
			"Risk Profiling": {Name: "Risk Profiling", Headers: []string{"Question", "Score"}, Rows: [][]string{{"Age", "3"}}},
			"KYC":            {Name: "KYC", Headers: []string{"Document"}, Rows: [][]string{}},
		},
	}
	h := NewOnboardingHandler(book, logger.Nop())

	rec := httptest.NewRecorder()
	h.ListSections(rec, httptest.NewRequest(http.MethodGet, "/api/onboarding", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Sections []string `json:"sections"`
	}
	decodeBody(t, rec, &list)
	assert.Equal(t, book.order, list.Sections)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"section": "risk profiling"})
	rec = httptest.NewRecorder()
	h.GetSection(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var table contracts.Table
	decodeBody(t, rec, &table)
	assert.Equal(t, []string{"Question", "Score"}, table.Headers)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"section": "Taxes"})
	rec = httptest.NewRecorder()
	h.GetSection(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type fakeRefresher struct {
	changed bool
	err     error
	calls   int
}

func (f *fakeRefresher) Refresh(ctx context.Context) (bool, error) {
	f.calls++
	return f.changed, f.err
}

func TestCatalogHandler_Refresh(t *testing.T) {
	refresher := &fakeRefresher{changed: true}
	h := NewCatalogHandler(refresher, logger.Nop())

	rec := httptest.NewRecorder()
	h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/catalog/refresh", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RefreshResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, RefreshResponse{Status: "ok", Changed: true}, resp)
	assert.Equal(t, 1, refresher.calls)

	refresher.err = fmt.Errorf("stat vault: %w", catalog.ErrSourceNotFound)
	rec = httptest.NewRecorder()
	h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/catalog/refresh", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSessionHandler_Compute(t *testing.T) {
	h := NewSessionHandler(newTestAdvisor(advisor.Options{}), nil, logger.Nop())
	ctx := context.Background()

	t.Run("allocation and products", func(t *testing.T) {
		view := h.Compute(ctx, SessionRequest{Seq: 1, Profile: "Aggressive", Amount: 200000})
		assert.Equal(t, 1, view.Seq)
		assert.Empty(t, view.Error)
		require.NotNil(t, view.Allocation)
		assert.Len(t, view.Allocation.Entries, 7)
		require.NotNil(t, view.Products)
		assert.Len(t, view.Products.Products, 3)
		assert.Nil(t, view.Recommendation)
	})

	t.Run("with picks", func(t *testing.T) {
		years := 3
		view := h.Compute(ctx, SessionRequest{
			Seq:     2,
			Profile: "Aggressive",
			Amount:  200000,
			Years:   &years,
			Picks:   []advisor.Pick{{Fund: "Beta Emerging", Amount: 40000}},
		})
		require.NotNil(t, view.Recommendation)
		assert.Empty(t, view.Recommendation.ID)
		assert.Equal(t, 3, view.Recommendation.Years)
	})

	t.Run("partial criteria keep the other defaults", func(t *testing.T) {
		debt := "Debt"
		view := h.Compute(ctx, SessionRequest{
			Seq:      3,
			Profile:  "Moderate",
			Amount:   100000,
			Criteria: &CriteriaPatch{Category: &debt},
		})
		require.Empty(t, view.Error)
		require.NotNil(t, view.Products)
		assert.False(t, view.Products.Empty)
		require.Len(t, view.Products.Products, 1)
		assert.Equal(t, "Gamma Gilt", view.Products.Products[0].Name)

		want := contracts.DefaultFilterCriteria()
		want.Category = "Debt"
		assert.Equal(t, want, view.Products.Criteria)
	})

	t.Run("criteria decoded from the wire", func(t *testing.T) {
		var req SessionRequest
		require.NoError(t, json.Unmarshal([]byte(`{"seq":4,"profile":"Moderate","amount":100000,"criteria":{"min_rating":4}}`), &req))

		view := h.Compute(ctx, req)
		require.NotNil(t, view.Products)
		names := make([]string, 0, len(view.Products.Products))
		for _, p := range view.Products.Products {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"Alpha Bluechip", "Beta Emerging"}, names)
	})

	t.Run("horizon above the maximum is reported", func(t *testing.T) {
		years := 3000000
		view := h.Compute(ctx, SessionRequest{
			Seq:     5,
			Profile: "Moderate",
			Amount:  100000,
			Years:   &years,
			Picks:   []advisor.Pick{{Fund: "Alpha Bluechip", Amount: 10000}},
		})
		assert.Equal(t, http.StatusBadRequest, view.Status)
		assert.Nil(t, view.Recommendation)
	})

	t.Run("invalid request keeps the sequence number", func(t *testing.T) {
		view := h.Compute(ctx, SessionRequest{Seq: 9, Profile: "Moderate", Amount: -5})
		assert.Equal(t, 9, view.Seq)
		assert.Equal(t, http.StatusBadRequest, view.Status)
		assert.NotEmpty(t, view.Error)
	})
}
