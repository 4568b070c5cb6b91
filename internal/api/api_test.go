package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/pkg/config"
	"github.com/ougirez/injuries/internal/pkg/constants"
	"github.com/ougirez/injuries/internal/pkg/store"
	"github.com/ougirez/injuries/internal/service/aggregation"
	"github.com/ougirez/injuries/internal/service/profiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Log:      config.LogConfig{Level: "error"},
		HTTP:     config.HTTPConfig{Addr: ":0", AllowOrigins: []string{"http://localhost:3000"}},
		Industry: config.IndustryConfig{MinEmployees: 10},
	}
}

func seededStore(t *testing.T) store.Store {
	t.Helper()
	record := &domain.EstablishmentYearRecord{
		Year:                   2020,
		EstablishmentID:        "A",
		EstablishmentName:      "North Warehouse",
		State:                  "VA",
		ZipCode:                "22030",
		NAICSCode:              "493110",
		AnnualAverageEmployees: 20,
		TotalHoursWorked:       41600,
		TotalInjuries:          2,
	}
	records := []*domain.EstablishmentYearRecord{record}
	years := []domain.Year{2020}
	all := profiles.Build(records, years)

	st := store.NewStore()
	require.NoError(t, st.Put(context.Background(), &store.Snapshot{
		Years:           years,
		Cleaned:         map[domain.Year][]*domain.EstablishmentYearRecord{2020: records},
		Unified:         records,
		Profiles:        all,
		Filtered:        all,
		StateMetrics:    aggregation.ByKeyYear(records, aggregation.StateKey),
		IndustryMetrics: aggregation.ByKeyYear(records, aggregation.IndustryKey),
	}))
	return st
}

func do(t *testing.T, svc *APIService, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	svc.router.ServeHTTP(rec, req)
	return rec
}

func TestEndpoints(t *testing.T) {
	svc, err := NewAPIService(seededStore(t), testConfig())
	require.NoError(t, err)

	for _, target := range []string{
		"/api/v1/years",
		"/api/v1/years/2020/records?search=north&min_rate=0.05&limit=10",
		"/api/v1/establishments?search=warehouse",
		"/api/v1/establishments/A",
		"/api/v1/states/metrics",
		"/api/v1/states/pivot",
		"/api/v1/industries/metrics?year=2020",
		"/api/v1/zips/metrics?state=VA",
		"/api/v1/correlation?year=2020&x=total_injuries&y=annual_average_employees",
	} {
		rec := do(t, svc, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"), target)
	}
}

func TestYearRecordsBody(t *testing.T) {
	svc, err := NewAPIService(seededStore(t), testConfig())
	require.NoError(t, err)

	rec := do(t, svc, "/api/v1/years/2020/records")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	require.NoError(t, sonic.ConfigStd.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "A", body[0]["establishment_id"])
	assert.InDelta(t, 0.1, body[0]["injury_rate"], 1e-12)
}

func TestStatePivotBody(t *testing.T) {
	svc, err := NewAPIService(seededStore(t), testConfig())
	require.NoError(t, err)

	rec := do(t, svc, "/api/v1/states/pivot")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		StatesData map[string]map[string]float64 `json:"states_data"`
		MinYear    int                           `json:"min_year"`
	}
	require.NoError(t, sonic.ConfigStd.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2020, body.MinYear)
	assert.InDelta(t, 0.1, body.StatesData["VA"]["2020"], 1e-12)
}

func TestErrorCodes(t *testing.T) {
	svc, err := NewAPIService(seededStore(t), testConfig())
	require.NoError(t, err)

	for target, code := range map[string]int{
		"/api/v1/years/2016/records":               http.StatusNotFound,
		"/api/v1/years/abc/records":                http.StatusBadRequest,
		"/api/v1/years/2020/records?min_rate=-x":   http.StatusBadRequest,
		"/api/v1/establishments/missing":           http.StatusNotFound,
		"/api/v1/zips/metrics":                     http.StatusBadRequest,
		"/api/v1/zips/metrics?state=PR":            http.StatusBadRequest,
		"/api/v1/correlation?year=2020&x=city&y=z": http.StatusBadRequest,
		"/api/v1/unknown":                          http.StatusNotFound,
	} {
		rec := do(t, svc, target)
		assert.Equal(t, code, rec.Code, target)

		var body struct {
			Code int `json:"code"`
		}
		require.NoError(t, sonic.ConfigStd.Unmarshal(rec.Body.Bytes(), &body), target)
		assert.Equal(t, code, body.Code, target)
	}
}

func TestEmptyStoreIsUnavailable(t *testing.T) {
	svc, err := NewAPIService(store.NewStore(), testConfig())
	require.NoError(t, err)

	for _, target := range []string{
		"/api/v1/years",
		"/api/v1/years/2020/records",
		"/api/v1/establishments",
		"/api/v1/establishments/A",
		"/api/v1/states/metrics",
		"/api/v1/states/pivot",
		"/api/v1/industries/metrics",
		"/api/v1/zips/metrics?state=VA",
		"/api/v1/correlation?year=2020&x=total_injuries&y=annual_average_employees",
	} {
		rec := do(t, svc, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)

		var body struct {
			Code int `json:"code"`
		}
		require.NoError(t, sonic.ConfigStd.Unmarshal(rec.Body.Bytes(), &body), target)
		assert.Equal(t, http.StatusServiceUnavailable, body.Code, target)
	}
}

func TestStoreNotFoundKeepsCause(t *testing.T) {
	svc, err := NewAPIService(seededStore(t), testConfig())
	require.NoError(t, err)

	for target, cause := range map[string]string{
		"/api/v1/years/2016/records":     "year not loaded",
		"/api/v1/establishments/missing": "establishment not found",
	} {
		rec := do(t, svc, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)

		var body domain.ErrorResponse
		require.NoError(t, sonic.ConfigStd.Unmarshal(rec.Body.Bytes(), &body), target)
		assert.Contains(t, body.Message, constants.ErrNotFound.Error(), target)
		assert.Contains(t, body.Message, cause, target)
	}
}
