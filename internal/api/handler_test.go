package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-disaster-feed/internal/aggregate"
	"github.com/mr1hm/go-disaster-feed/internal/geo"
	"github.com/mr1hm/go-disaster-feed/internal/models"
)

// mockProvider serves a fixed snapshot.
type mockProvider struct {
	snap      models.Snapshot
	ready     bool
	refreshes atomic.Int64
}

func (m *mockProvider) Snapshot() models.Snapshot { return m.snap }
func (m *mockProvider) TriggerRefresh()           { m.refreshes.Add(1) }

func (m *mockProvider) CheckReadiness(ctx context.Context) error {
	if !m.ready {
		return errors.New("no snapshot available yet")
	}
	return nil
}

func newMockProvider(records ...models.DisasterRecord) *mockProvider {
	snap := aggregate.New(geo.NewTagger(geo.DefaultTables())).Aggregate(records)
	snap.State = models.StateReady
	snap.LastUpdated = time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	return &mockProvider{snap: snap, ready: true}
}

func sampleRecords() []models.DisasterRecord {
	now := time.Date(2024, 10, 1, 11, 0, 0, 0, time.UTC)
	return []models.DisasterRecord{
		{ID: "usgs_1", Kind: models.KindEarthquake, Location: "Tokyo, Japan", Country: "Japan", Severity: models.SeverityHigh,
			Coordinates: &models.Coordinates{Latitude: 35.6, Longitude: 139.6}, Magnitude: models.Float(6.4), ObservedAt: now},
		{ID: "usgs_2", Kind: models.KindEarthquake, Location: "Shimla", Country: "India", State: "Himachal Pradesh", Severity: models.SeverityMedium,
			Coordinates: &models.Coordinates{Latitude: 31.1, Longitude: 77.1}, Magnitude: models.Float(4.6), ObservedAt: now},
		{ID: "noaa_1", Kind: models.KindWeatherAlert, Location: "Harris County, TX", Country: "USA", Severity: models.SeverityMedium, ObservedAt: now},
		{ID: "reliefweb_1", Kind: models.KindFlood, Location: "Assam", Country: "India", State: "Assam", Severity: models.SeverityHigh, ObservedAt: now},
	}
}

func setupTestRouter(p SnapshotProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(p)
	handler.RegisterRoutes(router)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	router.ServeHTTP(w, req)
	return w
}

type disastersResponse struct {
	Disasters []models.DisasterRecord `json:"disasters"`
	Count     int                     `json:"count"`
	State     models.ProviderState    `json:"state"`
}

func TestGetSnapshot(t *testing.T) {
	router := setupTestRouter(newMockProvider(sampleRecords()...))

	w := get(router, "/api/snapshot")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if snap.Total != 4 {
		t.Errorf("expected 4 records, got %d", snap.Total)
	}
	if snap.State != models.StateReady {
		t.Errorf("expected state ready, got %s", snap.State)
	}
	if len(snap.RecordsByKind[models.KindEarthquake]) != 2 {
		t.Errorf("expected 2 earthquakes, got %d", len(snap.RecordsByKind[models.KindEarthquake]))
	}
}

func TestGetDisasters_Filters(t *testing.T) {
	router := setupTestRouter(newMockProvider(sampleRecords()...))

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 4},
		{"kind", "?kind=earthquake", 2},
		{"plural kind", "?kind=earthquakes", 2},
		{"country case-insensitive", "?country=india", 2},
		{"severity", "?severity=high", 2},
		{"combined", "?kind=flood&country=India&severity=high", 1},
		{"limit", "?limit=3", 3},
		{"out of range limit ignored", "?limit=0", 4},
		{"no match", "?country=Peru", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, "/api/disasters"+tt.query)
			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			var resp disastersResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if resp.Count != tt.want || len(resp.Disasters) != tt.want {
				t.Errorf("expected %d disasters, got count=%d len=%d", tt.want, resp.Count, len(resp.Disasters))
			}
		})
	}
}

func TestGetDisasters_BadParams(t *testing.T) {
	router := setupTestRouter(newMockProvider(sampleRecords()...))

	for _, q := range []string{"?kind=meteor", "?severity=extreme"} {
		w := get(router, "/api/disasters"+q)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", q, w.Code)
		}
	}
}

func TestGetDisasters_EmptySnapshotReturnsEmptyList(t *testing.T) {
	router := setupTestRouter(newMockProvider())

	w := get(router, "/api/disasters")

	var resp map[string]json.RawMessage
	json.Unmarshal(w.Body.Bytes(), &resp)
	if string(resp["disasters"]) != "[]" {
		t.Errorf("expected empty JSON array, got %s", resp["disasters"])
	}
}

func TestGetDisastersGeoJSON(t *testing.T) {
	router := setupTestRouter(newMockProvider(sampleRecords()...))

	w := get(router, "/api/disasters.geojson")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	contentType := w.Header().Get("Content-Type")
	if contentType != "application/geo+json" {
		t.Errorf("expected content-type application/geo+json, got %s", contentType)
	}

	var fc FeatureCollection
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if fc.Type != "FeatureCollection" {
		t.Errorf("expected type FeatureCollection, got %s", fc.Type)
	}
	// Records without coordinates are skipped.
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}

	f := fc.Features[0]
	if f.Geometry.Coordinates[0] != 139.6 || f.Geometry.Coordinates[1] != 35.6 {
		t.Errorf("expected [lon, lat] = [139.6, 35.6], got %v", f.Geometry.Coordinates)
	}
	if f.Properties["magnitude"] != 6.4 {
		t.Errorf("expected magnitude 6.4, got %v", f.Properties["magnitude"])
	}
	if _, ok := f.Properties["state"]; ok {
		t.Error("expected no state property for a non-Indian record")
	}
	if fc.Features[1].Properties["state"] != "Himachal Pradesh" {
		t.Errorf("expected state Himachal Pradesh, got %v", fc.Features[1].Properties["state"])
	}
}

func TestGetCountryStats(t *testing.T) {
	router := setupTestRouter(newMockProvider(sampleRecords()...))

	w := get(router, "/api/stats/countries")

	var stats []models.CountryStat
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected 3 countries, got %d", len(stats))
	}
	if stats[0].Country != "India" || stats[0].Total != 2 {
		t.Errorf("expected India with 2 first, got %s with %d", stats[0].Country, stats[0].Total)
	}
}

func TestGetStatsEndpoints(t *testing.T) {
	router := setupTestRouter(newMockProvider(sampleRecords()...))

	for _, path := range []string{"/api/stats/continents", "/api/stats/types", "/api/stats/severity", "/api/india"} {
		w := get(router, path)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", path, w.Code)
		}
	}

	var india models.IndiaData
	json.Unmarshal(get(router, "/api/india").Body.Bytes(), &india)
	if india.Total != 2 {
		t.Errorf("expected 2 Indian records, got %d", india.Total)
	}
	if !india.IsActive {
		t.Error("expected India to be active")
	}

	var types []models.TypeStat
	json.Unmarshal(get(router, "/api/stats/types").Body.Bytes(), &types)
	if len(types) != len(models.AllKinds) {
		t.Errorf("expected %d type stats, got %d", len(models.AllKinds), len(types))
	}
}

func TestRefresh(t *testing.T) {
	p := newMockProvider()
	router := setupTestRouter(p)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/refresh", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Errorf("expected status 202, got %d", w.Code)
	}
	if p.refreshes.Load() != 1 {
		t.Errorf("expected 1 refresh, got %d", p.refreshes.Load())
	}
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(newMockProvider())

	w := get(router, "/health")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %s", resp["status"])
	}
}

func TestReadyz(t *testing.T) {
	p := newMockProvider()
	p.ready = false
	router := setupTestRouter(p)

	if w := get(router, "/readyz"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503 before the first cycle, got %d", w.Code)
	}

	p.ready = true
	if w := get(router, "/readyz"); w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(newMockProvider())

	w := get(router, "/metrics")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(2))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, get(router, "/ping").Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("expected burst of 2 to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected third request to be limited, got %d", codes[2])
	}
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(0))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 20; i++ {
		if code := get(router, "/ping").Code; code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
}
