package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-disaster-feed/internal/models"
)

const maxLimit = 500

// SnapshotProvider is the read side of provider.Provider.
type SnapshotProvider interface {
	Snapshot() models.Snapshot
	TriggerRefresh()
	CheckReadiness(ctx context.Context) error
}

type Handler struct {
	provider SnapshotProvider
}

func NewHandler(provider SnapshotProvider) *Handler {
	return &Handler{
		provider: provider,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/snapshot", h.getSnapshot)
	api.GET("/disasters", h.getDisasters)
	api.GET("/disasters.geojson", h.getDisastersGeoJSON)
	api.GET("/stats/countries", h.getCountryStats)
	api.GET("/stats/continents", h.getContinentStats)
	api.GET("/stats/types", h.getTypeStats)
	api.GET("/stats/severity", h.getSeverity)
	api.GET("/india", h.getIndia)
	api.POST("/refresh", h.refresh)

	r.GET("/health", h.health)
	r.GET("/readyz", h.readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (h *Handler) getSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot())
}

func (h *Handler) getDisasters(c *gin.Context) {
	records, ok := h.filtered(c)
	if !ok {
		return
	}
	snap := h.provider.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"disasters":   records,
		"count":       len(records),
		"lastUpdated": snap.LastUpdated,
		"state":       snap.State,
	})
}

func (h *Handler) getDisastersGeoJSON(c *gin.Context) {
	records, ok := h.filtered(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, toGeoJSON(records))
}

// filtered applies the kind, country, severity and limit query parameters
// to the current snapshot. It writes a 400 and returns false on bad input.
func (h *Handler) filtered(c *gin.Context) ([]models.DisasterRecord, bool) {
	var (
		kind     models.Kind
		severity models.Severity
		limit    int
	)

	if k := c.Query("kind"); k != "" {
		parsed, ok := models.ParseKind(strings.ToLower(k))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown kind: " + k})
			return nil, false
		}
		kind = parsed
	}
	if s := c.Query("severity"); s != "" {
		severity = models.Severity(strings.ToLower(s))
		if !severity.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown severity: " + s})
			return nil, false
		}
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= maxLimit {
			limit = lim
		}
	}
	country := c.Query("country")

	snap := h.provider.Snapshot()
	source := snap.Records()
	if kind != "" {
		source = snap.RecordsByKind[kind]
	}

	out := make([]models.DisasterRecord, 0, len(source))
	for _, r := range source {
		if severity != "" && r.Severity != severity {
			continue
		}
		if country != "" && !strings.EqualFold(r.Country, country) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, true
}

func (h *Handler) getCountryStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot().CountryStats)
}

func (h *Handler) getContinentStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot().ContinentStats)
}

func (h *Handler) getTypeStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot().TypeStats)
}

func (h *Handler) getSeverity(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot().Severity)
}

func (h *Handler) getIndia(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot().India)
}

func (h *Handler) refresh(c *gin.Context) {
	h.provider.TriggerRefresh()
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh started"})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) readyz(c *gin.Context) {
	if err := h.provider.CheckReadiness(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
