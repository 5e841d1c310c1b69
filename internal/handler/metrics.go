package handler

import (
	"fmt"
	"net/http"

	"github.com/simmr/simmr/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "simmr_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "simmr_recipes_created_total %d\n", snap.RecipesCreated)
	writeMetric(w, "simmr_recipes_edited_total %d\n", snap.RecipesEdited)
	writeMetric(w, "simmr_reviews_added_total %d\n", snap.ReviewsAdded)

	writeMetric(w, "simmr_purchases_total{status=\"completed\"} %d\n", snap.PurchasesCompleted)
	writeMetric(w, "simmr_purchases_total{status=\"rejected\"} %d\n", snap.PurchasesRejected)
	writeMetric(w, "simmr_fundings_applied_total %d\n", snap.FundingsApplied)
	writeMetric(w, "simmr_purchase_duration_seconds_count %d\n", snap.PurchaseDurationCount)
	writeMetric(w, "simmr_purchase_duration_seconds_sum %.6f\n", float64(snap.PurchaseDurationTotalNs)/1e9)

	writeMetric(w, "simmr_recipe_cache_hits_total %d\n", snap.RecipeCacheHits)
	writeMetric(w, "simmr_recipe_cache_misses_total %d\n", snap.RecipeCacheMisses)

	writeMetric(w, "simmr_market_events_published_total{status=\"success\"} %d\n", snap.EventsPublished)
	writeMetric(w, "simmr_market_events_published_total{status=\"dropped\"} %d\n", snap.EventsDropped)
	writeMetric(w, "simmr_market_events_processed_total{status=\"success\"} %d\n", snap.EventsProcessed)
	writeMetric(w, "simmr_market_events_processed_total{status=\"failed\"} %d\n", snap.EventsProcessedFailed)
	writeMetric(w, "simmr_market_event_batches_total %d\n", snap.EventBatchCount)
	writeMetric(w, "simmr_market_event_queue_depth %d\n", snap.EventQueueDepth)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
