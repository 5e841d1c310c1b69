// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the marketplace.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Entity lifecycle
	IncUserCreated()
	IncRecipeCreated()
	IncRecipeEdited()
	IncReviewAdded()

	// Settlement
	IncPurchaseCompleted()
	IncPurchaseRejected()
	IncFundingApplied()
	ObservePurchaseDuration(duration time.Duration)

	// Recipe read path
	IncRecipeCacheHit()
	IncRecipeCacheMiss()

	// Event feed pipeline
	IncEventPublished(status string) // status: "success" or "dropped"
	IncEventProcessed(status string) // status: "success" or "failed"
	ObserveEventBatchSize(size int)
	SetEventQueueDepth(depth int64)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
