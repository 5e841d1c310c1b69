package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncRecipeCreated is a no-op.
func (n *NoopRecorder) IncRecipeCreated() {}

// IncRecipeEdited is a no-op.
func (n *NoopRecorder) IncRecipeEdited() {}

// IncReviewAdded is a no-op.
func (n *NoopRecorder) IncReviewAdded() {}

// IncPurchaseCompleted is a no-op.
func (n *NoopRecorder) IncPurchaseCompleted() {}

// IncPurchaseRejected is a no-op.
func (n *NoopRecorder) IncPurchaseRejected() {}

// IncFundingApplied is a no-op.
func (n *NoopRecorder) IncFundingApplied() {}

// ObservePurchaseDuration is a no-op.
func (n *NoopRecorder) ObservePurchaseDuration(duration time.Duration) {}

// IncRecipeCacheHit is a no-op.
func (n *NoopRecorder) IncRecipeCacheHit() {}

// IncRecipeCacheMiss is a no-op.
func (n *NoopRecorder) IncRecipeCacheMiss() {}

// IncEventPublished is a no-op.
func (n *NoopRecorder) IncEventPublished(status string) {}

// IncEventProcessed is a no-op.
func (n *NoopRecorder) IncEventProcessed(status string) {}

// ObserveEventBatchSize is a no-op.
func (n *NoopRecorder) ObserveEventBatchSize(size int) {}

// SetEventQueueDepth is a no-op.
func (n *NoopRecorder) SetEventQueueDepth(depth int64) {}
