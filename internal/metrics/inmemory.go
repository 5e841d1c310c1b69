package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated            uint64
	RecipesCreated          uint64
	RecipesEdited           uint64
	ReviewsAdded            uint64
	PurchasesCompleted      uint64
	PurchasesRejected       uint64
	FundingsApplied         uint64
	PurchaseDurationCount   uint64
	PurchaseDurationTotalNs int64
	RecipeCacheHits         uint64
	RecipeCacheMisses       uint64
	EventsPublished         uint64
	EventsDropped           uint64
	EventsProcessed         uint64
	EventsProcessedFailed   uint64
	EventBatchCount         uint64
	EventQueueDepth         int64
}

// InMemoryRecorder stores metrics in process memory.
type InMemoryRecorder struct {
	usersCreated            uint64
	recipesCreated          uint64
	recipesEdited           uint64
	reviewsAdded            uint64
	purchasesCompleted      uint64
	purchasesRejected       uint64
	fundingsApplied         uint64
	purchaseDurationCount   uint64
	purchaseDurationTotalNs int64
	recipeCacheHits         uint64
	recipeCacheMisses       uint64
	eventsPublished         uint64
	eventsDropped           uint64
	eventsProcessed         uint64
	eventsProcessedFailed   uint64
	eventBatchCount         uint64
	eventQueueDepth         int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:            atomic.LoadUint64(&m.usersCreated),
		RecipesCreated:          atomic.LoadUint64(&m.recipesCreated),
		RecipesEdited:           atomic.LoadUint64(&m.recipesEdited),
		ReviewsAdded:            atomic.LoadUint64(&m.reviewsAdded),
		PurchasesCompleted:      atomic.LoadUint64(&m.purchasesCompleted),
		PurchasesRejected:       atomic.LoadUint64(&m.purchasesRejected),
		FundingsApplied:         atomic.LoadUint64(&m.fundingsApplied),
		PurchaseDurationCount:   atomic.LoadUint64(&m.purchaseDurationCount),
		PurchaseDurationTotalNs: atomic.LoadInt64(&m.purchaseDurationTotalNs),
		RecipeCacheHits:         atomic.LoadUint64(&m.recipeCacheHits),
		RecipeCacheMisses:       atomic.LoadUint64(&m.recipeCacheMisses),
		EventsPublished:         atomic.LoadUint64(&m.eventsPublished),
		EventsDropped:           atomic.LoadUint64(&m.eventsDropped),
		EventsProcessed:         atomic.LoadUint64(&m.eventsProcessed),
		EventsProcessedFailed:   atomic.LoadUint64(&m.eventsProcessedFailed),
		EventBatchCount:         atomic.LoadUint64(&m.eventBatchCount),
		EventQueueDepth:         atomic.LoadInt64(&m.eventQueueDepth),
	}
}

// IncUserCreated increments the user creation counter.
func (m *InMemoryRecorder) IncUserCreated() { atomic.AddUint64(&m.usersCreated, 1) }

// IncRecipeCreated increments the recipe creation counter.
func (m *InMemoryRecorder) IncRecipeCreated() { atomic.AddUint64(&m.recipesCreated, 1) }

// IncRecipeEdited increments the recipe edit counter.
func (m *InMemoryRecorder) IncRecipeEdited() { atomic.AddUint64(&m.recipesEdited, 1) }

// IncReviewAdded increments the review counter.
func (m *InMemoryRecorder) IncReviewAdded() { atomic.AddUint64(&m.reviewsAdded, 1) }

// IncPurchaseCompleted increments the settled purchase counter.
func (m *InMemoryRecorder) IncPurchaseCompleted() { atomic.AddUint64(&m.purchasesCompleted, 1) }

// IncPurchaseRejected increments the rejected purchase counter.
func (m *InMemoryRecorder) IncPurchaseRejected() { atomic.AddUint64(&m.purchasesRejected, 1) }

// IncFundingApplied increments the funding counter.
func (m *InMemoryRecorder) IncFundingApplied() { atomic.AddUint64(&m.fundingsApplied, 1) }

// ObservePurchaseDuration records the duration of a purchase attempt.
func (m *InMemoryRecorder) ObservePurchaseDuration(duration time.Duration) {
	atomic.AddUint64(&m.purchaseDurationCount, 1)
	atomic.AddInt64(&m.purchaseDurationTotalNs, duration.Nanoseconds())
}

// IncRecipeCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncRecipeCacheHit() { atomic.AddUint64(&m.recipeCacheHits, 1) }

// IncRecipeCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncRecipeCacheMiss() { atomic.AddUint64(&m.recipeCacheMisses, 1) }

// IncEventPublished counts a published (or dropped) market event.
func (m *InMemoryRecorder) IncEventPublished(status string) {
	if status == "success" {
		atomic.AddUint64(&m.eventsPublished, 1)
		return
	}
	atomic.AddUint64(&m.eventsDropped, 1)
}

// IncEventProcessed counts a processed (or failed) market event.
func (m *InMemoryRecorder) IncEventProcessed(status string) {
	if status == "success" {
		atomic.AddUint64(&m.eventsProcessed, 1)
		return
	}
	atomic.AddUint64(&m.eventsProcessedFailed, 1)
}

// ObserveEventBatchSize records a consumed batch.
func (m *InMemoryRecorder) ObserveEventBatchSize(size int) {
	atomic.AddUint64(&m.eventBatchCount, 1)
}

// SetEventQueueDepth records the current stream backlog.
func (m *InMemoryRecorder) SetEventQueueDepth(depth int64) {
	atomic.StoreInt64(&m.eventQueueDepth, depth)
}
