// Package store implements the bounded record store: a durable mapping from
// numeric identities to size-limited serialized records, partitioned by
// entity kind, plus the single monotonic identity counter shared by all
// kinds that draw from it.
//
// All access happens inside a unit of work (View or Update). An Update is
// all-or-nothing: if the callback returns an error, none of its writes are
// retained, including identity allocations.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Partition names. Each kind gets its own isolated key space, so identities
// minted by the shared counter never collide across kinds.
const (
	KindUsers    = "users"
	KindRecipes  = "recipes"
	KindContract = "contract"
)

// MaxRecordSize is the upper bound on a record's encoded form, in bytes.
const MaxRecordSize = 1024

// ContractID is the fixed identity of the contract singleton. It lives
// outside the identity counter.
const ContractID uint64 = 0

// ErrReadOnly is returned when a mutation is attempted inside View.
var ErrReadOnly = errors.New("store: mutation inside read-only unit of work")

// TooLargeError reports a record whose encoded form exceeds the partition
// bound. It is kept distinct from business-rule failures so operators can
// spot schema growth problems (see the service error mapping).
type TooLargeError struct {
	Kind  string
	ID    uint64
	Size  int
	Limit int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("store: %s record %d encodes to %d bytes, limit %d", e.Kind, e.ID, e.Size, e.Limit)
}

// Tx is a unit of work over the record store. Implementations are not safe
// for concurrent use; a Tx never outlives its View/Update callback.
type Tx interface {
	// Get returns the record bytes for (kind, id). The boolean reports
	// presence; a missing record is not an error.
	Get(kind string, id uint64) ([]byte, bool, error)

	// Put inserts or overwrites the record for (kind, id) and reports
	// whether a prior value existed. Size bounds are enforced above this
	// layer, by Table.
	Put(kind string, id uint64, record []byte) (bool, error)

	// Ascend visits every record of kind in ascending identity order.
	// Returning an error from fn stops the walk and propagates the error.
	Ascend(kind string, fn func(id uint64, record []byte) error) error

	// NextID returns the current counter value and advances it. The
	// advance is part of the unit of work: a rolled-back Update consumes
	// no identities.
	NextID() (uint64, error)
}

// Backend provides durable units of work. Update callbacks observe a
// consistent snapshot and commit atomically; View callbacks may not mutate.
type Backend interface {
	View(ctx context.Context, fn func(Tx) error) error
	Update(ctx context.Context, fn func(Tx) error) error
}
