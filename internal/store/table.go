package store

import (
	"encoding/json"
	"fmt"

	"github.com/simmr/simmr/internal/model"
)

// Table is a typed view over one partition of the record store. It owns the
// record codec and enforces the per-kind size bound at the write boundary.
type Table[T any] struct {
	Kind  string
	Limit int
}

// Entry pairs an identity with its decoded record.
type Entry[T any] struct {
	ID     uint64
	Record *T
}

// Put encodes record, rejects it with a TooLargeError if the encoded form
// exceeds the partition bound, and otherwise inserts or overwrites.
// The returned boolean reports whether a prior value existed.
func (t Table[T]) Put(tx Tx, id uint64, record *T) (bool, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("encode %s record %d: %w", t.Kind, id, err)
	}
	if t.Limit > 0 && len(data) > t.Limit {
		return false, &TooLargeError{Kind: t.Kind, ID: id, Size: len(data), Limit: t.Limit}
	}
	return tx.Put(t.Kind, id, data)
}

// Get decodes the record for id. The boolean reports presence.
func (t Table[T]) Get(tx Tx, id uint64) (*T, bool, error) {
	data, ok, err := tx.Get(t.Kind, id)
	if err != nil || !ok {
		return nil, false, err
	}
	record := new(T)
	if err := json.Unmarshal(data, record); err != nil {
		return nil, false, fmt.Errorf("decode %s record %d: %w", t.Kind, id, err)
	}
	return record, true, nil
}

// All returns every entry of the partition in ascending identity order.
func (t Table[T]) All(tx Tx) ([]Entry[T], error) {
	var entries []Entry[T]
	err := tx.Ascend(t.Kind, func(id uint64, data []byte) error {
		record := new(T)
		if err := json.Unmarshal(data, record); err != nil {
			return fmt.Errorf("decode %s record %d: %w", t.Kind, id, err)
		}
		entries = append(entries, Entry[T]{ID: id, Record: record})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// The three entity tables. All share MaxRecordSize as their bound.
var (
	Users     = Table[model.User]{Kind: KindUsers, Limit: MaxRecordSize}
	Recipes   = Table[model.Recipe]{Kind: KindRecipes, Limit: MaxRecordSize}
	Contracts = Table[model.Contract]{Kind: KindContract, Limit: MaxRecordSize}
)
