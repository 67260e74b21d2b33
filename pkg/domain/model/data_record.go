package model

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// RecordID is a UUID-based identifier for DataRecord
type RecordID string

// NewRecordID generates a new UUID v4 RecordID
func NewRecordID() RecordID {
	return RecordID(uuid.New().String())
}

// DataRecord is an arbitrary application-defined document. It has no fixed
// schema; callers query it with a field-equality filter rather than a
// single key. SessionID is optional so tooling can keep records that
// outlive any one session.
type DataRecord struct {
	ID        RecordID
	SessionID SessionID
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordFilter matches records whose fields equal every entry of the
// filter map. An empty filter matches everything.
type RecordFilter map[string]any

// Matches reports whether the record satisfies the filter. Fields are
// schemaless, so values are compared with reflect.DeepEqual to handle
// list and map values.
func (f RecordFilter) Matches(r *DataRecord) bool {
	for key, want := range f {
		got, ok := r.Fields[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
