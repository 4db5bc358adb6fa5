package models

import "github.com/google/uuid"

// EntityID is a two-state identifier for stages, transitions and templates.
// A pending id is generated client-side when the entity is created in the
// editor and is replaced by the backend-assigned id on the first successful
// save. The Persisted flag is editor-side knowledge only; on the wire the
// effective value is transmitted either way.
type EntityID struct {
	Value     string `json:"value"`
	Persisted bool   `json:"persisted"`
}

// NewPendingID generates a fresh client-side identifier.
func NewPendingID() EntityID {
	return EntityID{Value: uuid.New().String(), Persisted: false}
}

// PersistedID wraps an identifier assigned by the backend.
func PersistedID(value string) EntityID {
	return EntityID{Value: value, Persisted: true}
}

func (id EntityID) String() string {
	return id.Value
}

func (id EntityID) IsZero() bool {
	return id.Value == ""
}

// Equal compares by effective value. A pending id and the persisted id that
// replaced it are distinct identities.
func (id EntityID) Equal(other EntityID) bool {
	return id.Value == other.Value
}
