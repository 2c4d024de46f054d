// Package domain defines the hbnb entities, their record form and the
// variant registry used to rebuild them from persisted records.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the variant tag of an entity. It doubles as the class name typed
// at the console and the __class__ value in persisted records.
type Kind string

const (
	KindBaseModel Kind = "BaseModel"
	KindUser      Kind = "User"
	KindState     Kind = "State"
	KindCity      Kind = "City"
	KindAmenity   Kind = "Amenity"
	KindPlace     Kind = "Place"
	KindReview    Kind = "Review"
)

// Reserved record keys.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	FieldClass     = "__class__"
)

// IsReserved reports whether name is owned by Base and may not be assigned
// as a plain attribute.
func IsReserved(name string) bool {
	switch name {
	case FieldID, FieldCreatedAt, FieldUpdatedAt, FieldClass:
		return true
	}
	return false
}

// Entity is the closed set of hbnb variants. Every implementation embeds Base.
type Entity interface {
	Kind() Kind
	Meta() *Base
	sealed()
}

// Base is the record shared by every variant: identity, timestamps and the
// instance attributes in assignment order.
type Base struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	attrs *Record
}

// Meta returns the shared base record.
func (b *Base) Meta() *Base { return b }

func (b *Base) sealed() {}

// Get returns an instance attribute. Reserved names resolve to the base fields.
func (b *Base) Get(name string) (any, bool) {
	switch name {
	case FieldID:
		return b.ID, true
	case FieldCreatedAt:
		return b.CreatedAt, true
	case FieldUpdatedAt:
		return b.UpdatedAt, true
	}
	if b.attrs == nil {
		return nil, false
	}
	return b.attrs.Get(name)
}

// Set assigns an instance attribute. Reserved names are refused.
func (b *Base) Set(name string, value any) bool {
	if IsReserved(name) {
		return false
	}
	if b.attrs == nil {
		b.attrs = NewRecord()
	}
	b.attrs.Set(name, value)
	return true
}

// Attributes returns the names of the assigned instance attributes.
func (b *Base) Attributes() []string {
	if b.attrs == nil {
		return nil
	}
	return b.attrs.Keys()
}

// touch stamps a fresh identity on a newly constructed entity.
func (b *Base) touch() {
	b.ID = uuid.NewString()
	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt
}

// Key returns the repository key "<Kind>.<id>" of e.
func Key(e Entity) string {
	return KeyOf(e.Kind(), e.Meta().ID)
}

// KeyOf builds a repository key from its parts.
func KeyOf(kind Kind, id string) string {
	return string(kind) + "." + id
}

// Registrar is what Save needs from a repository.
type Registrar interface {
	New(e Entity)
	Save() error
}

// Save refreshes updated_at, registers e with r and persists r.
func Save(e Entity, r Registrar) error {
	e.Meta().UpdatedAt = now()
	r.New(e)
	return r.Save()
}

// now is replaced in tests.
var now = func() time.Time {
	return time.Now().Truncate(time.Microsecond)
}
