package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind indicates a class name that is not a registered variant.
	ErrUnknownKind = errors.New("unknown class")

	// ErrBadTimestamp indicates a timestamp not in TimeFormat.
	ErrBadTimestamp = errors.New("malformed timestamp")
)

// Factory returns a zero value of one variant.
type Factory func() Entity

// Registry resolves class names to variant factories.
type Registry struct {
	factories map[Kind]Factory
	order     []Kind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// DefaultRegistry returns a registry with the seven hbnb variants.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindBaseModel, func() Entity { return &BaseModel{} })
	r.Register(KindUser, func() Entity { return &User{} })
	r.Register(KindState, func() Entity { return &State{} })
	r.Register(KindCity, func() Entity { return &City{} })
	r.Register(KindAmenity, func() Entity { return &Amenity{} })
	r.Register(KindPlace, func() Entity { return &Place{} })
	r.Register(KindReview, func() Entity { return &Review{} })
	return r
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind Kind, f Factory) {
	if _, ok := r.factories[kind]; !ok {
		r.order = append(r.order, kind)
	}
	r.factories[kind] = f
}

// Lookup resolves a class name. Matching is exact and case sensitive.
func (r *Registry) Lookup(name string) (Kind, bool) {
	k := Kind(name)
	_, ok := r.factories[k]
	return k, ok
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.order))
	copy(out, r.order)
	return out
}

// New constructs a fresh entity of the named class with a new id and
// created_at == updated_at == now.
func (r *Registry) New(name string) (Entity, error) {
	f, ok := r.factories[Kind(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, name)
	}
	e := f()
	e.Meta().touch()
	return e, nil
}

// FromRecord rebuilds an entity from a persisted record, resolving the
// variant from its __class__ key.
func (r *Registry) FromRecord(rec *Record) (Entity, error) {
	name := rec.GetString(FieldClass)
	f, ok := r.factories[Kind(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	e := f()
	if err := Hydrate(e, rec); err != nil {
		return nil, err
	}
	return e, nil
}

// Hydrate fills e from rec. id is copied verbatim, timestamps are parsed,
// __class__ is ignored and every other key becomes an attribute in record
// order. An empty record yields a fresh identity; a missing id or
// timestamp is filled the same way.
func Hydrate(e Entity, rec *Record) error {
	b := e.Meta()
	b.touch()
	for _, k := range rec.Keys() {
		v, _ := rec.Get(k)
		switch k {
		case FieldClass:
		case FieldID:
			if s, ok := v.(string); ok {
				b.ID = s
			} else {
				b.ID = fmt.Sprint(v)
			}
		case FieldCreatedAt, FieldUpdatedAt:
			s, _ := v.(string)
			t, err := ParseTime(s)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			if k == FieldCreatedAt {
				b.CreatedAt = t
			} else {
				b.UpdatedAt = t
			}
		default:
			b.Set(k, v)
		}
	}
	return nil
}

// ToRecord returns the persisted form of e: id, created_at, updated_at,
// the attributes in assignment order, then __class__.
func ToRecord(e Entity) *Record {
	b := e.Meta()
	rec := NewRecord()
	rec.Set(FieldID, b.ID)
	rec.Set(FieldCreatedAt, FormatTime(b.CreatedAt))
	rec.Set(FieldUpdatedAt, FormatTime(b.UpdatedAt))
	for _, k := range b.Attributes() {
		v, _ := b.attrs.Get(k)
		rec.Set(k, v)
	}
	rec.Set(FieldClass, string(e.Kind()))
	return rec
}
