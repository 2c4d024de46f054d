package domain

import (
	"strconv"
)

// Variant attribute names.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldName            = "name"
	FieldStateID         = "state_id"
	FieldCityID          = "city_id"
	FieldUserID          = "user_id"
	FieldPlaceID         = "place_id"
	FieldDescription     = "description"
	FieldNumberRooms     = "number_rooms"
	FieldNumberBathrooms = "number_bathrooms"
	FieldMaxGuest        = "max_guest"
	FieldPriceByNight    = "price_by_night"
	FieldLatitude        = "latitude"
	FieldLongitude       = "longitude"
	FieldAmenityIDs      = "amenity_ids"
	FieldText            = "text"
)

// BaseModel is the generic variant with no fields of its own.
type BaseModel struct{ Base }

// User is an account holder.
type User struct{ Base }

// State groups cities.
type State struct{ Base }

// City belongs to a State.
type City struct{ Base }

// Amenity is something a Place can offer.
type Amenity struct{ Base }

// Place is a rentable listing.
type Place struct{ Base }

// Review is a user's text about a Place.
type Review struct{ Base }

func (*BaseModel) Kind() Kind { return KindBaseModel }
func (*User) Kind() Kind { return KindUser }
func (*State) Kind() Kind { return KindState }
func (*City) Kind() Kind { return KindCity }
func (*Amenity) Kind() Kind { return KindAmenity }
func (*Place) Kind() Kind { return KindPlace }
func (*Review) Kind() Kind { return KindReview }

func (u *User) Email() string { return stringValue(Value(u, FieldEmail)) }
func (u *User) Password() string { return stringValue(Value(u, FieldPassword)) }
func (u *User) FirstName() string { return stringValue(Value(u, FieldFirstName)) }
func (u *User) LastName() string { return stringValue(Value(u, FieldLastName)) }

func (s *State) Name() string { return stringValue(Value(s, FieldName)) }

func (c *City) StateID() string { return stringValue(Value(c, FieldStateID)) }
func (c *City) Name() string { return stringValue(Value(c, FieldName)) }

func (a *Amenity) Name() string { return stringValue(Value(a, FieldName)) }

func (p *Place) CityID() string { return stringValue(Value(p, FieldCityID)) }
func (p *Place) UserID() string { return stringValue(Value(p, FieldUserID)) }
func (p *Place) Name() string { return stringValue(Value(p, FieldName)) }
func (p *Place) Description() string { return stringValue(Value(p, FieldDescription)) }
func (p *Place) NumberRooms() int { return intValue(Value(p, FieldNumberRooms)) }
func (p *Place) NumberBathrooms() int { return intValue(Value(p, FieldNumberBathrooms)) }
func (p *Place) MaxGuest() int { return intValue(Value(p, FieldMaxGuest)) }
func (p *Place) PriceByNight() int { return intValue(Value(p, FieldPriceByNight)) }
func (p *Place) Latitude() float64 { return floatValue(Value(p, FieldLatitude)) }
func (p *Place) Longitude() float64 { return floatValue(Value(p, FieldLongitude)) }
func (p *Place) AmenityIDs() []string { return stringsValue(Value(p, FieldAmenityIDs)) }

func (r *Review) PlaceID() string { return stringValue(Value(r, FieldPlaceID)) }
func (r *Review) UserID() string { return stringValue(Value(r, FieldUserID)) }
func (r *Review) Text() string { return stringValue(Value(r, FieldText)) }

// Field describes one schema attribute of a variant and its default.
type Field struct {
	Name    string
	Default any
}

var (
	userFields = []Field{
		{FieldEmail, ""}, {FieldPassword, ""}, {FieldFirstName, ""}, {FieldLastName, ""},
	}
	stateFields   = []Field{{FieldName, ""}}
	cityFields    = []Field{{FieldStateID, ""}, {FieldName, ""}}
	amenityFields = []Field{{FieldName, ""}}
	placeFields   = []Field{
		{FieldCityID, ""}, {FieldUserID, ""}, {FieldName, ""}, {FieldDescription, ""},
		{FieldNumberRooms, 0}, {FieldNumberBathrooms, 0}, {FieldMaxGuest, 0}, {FieldPriceByNight, 0},
		{FieldLatitude, 0.0}, {FieldLongitude, 0.0}, {FieldAmenityIDs, []string{}},
	}
	reviewFields = []Field{{FieldPlaceID, ""}, {FieldUserID, ""}, {FieldText, ""}}
)

// Fields returns the schema of e's variant.
func Fields(e Entity) []Field {
	switch e.(type) {
	case *BaseModel:
		return nil
	case *User:
		return userFields
	case *State:
		return stateFields
	case *City:
		return cityFields
	case *Amenity:
		return amenityFields
	case *Place:
		return placeFields
	case *Review:
		return reviewFields
	}
	return nil
}

// Value returns the attribute name of e, falling back to the schema default
// when it was never assigned. ok is false for names that are neither.
func Value(e Entity, name string) (any, bool) {
	if v, ok := e.Meta().Get(name); ok {
		return v, true
	}
	for _, f := range Fields(e) {
		if f.Name == name {
			return f.Default, true
		}
	}
	return nil, false
}

// Console updates store strings verbatim, so the typed accessors convert
// on read instead of rejecting mismatched values.

func stringValue(v any, _ bool) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	}
	return repr(v)
}

func intValue(v any, _ bool) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	case string:
		if n, err := strconv.Atoi(x); err == nil {
			return n
		}
	}
	return 0
}

func floatValue(v any, _ bool) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return f
		}
	}
	return 0
}

func stringsValue(v any, _ bool) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			out = append(out, stringValue(item, true))
		}
		return out
	}
	return []string{}
}
