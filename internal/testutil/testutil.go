// Package testutil provides common test helpers and fake hbnb objects.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/joss/hbnb/internal/domain"
	"github.com/joss/hbnb/internal/logging"
	"github.com/joss/hbnb/internal/store"
)

// NewStore returns an empty FileStore backed by file.json in a temp dir,
// plus the buffer its debug-level logs are written to.
func NewStore(t *testing.T) (*store.FileStore, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	path := filepath.Join(t.TempDir(), "file.json")
	logger := logging.NewWithWriter("storage", &logs, logging.LevelDebug)
	return store.NewFileStore(path, domain.DefaultRegistry(), logger), &logs
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// ReadFile reads the content of a file.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

// Seed creates an entity of kind with faked attributes and registers it
// with r without saving.
func Seed(t *testing.T, r store.Repository, kind domain.Kind) domain.Entity {
	t.Helper()
	e, err := domain.DefaultRegistry().New(string(kind))
	require.NoError(t, err)
	for _, attr := range fakeAttributes(kind) {
		e.Meta().Set(attr.name, attr.value)
	}
	r.New(e)
	return e
}

type attribute struct {
	name  string
	value any
}

func fakeAttributes(kind domain.Kind) []attribute {
	switch kind {
	case domain.KindUser:
		return []attribute{
			{domain.FieldEmail, gofakeit.Email()},
			{domain.FieldPassword, gofakeit.Password(true, true, true, false, false, 12)},
			{domain.FieldFirstName, gofakeit.FirstName()},
			{domain.FieldLastName, gofakeit.LastName()},
		}
	case domain.KindState:
		return []attribute{{domain.FieldName, gofakeit.State()}}
	case domain.KindCity:
		return []attribute{
			{domain.FieldStateID, gofakeit.UUID()},
			{domain.FieldName, gofakeit.City()},
		}
	case domain.KindAmenity:
		return []attribute{{domain.FieldName, gofakeit.Noun()}}
	case domain.KindPlace:
		return []attribute{
			{domain.FieldCityID, gofakeit.UUID()},
			{domain.FieldUserID, gofakeit.UUID()},
			{domain.FieldName, gofakeit.Street()},
			{domain.FieldDescription, gofakeit.Sentence(8)},
			{domain.FieldNumberRooms, gofakeit.Number(1, 8)},
			{domain.FieldNumberBathrooms, gofakeit.Number(1, 4)},
			{domain.FieldMaxGuest, gofakeit.Number(1, 16)},
			{domain.FieldPriceByNight, gofakeit.Number(20, 900)},
			{domain.FieldLatitude, gofakeit.Latitude()},
			{domain.FieldLongitude, gofakeit.Longitude()},
		}
	case domain.KindReview:
		return []attribute{
			{domain.FieldPlaceID, gofakeit.UUID()},
			{domain.FieldUserID, gofakeit.UUID()},
			{domain.FieldText, gofakeit.Sentence(12)},
		}
	}
	return nil
}
