package storage

import (
	"context"
	"errors"

	"github.com/yourname/symptomtracker/internal"
)

var (
	ErrNotFound = errors.New("storage: not found")
	ErrConflict = errors.New("storage: already exists")
)

// DateRange bounds a query by calendar date (YYYY-MM-DD), both ends
// inclusive. Empty bounds are open.
type DateRange struct {
	From string
	To   string
}

func (r DateRange) Contains(date string) bool {
	if r.From != "" && date < r.From {
		return false
	}
	if r.To != "" && date > r.To {
		return false
	}
	return true
}

// SymptomRepository stores symptom records. Every method is scoped to the
// owning user; a record owned by someone else behaves as if it did not exist.
type SymptomRepository interface {
	InsertSymptom(ctx context.Context, rec *internal.SymptomRecord) error
	GetSymptom(ctx context.Context, userID, id string) (*internal.SymptomRecord, error)
	UpdateSymptom(ctx context.Context, userID, id string, patch *internal.SymptomPatch) (*internal.SymptomRecord, error)
	DeleteSymptom(ctx context.Context, userID, id string) error
	// ListSymptoms returns records newest date first.
	ListSymptoms(ctx context.Context, userID string, r DateRange) ([]internal.SymptomRecord, error)
}

type CustomFieldRepository interface {
	// CreateField returns ErrConflict when the user already has a field with
	// the same normalized name.
	CreateField(ctx context.Context, def *internal.CustomFieldDefinition) error
	ListFields(ctx context.Context, userID string) ([]internal.CustomFieldDefinition, error)
	DeleteField(ctx context.Context, userID, id string) error
}
