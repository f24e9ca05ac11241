package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/storage"
)

var validate = validator.New()

// ErrInvalid marks input the caller can correct.
var ErrInvalid = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

type SymptomRequest struct {
	Name         string                `json:"name" validate:"required"`
	Category     string                `json:"category,omitempty"`
	Severity     int                   `json:"severity" validate:"required,gte=1,lte=5"`
	Date         string                `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string                `json:"time,omitempty"`
	Notes        string                `json:"notes,omitempty"`
	FoodAction   string                `json:"foodAction,omitempty"`
	CustomFields internal.CustomFields `json:"custom_fields,omitempty"`
}

func ValidateSymptomRequest(req *SymptomRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func ValidateSymptomPatch(patch *internal.SymptomPatch) error {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if err := validate.Struct(patch); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ResolveCustomFields checks every value against the user's definitions and
// returns the typed values. Keys without a definition are rejected.
func ResolveCustomFields(defs []internal.CustomFieldDefinition, fields internal.CustomFields) (internal.CustomFields, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	byName := make(map[string]internal.FieldType, len(defs))
	for _, d := range defs {
		byName[d.Name] = d.Type
	}
	out := make(internal.CustomFields, len(fields))
	for name, v := range fields {
		typ, ok := byName[name]
		if !ok {
			return nil, invalid("unknown custom field %q", name)
		}
		resolved, err := v.Resolve(typ)
		if err != nil {
			return nil, invalid("custom field %q: %v", name, err)
		}
		out[name] = resolved
	}
	return out, nil
}

func resolveForUser(ctx context.Context, fieldRepo storage.CustomFieldRepository, userID string, fields internal.CustomFields) (internal.CustomFields, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	defs, err := fieldRepo.ListFields(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ResolveCustomFields(defs, fields)
}

func CreateSymptom(ctx context.Context, symptomRepo storage.SymptomRepository, fieldRepo storage.CustomFieldRepository, user *internal.User, req *SymptomRequest) (*internal.SymptomRecord, error) {
	custom, err := resolveForUser(ctx, fieldRepo, user.ID, req.CustomFields)
	if err != nil {
		return nil, err
	}
	rec := &internal.SymptomRecord{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Name:         req.Name,
		Category:     req.Category,
		Severity:     req.Severity,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
		FoodAction:   req.FoodAction,
		CustomFields: custom,
		CreatedAt:    time.Now().UTC(),
	}
	if err := symptomRepo.InsertSymptom(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func UpdateSymptom(ctx context.Context, symptomRepo storage.SymptomRepository, fieldRepo storage.CustomFieldRepository, user *internal.User, id string, patch *internal.SymptomPatch) (*internal.SymptomRecord, error) {
	custom, err := resolveForUser(ctx, fieldRepo, user.ID, patch.CustomFields)
	if err != nil {
		return nil, err
	}
	patch.CustomFields = custom
	return symptomRepo.UpdateSymptom(ctx, user.ID, id, patch)
}

// ParseDateRange validates optional from/to query values.
func ParseDateRange(from, to string) (storage.DateRange, error) {
	for _, v := range []string{from, to} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return storage.DateRange{}, invalid("date %q must be YYYY-MM-DD", v)
		}
	}
	if from != "" && to != "" && from > to {
		return storage.DateRange{}, invalid("'from' must not be after 'to'")
	}
	return storage.DateRange{From: from, To: to}, nil
}

// SortByDateDesc orders records newest date first, ties broken by creation time.
func SortByDateDesc(recs []internal.SymptomRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Date != recs[j].Date {
			return recs[i].Date > recs[j].Date
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
}
