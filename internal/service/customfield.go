package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/storage"
)

type CustomFieldRequest struct {
	Name        string             `json:"name" validate:"required"`
	DisplayName string             `json:"display_name,omitempty"`
	Type        internal.FieldType `json:"type" validate:"omitempty,oneof=text number select"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeFieldName lowercases name and joins words with underscores.
func NormalizeFieldName(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
}

func ValidateCustomFieldRequest(req *CustomFieldRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func CreateCustomField(ctx context.Context, fieldRepo storage.CustomFieldRepository, user *internal.User, req *CustomFieldRequest) (*internal.CustomFieldDefinition, error) {
	typ := req.Type
	if typ == "" {
		typ = internal.FieldText
	}
	display := strings.TrimSpace(req.DisplayName)
	if display == "" {
		display = req.Name
	}
	def := &internal.CustomFieldDefinition{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Name:        NormalizeFieldName(req.Name),
		DisplayName: display,
		Type:        typ,
		CreatedAt:   time.Now().UTC(),
	}
	if err := fieldRepo.CreateField(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}
