package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/storage"
)

func TestNormalizeFieldName(t *testing.T) {
	assert.Equal(t, "slept_well", NormalizeFieldName("Slept Well"))
	assert.Equal(t, "water_glasses_today", NormalizeFieldName("  Water \t Glasses  Today "))
	assert.Equal(t, "mood", NormalizeFieldName("MOOD"))
}

func TestValidateCustomFieldRequest(t *testing.T) {
	assert.NoError(t, ValidateCustomFieldRequest(&CustomFieldRequest{Name: "Mood"}))
	assert.ErrorIs(t, ValidateCustomFieldRequest(&CustomFieldRequest{Name: " "}), ErrInvalid)
	assert.ErrorIs(t, ValidateCustomFieldRequest(&CustomFieldRequest{Name: "Mood", Type: "date"}), ErrInvalid)
}

func TestCreateCustomField_DefaultsAndConflict(t *testing.T) {
	repo := setupRepos(t)
	ctx := context.Background()
	user := &internal.User{ID: "u1"}

	def, err := CreateCustomField(ctx, repo, user, &CustomFieldRequest{Name: "Slept Well"})
	require.NoError(t, err)
	assert.Equal(t, "slept_well", def.Name)
	assert.Equal(t, "Slept Well", def.DisplayName)
	assert.Equal(t, internal.FieldText, def.Type)

	_, err = CreateCustomField(ctx, repo, user, &CustomFieldRequest{Name: "slept  well", Type: internal.FieldSelect})
	assert.ErrorIs(t, err, storage.ErrConflict)
}
