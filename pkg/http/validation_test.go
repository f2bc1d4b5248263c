package http

import (
	"testing"

	apperrors "github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct_ProductInput(t *testing.T) {
	tests := []struct {
		name       string
		input      models.ProductInput
		wantFields []string
	}{
		{
			name:  "complete input",
			input: models.ProductInput{Name: "Bánh Flan", Category: "Bánh ngọt", Price: 15000},
		},
		{
			name:       "missing everything",
			input:      models.ProductInput{},
			wantFields: []string{"name", "category", "price"},
		},
		{
			name:       "missing price",
			input:      models.ProductInput{Name: "Bánh Flan", Category: "Bánh ngọt"},
			wantFields: []string{"price"},
		},
		{
			name:       "bad image url",
			input:      models.ProductInput{Name: "a", Category: "b", Price: 1, Image: "not a url"},
			wantFields: []string{"image"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(tt.input)
			if len(tt.wantFields) == 0 {
				assert.False(t, errs.HasErrors())
				assert.Nil(t, errs.AppError())
				return
			}
			assert.Equal(t, tt.wantFields, errs.Fields())
		})
	}
}

func TestValidationErrors_AppError(t *testing.T) {
	errs := ValidateStruct(models.LoginRequest{Username: "lan"})
	require.True(t, errs.HasErrors())

	appErr := errs.AppError()
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, "password is required", appErr.Details)
	assert.Equal(t, "password is required", errs.Error())
}

func TestValidationErrors_EmptyError(t *testing.T) {
	assert.Equal(t, "validation failed", ValidationErrors{}.Error())
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Bánh kem", SanitizeString("  Bánh\x00 kem\x07 "))
	assert.Equal(t, "line1\nline2", SanitizeString("line1\nline2"))
}
