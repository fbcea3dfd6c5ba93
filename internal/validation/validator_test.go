package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/promptbox/promptbox/internal/errors"
	"github.com/promptbox/promptbox/internal/validation"
)

type testForm struct {
	Title  string `form:"title" validate:"required,max=20"`
	Body   string `form:"prompt" validate:"required"`
	Tags   string `form:"tags"`
	Secret string `form:"-" validate:"omitempty,min=3"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(testForm{Title: "Review", Body: "Review this diff"})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		form      testForm
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing title",
			form:      testForm{Body: "body"},
			wantField: "title",
			wantMsg:   "is required",
		},
		{
			name:      "missing body reported by form name",
			form:      testForm{Title: "t"},
			wantField: "prompt",
			wantMsg:   "is required",
		},
		{
			name:      "title too long",
			form:      testForm{Title: "this title is far too long", Body: "b"},
			wantField: "title",
			wantMsg:   "must not exceed 20 characters",
		},
		{
			name:      "dash tag falls back to struct field name",
			form:      testForm{Title: "t", Body: "b", Secret: "x"},
			wantField: "Secret",
			wantMsg:   "must be at least 3 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.form)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrMissing))

			var domainErr *domainerrors.Error
			require.True(t, domainerrors.As(err, &domainErr))

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}
