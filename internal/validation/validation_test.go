package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/eventus-be/internal/apperr"
)

type sample struct {
	Name     string `json:"name" validate:"required,min=2"`
	Category string `json:"category" validate:"category"`
	When     string `json:"when" validate:"datetime_any"`
	Internal string `json:"-" validate:"omitempty,max=1"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{Name: "A", Category: "Party", When: "soon"})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, "must be at least 2 characters", appErr.Fields["name"])
	assert.Contains(t, appErr.Fields["category"], "Food & Drink")
	assert.Equal(t, "must be an ISO 8601 date", appErr.Fields["when"])

	assert.NoError(t, Struct(sample{Name: "Jazz", Category: "Music", When: "2026-12-01"}))
}

func TestField(t *testing.T) {
	fields := map[string]string{}
	Field(fields, "attendees", -1, "gte=0")
	Field(fields, "title", "ok", "required")
	assert.Equal(t, map[string]string{"attendees": "must be greater than or equal to 0"}, fields)
	assert.Error(t, Result(fields))
	assert.NoError(t, Result(map[string]string{}))
}

func TestParseDateTime(t *testing.T) {
	want := time.Date(2026, 12, 1, 19, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-12-01T19:00:00Z", want},
		{"2026-12-02T00:45:00+05:45", want},
		{"2026-12-01T19:00:00.000Z", want},
		{"2026-12-01T19:00:00", want},
		{"2026-12-01T19:00", want},
		{" 2026-12-01 19:00:00 ", want},
		{"2026-12-01", time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDateTime(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %s", tt.in, got)
	}

	_, err := ParseDateTime("next friday")
	assert.Error(t, err)
}
