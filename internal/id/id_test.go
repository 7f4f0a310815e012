package id

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, b := New(), New()
	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}

func TestShortUUID(t *testing.T) {
	u := uuid.MustParse("3f2a9c0d-41b7-4e2a-9a51-0c1d2e3f4a5b")
	assert.Equal(t, "3f2a9c0d41b7", ShortUUID(u))
}

func TestSequence(t *testing.T) {
	next := Sequence("txn")
	assert.Equal(t, "txn-1", next())
	assert.Equal(t, "txn-2", next())

	other := Sequence("sub")
	assert.Equal(t, "sub-1", other())
}

func TestFormatMonthKey(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), "2025-01"},
		{time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), "2025-12"},
		{time.Date(999, 3, 1, 0, 0, 0, 0, time.UTC), "0999-03"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMonthKey(tt.in))
	}
}

func TestParseMonthKey(t *testing.T) {
	got, err := ParseMonthKey("2025-02", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseMonthKey(" 2024-11 ", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.November, got.Month())
}

func TestParseMonthKey_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"2025",
		"2025-13",
		"Jan 2025",
		"2025-01-01",
	}
	for _, input := range badInputs {
		_, err := ParseMonthKey(input, time.UTC)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}
