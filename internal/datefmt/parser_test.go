package datefmt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimurManjosov/govtag/internal/rules"
)

func TestTokenParser_Parse(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		format       string
		wantValid    bool
		wantTokens   []string
		wantUnusedIn string
	}{
		{name: "exact date", value: "31/01/2020", format: "DD/MM/YYYY", wantValid: true},
		{name: "impossible day", value: "31/02/2020", format: "DD/MM/YYYY", wantValid: false},
		{name: "leap day", value: "29/02/2024", format: "DD/MM/YYYY", wantValid: true},
		{name: "not a leap year", value: "29/02/2023", format: "DD/MM/YYYY", wantValid: false},
		{name: "iso date", value: "2020-01-01", format: "YYYY-MM-DD", wantValid: true},
		{name: "trailing input", value: "2020-01-01X", format: "YYYY-MM-DD", wantValid: true, wantUnusedIn: "X"},
		{name: "missing parts", value: "2020", format: "YYYY-MM-DD", wantValid: true, wantTokens: []string{"-", "MM", "-", "DD"}},
		{name: "skipped prefix", value: "on 2020", format: "YYYY", wantValid: true, wantUnusedIn: "on "},
		{name: "time", value: "23:59:59", format: "HH:mm:ss", wantValid: true},
		{name: "end of day", value: "24:00:00", format: "HH:mm:ss", wantValid: true},
		{name: "past end of day", value: "24:00:01", format: "HH:mm:ss", wantValid: false},
		{name: "minute overflow", value: "10:60:00", format: "HH:mm:ss", wantValid: false},
		{name: "twelve hour clock", value: "07:15 PM", format: "hh:mm A", wantValid: true},
		{name: "escaped literal", value: "2020-01-01T10:00", format: "YYYY-MM-DD[T]HH:mm", wantValid: true},
		{name: "short year", value: "01/01/99", format: "DD/MM/YY", wantValid: true},
		{name: "single digit day and month", value: "1/1/2020", format: "DD/MM/YYYY", wantValid: true},
		{name: "greedy day", value: "123/01/2020", format: "DD/MM/YYYY", wantValid: true, wantUnusedIn: "3"},
		{name: "empty literal bracket", value: "2020", format: "[]YYYY", wantValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := TokenParser{}.Parse(tt.value, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, p.Instant != nil, "instant validity")
			assert.Equal(t, tt.wantTokens, p.UnusedTokens)
			assert.Equal(t, tt.wantUnusedIn, p.UnusedInput)
		})
	}
}

func TestTokenParser_Instant(t *testing.T) {
	p, err := TokenParser{}.Parse("07:15 PM", "hh:mm A")
	require.NoError(t, err)
	require.NotNil(t, p.Instant)
	assert.Equal(t, time.Date(1970, 1, 1, 19, 15, 0, 0, time.UTC), *p.Instant)

	p, err = TokenParser{}.Parse("01/01/99", "DD/MM/YY")
	require.NoError(t, err)
	require.NotNil(t, p.Instant)
	assert.Equal(t, 1999, p.Instant.Year())

	p, err = TokenParser{}.Parse("2020-1-5", "YYYY-MM-DD")
	require.NoError(t, err)
	require.NotNil(t, p.Instant)
	assert.Equal(t, time.Date(2020, 1, 5, 0, 0, 0, 0, time.UTC), *p.Instant)

	p, err = TokenParser{}.Parse("5/6/20", "DD/MM/YYYY")
	require.NoError(t, err)
	require.NotNil(t, p.Instant)
	assert.Equal(t, 2020, p.Instant.Year())

	p, err = TokenParser{}.Parse("01/01/42", "DD/MM/YY")
	require.NoError(t, err)
	require.NotNil(t, p.Instant)
	assert.Equal(t, 2042, p.Instant.Year())
}

func TestMatcher_Matches(t *testing.T) {
	m := NewMatcher(TokenParser{})

	tests := []struct {
		value  string
		format string
		want   bool
	}{
		{"31/02/2020", "DD/MM/YYYY", false},
		{"2020-01-01", "YYYY-MM-DD", true},
		{"2020-01-01X", "YYYY-MM-DD", false},
		{"2020", "YYYY-MM-DD", false},
		{"1/1/2020", "DD/MM/YYYY", true},
		{"1/1/2020", "D/M/YYYY", true},
		{"9:05", "HH:mm", true},
		{"2020-1-5", "YYYY-MM-DD", true},
		{"5/6/20", "DD/MM/YYYY", true},
		{"123/01/2020", "DD/MM/YYYY", false},
		{"01/01/2020 10:00:00", "DD/MM/YYYY HH:mm:ss", true},
		{"", "DD/MM/YYYY", false},
	}

	for _, tt := range tests {
		t.Run(tt.value+" "+tt.format, func(t *testing.T) {
			got, err := m.Matches(tt.value, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatcher_NoParser(t *testing.T) {
	m := NewMatcher(nil)
	assert.False(t, m.Available())

	ok, err := m.Matches("01/01/2020", "DD/MM/YYYY")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, rules.ErrCapabilityMissing))

	_, _, err = m.Instant("01/01/2020", "DD/MM/YYYY")
	assert.ErrorIs(t, err, rules.ErrCapabilityMissing)
}

func TestFormatFor(t *testing.T) {
	f, ok := FormatFor("datetime")
	assert.True(t, ok)
	assert.Equal(t, "DD/MM/YYYY HH:mm:ss", f)

	_, ok = FormatFor("week")
	assert.False(t, ok)
}
