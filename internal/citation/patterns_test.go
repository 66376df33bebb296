package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindNamed(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantName string
		wantCode string
	}{
		{
			name:     "bracketed year",
			in:       "as held in Smith v Jones [1999] 2 JLR 345.",
			wantName: "Smith v Jones",
			wantCode: "[1999] 2 JLR 345",
		},
		{
			name:     "parenthesized year",
			in:       "See Brown v Green (2003) 4 JLR 77.",
			wantName: "Brown v Green",
			wantCode: "(2003) 4 JLR 77",
		},
		{
			name:     "typographic apostrophe",
			in:       "O’Brien v Smith [2005] JLR 12",
			wantName: "O’Brien v Smith",
			wantCode: "[2005] JLR 12",
		},
		{
			name:     "generic capitalized run",
			in:       "Re Esteem Settlement [2002] JLR 53",
			wantName: "Re Esteem Settlement",
			wantCode: "[2002] JLR 53",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindNamed(tt.in)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantName, CleanName(got[0].Name))
			assert.Equal(t, tt.wantCode, got[0].Code)
		})
	}
}

func TestFindNamed_NoMatch(t *testing.T) {
	assert.Empty(t, FindNamed("nothing cited here, only 1999 and JLR"))
}

func TestFindUnnamed(t *testing.T) {
	got := FindUnnamed("first [1999] 2 JLR 345 then (2004) JLR 1 and done")
	assert.Equal(t, []string{"[1999] 2 JLR 345", "(2004) JLR 1"}, got)
}

func TestParseYearReporter(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantReporter string
		wantYear     int
	}{
		{"bracketed with volume", "[1999] 2 JLR 345", "JLR", 1999},
		{"bracketed without volume", "[2020] JRC 001", "JRC", 2020},
		{"parenthesized", "(1999) 2 JLR 345", "JLR", 1999},
		{"dotted abbreviation", "[1999] 2 J.L.R. 345", "J.L.R.", 1999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter, year, ok := ParseYearReporter(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.wantReporter, reporter)
			require.NotNil(t, year)
			assert.Equal(t, tt.wantYear, *year)
		})
	}
}

func TestParseYearReporter_NoMatch(t *testing.T) {
	reporter, year, ok := ParseYearReporter("no year here")
	assert.False(t, ok)
	assert.Empty(t, reporter)
	assert.Nil(t, year)
}
