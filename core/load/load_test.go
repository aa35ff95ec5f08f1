package load

import (
	"math"
	"testing"
	"time"

	"github.com/huangsam/likeplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  float64
		malformed bool
	}{
		{name: "integer", input: "42", expected: 42},
		{name: "decimal", input: "3.5", expected: 3.5},
		{name: "negative", input: "-7", expected: -7},
		{name: "padded", input: "  12 ", expected: 12},
		{name: "exponent", input: "1e3", expected: 1000},
		{name: "empty is zero", input: "", expected: 0},
		{name: "blank is zero", input: "   ", expected: 0},
		{name: "letters", input: "abc", malformed: true},
		{name: "trailing text", input: "12 likes", malformed: true},
		{name: "infinity", input: "Infinity", malformed: true},
		{name: "nan literal", input: "NaN", malformed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceNumber(tt.input)
			if tt.malformed {
				assert.ErrorIs(t, err, schema.ErrMalformedNumber)
				assert.True(t, math.IsNaN(got))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoad_MalformedNumberDoesNotStopBatch(t *testing.T) {
	rows := []schema.Row{
		{"AgeGroup": "18-25", "Likes": "abc"},
		{"AgeGroup": "18-25", "Likes": "10"},
	}
	records, report := Load(rows, Schema{Numeric: []string{"Likes"}})

	require.Len(t, records, 2)
	assert.True(t, math.IsNaN(records[0].Number("Likes")))
	assert.Equal(t, 10.0, records[1].Number("Likes"))
	assert.Equal(t, "18-25", records[0].Text("AgeGroup"))

	assert.Equal(t, 2, report.Rows)
	assert.Equal(t, 1, report.MalformedNumbers)
	require.Len(t, report.Issues, 1)
	issue := report.Issues[0]
	assert.Equal(t, 1, issue.Row)
	assert.Equal(t, "Likes", issue.Field)
	assert.Equal(t, "abc", issue.Value)
	assert.ErrorIs(t, issue, schema.ErrMalformedNumber)
}

func TestLoad_Dates(t *testing.T) {
	rows := []schema.Row{
		{"Date": "3/5/2021 (Friday)"},
		{"Date": "not a date"},
	}
	records, report := Load(rows, Schema{Dates: []string{"Date"}})

	d, ok := records[0].Date("Date")
	require.True(t, ok)
	assert.Equal(t, time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC), d)

	_, ok = records[1].Date("Date")
	assert.False(t, ok)
	assert.Equal(t, 1, report.UnparseableDates)
	assert.ErrorIs(t, report.Issues[0], schema.ErrUnparseableDate)
}

func TestLoad_UndeclaredFieldIsNaN(t *testing.T) {
	records, report := Load([]schema.Row{{"Likes": "5"}}, Schema{})
	assert.True(t, math.IsNaN(records[0].Number("Likes")))
	assert.True(t, report.Clean())
}

func TestSchemaColumns(t *testing.T) {
	s := Schema{Required: []string{"Platform", "AvgLikes"}, Numeric: []string{"AvgLikes"}, Dates: []string{"Date"}}
	assert.Equal(t, []string{"Platform", "AvgLikes", "Date"}, s.Columns())
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"3/5/2021 (note)", "3/5/2021"},
		{"posted 12/31/2020", "12/31/2020"},
		{"1/1/2020 and 2/2/2021", "1/1/2020"},
		{"03/07/2022", "03/07/2022"},
		{"3/1/21", "3/1/21"},
		{"nothing", "nothing"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractDate(tt.input))
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		fails    bool
	}{
		{name: "plain", input: "3/1/2021", expected: time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "annotated", input: "3/5/2021 (note)", expected: time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "zero padded", input: "03/07/2022", expected: time.Date(2022, 3, 7, 0, 0, 0, 0, time.UTC)},
		{name: "short year whole string", input: "3/1/21", expected: time.Date(21, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "month rolls over", input: "13/1/2021", expected: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "padded whole string", input: " 4/4/2024 ", expected: time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC)},
		{name: "iso", input: "2021-03-01", fails: true},
		{name: "empty", input: "", fails: true},
		{name: "words", input: "yesterday", fails: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.fails {
				assert.ErrorIs(t, err, schema.ErrUnparseableDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// FuzzParseDate checks that arbitrary text never panics and failures wrap the sentinel.
func FuzzParseDate(f *testing.F) {
	for _, seed := range []string{"3/1/2021", "3/5/2021 (note)", "99/99/9999", "", "//", "1/1/0"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		_, err := ParseDate(s)
		if err != nil && !assert.ErrorIs(t, err, schema.ErrUnparseableDate) {
			t.Fatalf("unexpected error type: %v", err)
		}
	})
}
