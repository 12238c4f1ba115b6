package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTime assert that the Time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.Time() != d2.Time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid Time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-01-05", want: New(2025, time.January, 5)},
		{in: "2025-1-5", want: New(2025, time.January, 5)},
		{in: " 2025-12-31 ", want: New(2025, time.December, 31)},
		// Day-of-month is not checked against the month length.
		{in: "2025-02-31", want: New(2025, time.February, 31)},
		{in: "2025-13-01", wantErr: true},
		{in: "2025-00-10", wantErr: true},
		{in: "2025-01-32", wantErr: true},
		{in: "2025-01-00", wantErr: true},
		{in: "2025/01/05", wantErr: true},
		{in: "yesterday", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNonExistingDayIsKeptAsIs(t *testing.T) {
	d := MustParse("2025-02-31")

	assert.NoError(t, d.Validate())
	assert.False(t, d.Exists(), "February 31st is accepted but does not exist")
	assert.Equal(t, "2025-02-31", d.String())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 31, d.Day())

	assert.True(t, MustParse("2024-02-29").Exists())
	assert.False(t, MustParse("2025-02-29").Exists())
	assert.True(t, MustParse("2025-01-31").Exists())
}

func TestParseParts(t *testing.T) {
	testCases := []struct {
		day, month, year string
		want             string
		wantErr          bool
	}{
		{"5", "January", "2025", "2025-01-05", false},
		{"31", "february", "2025", "2025-02-31", false},
		{"7", "Sep", "2024", "2024-09-07", false},
		{"7", "9", "2024", "2024-09-07", false},
		{"0", "May", "2024", "", true},
		{"32", "May", "2024", "", true},
		{"1", "Smarch", "2024", "", true},
		{"1", "13", "2024", "", true},
		{"x", "May", "2024", "", true},
		{"1", "May", "twenty", "", true},
	}
	for _, tc := range testCases {
		got, err := ParseParts(tc.day, tc.month, tc.year)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalid, "ParseParts(%q, %q, %q)", tc.day, tc.month, tc.year)
			continue
		}
		if assert.NoError(t, err) {
			assert.Equal(t, tc.want, got.String())
		}
	}
}

func TestCompare(t *testing.T) {
	feb28 := MustParse("2025-02-28")
	feb31 := MustParse("2025-02-31")
	mar01 := MustParse("2025-03-01")

	assert.True(t, feb28.Before(feb31))
	assert.True(t, feb31.Before(mar01))
	assert.True(t, mar01.After(feb31))
	assert.Equal(t, 0, feb31.Compare(MustParse("2025-2-31")))
	assert.True(t, MustParse("2024-12-31").Before(MustParse("2025-01-01")))
}

func TestJSON(t *testing.T) {
	d := MustParse("2025-02-31")
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-02-31"`, string(b))

	var got Date
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, d, got)

	assert.Error(t, json.Unmarshal([]byte(`"2025-14-01"`), &got))
	assert.Error(t, json.Unmarshal([]byte(`20250101`), &got))
}

func TestScanValue(t *testing.T) {
	d := MustParse("2025-02-31")
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-02-31", v)

	var got Date
	require.NoError(t, got.Scan("2025-02-31"))
	assert.Equal(t, d, got)
	require.NoError(t, got.Scan([]byte("2025-01-05")))
	assert.Equal(t, MustParse("2025-01-05"), got)
	require.NoError(t, got.Scan(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, MustParse("2025-03-04"), got)
	assert.ErrorIs(t, got.Scan(42), ErrInvalid)
}

func TestMonthsAndYears(t *testing.T) {
	months := Months()
	require.Len(t, months, 12)
	assert.Equal(t, "January", months[0])
	assert.Equal(t, "December", months[11])

	years := Years(MustParse("2025-06-01"), 10)
	require.Len(t, years, 10)
	assert.Equal(t, 2025, years[0])
	assert.Equal(t, 2016, years[9])
}

func TestRange(t *testing.T) {
	r := NewRange(MustParse("2025-01-05"), MustParse("2025-01-31"))
	assert.True(t, r.Contains(MustParse("2025-01-05")))
	assert.True(t, r.Contains(MustParse("2025-01-31")))
	assert.False(t, r.Contains(MustParse("2025-02-01")))
	assert.False(t, r.Contains(MustParse("2025-01-04")))

	open := Range{From: MustParse("2025-01-05")}
	assert.True(t, open.Contains(MustParse("2099-01-01")))
	assert.Equal(t, "2025-01-05..", open.String())
	assert.True(t, Range{}.IsZero())
	assert.True(t, Range{}.Contains(MustParse("1999-01-01")))
}
