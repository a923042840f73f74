package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"u-1", false},
		{" u-1 ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2024-03-04", "2000-12-31", "2024-02-29"}
	invalid := []string{"2024-13-01", "2024-01-32", "2023-02-29", "2024/03/04", "04-03-2024", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		assert.True(t, ok, s)
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		assert.False(t, ok, s)
	}
}

func TestIsValidClockTime(t *testing.T) {
	hour, minute, ok := IsValidClockTime("00:05")
	require.True(t, ok)
	assert.Equal(t, 0, hour)
	assert.Equal(t, 5, minute)

	hour, minute, ok = IsValidClockTime("23:59")
	require.True(t, ok)
	assert.Equal(t, 23, hour)
	assert.Equal(t, 59, minute)

	for _, s := range []string{"24:00", "7:3", "midnight", ""} {
		_, _, ok := IsValidClockTime(s)
		assert.False(t, ok, s)
	}
}

func TestValidationErrors_Collect(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	start := "2024-03-01"
	bad := "2024-3-1"
	errs.Required("user_id", " ")
	errs.Required("name", "Asha")
	errs.Date("from", "2024-02-30")
	errs.OptionalDate("start_date", &start)
	errs.OptionalDate("end_date", &bad)
	errs.OptionalDate("unset", nil)

	err := errs.Err()
	require.Error(t, err)
	assert.Equal(t, "user_id: user_id is required; from: from must be in YYYY-MM-DD format; end_date: end_date must be in YYYY-MM-DD format", err.Error())
	assert.Equal(t, map[string]string{
		"user_id":  "user_id is required",
		"from":     "from must be in YYYY-MM-DD format",
		"end_date": "end_date must be in YYYY-MM-DD format",
	}, errs.ToMap())
}
