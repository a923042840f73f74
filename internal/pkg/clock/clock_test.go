package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_UsesLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC is already the next day in IST (+05:30).
	ts := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-04", DateOf(ts, time.UTC))
	assert.Equal(t, "2024-03-05", DateOf(ts, kolkata))
}

func TestFixed_Advance(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	c := NewFixed(start)
	c.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestAddDays(t *testing.T) {
	cases := []struct {
		date string
		n    int
		want string
	}{
		{"2024-03-01", -1, "2024-02-29"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-03-10", 0, "2024-03-10"},
	}
	for _, c := range cases {
		got, err := AddDays(c.date, c.n)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	_, err := AddDays("2024-13-01", 1)
	assert.Error(t, err)
}

func TestDatesBetween(t *testing.T) {
	from, _ := ParseDate("2024-02-27")
	to, _ := ParseDate("2024-03-01")
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"}, DatesBetween(from, to))
	assert.Empty(t, DatesBetween(to, from))
}
