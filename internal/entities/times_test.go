package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	ts, err := ParseTime("2026-03-10T10:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), ts)

	ts, err = ParseTime("2026-03-10T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), ts)

	// Zoned RFC3339 input normalizes to UTC.
	ts, err = ParseTime("2026-03-10T10:00:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC), ts)

	_, err = ParseTime("10/03/2026 10:00")
	require.Error(t, err)
	_, err = ParseTime("")
	require.Error(t, err)
}

func TestFormatTimeRoundTrips(t *testing.T) {
	ts := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	s := FormatTime(ts)
	assert.Equal(t, "2026-03-10T10:00:00", s)

	parsed, err := ParseTime(s)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}
