package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseDate_Valid verifies YYYY-MM-DD parsing
func TestParseDate_Valid(t *testing.T) {
	d, err := ParseDate("2025-12-17")
	require.NoError(t, err)

	assert.Equal(t, Date{Year: 2025, Month: time.December, Day: 17}, d)
	assert.Equal(t, "2025-12-17", d.String())
}

// TestParseDate_Invalid verifies malformed dates are rejected
func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "2025/12/17", "2025-13-01", "17-12-2025", "2025-12-17 10:00:00"} {
		_, err := ParseDate(input)
		assert.Error(t, err, "should reject %q", input)
	}
}

// TestClassify_AcrossMonthsAndYears verifies ordering across year, month
// and day
func TestClassify_AcrossMonthsAndYears(t *testing.T) {
	at := func(showTime string) ListItem {
		publishTime, err := time.ParseInLocation(ListTimeLayout, showTime, time.UTC)
		require.NoError(t, err)
		return ListItem{URL: showTime, PublishTime: publishTime}
	}
	base := Date{Year: 2025, Month: time.December, Day: 17}

	assert.Equal(t, itemMatching, classify(at("2025-12-17 00:00:00"), base))
	assert.Equal(t, itemMatching, classify(at("2025-12-17 23:59:59"), base))
	assert.Equal(t, itemNewer, classify(at("2025-12-18 00:00:00"), base))
	assert.Equal(t, itemNewer, classify(at("2026-01-01 00:00:00"), base))
	assert.Equal(t, itemOlder, classify(at("2025-12-16 23:59:59"), base))
	assert.Equal(t, itemOlder, classify(at("2024-12-31 12:00:00"), base))
	assert.Equal(t, itemOlder, classify(at("2025-11-30 12:00:00"), base))
}

// TestToday verifies the current date follows the location
func TestToday(t *testing.T) {
	ahead := time.FixedZone("ahead", 14*3600)
	behind := time.FixedZone("behind", -12*3600)

	assert.True(t, Today(ahead).After(Today(behind)))
	assert.NotPanics(t, func() { Today(nil) })
}

// TestDateOf_IgnoresTimeOfDay verifies the time component is dropped
func TestDateOf_IgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2025, 12, 17, 0, 0, 1, 0, time.UTC)
	night := time.Date(2025, 12, 17, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, DateOf(morning), DateOf(night))
}
