package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commute-logger/internal/models"
)

func TestBuildDaysCompleteness(t *testing.T) {
	r := DateRange{Start: day("2024-05-08"), End: day("2024-05-15")}

	days := BuildDays(r, nil)
	require.Len(t, days, 7)

	// Newest day first
	assert.Equal(t, "2024-05-15", days[0].Date)
	assert.Equal(t, "2024-05-09", days[6].Date)

	for _, d := range days {
		assert.Equal(t, d.Date, d.ID)
		assert.Equal(t, models.DirectionToWork, d.ToWork.Direction)
		assert.Equal(t, models.DirectionFromWork, d.FromWork.Direction)
	}
}

func TestBuildDaysUsesPersistedRecordVerbatim(t *testing.T) {
	transport := models.TransportBike
	persisted := models.RouteItem{
		ID:        "rec-42",
		Date:      day("2024-05-10").Add(9 * time.Hour), // time-of-day must be ignored
		Direction: models.DirectionToWork,
		Distance:  "5.00",
		Transport: &transport,
		InputType: models.InputTypeNumber,
		Dirty:     true,
	}

	r := DateRange{Start: day("2024-05-08"), End: day("2024-05-15")}
	days := BuildDays(r, []models.RouteItem{persisted})

	var match *models.RouteDay
	for i := range days {
		if days[i].Date == "2024-05-10" {
			match = &days[i]
		}
	}
	require.NotNil(t, match)

	assert.Equal(t, persisted, match.ToWork)

	// The opposite slot of the same day is synthesized
	assert.Equal(t, "2024-05-10-fromWork", match.FromWork.ID)
	assert.False(t, match.FromWork.Dirty)
}

func TestBuildDaysSynthesisDefaults(t *testing.T) {
	r := DateRange{Start: day("2024-05-09"), End: day("2024-05-10")}
	days := BuildDays(r, nil)
	require.Len(t, days, 1)

	for _, item := range []models.RouteItem{days[0].ToWork, days[0].FromWork} {
		assert.Nil(t, item.Transport)
		assert.False(t, item.Dirty)
		assert.Equal(t, models.ZeroDistance, item.Distance)
		assert.Equal(t, models.InputTypeNumber, item.InputType)
		assert.Nil(t, item.Feature)
		assert.False(t, item.HasDistance())
	}
	assert.Equal(t, "2024-05-10-toWork", days[0].ToWork.ID)
	assert.Equal(t, "2024-05-10-fromWork", days[0].FromWork.ID)
}

func TestBuildDaysEmptyAndInvertedRanges(t *testing.T) {
	assert.Nil(t, BuildDays(DateRange{}, nil))

	same := DateRange{Start: day("2024-05-10"), End: day("2024-05-10")}
	assert.Nil(t, BuildDays(same, nil))

	inverted := DateRange{Start: day("2024-05-15"), End: day("2024-05-10")}
	assert.Nil(t, BuildDays(inverted, nil))
}

func TestBuildDaysIgnoresOtherDirections(t *testing.T) {
	recreational := models.RouteItem{
		ID:        "rec-1",
		Date:      day("2024-05-10"),
		Direction: models.DirectionRecreational,
		Distance:  "12.00",
	}

	r := DateRange{Start: day("2024-05-09"), End: day("2024-05-10")}
	days := BuildDays(r, []models.RouteItem{recreational})
	require.Len(t, days, 1)

	// Recreational trips do not occupy either commute slot
	assert.Equal(t, "2024-05-10-toWork", days[0].ToWork.ID)
	assert.Equal(t, "2024-05-10-fromWork", days[0].FromWork.ID)
}
