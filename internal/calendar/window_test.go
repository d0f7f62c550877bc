package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commute-logger/internal/models"
)

func fixedNow(date string) NowFunc {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	// Mid-day, to prove time-of-day is irrelevant
	t = t.Add(13*time.Hour + 37*time.Minute)
	return func() time.Time { return t }
}

func competition(from, to string) []models.Phase {
	return []models.Phase{
		{Type: models.PhaseRegistration, DateFrom: "2024-04-01", DateTo: "2024-05-05"},
		{Type: models.PhaseCompetition, DateFrom: from, DateTo: to},
	}
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWindowWorkedExample(t *testing.T) {
	// competition 2024-05-06..2024-05-19, 7-day rolling window, today 2024-05-15
	calc := NewWindowCalculator(competition("2024-05-06", "2024-05-19"), 7, fixedNow("2024-05-15"))

	assert.Equal(t, day("2024-05-09"), calc.LoggingStart())
	assert.Equal(t, day("2024-05-15"), calc.LoggingEnd())

	loggable := calc.LoggableRange()
	assert.Equal(t, 7, loggable.Days())
	assert.Equal(t, day("2024-05-15"), loggable.End)

	unloggable := calc.UnloggableRange()
	assert.Equal(t, 3, unloggable.Days())
	assert.Equal(t, day("2024-05-08"), unloggable.End)

	full := calc.FullCompetitionRange()
	assert.Equal(t, 14, full.Days())
	assert.Equal(t, day("2024-05-19"), full.End)
}

func TestWindowPartition(t *testing.T) {
	// Loggable and unloggable must cover 2024-05-06..today with no overlap.
	calc := NewWindowCalculator(competition("2024-05-06", "2024-05-19"), 7, fixedNow("2024-05-15"))

	seen := map[string]int{}
	for _, r := range []DateRange{calc.LoggableRange(), calc.UnloggableRange()} {
		for i := 0; i < r.Days(); i++ {
			seen[r.End.AddDate(0, 0, -i).Format(time.DateOnly)]++
		}
	}

	require.Len(t, seen, 10) // 2024-05-06 through 2024-05-15
	for date, count := range seen {
		assert.Equal(t, 1, count, "day %s counted twice", date)
		assert.GreaterOrEqual(t, date, "2024-05-06")
		assert.LessOrEqual(t, date, "2024-05-15")
	}

	// Full-competition never leaks outside the phase boundaries.
	full := calc.FullCompetitionRange()
	for i := 0; i < full.Days(); i++ {
		date := full.End.AddDate(0, 0, -i).Format(time.DateOnly)
		assert.GreaterOrEqual(t, date, "2024-05-06")
		assert.LessOrEqual(t, date, "2024-05-19")
	}
}

func TestLoggingStartClampedToCompetitionStart(t *testing.T) {
	// 30-day window would reach back to 2024-04-16; clamp to competition start
	calc := NewWindowCalculator(competition("2024-05-06", "2024-05-19"), 30, fixedNow("2024-05-15"))

	assert.Equal(t, day("2024-05-06"), calc.LoggingStart())
	assert.True(t, calc.UnloggableRange().IsEmpty())
}

func TestLoggingEndClampedToCompetitionEnd(t *testing.T) {
	calc := NewWindowCalculator(competition("2024-05-06", "2024-05-19"), 7, fixedNow("2024-06-01"))
	assert.Equal(t, day("2024-05-19"), calc.LoggingEnd())
}

func TestNoCompetitionPhase(t *testing.T) {
	calc := NewWindowCalculator(nil, 7, fixedNow("2024-05-15"))

	// Raw subtraction without a phase to clamp against
	assert.Equal(t, day("2024-05-09"), calc.LoggingStart())
	assert.Equal(t, day("2024-05-15"), calc.LoggingEnd())

	assert.True(t, calc.UnloggableRange().IsEmpty())
	assert.True(t, calc.FullCompetitionRange().IsEmpty())
	assert.Equal(t, 7, calc.LoggableRange().Days())
}

func TestMalformedPhaseDatesDegrade(t *testing.T) {
	phases := []models.Phase{
		{Type: models.PhaseCompetition, DateFrom: "not-a-date", DateTo: ""},
	}
	calc := NewWindowCalculator(phases, 7, fixedNow("2024-05-15"))

	assert.Equal(t, day("2024-05-09"), calc.LoggingStart())
	assert.Equal(t, day("2024-05-15"), calc.LoggingEnd())
	assert.True(t, calc.UnloggableRange().IsEmpty())
	assert.True(t, calc.FullCompetitionRange().IsEmpty())
	assert.Empty(t, calc.UnloggableDaysWithRoutes(nil))
	assert.Empty(t, calc.CompetitionDaysWithRoutes(nil))
}

func TestZeroDaysActive(t *testing.T) {
	calc := NewWindowCalculator(competition("2024-05-06", "2024-05-19"), 0, fixedNow("2024-05-15"))

	// daysActive of 0 means the window starts tomorrow: nothing is loggable
	assert.Equal(t, day("2024-05-16"), calc.LoggingStart())
	assert.True(t, calc.LoggableRange().IsEmpty())
}

func TestWindowBoundsInLocalTimezone(t *testing.T) {
	// Day values are UTC midnights regardless of the clock's zone: every day
	// the calculator lists as loggable must also pass the save-window bounds
	// check, including today in UTC+offset zones and the oldest day in
	// UTC-offset zones.
	zones := []*time.Location{
		time.FixedZone("UTC+2", 2*60*60),
		time.FixedZone("UTC-7", -7*60*60),
	}

	for _, loc := range zones {
		t.Run(loc.String(), func(t *testing.T) {
			now := func() time.Time { return time.Date(2024, 5, 15, 13, 37, 0, 0, loc) }
			calc := NewWindowCalculator(competition("2024-05-06", "2024-05-19"), 7, now)

			assert.Equal(t, day("2024-05-09"), calc.LoggingStart())
			assert.Equal(t, day("2024-05-15"), calc.LoggingEnd())

			days := calc.LoggableDaysWithRoutes(nil)
			require.Len(t, days, 7)
			for _, d := range days {
				parsed, err := time.Parse(time.DateOnly, d.Date)
				require.NoError(t, err)
				assert.False(t, parsed.Before(calc.LoggingStart()), "day %s falls before the window start", d.Date)
				assert.False(t, parsed.After(calc.LoggingEnd()), "day %s falls after the window end", d.Date)
			}
		})
	}
}

func TestFullCompetitionIgnoresNow(t *testing.T) {
	// Long after the competition ended, the results span is unchanged.
	calc := NewWindowCalculator(competition("2024-05-06", "2024-05-19"), 7, fixedNow("2024-09-01"))

	full := calc.FullCompetitionRange()
	assert.Equal(t, 14, full.Days())
	assert.Equal(t, day("2024-05-19"), full.End)
}
