package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/your-org/attendance/internal/models"
)

func TestBoundariesBindToLocalDate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2025, 6, 2, 12, 30, 0, 0, loc)

	sched := scheduleFromSettings(models.Settings{
		StartTime: "08:00", EndTime: "17:00", LateToleranceMinutes: 15,
	})

	start, end, err := sched.Boundaries(now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 6, 2, 8, 0, 0, 0, loc), start)
	require.Equal(t, time.Date(2025, 6, 2, 17, 0, 0, 0, loc), end)
	require.Equal(t, 15*time.Minute, sched.LateTolerance)
}

func TestBoundariesRejectBadFormat(t *testing.T) {
	for _, v := range []string{"8am", "25:00", "08:60", "0800", ""} {
		sched := Schedule{StartTime: v, EndTime: "17:00"}
		_, _, err := sched.Boundaries(at(9, 0))
		require.Error(t, err, "start %q", v)
	}
}

func TestScheduleFromShiftSnapshotsID(t *testing.T) {
	sh := &models.Shift{
		StartTime: "14:00", EndTime: "22:00", LateToleranceMinutes: 30,
	}
	sched := scheduleFromShift(sh)

	require.NotNil(t, sched.ShiftID)
	require.Equal(t, sh.ID, *sched.ShiftID)
	require.Equal(t, 30*time.Minute, sched.LateTolerance)
}
