package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/your-org/attendance/internal/models"
)

func TestResultFromMatchedOutcome(t *testing.T) {
	res := ResultFromOutcome(models.Outcome{
		Kind:       models.OutcomeMatched,
		IsLive:     true,
		EmployeeID: "e1",
		Name:       "Ann",
		Time:       time.Date(2025, 6, 2, 8, 10, 30, 0, time.UTC),
		Status:     models.StatusCheckedIn,
	})

	require.True(t, res.Success)
	require.NotNil(t, res.User)
	require.Equal(t, "e1", res.User.ID)
	require.Equal(t, "08:10:30", res.User.Time)
	require.Equal(t, "CheckedIn", res.User.Status)
}

func TestResultFromErrorStatusKeepsSuccess(t *testing.T) {
	res := ResultFromOutcome(models.Outcome{
		Kind:       models.OutcomeMatched,
		IsLive:     true,
		EmployeeID: "e1",
		Name:       "Ann",
		Status:     models.StatusError,
	})

	require.True(t, res.Success, "a matched face succeeds even without a durable write")
	require.NotNil(t, res.User, "identity survives a store failure")
	require.Equal(t, "Error", res.User.Status)
}

func TestResultFromGatedOutcomes(t *testing.T) {
	for _, kind := range []models.OutcomeKind{
		models.OutcomeLivenessFailed,
		models.OutcomeNoFaceDetected,
		models.OutcomeUnknownFace,
	} {
		res := ResultFromOutcome(models.Outcome{Kind: kind})
		require.False(t, res.Success, string(kind))
		require.Nil(t, res.User, string(kind))
		require.NotEmpty(t, res.Message, string(kind))
	}
}
