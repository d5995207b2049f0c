package deactivation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordReasonAndGet(t *testing.T) {
	recorder := NewRecorder(NewInMemoryRecordRepository())
	ctx := context.Background()

	require.NoError(t, recorder.RecordReason(ctx, "bob", ReasonPasswordExpired))

	record, found, err := recorder.Get(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, ReasonPasswordExpired, record.Reason)
	assert.Equal(t, "bob", record.Username)
	assert.False(t, record.Timestamp.IsZero())
}

func TestGet_NoRecord(t *testing.T) {
	recorder := NewRecorder(NewInMemoryRecordRepository())

	_, found, err := recorder.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRecordReason_SameReasonTwiceKeepsOneRecord(t *testing.T) {
	recorder := NewRecorder(NewInMemoryRecordRepository())
	ctx := context.Background()

	require.NoError(t, recorder.RecordReason(ctx, "bob", ReasonTooManyFailedLogins))
	require.NoError(t, recorder.RecordReason(ctx, "bob", ReasonTooManyFailedLogins))

	record, found, err := recorder.Get(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, ReasonTooManyFailedLogins, record.Reason)
}

func TestRecordReason_NewReasonReplacesOld(t *testing.T) {
	recorder := NewRecorder(NewInMemoryRecordRepository())
	ctx := context.Background()

	require.NoError(t, recorder.RecordReason(ctx, "bob", ReasonPasswordExpired))
	require.NoError(t, recorder.RecordReason(ctx, "bob", ReasonAccountExpired))

	record, _, err := recorder.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, ReasonAccountExpired, record.Reason)
}

func TestClear(t *testing.T) {
	recorder := NewRecorder(NewInMemoryRecordRepository())
	ctx := context.Background()

	require.NoError(t, recorder.RecordReason(ctx, "bob", ReasonAccountExpired))
	require.NoError(t, recorder.Clear(ctx, "bob"))

	_, found, err := recorder.Get(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, found)

	// Clearing an identity with no record is a no-op.
	require.NoError(t, recorder.Clear(ctx, "nobody"))
}

func TestReasonDescription(t *testing.T) {
	assert.Equal(t, "Account expired", ReasonAccountExpired.Description())
	assert.Equal(t, "Password expired", ReasonPasswordExpired.Description())
	assert.Equal(t, "Too many failed login attempts", ReasonTooManyFailedLogins.Description())
	assert.Equal(t, "Unknown/administrative", Reason("??").Description())
}
