package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func tsPtr(hour, minute int) *time.Time {
	t := ts(hour, minute)
	return &t
}

func TestOpenBreak(t *testing.T) {
	day := AttendanceDay{
		Breaks: []Break{
			{ID: "closed", Type: BreakExternal, Start: ts(10, 0), End: tsPtr(10, 15)},
			{ID: "older", Type: BreakExternal, Start: ts(11, 0)},
			{ID: "newest", Type: BreakExternal, Start: ts(14, 0)},
			{ID: "lunch", Type: BreakLunch, Start: ts(12, 0)},
		},
	}

	got := day.OpenBreak(BreakExternal)
	require.NotNil(t, got)
	assert.Equal(t, "newest", got.ID)

	lunch := day.OpenBreak(BreakLunch)
	require.NotNil(t, lunch)
	assert.Equal(t, "lunch", lunch.ID)
}

func TestOpenBreak_NoneOpen(t *testing.T) {
	day := AttendanceDay{
		Breaks: []Break{
			{ID: "closed", Type: BreakExternal, Start: ts(10, 0), End: tsPtr(10, 15)},
		},
	}

	assert.Nil(t, day.OpenBreak(BreakExternal))
	assert.Nil(t, day.OpenBreak(BreakLunch))
}

func TestExternalBreak_ReturnsFirst(t *testing.T) {
	day := AttendanceDay{
		Breaks: []Break{
			{ID: "lunch", Type: BreakLunch, Start: ts(12, 0)},
			{ID: "first", Type: BreakExternal, Start: ts(10, 0), End: tsPtr(10, 15)},
			{ID: "second", Type: BreakExternal, Start: ts(15, 0)},
		},
	}

	got := day.ExternalBreak()
	require.NotNil(t, got)
	assert.Equal(t, "first", got.ID)
}

func TestExternalBreak_None(t *testing.T) {
	day := AttendanceDay{
		Breaks: []Break{
			{ID: "lunch", Type: BreakLunch, Start: ts(12, 0), End: tsPtr(13, 0)},
		},
	}

	assert.Nil(t, day.ExternalBreak())
}

func TestBreakOpen(t *testing.T) {
	assert.True(t, Break{Start: ts(10, 0)}.Open())
	assert.False(t, Break{Start: ts(10, 0), End: tsPtr(10, 30)}.Open())
}
