package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaiveLocal(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Yekaterinburg")
	require.NoError(t, err)

	// Yekaterinburg 固定 UTC+5，无夏令时
	utc := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	got := NaiveLocal(utc, loc)

	assert.Equal(t, 17, got.Hour())
	assert.Equal(t, time.UTC, got.Location())
}

func TestNaiveLocalComparableAcrossInputZones(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Yekaterinburg")
	require.NoError(t, err)

	// 同一时刻从不同时区传入，归一后必须相等
	utc := time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC)
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	assert.Equal(t, NaiveLocal(utc, loc), NaiveLocal(utc.In(moscow), loc))
}
