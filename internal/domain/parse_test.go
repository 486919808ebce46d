package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testReportID = "r-123"

func TestParseReport(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		data := []byte(`{"id":"r-123","location":{"lat":34.05,"lng":-118.24},"type":"fire-sighting","urgentLevel":"critical","timestamp":"2024-08-01T14:05:00Z"}`)
		r, err := ParseReport(RawEvent{Value: data})

		require.NoError(t, err)
		assert.Equal(t, testReportID, r.ID)
		assert.Equal(t, Critical, r.UrgentLevel)
		assert.True(t, r.Located())
	})

	t.Run("id falls back to message key", func(t *testing.T) {
		r, err := ParseReport(RawEvent{Key: []byte(testReportID), Value: []byte(`{"type":"road-closure"}`)})
		require.NoError(t, err)
		assert.Equal(t, testReportID, r.ID)
	})

	t.Run("missing id and key", func(t *testing.T) {
		_, err := ParseReport(RawEvent{Value: []byte(`{"type":"road-closure"}`), Topic: "hazard-reports", Offset: 7})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing id")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseReport(RawEvent{Value: []byte("{invalid json")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse report")
	})
}

func TestNormalizeReport(t *testing.T) {
	fixedTime := time.Date(2024, 8, 1, 15, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	r := NormalizeReport(Report{
		ID:                testReportID,
		Type:              " Power Line_Down ",
		UrgentLevel:       "Severe",
		VerificationCount: -2,
	})

	assert.Equal(t, "power-line-down", r.Type)
	assert.Equal(t, High, r.UrgentLevel)
	assert.Equal(t, 0, r.VerificationCount)
	assert.Equal(t, fixedTime, r.ReceivedAt)

	unknown := NormalizeReport(Report{UrgentLevel: "Whatever"})
	assert.Equal(t, UrgentLevel("whatever"), unknown.UrgentLevel)
	assert.Equal(t, 0, unknown.UrgentLevel.Priority())
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"fire-sighting", "fire-sighting"},
		{"Road Closure", "road-closure"},
		{"power_line__down", "power-line-down"},
		{"  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeType(tt.in))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected time.Time
	}{
		{"RFC3339", "2024-08-01T14:05:00Z", time.Date(2024, 8, 1, 14, 5, 0, 0, time.UTC)},
		{"fractional seconds", "2024-08-01T14:05:00.250Z", time.Date(2024, 8, 1, 14, 5, 0, 250_000_000, time.UTC)},
		{"offset normalized to UTC", "2024-08-01T16:05:00+02:00", time.Date(2024, 8, 1, 14, 5, 0, 0, time.UTC)},
		{"no zone", "2024-08-01T14:05:00", time.Date(2024, 8, 1, 14, 5, 0, 0, time.UTC)},
		{"date only", "2024-08-01", time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"garbage", "not a time", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTimestamp(tt.in))
		})
	}
}
