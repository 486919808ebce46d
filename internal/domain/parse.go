package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps ReceivedAt during normalization.
var clock = clockwork.NewRealClock()

// SetClock replaces the clock used by NormalizeReport. Nil restores real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}

// timestampLayouts are tried in order when parsing report timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseReport deserializes a RawEvent's value into a Report. When the payload
// carries no id, the message key is used.
func ParseReport(raw RawEvent) (Report, error) {
	var r Report
	if err := json.Unmarshal(raw.Value, &r); err != nil {
		return Report{}, fmt.Errorf("parse report: %w", err)
	}
	if r.ID == "" {
		r.ID = string(raw.Key)
	}
	if r.ID == "" {
		return Report{}, fmt.Errorf("parse report: missing id (topic %s, offset %d)", raw.Topic, raw.Offset)
	}
	return r, nil
}

// NormalizeReport canonicalizes the urgency level and type tag and stamps
// ReceivedAt. Unknown urgency levels are kept lowercased so they rank last.
func NormalizeReport(r Report) Report {
	level, _ := ParseUrgentLevel(string(r.UrgentLevel))
	r.UrgentLevel = level
	r.Type = normalizeType(r.Type)
	if r.VerificationCount < 0 {
		r.VerificationCount = 0
	}
	r.ReceivedAt = clock.Now()
	return r
}

// normalizeType lowercases a type tag and joins words with hyphens,
// e.g. "Power Line_Down" -> "power-line-down".
func normalizeType(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	})
	return strings.Join(fields, "-")
}

// ParseTimestamp parses an ISO-8601 instant. Malformed input yields the zero
// time, which every consumer treats as the oldest possible instant.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// parseTimestampJSON accepts an ISO-8601 string or epoch milliseconds.
func parseTimestampJSON(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseTimestamp(s)
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil && ms > 0 {
		return time.UnixMilli(int64(ms)).UTC()
	}
	return time.Time{}
}
