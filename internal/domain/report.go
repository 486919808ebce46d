package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// UrgentLevel is the ordinal severity tag carried by a report.
type UrgentLevel string

const (
	Critical UrgentLevel = "critical"
	High     UrgentLevel = "high"
	Normal   UrgentLevel = "normal"
	Low      UrgentLevel = "low"
)

// Priority returns the ordinal value of the level: critical=4, high=3,
// normal=2, low=1. Unknown levels return 0, which is also their centroid weight.
func (u UrgentLevel) Priority() int {
	switch u {
	case Critical:
		return 4
	case High:
		return 3
	case Normal:
		return 2
	case Low:
		return 1
	default:
		return 0
	}
}

// IsEmergency reports whether the level is critical or high.
func (u UrgentLevel) IsEmergency() bool {
	return u == Critical || u == High
}

// ParseUrgentLevel maps intake severity vocabulary onto the four urgency
// levels. The second return value is false for unrecognized input, in which
// case the lowercased input is returned unchanged (priority 0).
func ParseUrgentLevel(s string) (UrgentLevel, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "critical", "extreme", "emergency":
		return Critical, true
	case "high", "severe":
		return High, true
	case "normal", "medium", "moderate":
		return Normal, true
	case "low", "minor":
		return Low, true
	default:
		return UrgentLevel(v), false
	}
}

// Location is a WGS-84 coordinate with an optional region label.
// Coordinates that could not be parsed are held as NaN.
type Location struct {
	Lat    float64
	Lng    float64
	Region string
}

// Valid reports whether both coordinates are finite and in range.
func (l Location) Valid() bool {
	if math.IsNaN(l.Lat) || math.IsNaN(l.Lng) || math.IsInf(l.Lat, 0) || math.IsInf(l.Lng, 0) {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

type locationJSON struct {
	Lat       json.RawMessage `json:"lat"`
	Latitude  json.RawMessage `json:"latitude"`
	Lng       json.RawMessage `json:"lng"`
	Longitude json.RawMessage `json:"longitude"`
	Lon       json.RawMessage `json:"lon"`
	Region    string          `json:"region"`
}

// UnmarshalJSON accepts lat/lng (or latitude/longitude, lon) as numbers or
// numeric strings. Anything else decodes to NaN so the location reads as invalid.
func (l *Location) UnmarshalJSON(data []byte) error {
	var raw locationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Lat = parseCoordinate(firstPresent(raw.Lat, raw.Latitude))
	l.Lng = parseCoordinate(firstPresent(raw.Lng, raw.Longitude, raw.Lon))
	l.Region = raw.Region
	return nil
}

// MarshalJSON writes non-finite coordinates as null.
func (l Location) MarshalJSON() ([]byte, error) {
	out := struct {
		Lat    *float64 `json:"lat"`
		Lng    *float64 `json:"lng"`
		Region string   `json:"region,omitempty"`
	}{Region: l.Region}
	if isFinite(l.Lat) {
		out.Lat = &l.Lat
	}
	if isFinite(l.Lng) {
		out.Lng = &l.Lng
	}
	return json.Marshal(out)
}

// Report is a crowd-submitted hazard report. Reports are treated as
// immutable once handed to the clustering engine.
type Report struct {
	ID                string      `json:"id"`
	Location          *Location   `json:"location,omitempty"`
	Type              string      `json:"type"`
	UrgentLevel       UrgentLevel `json:"urgentLevel"`
	Timestamp         time.Time   `json:"timestamp,omitzero"`
	VerificationCount int         `json:"verificationCount,omitempty"`
	Description       string      `json:"description,omitempty"`
	Title             string      `json:"title,omitempty"`

	// ReceivedAt is stamped by the intake pipeline.
	ReceivedAt time.Time `json:"receivedAt,omitzero"`
}

// Located reports whether the report can take part in spatial grouping.
func (r Report) Located() bool {
	return r.Location != nil && r.Location.Valid()
}

type reportJSON struct {
	ID                string          `json:"id"`
	Location          *Location       `json:"location"`
	Type              string          `json:"type"`
	HazardType        string          `json:"hazardType"`
	UrgentLevel       string          `json:"urgentLevel"`
	Severity          string          `json:"severity"`
	Timestamp         json.RawMessage `json:"timestamp"`
	VerificationCount int             `json:"verificationCount"`
	Description       string          `json:"description"`
	Title             string          `json:"title"`
	ReceivedAt        time.Time       `json:"receivedAt"`
}

// UnmarshalJSON decodes a report, accepting the intake aliases hazardType and
// severity. Timestamps that cannot be parsed decode to the zero time.
func (r *Report) UnmarshalJSON(data []byte) error {
	var raw reportJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	typ := raw.Type
	if typ == "" {
		typ = raw.HazardType
	}
	level := raw.UrgentLevel
	if level == "" {
		level = raw.Severity
	}
	*r = Report{
		ID:                raw.ID,
		Location:          raw.Location,
		Type:              typ,
		UrgentLevel:       UrgentLevel(level),
		Timestamp:         parseTimestampJSON(raw.Timestamp),
		VerificationCount: raw.VerificationCount,
		Description:       raw.Description,
		Title:             raw.Title,
		ReceivedAt:        raw.ReceivedAt,
	}
	return nil
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Tombstone reports whether the message deletes the report named by its key.
func (e RawEvent) Tombstone() bool {
	return len(bytes.TrimSpace(e.Value)) == 0 && len(e.Key) > 0
}

func firstPresent(values ...json.RawMessage) json.RawMessage {
	for _, v := range values {
		if len(v) > 0 && !bytes.Equal(v, []byte("null")) {
			return v
		}
	}
	return nil
}

// parseCoordinate decodes a JSON number or numeric string, returning NaN on failure.
func parseCoordinate(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return math.NaN()
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
