// Package domain models crowd-submitted hazard reports and the items the
// clustering engine derives from them.
//
// # Reports
//
// Reports arrive from the community reporting feed as flat JSON:
//
//	{"id":"r-1","location":{"lat":34.05,"lng":-118.24,"region":"Los Angeles"},
//	 "type":"fire-sighting","urgentLevel":"high","timestamp":"2024-08-01T14:05:00Z"}
//
// The intake form uses different field names, so decoding also accepts
// "hazardType" for type, "severity" for urgentLevel, and "latitude"/"longitude"
// (or "lon") inside location. Coordinates may be numbers or numeric strings.
//
// Unknown values:
//
//	A location whose coordinates cannot be parsed decodes with NaN coordinates
//	and reports Valid() == false. Such reports never take part in spatial
//	grouping; they surface as standalone items.
//	A timestamp that cannot be parsed decodes to the zero time and ranks as the
//	oldest possible instant.
//
// # Urgency
//
// Four ordinal levels, critical > high > normal > low, with priorities 4..1.
// Intake vocabulary is folded onto them by [ParseUrgentLevel]:
//
//	critical: critical, extreme, emergency
//	high:     high, severe
//	normal:   normal, medium, moderate
//	low:      low, minor
//
// Anything else keeps its lowercased text and priority 0, so it ranks below
// low and carries no weight in a cluster centroid.
//
// # Items
//
// [Item] is the tagged union emitted by the engine. Kind "cluster" carries
// member reports, per-type counts and a summary; kind "standalone" wraps
// exactly one report.
//
// # ID Generation
//
// Cluster IDs come from an [IDGenerator]. The default, [ContentIDs], hashes
// the sorted member IDs with SHA-256 so an unchanged cluster keeps its ID
// across recomputations. [SequentialIDs] and [UUIDs] are available where
// callers prefer counters or random identifiers.
package domain
