package httpadapter

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/hazard-cluster-service/internal/cluster"
	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
)

func errInvalidParam(name string) error {
	return fmt.Errorf("invalid %s", name)
}

// parseCriteria reads the /clusters filter parameters:
//
//	emergency_only=true
//	urgent_levels=critical,high
//	types=fire-sighting,flooding
//	bbox=south,west,north,east
//	max_age_days=7
func parseCriteria(q url.Values) (cluster.Criteria, error) {
	var c cluster.Criteria

	if v := q.Get("emergency_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, errInvalidParam("emergency_only")
		}
		c.EmergencyOnly = b
	}

	for _, s := range splitList(q.Get("urgent_levels")) {
		level, ok := domain.ParseUrgentLevel(s)
		if !ok {
			return c, fmt.Errorf("invalid urgent level %q", s)
		}
		c.UrgentLevels = append(c.UrgentLevels, level)
	}

	c.Types = splitList(q.Get("types"))

	if v := q.Get("bbox"); v != "" {
		b, err := parseBounds(v)
		if err != nil {
			return c, err
		}
		c.Bounds = b
	}

	if q.Get("max_age_days") != "" {
		days, err := parseFloatParam(q, "max_age_days", 0)
		if err != nil || days <= 0 {
			return c, errInvalidParam("max_age_days")
		}
		c.MaxAge = time.Duration(days * float64(24*time.Hour))
	}

	return c, nil
}

func parseBounds(v string) (*domain.Bounds, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return nil, errors.New("bbox must be south,west,north,east")
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errInvalidParam("bbox")
		}
		vals[i] = f
	}
	b := &domain.Bounds{South: vals[0], West: vals[1], North: vals[2], East: vals[3]}
	if b.South > b.North {
		return nil, errors.New("bbox south exceeds north")
	}
	// Boxes crossing the antimeridian are not supported.
	if b.West > b.East {
		return nil, errors.New("bbox west exceeds east")
	}
	return b, nil
}

const (
	defaultNearbyRadiusKm = 10.0
	defaultNearbyLimit    = 20
)

type nearbyQuery struct {
	lat, lng, radiusKm float64
	limit              int
}

func parseNearbyQuery(q url.Values) (nearbyQuery, error) {
	var n nearbyQuery
	var err error

	if n.lat, err = parseRequiredFloat(q, "lat"); err != nil {
		return n, err
	}
	if n.lng, err = parseRequiredFloat(q, "lng"); err != nil {
		return n, err
	}
	if n.lat < -90 || n.lat > 90 {
		return n, errInvalidParam("lat")
	}
	if n.lng < -180 || n.lng > 180 {
		return n, errInvalidParam("lng")
	}

	n.radiusKm, err = parseFloatParam(q, "radius", defaultNearbyRadiusKm)
	if err != nil || n.radiusKm <= 0 {
		return n, errInvalidParam("radius")
	}

	n.limit = defaultNearbyLimit
	if v := q.Get("limit"); v != "" {
		n.limit, err = strconv.Atoi(v)
		if err != nil || n.limit <= 0 {
			return n, errInvalidParam("limit")
		}
	}
	return n, nil
}

func parseRequiredFloat(q url.Values, key string) (float64, error) {
	if q.Get(key) == "" {
		return 0, fmt.Errorf("missing %s", key)
	}
	return parseFloatParam(q, key, 0)
}

func parseFloatParam(q url.Values, key string, fallback float64) (float64, error) {
	v := q.Get(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errInvalidParam(key)
	}
	return f, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
