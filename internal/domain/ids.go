package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator assigns identifiers to clusters.
type IDGenerator interface {
	ClusterID(members []Report) string
}

// ContentIDs derives a cluster ID from the sorted member report IDs, so the
// same membership always yields the same ID across recomputations.
type ContentIDs struct{}

func (ContentIDs) ClusterID(members []Report) string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	slices.Sort(ids)
	hash := sha256.Sum256([]byte(strings.Join(ids, "|")))
	return "cluster-" + hex.EncodeToString(hash[:8])
}

// SequentialIDs hands out cluster-1, cluster-2, ... in call order.
type SequentialIDs struct {
	prefix string
	next   atomic.Int64
}

// NewSequentialIDs creates a counter-backed generator. An empty prefix
// defaults to "cluster".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "cluster"
	}
	return &SequentialIDs{prefix: prefix}
}

func (s *SequentialIDs) ClusterID(_ []Report) string {
	return fmt.Sprintf("%s-%d", s.prefix, s.next.Add(1))
}

// UUIDs assigns random version 4 UUIDs.
type UUIDs struct{}

func (UUIDs) ClusterID(_ []Report) string {
	return uuid.NewString()
}
