// Package grouping builds the classification index both panels render from:
// a mapping of group id to ordered member entity ids, plus the set of entity
// domains available for filtering. The index is a pure function of one
// snapshot and is rebuilt from scratch on every change push; nothing in here
// is patched incrementally.
package grouping

import (
	"sort"

	"groupdeck/internal/hub"
)

// Membership resolves the group ids an entity claims. The exclusive variant
// returns at most one id; the non-exclusive variant any number. Claimed ids
// are validated against the known groups during the build.
type Membership func(entityID string) []string

// Index is the classification of one snapshot: every known group id (the
// synthetic one last) mapped to its member entity ids in encounter order.
type Index struct {
	order   []string
	buckets map[string][]string
	domains []string
}

// Build classifies a snapshot's entities into the given groups plus the
// synthetic fallback bucket.
//
// Entities from excluded domains are skipped entirely: no bucket, no domain
// set entry. A claimed membership counts only if the group exists in this
// snapshot; dangling ids are dropped silently. An entity with zero surviving
// memberships lands in the synthetic bucket. Re-insertions into the same
// bucket are idempotent.
func Build(entities []hub.Entity, groups []hub.Group, syntheticID string, membership Membership, excluded Exclusions) *Index {
	order := make([]string, 0, len(groups)+1)
	buckets := make(map[string][]string, len(groups)+1)
	for _, g := range groups {
		if _, dup := buckets[g.ID]; dup {
			continue
		}
		order = append(order, g.ID)
		buckets[g.ID] = []string{}
	}
	order = append(order, syntheticID)
	buckets[syntheticID] = []string{}

	seen := make(map[string]map[string]struct{}, len(buckets))
	insert := func(groupID, entityID string) {
		members := seen[groupID]
		if members == nil {
			members = make(map[string]struct{})
			seen[groupID] = members
		}
		if _, dup := members[entityID]; dup {
			return
		}
		members[entityID] = struct{}{}
		buckets[groupID] = append(buckets[groupID], entityID)
	}

	domainSet := make(map[string]struct{})
	for _, e := range entities {
		domain := e.Domain
		if domain == "" {
			domain = hub.EntityDomain(e.ID)
		}
		if domain == "" || excluded.Excluded(domain) {
			continue
		}
		domainSet[domain] = struct{}{}

		valid := 0
		for _, groupID := range membership(e.ID) {
			if _, known := buckets[groupID]; !known || groupID == syntheticID {
				continue
			}
			insert(groupID, e.ID)
			valid++
		}
		if valid == 0 {
			insert(syntheticID, e.ID)
		}
	}

	domains := make([]string, 0, len(domainSet))
	for d := range domainSet {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	return &Index{order: order, buckets: buckets, domains: domains}
}

// Groups returns the group ids in declaration order, synthetic last.
func (i *Index) Groups() []string {
	return i.order
}

// Bucket returns the member entity ids of a group in insertion order. Unknown
// group ids yield an empty bucket.
func (i *Index) Bucket(groupID string) []string {
	return i.buckets[groupID]
}

// Has reports whether the index carries a bucket for the group.
func (i *Index) Has(groupID string) bool {
	_, ok := i.buckets[groupID]
	return ok
}

// Domains returns the lexicographically sorted set of domains observed on
// eligible entities.
func (i *Index) Domains() []string {
	return i.domains
}
