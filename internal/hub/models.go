package hub

import "strings"

// Entity is one addressable item exposed by the hub. The ID is
// domain-qualified ("light.kitchen_lamp"); Name falls back to the ID when the
// hub supplies no friendly name.
type Entity struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
	Name   string `json:"name"`
}

// Group is a named bucket entities can be assigned to: a zone on the zones
// panel, a tag on the tags panel.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Person is a hub user entry shown on the profile panel.
type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// Snapshot is the full, unversioned state of entities, groups, and
// memberships at one point in time. It is immutable once built; consumers
// replace it wholesale on every change notification.
type Snapshot struct {
	Entities []Entity
	Zones    []Group
	Tags     []Group

	zoneOf map[string]string
	tagsOf map[string][]string
	names  map[string]string
	exists map[string]struct{}
}

// NewSnapshot assembles a snapshot from the hub's registries. zoneOf maps an
// entity to its single zone ("" or absent means none); tagsOf maps an entity
// to its tag ids.
func NewSnapshot(entities []Entity, zones, tags []Group, zoneOf map[string]string, tagsOf map[string][]string) *Snapshot {
	names := make(map[string]string, len(entities))
	exists := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		exists[e.ID] = struct{}{}
		if e.Name != "" {
			names[e.ID] = e.Name
		}
	}
	return &Snapshot{
		Entities: entities,
		Zones:    zones,
		Tags:     tags,
		zoneOf:   zoneOf,
		tagsOf:   tagsOf,
		names:    names,
		exists:   exists,
	}
}

// HasEntity reports whether the snapshot carries the entity.
func (s *Snapshot) HasEntity(entityID string) bool {
	_, ok := s.exists[entityID]
	return ok
}

// ZoneOf returns the zone id an entity is assigned to, or "" when unassigned.
func (s *Snapshot) ZoneOf(entityID string) string {
	return s.zoneOf[entityID]
}

// TagsOf returns the tag ids carried by an entity, possibly empty.
func (s *Snapshot) TagsOf(entityID string) []string {
	return s.tagsOf[entityID]
}

// DisplayName returns the friendly name for an entity id, falling back to the
// id itself when the entity is unknown or unnamed.
func (s *Snapshot) DisplayName(entityID string) string {
	if name, ok := s.names[entityID]; ok {
		return name
	}
	return entityID
}

// EntityDomain extracts the domain prefix from a domain-qualified entity id.
// Ids without a separator have no domain.
func EntityDomain(entityID string) string {
	if i := strings.IndexByte(entityID, '.'); i > 0 {
		return entityID[:i]
	}
	return ""
}
