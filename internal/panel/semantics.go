package panel

import (
	"groupdeck/internal/grouping"
	"groupdeck/internal/hub"
)

// Semantics is the membership model of one panel. The zones panel enforces
// exclusive single-group membership; the tags panel allows any number of
// memberships. Index build, rendering, and drop handling are shared and
// parameterized by this interface.
type Semantics interface {
	// Name identifies the panel in routes, metrics, and audit records.
	Name() string
	// Synthetic returns the reserved fallback group collecting entities
	// with no valid membership. Its id never collides with registry ids.
	Synthetic() hub.Group
	// Groups returns the panel's real groups from a snapshot.
	Groups(snap *hub.Snapshot) []hub.Group
	// Membership returns the resolver used to classify a snapshot.
	Membership(snap *hub.Snapshot) grouping.Membership
	// AcceptsDrop reports whether the container may receive drops.
	AcceptsDrop(containerID string) bool
	// MutationFor translates a drop into a hub mutation. ok is false when
	// the drop has no defined mutation and must be ignored.
	MutationFor(entityID, containerID string) (Mutation, bool)
}

// ZoneSemantics implements the exclusive-membership model: a drop is a move,
// and dropping into the synthetic container clears the assignment.
type ZoneSemantics struct{}

func (ZoneSemantics) Name() string { return "zones" }

func (ZoneSemantics) Synthetic() hub.Group {
	return hub.Group{ID: "unassigned", Name: "Unassigned"}
}

func (ZoneSemantics) Groups(snap *hub.Snapshot) []hub.Group { return snap.Zones }

func (z ZoneSemantics) Membership(snap *hub.Snapshot) grouping.Membership {
	return func(entityID string) []string {
		if zone := snap.ZoneOf(entityID); zone != "" {
			return []string{zone}
		}
		return nil
	}
}

func (ZoneSemantics) AcceptsDrop(string) bool { return true }

func (z ZoneSemantics) MutationFor(entityID, containerID string) (Mutation, bool) {
	zoneID := containerID
	if containerID == z.Synthetic().ID {
		zoneID = ""
	}
	return Mutation{
		Kind:     MutationSetZone,
		Panel:    z.Name(),
		EntityID: entityID,
		GroupID:  zoneID,
	}, true
}

// TagSemantics implements the non-exclusive model: a drop adds a membership
// and never removes one, so the synthetic container is source-only.
type TagSemantics struct{}

func (TagSemantics) Name() string { return "tags" }

func (TagSemantics) Synthetic() hub.Group {
	return hub.Group{ID: "untagged", Name: "Untagged"}
}

func (TagSemantics) Groups(snap *hub.Snapshot) []hub.Group { return snap.Tags }

func (t TagSemantics) Membership(snap *hub.Snapshot) grouping.Membership {
	return func(entityID string) []string {
		return snap.TagsOf(entityID)
	}
}

func (t TagSemantics) AcceptsDrop(containerID string) bool {
	return containerID != t.Synthetic().ID
}

func (t TagSemantics) MutationFor(entityID, containerID string) (Mutation, bool) {
	if containerID == t.Synthetic().ID {
		return Mutation{}, false
	}
	return Mutation{
		Kind:     MutationAddTag,
		Panel:    t.Name(),
		EntityID: entityID,
		GroupID:  containerID,
	}, true
}
