package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// SubscribeEvents asks the hub to push state and registry change events for
// the rest of the session. Events surface through Changes().
func (c *Client) SubscribeEvents(ctx context.Context) error {
	for _, eventType := range []string{"state_changed", "registry_updated"} {
		if _, err := c.call(ctx, commandFrame{Type: "subscribe_events", EventType: eventType}); err != nil {
			return fmt.Errorf("subscribe %s: %w", eventType, err)
		}
	}
	return nil
}

// Snapshot pulls the full current state: entities, zones, tags, and both
// membership maps. There is no diff contract; callers replace their previous
// snapshot wholesale.
func (c *Client) Snapshot(ctx context.Context) (*Snapshot, error) {
	states, err := listCall[stateRow](ctx, c, "get_states")
	if err != nil {
		return nil, err
	}
	registry, err := listCall[entityRow](ctx, c, "config/entity_registry/list")
	if err != nil {
		return nil, err
	}
	areas, err := listCall[areaRow](ctx, c, "config/area_registry/list")
	if err != nil {
		return nil, err
	}
	labels, err := listCall[labelRow](ctx, c, "config/label_registry/list")
	if err != nil {
		return nil, err
	}

	byID := make(map[string]entityRow, len(registry))
	for _, row := range registry {
		byID[row.EntityID] = row
	}

	entities := make([]Entity, 0, len(states))
	zoneOf := make(map[string]string)
	tagsOf := make(map[string][]string)
	for _, st := range states {
		if st.EntityID == "" {
			continue
		}
		name := st.Attributes.FriendlyName
		row, registered := byID[st.EntityID]
		if registered {
			if row.Name != "" {
				name = row.Name
			}
			if row.AreaID != "" {
				zoneOf[st.EntityID] = row.AreaID
			}
			if len(row.Labels) > 0 {
				tagsOf[st.EntityID] = row.Labels
			}
		}
		entities = append(entities, Entity{
			ID:     st.EntityID,
			Domain: EntityDomain(st.EntityID),
			Name:   name,
		})
	}

	zones := make([]Group, 0, len(areas))
	for _, a := range areas {
		zones = append(zones, Group{ID: a.AreaID, Name: a.Name})
	}
	tags := make([]Group, 0, len(labels))
	for _, l := range labels {
		tags = append(tags, Group{ID: l.LabelID, Name: l.Name})
	}

	return NewSnapshot(entities, zones, tags, zoneOf, tagsOf), nil
}

// SetZone assigns an entity to exactly one zone, clearing any prior
// assignment. An empty zoneID removes the assignment entirely.
func (c *Client) SetZone(ctx context.Context, entityID, zoneID string) error {
	frame := commandFrame{Type: "config/entity_registry/update", EntityID: entityID}
	if zoneID != "" {
		encoded, err := json.Marshal(zoneID)
		if err != nil {
			return fmt.Errorf("marshal zone id: %w", err)
		}
		frame.AreaID = encoded
	} else {
		frame.AreaID = json.RawMessage("null")
	}
	_, err := c.call(ctx, frame)
	return err
}

// AddTag attaches one more tag to an entity without touching its existing
// tags. Re-adding a tag the entity already carries is a no-op on the hub side.
func (c *Client) AddTag(ctx context.Context, entityID, tagID string) error {
	data, err := json.Marshal(map[string]string{
		"entity_id": entityID,
		"tag":       tagID,
	})
	if err != nil {
		return fmt.Errorf("marshal add_tag payload: %w", err)
	}
	_, err = c.call(ctx, commandFrame{
		Type:        "call_service",
		Domain:      "groupdeck",
		Service:     "add_tag",
		ServiceData: data,
	})
	return err
}

// Persons lists the hub's user entities with their presence state, sorted by
// display name for stable rendering.
func (c *Client) Persons(ctx context.Context) ([]Person, error) {
	states, err := listCall[stateRow](ctx, c, "get_states")
	if err != nil {
		return nil, err
	}
	persons := make([]Person, 0, 4)
	for _, st := range states {
		if EntityDomain(st.EntityID) != "person" {
			continue
		}
		name := st.Attributes.FriendlyName
		if name == "" {
			name = st.EntityID
		}
		persons = append(persons, Person{ID: st.EntityID, Name: name, State: st.State})
	}
	sort.Slice(persons, func(i, j int) bool { return persons[i].Name < persons[j].Name })
	return persons, nil
}

// Restart asks the hub to restart itself. Used by the profile panel only.
func (c *Client) Restart(ctx context.Context) error {
	_, err := c.call(ctx, commandFrame{
		Type:    "call_service",
		Domain:  "hub",
		Service: "restart",
	})
	return err
}

func listCall[T any](ctx context.Context, c *Client, msgType string) ([]T, error) {
	raw, err := c.call(ctx, commandFrame{Type: msgType})
	if err != nil {
		return nil, err
	}
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode %s result: %w", msgType, err)
	}
	return rows, nil
}
