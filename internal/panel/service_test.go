package panel

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"groupdeck/internal/hub"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockDispatcher records every enqueued mutation. full simulates a saturated
// queue.
type mockDispatcher struct {
	mutations []Mutation
	full      bool
}

func (m *mockDispatcher) Enqueue(mut Mutation) bool {
	if m.full {
		return false
	}
	m.mutations = append(m.mutations, mut)
	return true
}

// mockSelectionStore is an in-memory SelectionStore with a switchable error.
type mockSelectionStore struct {
	selections map[string]string
	loadErr    error
}

func (m *mockSelectionStore) Load(_ context.Context, panel string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	return m.selections[panel], nil
}

func (m *mockSelectionStore) Save(_ context.Context, panel, domain string) error {
	if m.selections == nil {
		m.selections = make(map[string]string)
	}
	m.selections[panel] = domain
	return nil
}

func testSnapshot() *hub.Snapshot {
	entities := []hub.Entity{
		{ID: "light.x", Domain: "light", Name: "Desk Lamp"},
		{ID: "light.y", Domain: "light", Name: "Ceiling"},
		{ID: "switch.fan", Domain: "switch", Name: "Fan"},
		{ID: "person.alice", Domain: "person", Name: "Alice"},
	}
	zones := []hub.Group{
		{ID: "kitchen", Name: "Kitchen"},
		{ID: "garage", Name: "Garage"},
	}
	tags := []hub.Group{
		{ID: "critical", Name: "Critical"},
		{ID: "seasonal", Name: "Seasonal"},
	}
	zoneOf := map[string]string{
		"light.x": "kitchen",
	}
	tagsOf := map[string][]string{
		"light.x": {"critical"},
	}
	return hub.NewSnapshot(entities, zones, tags, zoneOf, tagsOf)
}

type PanelServiceSuite struct {
	suite.Suite
	dispatcher *mockDispatcher
}

func TestPanelServiceSuite(t *testing.T) {
	suite.Run(t, new(PanelServiceSuite))
}

func (s *PanelServiceSuite) SetupTest() {
	s.dispatcher = &mockDispatcher{}
}

func (s *PanelServiceSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *PanelServiceSuite) newZones(opts ...Option) *Service {
	svc, err := New(ZoneSemantics{}, s.dispatcher, opts...)
	s.Require().NoError(err)
	return svc
}

func (s *PanelServiceSuite) newTags(opts ...Option) *Service {
	svc, err := New(TagSemantics{}, s.dispatcher, opts...)
	s.Require().NoError(err)
	return svc
}

func (s *PanelServiceSuite) TestNew() {
	s.Run("nil semantics returns error", func() {
		_, err := New(nil, s.dispatcher)
		s.Error(err)
	})

	s.Run("nil dispatcher returns error", func() {
		_, err := New(ZoneSemantics{}, nil)
		s.Error(err)
	})

	s.Run("valid arguments return a service with an empty surface", func() {
		svc := s.newZones()
		surface := svc.Surface()
		s.Equal("zones", surface.Panel)
		s.Equal(DragNamespace, surface.DragNamespace)
		s.Empty(surface.Containers)
		s.Empty(surface.Domains)
	})
}

func (s *PanelServiceSuite) TestApply() {
	ctx := context.Background()

	s.Run("zones surface classifies by exclusive assignment", func() {
		svc := s.newZones()
		svc.Apply(ctx, testSnapshot())

		surface := svc.Surface()
		s.Equal([]string{"light", "switch"}, surface.Domains)
		s.Equal("light", surface.SelectedDomain)

		s.Require().Len(surface.Containers, 3)
		s.Equal("kitchen", surface.Containers[0].ID)
		s.Equal("garage", surface.Containers[1].ID)
		s.Equal("unassigned", surface.Containers[2].ID)

		s.Equal([]Tile{{EntityID: "light.x", Name: "Desk Lamp"}}, surface.Containers[0].Tiles)
		s.Empty(surface.Containers[1].Tiles)
		s.Equal([]Tile{{EntityID: "light.y", Name: "Ceiling"}}, surface.Containers[2].Tiles)
	})

	s.Run("tiles outside the selected domain are filtered out", func() {
		svc := s.newZones()
		svc.Apply(ctx, testSnapshot())

		for _, c := range svc.Surface().Containers {
			for _, tile := range c.Tiles {
				s.Equal("light", hub.EntityDomain(tile.EntityID))
			}
		}
	})

	s.Run("tags surface marks the synthetic container source-only", func() {
		svc := s.newTags()
		svc.Apply(ctx, testSnapshot())

		surface := svc.Surface()
		s.Require().Len(surface.Containers, 3)
		s.True(surface.Containers[0].Accepts)
		s.True(surface.Containers[1].Accepts)
		s.Equal("untagged", surface.Containers[2].ID)
		s.False(surface.Containers[2].Accepts)
	})

	s.Run("rebuild replaces the surface wholesale", func() {
		svc := s.newZones()
		svc.Apply(ctx, testSnapshot())

		moved := hub.NewSnapshot(
			[]hub.Entity{{ID: "light.x", Domain: "light", Name: "Desk Lamp"}},
			[]hub.Group{{ID: "garage", Name: "Garage"}},
			nil,
			map[string]string{"light.x": "garage"},
			nil,
		)
		svc.Apply(ctx, moved)

		surface := svc.Surface()
		s.Require().Len(surface.Containers, 2)
		s.Equal("garage", surface.Containers[0].ID)
		s.Equal([]Tile{{EntityID: "light.x", Name: "Desk Lamp"}}, surface.Containers[0].Tiles)
	})

	s.Run("persisted selection is restored on the first rebuild", func() {
		store := &mockSelectionStore{selections: map[string]string{"zones": "switch"}}
		svc := s.newZones(WithSelectionStore(store))
		svc.Apply(ctx, testSnapshot())

		s.Equal("switch", svc.Surface().SelectedDomain)
	})

	s.Run("unloadable selection falls back to the first domain", func() {
		store := &mockSelectionStore{loadErr: context.DeadlineExceeded}
		svc := s.newZones(WithSelectionStore(store))
		svc.Apply(ctx, testSnapshot())

		s.Equal("light", svc.Surface().SelectedDomain)
	})
}

func (s *PanelServiceSuite) TestSelectDomain() {
	ctx := context.Background()

	s.Run("valid domain re-renders the surface", func() {
		svc := s.newZones()
		svc.Apply(ctx, testSnapshot())

		s.True(svc.SelectDomain(ctx, "switch"))

		surface := svc.Surface()
		s.Equal("switch", surface.SelectedDomain)
		s.Equal([]Tile{{EntityID: "switch.fan", Name: "Fan"}}, surface.Containers[2].Tiles)
	})

	s.Run("unknown domain is rejected and the filter stays", func() {
		svc := s.newZones()
		svc.Apply(ctx, testSnapshot())

		s.False(svc.SelectDomain(ctx, "vacuum"))
		s.Equal("light", svc.Surface().SelectedDomain)
	})

	s.Run("selection is persisted to the store", func() {
		store := &mockSelectionStore{}
		svc := s.newZones(WithSelectionStore(store))
		svc.Apply(ctx, testSnapshot())

		s.True(svc.SelectDomain(ctx, "switch"))
		s.Equal("switch", store.selections["zones"])
	})
}

func (s *PanelServiceSuite) TestDrop() {
	ctx := context.Background()

	s.Run("zone drop enqueues a set_zone mutation", func() {
		svc := s.newZones()
		svc.Apply(ctx, testSnapshot())

		err := svc.Drop(ctx, DropEvent{EntityID: "light.x", ContainerID: "garage"})
		s.NoError(err)

		s.Require().Len(s.dispatcher.mutations, 1)
		m := s.dispatcher.mutations[0]
		s.Equal(MutationSetZone, m.Kind)
		s.Equal("zones", m.Panel)
		s.Equal("light.x", m.EntityID)
		s.Equal("garage", m.GroupID)
		s.NotEmpty(m.ID)
	})

	s.Run("drop into the zones synthetic container clears the assignment", func() {
		svc := s.newZones()
		svc.Apply(ctx, testSnapshot())

		err := svc.Drop(ctx, DropEvent{EntityID: "light.x", ContainerID: "unassigned"})
		s.NoError(err)

		s.Require().Len(s.dispatcher.mutations, 1)
		s.Equal(MutationSetZone, s.dispatcher.mutations[0].Kind)
		s.Equal("", s.dispatcher.mutations[0].GroupID)
	})

	s.Run("tag drop enqueues an add_tag mutation", func() {
		svc := s.newTags()
		svc.Apply(ctx, testSnapshot())

		err := svc.Drop(ctx, DropEvent{EntityID: "light.y", ContainerID: "seasonal"})
		s.NoError(err)

		s.Require().Len(s.dispatcher.mutations, 1)
		m := s.dispatcher.mutations[0]
		s.Equal(MutationAddTag, m.Kind)
		s.Equal("tags", m.Panel)
		s.Equal("seasonal", m.GroupID)
	})

	s.Run("drop into the tags synthetic container is ignored", func() {
		svc := s.newTags()
		svc.Apply(ctx, testSnapshot())

		err := svc.Drop(ctx, DropEvent{EntityID: "light.x", ContainerID: "untagged"})
		s.NoError(err)
		s.Empty(s.dispatcher.mutations)
	})

	s.Run("drop into an unknown container is ignored", func() {
		svc := s.newZones()
		svc.Apply(ctx, testSnapshot())

		err := svc.Drop(ctx, DropEvent{EntityID: "light.x", ContainerID: "demolished"})
		s.NoError(err)
		s.Empty(s.dispatcher.mutations)
	})

	s.Run("drop of an entity missing from the snapshot is ignored", func() {
		svc := s.newZones()
		svc.Apply(ctx, testSnapshot())

		err := svc.Drop(ctx, DropEvent{EntityID: "light.gone", ContainerID: "kitchen"})
		s.NoError(err)
		s.Empty(s.dispatcher.mutations)
	})

	s.Run("drop of an excluded entity is ignored", func() {
		svc := s.newZones()
		svc.Apply(ctx, testSnapshot())

		err := svc.Drop(ctx, DropEvent{EntityID: "person.alice", ContainerID: "kitchen"})
		s.NoError(err)
		s.Empty(s.dispatcher.mutations)
	})

	s.Run("drop before any snapshot is unavailable", func() {
		svc := s.newZones()

		err := svc.Drop(ctx, DropEvent{EntityID: "light.x", ContainerID: "kitchen"})
		s.Error(err)
	})

	s.Run("drop with missing fields is invalid input", func() {
		svc := s.newZones()
		svc.Apply(ctx, testSnapshot())

		s.Error(svc.Drop(ctx, DropEvent{EntityID: "light.x"}))
		s.Error(svc.Drop(ctx, DropEvent{ContainerID: "kitchen"}))
		s.Empty(s.dispatcher.mutations)
	})

	s.Run("saturated queue surfaces as unavailable", func() {
		s.dispatcher.full = true
		svc := s.newZones()
		svc.Apply(ctx, testSnapshot())

		err := svc.Drop(ctx, DropEvent{EntityID: "light.x", ContainerID: "garage"})
		s.Error(err)
	})

	s.Run("drop never updates the surface optimistically", func() {
		svc := s.newZones()
		svc.Apply(ctx, testSnapshot())

		before := svc.Surface()
		s.NoError(svc.Drop(ctx, DropEvent{EntityID: "light.x", ContainerID: "garage"}))
		s.Equal(before, svc.Surface())
	})
}
