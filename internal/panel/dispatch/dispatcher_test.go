package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"groupdeck/internal/audit"
	"groupdeck/internal/panel"
)

// fakeAuthority records hub calls and fails on demand.
type fakeAuthority struct {
	mu       sync.Mutex
	setZone  []string
	addTag   []string
	failWith error
}

func (f *fakeAuthority) SetZone(_ context.Context, entityID, zoneID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setZone = append(f.setZone, entityID+"->"+zoneID)
	return f.failWith
}

func (f *fakeAuthority) AddTag(_ context.Context, entityID, tagID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addTag = append(f.addTag, entityID+"->"+tagID)
	return f.failWith
}

// fakeNotifier collects posted warnings.
type fakeNotifier struct {
	mu       sync.Mutex
	warnings []string
}

func (f *fakeNotifier) Warn(_ context.Context, title, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warnings = append(f.warnings, title+": "+message)
}

type DispatcherSuite struct {
	suite.Suite
	authority *fakeAuthority
	notifier  *fakeNotifier
	trail     *audit.Trail
	store     *audit.InMemoryStore
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.authority = &fakeAuthority{}
	s.notifier = &fakeNotifier{}
	s.store = audit.NewInMemoryStore()
	s.trail = audit.NewTrail(s.store)
}

func (s *DispatcherSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *DispatcherSuite) newDispatcher(opts ...Option) *Dispatcher {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithNotifier(s.notifier),
	}
	return New(s.authority, s.trail, append(base, opts...)...)
}

func (s *DispatcherSuite) TestDispatch() {
	ctx := context.Background()

	s.Run("set_zone mutation calls the zone authority once", func() {
		d := s.newDispatcher()
		d.dispatch(ctx, panel.Mutation{
			ID: "m1", Kind: panel.MutationSetZone, Panel: "zones",
			EntityID: "light.x", GroupID: "garage",
		})

		s.Equal([]string{"light.x->garage"}, s.authority.setZone)
		s.Empty(s.authority.addTag)
	})

	s.Run("add_tag mutation calls the tag authority once", func() {
		d := s.newDispatcher()
		d.dispatch(ctx, panel.Mutation{
			ID: "m2", Kind: panel.MutationAddTag, Panel: "tags",
			EntityID: "light.y", GroupID: "seasonal",
		})

		s.Equal([]string{"light.y->seasonal"}, s.authority.addTag)
	})

	s.Run("successful dispatch records a dispatched outcome", func() {
		d := s.newDispatcher()
		d.dispatch(ctx, panel.Mutation{
			ID: "m3", Kind: panel.MutationSetZone, Panel: "zones",
			EntityID: "light.x", GroupID: "kitchen",
		})

		records, err := s.store.ListRecent(ctx, 10)
		s.Require().NoError(err)
		s.Require().NotEmpty(records)
		s.Equal(audit.OutcomeDispatched, records[0].Outcome)
		s.Empty(records[0].Error)
		s.Empty(s.notifier.warnings)
	})

	s.Run("failed dispatch posts a notice and records the failure without retrying", func() {
		s.authority.failWith = errors.New("hub rejected the change")
		d := s.newDispatcher()
		d.dispatch(ctx, panel.Mutation{
			ID: "m4", Kind: panel.MutationSetZone, Panel: "zones",
			EntityID: "light.x", GroupID: "garage",
		})

		// Exactly one call: fire-and-forget means no retry.
		s.Len(s.authority.setZone, 1)

		s.Require().Len(s.notifier.warnings, 1)
		s.Contains(s.notifier.warnings[0], "Regrouping failed")
		s.Contains(s.notifier.warnings[0], "light.x")

		records, err := s.store.ListRecent(ctx, 10)
		s.Require().NoError(err)
		s.Require().NotEmpty(records)
		s.Equal(audit.OutcomeFailed, records[0].Outcome)
		s.Equal("hub rejected the change", records[0].Error)
	})

	s.Run("unknown mutation kind is dropped without a hub call", func() {
		d := s.newDispatcher()
		d.dispatch(ctx, panel.Mutation{ID: "m5", Kind: "repaint", Panel: "zones"})

		s.Empty(s.authority.setZone)
		s.Empty(s.authority.addTag)
	})
}

func (s *DispatcherSuite) TestEnqueue() {
	s.Run("enqueue accepts until the inbox is full", func() {
		d := s.newDispatcher(WithInboxSize(2))

		s.True(d.Enqueue(panel.Mutation{ID: "a"}))
		s.True(d.Enqueue(panel.Mutation{ID: "b"}))
		s.False(d.Enqueue(panel.Mutation{ID: "c"}))
	})
}

func (s *DispatcherSuite) TestRun() {
	s.Run("run drains the inbox and stops on context cancel", func() {
		d := s.newDispatcher(WithInboxSize(4))
		s.True(d.Enqueue(panel.Mutation{
			ID: "m6", Kind: panel.MutationAddTag, Panel: "tags",
			EntityID: "switch.fan", GroupID: "critical",
		}))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- d.Run(ctx) }()

		s.Eventually(func() bool {
			s.authority.mu.Lock()
			defer s.authority.mu.Unlock()
			return len(s.authority.addTag) == 1
		}, time.Second, 5*time.Millisecond)

		cancel()
		s.ErrorIs(<-done, context.Canceled)
	})
}
