package panel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"groupdeck/internal/grouping"
	"groupdeck/internal/hub"
	"groupdeck/internal/platform/middleware"
	dErrors "groupdeck/pkg/domain-errors"
)

// Dispatcher hands mutations to the asynchronous hub worker. Enqueue must not
// block; false means the queue is saturated and the mutation was not taken.
type Dispatcher interface {
	Enqueue(m Mutation) bool
}

// SelectionStore persists the operator's domain filter across restarts.
type SelectionStore interface {
	Load(ctx context.Context, panel string) (string, error)
	Save(ctx context.Context, panel, domain string) error
}

// Service is one panel's grouping engine. It owns the classification index,
// the domain filter, and the render-ready surface, all replaced wholesale on
// every snapshot push. Drops never touch local state: the hub's next push is
// the only thing that moves a tile for real.
type Service struct {
	sem        Semantics
	dispatcher Dispatcher
	selections SelectionStore
	exclusions grouping.Exclusions
	logger     *slog.Logger
	metrics    *Metrics

	mu       sync.RWMutex
	selector *grouping.DomainSelector
	snap     *hub.Snapshot
	index    *grouping.Index
	surface  Surface
	restored bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithSelectionStore persists domain selections across restarts.
func WithSelectionStore(store SelectionStore) Option {
	return func(s *Service) {
		s.selections = store
	}
}

// WithExclusions overrides the default excluded-domain set.
func WithExclusions(e grouping.Exclusions) Option {
	return func(s *Service) {
		s.exclusions = e
	}
}

// New builds a panel service. The first Apply populates the surface; until
// then it renders empty.
func New(sem Semantics, dispatcher Dispatcher, opts ...Option) (*Service, error) {
	if sem == nil {
		return nil, fmt.Errorf("panel semantics are required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("mutation dispatcher is required")
	}

	s := &Service{
		sem:        sem,
		dispatcher: dispatcher,
		exclusions: grouping.DefaultExclusions(),
		logger:     slog.Default(),
		selector:   grouping.NewDomainSelector(),
		surface: Surface{
			Panel:         sem.Name(),
			DragNamespace: DragNamespace,
			Domains:       []string{},
			Containers:    []Container{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Apply rebuilds the index, domain set, and surface from a fresh snapshot.
// The rebuild is total: nothing from the previous snapshot survives it.
func (s *Service) Apply(ctx context.Context, snap *hub.Snapshot) {
	start := time.Now()
	index := grouping.Build(
		snap.Entities,
		s.sem.Groups(snap),
		s.sem.Synthetic().ID,
		s.sem.Membership(snap),
		s.exclusions,
	)

	s.mu.Lock()
	s.snap = snap
	s.index = index
	s.selector.Reconcile(index.Domains())
	if !s.restored {
		s.restoreSelectionLocked(ctx)
		s.restored = true
	}
	s.surface = s.renderLocked()
	s.mu.Unlock()

	s.metrics.ObserveRebuild(s.sem.Name(), start)
}

// restoreSelectionLocked applies a persisted domain filter on the first
// rebuild, if it is still a valid choice.
func (s *Service) restoreSelectionLocked(ctx context.Context) {
	if s.selections == nil {
		return
	}
	stored, err := s.selections.Load(ctx, s.sem.Name())
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load persisted domain selection",
			"panel", s.sem.Name(),
			"error", err,
		)
		return
	}
	if stored != "" {
		s.selector.Select(stored)
	}
}

// Surface returns the current render model.
func (s *Service) Surface() Surface {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surface
}

// SelectDomain moves the domain filter. Domains outside the current set are
// rejected as a no-op and reported as false.
func (s *Service) SelectDomain(ctx context.Context, domain string) bool {
	s.mu.Lock()
	ok := s.selector.Select(domain)
	if ok {
		s.surface = s.renderLocked()
	}
	s.mu.Unlock()

	if ok && s.selections != nil {
		if err := s.selections.Save(ctx, s.sem.Name(), domain); err != nil {
			s.logger.WarnContext(ctx, "failed to persist domain selection",
				"panel", s.sem.Name(),
				"domain", domain,
				"error", err,
			)
		}
	}
	return ok
}

// Drop handles one drag release. Valid drops enqueue exactly one mutation;
// a drop into a source-only or unknown container, or of an entity gone from
// the current snapshot, is ignored as an expected race, not an error.
// The surface is deliberately left untouched either way.
func (s *Service) Drop(ctx context.Context, ev DropEvent) error {
	s.mu.RLock()
	snap, index := s.snap, s.index
	s.mu.RUnlock()

	if snap == nil || index == nil {
		s.metrics.IncDropRejected(s.sem.Name())
		return dErrors.New(dErrors.CodeUnavailable, "no snapshot yet")
	}
	if ev.EntityID == "" || ev.ContainerID == "" {
		s.metrics.IncDropRejected(s.sem.Name())
		return dErrors.New(dErrors.CodeInvalidInput, "entity_id and container_id are required")
	}
	if !index.Has(ev.ContainerID) || !s.sem.AcceptsDrop(ev.ContainerID) {
		s.logger.DebugContext(ctx, "ignoring drop into unavailable container",
			"panel", s.sem.Name(),
			"container_id", ev.ContainerID,
		)
		s.metrics.IncDropRejected(s.sem.Name())
		return nil
	}
	if !snap.HasEntity(ev.EntityID) || s.exclusions.Excluded(hub.EntityDomain(ev.EntityID)) {
		s.logger.DebugContext(ctx, "ignoring drop of stale or ineligible entity",
			"panel", s.sem.Name(),
			"entity_id", ev.EntityID,
		)
		s.metrics.IncDropRejected(s.sem.Name())
		return nil
	}

	m, ok := s.sem.MutationFor(ev.EntityID, ev.ContainerID)
	if !ok {
		s.metrics.IncDropRejected(s.sem.Name())
		return nil
	}
	m.ID = uuid.NewString()
	m.RequestID = middleware.GetRequestID(ctx)

	if !s.dispatcher.Enqueue(m) {
		return dErrors.New(dErrors.CodeUnavailable, "mutation queue is full")
	}
	s.metrics.IncDrop(s.sem.Name())
	return nil
}

// renderLocked builds the surface from the current index and filter. Callers
// hold s.mu.
func (s *Service) renderLocked() Surface {
	selected := s.selector.Current()

	names := make(map[string]string)
	for _, g := range s.sem.Groups(s.snap) {
		names[g.ID] = g.Name
	}
	synthetic := s.sem.Synthetic()
	names[synthetic.ID] = synthetic.Name

	containers := make([]Container, 0, len(s.index.Groups()))
	for _, groupID := range s.index.Groups() {
		name := names[groupID]
		if name == "" {
			name = groupID
		}
		tiles := make([]Tile, 0)
		for _, entityID := range s.index.Bucket(groupID) {
			if hub.EntityDomain(entityID) != selected {
				continue
			}
			tiles = append(tiles, Tile{EntityID: entityID, Name: s.snap.DisplayName(entityID)})
		}
		containers = append(containers, Container{
			ID:      groupID,
			Name:    name,
			Accepts: s.sem.AcceptsDrop(groupID),
			Tiles:   tiles,
		})
	}

	return Surface{
		Panel:          s.sem.Name(),
		DragNamespace:  DragNamespace,
		Domains:        s.index.Domains(),
		SelectedDomain: selected,
		Containers:     containers,
	}
}
