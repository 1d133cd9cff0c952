package hub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"groupdeck/internal/platform/config"
)

// recordingSubscriber counts snapshot pushes and keeps the latest one.
type recordingSubscriber struct {
	mu     sync.Mutex
	pushes int
	last   *Snapshot
}

func (r *recordingSubscriber) Apply(_ context.Context, snap *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes++
	r.last = snap
}

func (r *recordingSubscriber) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pushes
}

func (r *recordingSubscriber) latest() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

type WatcherSuite struct {
	suite.Suite
	hub    *fakeHub
	client *Client
}

func TestWatcherSuite(t *testing.T) {
	suite.Run(t, new(WatcherSuite))
}

func (s *WatcherSuite) SetupTest() {
	s.hub = newFakeHub(s.T())

	var err error
	s.client, err = Dial(context.Background(), config.HubConfig{
		URL:         s.hub.url(),
		AccessToken: "test-token",
		CallTimeout: 2 * time.Second,
	})
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = s.client.Close() })
}

func (s *WatcherSuite) runWatcher(ctx context.Context, subs ...Subscriber) chan error {
	w := NewWatcher(s.client, subs)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return done
}

func (s *WatcherSuite) TestRun() {
	s.Run("initial snapshot reaches every subscriber", func() {
		s.hub.setResult("get_states", `[
			{"entity_id":"light.x","state":"on","attributes":{"friendly_name":"Desk Lamp"}}
		]`)

		first := &recordingSubscriber{}
		second := &recordingSubscriber{}
		ctx, cancel := context.WithCancel(context.Background())
		done := s.runWatcher(ctx, first, second)

		s.Eventually(func() bool {
			return first.count() == 1 && second.count() == 1
		}, time.Second, 5*time.Millisecond)

		snap := first.latest()
		require.NotNil(s.T(), snap)
		s.True(snap.HasEntity("light.x"))

		cancel()
		s.ErrorIs(<-done, context.Canceled)
	})

	s.Run("change signal triggers a fresh pull", func() {
		sub := &recordingSubscriber{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := s.runWatcher(ctx, sub)

		s.Eventually(func() bool { return sub.count() == 1 }, time.Second, 5*time.Millisecond)

		s.hub.setResult("get_states", `[
			{"entity_id":"switch.fan","state":"off","attributes":{}}
		]`)
		s.Require().NoError(s.hub.pushEvent())

		s.Eventually(func() bool { return sub.count() == 2 }, time.Second, 5*time.Millisecond)
		s.True(sub.latest().HasEntity("switch.fan"))

		cancel()
		s.ErrorIs(<-done, context.Canceled)
	})

	s.Run("run ends when the hub session drops", func() {
		sub := &recordingSubscriber{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := s.runWatcher(ctx, sub)

		s.Eventually(func() bool { return sub.count() == 1 }, time.Second, 5*time.Millisecond)

		s.hub.server.CloseClientConnections()

		select {
		case err := <-done:
			s.Error(err)
		case <-time.After(time.Second):
			s.FailNow("watcher did not stop after session loss")
		}
	})
}
