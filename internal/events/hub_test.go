package events_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"bingwall/internal/events"
)

func TestPublishAssignsSequenceAndTimestamp(t *testing.T) {
	hub := events.NewHub(16)
	hub.Publish(events.WallpaperChanged("/walls/a.jpg", "First"))
	hub.Publish(events.TimerStateChanged(true))

	evts, next := hub.Tail(10)
	if len(evts) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evts))
	}
	if evts[0].Sequence != 1 || evts[1].Sequence != 2 {
		t.Fatalf("unexpected sequences: %d, %d", evts[0].Sequence, evts[1].Sequence)
	}
	if next != 2 {
		t.Fatalf("next = %d, want 2", next)
	}
	if evts[0].Timestamp.IsZero() {
		t.Fatal("expected timestamp assigned on publish")
	}
	if evts[0].Type != events.TypeWallpaperChanged || evts[0].Title != "First" {
		t.Fatalf("unexpected event: %#v", evts[0])
	}
	if evts[1].Type != events.TypeTimerStateChanged || !evts[1].Enabled {
		t.Fatalf("unexpected event: %#v", evts[1])
	}
}

func TestRingDropsOldest(t *testing.T) {
	hub := events.NewHub(2)
	hub.Publish(events.FetchProgress("starting", "one", ""))
	hub.Publish(events.FetchProgress("downloading", "two", ""))
	hub.Publish(events.FetchProgress("complete", "three", ""))

	evts, _ := hub.Tail(10)
	if len(evts) != 2 {
		t.Fatalf("expected 2 buffered events, got %d", len(evts))
	}
	if evts[0].Sequence != 2 || evts[1].Sequence != 3 {
		t.Fatalf("unexpected sequences: %d, %d", evts[0].Sequence, evts[1].Sequence)
	}
	if hub.FirstSequence() != 2 {
		t.Fatalf("FirstSequence = %d, want 2", hub.FirstSequence())
	}
}

func TestFetchResumesAfterTruncatedRead(t *testing.T) {
	hub := events.NewHub(16)
	for i := 0; i < 3; i++ {
		hub.Publish(events.FetchProgress("starting", "msg", ""))
	}

	evts, next, err := hub.Fetch(context.Background(), 0, 2, false)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(evts) != 2 || next != 2 {
		t.Fatalf("got %d events, next %d; want 2 events, next 2", len(evts), next)
	}

	evts, next, err = hub.Fetch(context.Background(), next, 10, false)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(evts) != 1 || evts[0].Sequence != 3 || next != 3 {
		t.Fatalf("resume read lost events: %#v next=%d", evts, next)
	}
}

func TestFetchWaitsForPublish(t *testing.T) {
	hub := events.NewHub(16)

	done := make(chan struct{})
	var got []events.Event
	go func() {
		defer close(done)
		evts, _, err := hub.Fetch(context.Background(), 0, 10, true)
		if err != nil {
			t.Errorf("Fetch returned error: %v", err)
			return
		}
		got = evts
	}()

	time.Sleep(20 * time.Millisecond)
	hub.Publish(events.WallpaperChanged("/walls/a.jpg", "Late"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Fetch did not wake on publish")
	}
	if len(got) != 1 || got[0].Title != "Late" {
		t.Fatalf("unexpected events: %#v", got)
	}
}

func TestFetchWaitHonorsContext(t *testing.T) {
	hub := events.NewHub(16)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, _, err := hub.Fetch(ctx, 0, 10, true)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected context error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Fetch did not wake on cancellation")
	}
}

type recordingSink struct {
	mu   sync.Mutex
	seen []events.Event
}

func (s *recordingSink) Append(evt events.Event) {
	s.mu.Lock()
	s.seen = append(s.seen, evt)
	s.mu.Unlock()
}

func TestSinkReceivesPublishedEvents(t *testing.T) {
	hub := events.NewHub(16)
	sink := &recordingSink{}
	hub.AddSink(sink)

	hub.Publish(events.TimerStateChanged(false))

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.seen) != 1 {
		t.Fatalf("expected 1 sink event, got %d", len(sink.seen))
	}
	if sink.seen[0].Sequence != 1 || sink.seen[0].Type != events.TypeTimerStateChanged {
		t.Fatalf("unexpected sink event: %#v", sink.seen[0])
	}
}
