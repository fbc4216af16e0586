package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSource struct {
	mu    sync.Mutex
	raw   map[int64]string
	calls int
}

func (f *fakeSource) TrackRaw(ctx context.Context, id int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	raw, ok := f.raw[id]
	if !ok {
		return "", ErrTrackNotFound
	}
	return raw, nil
}

const testTrack = "V 1\nA Author\nN Magnets\nT BAAA47DCUABAAA48D1127E,Ads:\n"

func TestCourseServiceLoad(t *testing.T) {
	src := &fakeSource{raw: map[int64]string{7: testTrack}}
	cs := NewCourseService(src, nil, nil)
	ctx := context.Background()

	lc, err := cs.Load(ctx, 7)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lc.Track.Name != "Magnets" {
		t.Errorf("name = %q", lc.Track.Name)
	}
	if len(lc.Magnets) != 1 || lc.Magnets[0].Repel {
		t.Fatalf("magnets = %+v", lc.Magnets)
	}
	if f, _ := lc.Forces.Cell(121); f != (Force{5, 0}) {
		t.Errorf("cell 121 = %v", f)
	}

	again, err := cs.Load(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if again != lc {
		t.Error("second Load should return the cached course")
	}
	if src.calls != 1 {
		t.Errorf("source called %d times, want 1", src.calls)
	}
	if cs.Cached() != 1 {
		t.Errorf("Cached = %d", cs.Cached())
	}

	cs.Invalidate(ctx, 7)
	if cs.Cached() != 0 {
		t.Errorf("Cached after Invalidate = %d", cs.Cached())
	}
	if _, err := cs.Load(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if src.calls != 2 {
		t.Errorf("source called %d times after invalidate, want 2", src.calls)
	}
}

func TestCourseServiceErrors(t *testing.T) {
	src := &fakeSource{raw: map[int64]string{1: "V 1\nX nope\n"}}
	cs := NewCourseService(src, nil, nil)
	ctx := context.Background()

	if _, err := cs.Load(ctx, 2); !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("missing track err = %v", err)
	}
	if _, err := cs.Load(ctx, 1); err == nil {
		t.Error("expected parse error")
	}
	if cs.Cached() != 0 {
		t.Errorf("failed loads should not be cached, got %d", cs.Cached())
	}

	if _, err := NewCourseService(nil, nil, nil).Load(ctx, 1); !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("nil source err = %v", err)
	}
}

func TestCourseServicePublishWithoutRedis(t *testing.T) {
	cs := NewCourseService(nil, nil, nil)
	if err := cs.Publish(context.Background(), TrackEvent{Type: "record", TrackID: 1}); err != nil {
		t.Errorf("Publish without redis = %v", err)
	}
}

func TestCourseServiceEvictIdle(t *testing.T) {
	src := &fakeSource{raw: map[int64]string{1: testTrack, 2: testTrack}}
	cs := NewCourseService(src, nil, nil)
	ctx := context.Background()

	old, err := cs.Load(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cs.Load(ctx, 2); err != nil {
		t.Fatal(err)
	}
	old.touch(time.Now().Add(-2 * time.Hour))

	if n := cs.EvictIdle(time.Hour); n != 1 {
		t.Errorf("evicted %d, want 1", n)
	}
	if cs.Cached() != 1 {
		t.Errorf("Cached = %d, want 1", cs.Cached())
	}

	// a fresh Load refreshes the timestamp
	fresh, _ := cs.Load(ctx, 2)
	if time.Since(fresh.LastUsed()) > time.Minute {
		t.Errorf("LastUsed = %v", fresh.LastUsed())
	}
}
