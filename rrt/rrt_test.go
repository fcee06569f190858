package rrt

import (
	"sync/atomic"
	"testing"
	"time"
)

type testWorker struct {
	n       *int32
	stopped chan struct{}
	stop    *atomic.Bool
}

func (w *testWorker) PollOnce(tx chan<- int) Signal {
	if w.stop.Load() {
		return Stop
	}
	select {
	case tx <- int(atomic.AddInt32(w.n, 1)):
	case <-time.After(50 * time.Millisecond):
	}
	return Continue
}

type testWaker struct {
	stop *atomic.Bool
}

func (w *testWaker) Wake() { w.stop.Store(true) }

type testFactory struct {
	n    int32
	stop atomic.Bool
}

func (f *testFactory) NewWorker(tx chan<- int) Worker[int] {
	return &testWorker{n: &f.n, stop: &f.stop}
}
func (f *testFactory) NewWaker() Waker {
	return &testWaker{stop: &f.stop}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	r := New[int](&testFactory{}, 8)
	sub := r.Subscribe()
	defer sub.Close()

	select {
	case v := <-sub.Events():
		if v == 0 {
			t.Fatalf("expected nonzero event")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSecondSubscriberAttachesToRunningWorker(t *testing.T) {
	r := New[int](&testFactory{}, 8)
	sub1 := r.Subscribe()
	defer sub1.Close()
	sub2 := r.Subscribe()
	defer sub2.Close()

	for _, s := range []*Subscription[int]{sub1, sub2} {
		select {
		case <-s.Events():
		case <-time.After(time.Second):
			t.Fatal("subscriber did not see an event")
		}
	}
}

func TestLastUnsubscribeWakesWorker(t *testing.T) {
	f := &testFactory{}
	r := New[int](f, 8)
	sub := r.Subscribe()

	select {
	case <-sub.Events():
	case <-time.After(time.Second):
		t.Fatal("no event before close")
	}

	sub.Close()

	deadline := time.After(time.Second)
	for {
		if f.stop.Load() {
			break
		}
		select {
		case <-deadline:
			t.Fatal("waker was never invoked after last subscriber dropped")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
