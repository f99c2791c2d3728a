package observer

import (
	"testing"

	"bauernschach/internal/core"
	"bauernschach/internal/game"
)

type recorder struct {
	name string
	log  *[]string
}

func (r *recorder) OnState(s game.Snapshot) {
	*r.log = append(*r.log, r.name+":"+s.Status.String())
}

func TestNotifyInSubscriptionOrder(t *testing.T) {
	var log []string
	reg := NewRegistry()
	a := &recorder{name: "a", log: &log}
	b := &recorder{name: "b", log: &log}
	c := NewFunc(func(s game.Snapshot) { log = append(log, "c:"+s.Status.String()) })

	reg.Subscribe(b)
	reg.Subscribe(a)
	reg.Subscribe(c)
	reg.Notify(game.Snapshot{Status: core.StatusDraw})

	want := []string{"b:draw", "a:draw", "c:draw"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, log)
		}
	}
}

func TestDoubleSubscribePanics(t *testing.T) {
	reg := NewRegistry()
	l := NewFunc(func(game.Snapshot) {})
	reg.Subscribe(l)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate subscribe")
		}
	}()
	reg.Subscribe(l)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	l := NewFunc(func(game.Snapshot) { calls++ })
	other := NewFunc(func(game.Snapshot) {})

	reg.Unsubscribe(l)
	reg.Subscribe(l)
	reg.Subscribe(other)
	reg.Unsubscribe(l)
	reg.Unsubscribe(l)

	if reg.Len() != 1 {
		t.Fatalf("expected one listener left, got %d", reg.Len())
	}
	reg.Notify(game.Snapshot{})
	if calls != 0 {
		t.Fatalf("unsubscribed listener was notified %d times", calls)
	}

	// Resubscribing after removal is allowed
	reg.Subscribe(l)
	reg.Notify(game.Snapshot{})
	if calls != 1 {
		t.Fatalf("expected 1 call after resubscribe, got %d", calls)
	}
}
