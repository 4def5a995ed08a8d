package entity

import (
	"reflect"
	"testing"
)

func TestBus_NotifiesInRegistrationOrder(t *testing.T) {
	var bus Bus
	var calls []string
	bus.Subscribe(func() { calls = append(calls, "first") })
	bus.Subscribe(func() { calls = append(calls, "second") })

	bus.Notify()

	if want := []string{"first", "second"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	var bus Bus
	calls := 0
	unsubscribe := bus.Subscribe(func() { calls++ })
	bus.Subscribe(func() {})

	unsubscribe()
	unsubscribe()
	bus.Notify()

	if calls != 0 {
		t.Fatalf("expected no calls after unsubscribe, got %d", calls)
	}
	if bus.Len() != 1 {
		t.Fatalf("expected the other observer to remain, got %d", bus.Len())
	}
}

func TestBus_UnsubscribeDuringNotify(t *testing.T) {
	var bus Bus
	var calls []string
	var unsubscribeSecond func()
	bus.Subscribe(func() {
		calls = append(calls, "first")
		unsubscribeSecond()
	})
	unsubscribeSecond = bus.Subscribe(func() { calls = append(calls, "second") })

	bus.Notify()
	bus.Notify()

	if want := []string{"first", "second", "first"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
}

func TestBus_SubscribeDuringNotify(t *testing.T) {
	var bus Bus
	late := 0
	bus.Subscribe(func() {
		if late == 0 {
			bus.Subscribe(func() { late++ })
		}
	})

	bus.Notify()
	if late != 0 {
		t.Fatalf("expected observer added mid-round to wait for the next round, got %d", late)
	}
	bus.Notify()
	if late != 1 {
		t.Fatalf("expected 1 call, got %d", late)
	}
}

func TestBus_NilObserver(t *testing.T) {
	var bus Bus
	unsubscribe := bus.Subscribe(nil)
	unsubscribe()
	bus.Notify()

	if bus.Len() != 0 {
		t.Fatalf("expected nil observer to be ignored, got %d", bus.Len())
	}
}

func TestBus_Clear(t *testing.T) {
	var bus Bus
	calls := 0
	bus.Subscribe(func() { calls++ })
	bus.Clear()
	bus.Notify()

	if calls != 0 {
		t.Fatalf("expected cleared bus to notify nobody, got %d", calls)
	}
}
