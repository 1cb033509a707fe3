// scheduler_test.go

package main

import "testing"

func TestSchedulerFiresInDeadlineOrder(t *testing.T) {
	s := NewScheduler()
	var order []int64

	id := s.RegisterEvent(func(payload int64) {
		order = append(order, payload)
	})

	s.AddEvent(id, 3, 30)
	s.AddEvent(id, 1, 10)
	s.AddEvent(id, 2, 20)

	s.Advance(30)

	want := []int64{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestSchedulerDeadlineNeverDecreases(t *testing.T) {
	s := NewScheduler()
	var lastDeadline uint64
	var violated bool

	id := s.RegisterEvent(func(payload int64) {
		d := uint64(payload) * 5 // each event's payload i was armed at deadline i*5
		if d < lastDeadline {
			violated = true
		}
		lastDeadline = d
	})

	for i := uint64(1); i <= 20; i++ {
		s.AddEvent(id, int64(i), i*5)
	}
	s.Advance(100)

	if violated {
		t.Fatal("scheduler fired an event out of non-decreasing deadline order")
	}
}

func TestSchedulerCallbackCanReArmItself(t *testing.T) {
	s := NewScheduler()
	fired := 0

	var id int
	id = s.RegisterEvent(func(payload int64) {
		fired++
		if fired < 3 {
			s.AddEvent(id, 0, 0)
		}
	})
	s.AddEvent(id, 0, 1)
	s.Advance(1)

	if fired != 3 {
		t.Fatalf("fired = %d, want 3", fired)
	}
}
