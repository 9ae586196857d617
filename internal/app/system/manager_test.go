package system

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type recordingService struct {
	name     string
	startErr error
	events   *[]string
}

func (s recordingService) Name() string { return s.name }

func (s recordingService) Start(context.Context) error {
	*s.events = append(*s.events, "start "+s.name)
	return s.startErr
}

func (s recordingService) Stop(context.Context) error {
	*s.events = append(*s.events, "stop "+s.name)
	return nil
}

func TestManagerLifecycleOrder(t *testing.T) {
	var events []string
	m := NewManager()
	for _, name := range []string{"a", "b"} {
		if err := m.Register(recordingService{name: name, events: &events}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	if err := m.Register(recordingService{name: "a", events: &events}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Register(recordingService{name: "late", events: &events}); err == nil {
		t.Fatalf("expected registration after start to fail")
	}
	if err := m.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	want := []string{"start a", "start b", "stop b", "stop a"}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestManagerStartFailureRollsBack(t *testing.T) {
	var events []string
	m := NewManager()
	_ = m.Register(recordingService{name: "ok", events: &events})
	_ = m.Register(recordingService{name: "broken", startErr: errors.New("boom"), events: &events})

	if err := m.Start(context.Background()); err == nil {
		t.Fatalf("expected start failure")
	}
	want := []string{"start ok", "start broken", "stop ok"}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	if got := m.Names(); !reflect.DeepEqual(got, []string{"ok", "broken"}) {
		t.Fatalf("names = %v", got)
	}
}
