package hotkey

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectEvents(t *testing.T, l *LowLevelAdapter, n int) []Event {
	t.Helper()
	events := make([]Event, 0, n)
	for len(events) < n {
		select {
		case ev := <-l.Events():
			events = append(events, ev)
		case <-time.After(time.Second):
			t.Fatalf("получено %d событий из %d", len(events), n)
		}
	}
	return events
}

func TestReadEventsProtocol(t *testing.T) {
	l := NewLowLevel("")
	input := "READY\nKEY_DOWN\nKEY_UP\n"

	go l.readEvents(strings.NewReader(input))

	events := collectEvents(t, l, 3)
	assert.Equal(t, EventReady, events[0].Type)
	assert.Equal(t, EventDown, events[1].Type)
	assert.Equal(t, EventUp, events[2].Type)
	for _, ev := range events {
		assert.Equal(t, SourceLowLevel, ev.Source)
	}
}

func TestReadEventsSuppressesRepeats(t *testing.T) {
	l := NewLowLevel("")
	// Автоповтор железа: серия KEY_DOWN при одном физическом удержании
	input := "KEY_DOWN\nKEY_DOWN\nKEY_DOWN\nKEY_UP\nKEY_UP\n"

	go l.readEvents(strings.NewReader(input))

	events := collectEvents(t, l, 2)
	assert.Equal(t, EventDown, events[0].Type)
	assert.Equal(t, EventUp, events[1].Type)

	select {
	case ev := <-l.Events():
		t.Fatalf("лишнее событие: %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReadEventsError(t *testing.T) {
	l := NewLowLevel("")
	input := "ERROR: permission denied\n"

	go l.readEvents(strings.NewReader(input))

	events := collectEvents(t, l, 1)
	assert.Equal(t, EventError, events[0].Type)
	require.Error(t, events[0].Err)
	assert.Contains(t, events[0].Err.Error(), "permission denied")
}

func TestReadEventsSynthesizesUpOnEOF(t *testing.T) {
	l := NewLowLevel("")
	// Helper умер посреди удержания - up синтезируется на EOF
	input := "KEY_DOWN\n"

	go l.readEvents(strings.NewReader(input))

	events := collectEvents(t, l, 2)
	assert.Equal(t, EventDown, events[0].Type)
	assert.Equal(t, EventUp, events[1].Type)
}

func TestReadEventsIgnoresGarbage(t *testing.T) {
	l := NewLowLevel("")
	input := "\nwhatever\nKEY_DOWN\nKEY_UP\n"

	go l.readEvents(strings.NewReader(input))

	events := collectEvents(t, l, 2)
	assert.Equal(t, EventDown, events[0].Type)
	assert.Equal(t, EventUp, events[1].Type)
}

func TestStopWithoutStart(t *testing.T) {
	l := NewLowLevel("")
	l.Stop() // не должен паниковать
	l.Stop()
}

func TestStartMissingHelper(t *testing.T) {
	l := NewLowLevel("/nonexistent/golos-keyd")

	err := l.Start(testBinding())
	require.Error(t, err)

	events := collectEvents(t, l, 1)
	assert.Equal(t, EventUnavailable, events[0].Type)
}
