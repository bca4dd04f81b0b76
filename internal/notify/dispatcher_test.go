package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	batches [][]Event
	err     error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Handle(_ context.Context, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, append([]Event(nil), events...))
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func TestDispatcher_CloseFlushesPending(t *testing.T) {
	sink := &recordingSink{}
	d := newDispatcher(10, 100, time.Hour, sink)

	for i := 0; i < 3; i++ {
		d.Publish(context.Background(), NewEvent(EventRequestSubmitted, "emp@acme.io", "submitted"))
	}
	d.Close()

	assert.Equal(t, 3, sink.count())
}

func TestDispatcher_FlushesFullBatch(t *testing.T) {
	sink := &recordingSink{}
	d := newDispatcher(10, 2, time.Hour, sink)
	defer d.Close()

	d.Publish(context.Background(), NewEvent(EventRequestApproved, "hr@acme.io", "a"))
	d.Publish(context.Background(), NewEvent(EventRequestApproved, "hr@acme.io", "b"))

	require.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, 10*time.Millisecond)
}

func TestDispatcher_FlushesOnTick(t *testing.T) {
	sink := &recordingSink{}
	d := newDispatcher(10, 100, 20*time.Millisecond, sink)
	defer d.Close()

	d.Publish(context.Background(), NewEvent(EventRequestRejected, "hr@acme.io", "r"))

	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestDispatcher_SinkErrorDoesNotStopOthers(t *testing.T) {
	failing := &recordingSink{err: errors.New("smtp down")}
	ok := &recordingSink{}
	d := newDispatcher(10, 100, time.Hour, failing, ok)

	d.Publish(context.Background(), NewEvent(EventEmployeeRemoved, "hr@acme.io", "removed"))
	d.Close()

	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, ok.count())
}

func TestDispatcher_PublishAfterCloseIsDropped(t *testing.T) {
	sink := &recordingSink{}
	d := newDispatcher(10, 100, time.Hour, sink)
	d.Close()
	d.Close()

	d.Publish(context.Background(), NewEvent(EventRequestDeleted, "hr@acme.io", "x"))
	assert.Equal(t, 0, sink.count())
}

func TestEvent_Audience(t *testing.T) {
	e := NewEvent(EventRequestApproved, "hr@acme.io", "approved")
	e.Recipients = []string{"emp@acme.io", "", "emp@acme.io"}
	e.HREmail = "hr@acme.io"

	assert.Equal(t, []string{"emp@acme.io", "hr@acme.io"}, e.Audience())
	assert.NotEmpty(t, e.ID)
}
