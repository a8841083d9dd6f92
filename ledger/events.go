package ledger

import (
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is one entry of the append-only audit log. Emission is best-effort
// observability: it is never tied to the transactional outcome of the
// operation that produced it.
type Event struct {
	Seq    uint64                 `json:"seq"`
	Type   string                 `json:"type"`
	At     time.Time              `json:"at"`
	Fields map[string]interface{} `json:"fields"`
}

type Sink interface {
	Emit(eventType string, fields map[string]interface{})
}

// EventLog writes events as JSON lines via logrus and keeps a bounded
// in-memory tail for the SSE feed and for tests.
type EventLog struct {
	log   *logrus.Logger
	clock Clock

	mu   sync.Mutex
	seq  uint64
	tail []Event
	max  int
}

func NewEventLog(clock Clock) *EventLog {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	l.SetOutput(os.Stdout)
	return &EventLog{log: l, clock: clock, max: 1024}
}

func (e *EventLog) Emit(eventType string, fields map[string]interface{}) {
	e.mu.Lock()
	e.seq++
	ev := Event{Seq: e.seq, Type: eventType, At: e.clock.Now(), Fields: fields}
	e.tail = append(e.tail, ev)
	if len(e.tail) > e.max {
		e.tail = e.tail[len(e.tail)-e.max:]
	}
	e.mu.Unlock()

	e.log.WithFields(logrus.Fields(fields)).WithField("event", eventType).Info("audit")
}

// Since returns events with a sequence number greater than seq, oldest first.
func (e *EventLog) Since(seq uint64) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Event
	for _, ev := range e.tail {
		if ev.Seq > seq {
			out = append(out, ev)
		}
	}
	return out
}

// LastSeq returns the sequence number of the newest event.
func (e *EventLog) LastSeq() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}
