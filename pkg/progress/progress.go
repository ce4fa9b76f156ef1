package progress

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Sink receives coarse completion percentages (0-100) from an import run.
// Implementations must never block the producer.
type Sink interface {
	PutNowait(percentage int)
}

// Nop discards all progress updates.
type Nop struct{}

func (Nop) PutNowait(int) {}

// Queue is a bounded percentage queue safe for one producer and one consumer
// on different goroutines. PutNowait drops updates when the queue is full
// (the consumer only cares about the latest values anyway) and Drain empties
// the queue without blocking.
type Queue struct {
	mu  sync.Mutex
	buf []int
	cap int
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 100
	}
	return &Queue{cap: capacity}
}

func (q *Queue) PutNowait(percentage int) {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) >= q.cap {
		return
	}
	q.buf = append(q.buf, percentage)
}

func (q *Queue) Drain() []int {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.buf
	q.buf = nil
	return out
}

// LogSink writes progress updates to a logrus logger at debug level.
type LogSink struct {
	Log *logrus.Logger
}

func (s LogSink) PutNowait(percentage int) {
	if s.Log == nil {
		return
	}
	s.Log.WithField("progress", percentage).Debug("import progress")
}
