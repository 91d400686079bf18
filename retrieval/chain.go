package retrieval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"reschool-widgets/db"
	"reschool-widgets/models"
)

// DefaultTimeout bounds a single source attempt when Chain.Timeout is unset.
const DefaultTimeout = 2 * time.Second

// Chain is an ordered list of sources. Sources are tried one at a time and
// the first one holding a document that decodes wins.
type Chain struct {
	Sources []Source
	Timeout time.Duration
	Logger  *log.Logger
}

// Result is the outcome of a lookup. Source names the winning source and is
// empty when every source failed and Value is the empty snapshot.
type Result[T any] struct {
	Value  T
	Source string
}

// Found reports whether any source produced the value.
func (r Result[T]) Found() bool { return r.Source != "" }

func (c *Chain) logf(format string, args ...any) {
	l := c.Logger
	if l == nil {
		l = log.Default()
	}
	l.Printf(format, args...)
}

func (c *Chain) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

type readResult struct {
	data []byte
	err  error
}

// read runs one source attempt, giving up once the timeout expires even if
// the source itself ignores the context.
func (c *Chain) read(ctx context.Context, src Source, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	done := make(chan readResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- readResult{err: fmt.Errorf("source panicked: %v", r)}
			}
		}()
		data, err := src.TryRead(ctx, key)
		done <- readResult{data, err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Load fetches key through the chain and decodes it. It never fails: when
// no source yields a valid document the result holds empty().
func Load[T any](ctx context.Context, c *Chain, key string, decode func([]byte) (T, error), empty func() T) Result[T] {
	for _, src := range c.Sources {
		if ctx.Err() != nil {
			break
		}

		data, err := c.read(ctx, src, key)
		if err != nil {
			if !errors.Is(err, db.ErrNotFound) {
				c.logf("[%s] %s unreadable: %v", key, src.Name(), err)
			}
			continue
		}

		v, err := decode(data)
		if err != nil {
			c.logf("[%s] %s holds an invalid document (%d bytes): %v", key, src.Name(), len(data), err)
			continue
		}
		return Result[T]{Value: v, Source: src.Name()}
	}

	c.logf("[%s] no data found from any source", key)
	return Result[T]{Value: empty()}
}

func (c *Chain) LoadSchedule(ctx context.Context) Result[models.ScheduleSnapshot] {
	return Load(ctx, c, models.ScheduleKey, models.DecodeSchedule, models.EmptySchedule)
}

func (c *Chain) LoadHomework(ctx context.Context) Result[models.HomeworkSnapshot] {
	return Load(ctx, c, models.HomeworkKey, models.DecodeHomework, models.EmptyHomework)
}

func (c *Chain) LoadGrades(ctx context.Context) Result[models.GradesSnapshot] {
	return Load(ctx, c, models.GradesKey, models.DecodeGrades, models.EmptyGrades)
}

// Silent returns a logger that drops everything.
func Silent() *log.Logger {
	return log.New(io.Discard, "", 0)
}
