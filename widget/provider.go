package widget

import (
	"context"
	"time"

	"reschool-widgets/models"
	"reschool-widgets/retrieval"
)

// DefaultRefreshInterval is how long a timeline stays current before the
// host asks again.
const DefaultRefreshInterval = 30 * time.Minute

// Entry is one point on a widget timeline.
type Entry[T any] struct {
	Date   time.Time `json:"date"`
	Data   T         `json:"data"`
	Source string    `json:"source,omitempty"`
}

// Timeline is what the host renders until NextUpdate.
type Timeline[T any] struct {
	Entries    []Entry[T] `json:"entries"`
	NextUpdate time.Time  `json:"nextUpdate"`
}

// Provider answers the host's placeholder, snapshot and timeline requests
// for one widget. It keeps no state between calls; every request reads
// storage again.
type Provider[T any] struct {
	Kind            Kind
	Chain           *retrieval.Chain
	RefreshInterval time.Duration
	Now             func() time.Time

	decode func([]byte) (T, error)
	empty  func() T
}

func NewScheduleProvider(chain *retrieval.Chain, refresh time.Duration) *Provider[models.ScheduleSnapshot] {
	return newProvider(Schedule, chain, refresh, models.DecodeSchedule, models.EmptySchedule)
}

func NewHomeworkProvider(chain *retrieval.Chain, refresh time.Duration) *Provider[models.HomeworkSnapshot] {
	return newProvider(Homework, chain, refresh, models.DecodeHomework, models.EmptyHomework)
}

func NewGradesProvider(chain *retrieval.Chain, refresh time.Duration) *Provider[models.GradesSnapshot] {
	return newProvider(Grades, chain, refresh, models.DecodeGrades, models.EmptyGrades)
}

func newProvider[T any](kind Kind, chain *retrieval.Chain, refresh time.Duration, decode func([]byte) (T, error), empty func() T) *Provider[T] {
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}
	return &Provider[T]{
		Kind:            kind,
		Chain:           chain,
		RefreshInterval: refresh,
		Now:             time.Now,
		decode:          decode,
		empty:           empty,
	}
}

func (p *Provider[T]) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Placeholder is shown before any data has been read.
func (p *Provider[T]) Placeholder() Entry[T] {
	return Entry[T]{Date: p.now(), Data: p.empty()}
}

// Snapshot reads the current data once.
func (p *Provider[T]) Snapshot(ctx context.Context) Entry[T] {
	res := retrieval.Load(ctx, p.Chain, p.Kind.Key(), p.decode, p.empty)
	return Entry[T]{Date: p.now(), Data: res.Value, Source: res.Source}
}

// Timeline returns a single current entry and asks to be refreshed after
// RefreshInterval.
func (p *Provider[T]) Timeline(ctx context.Context) Timeline[T] {
	entry := p.Snapshot(ctx)
	return Timeline[T]{
		Entries:    []Entry[T]{entry},
		NextUpdate: entry.Date.Add(p.RefreshInterval),
	}
}
