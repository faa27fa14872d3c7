package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Ftibw/mongo-modelgen/internal/analyze"
	"github.com/Ftibw/mongo-modelgen/internal/diagnostic"
	"github.com/Ftibw/mongo-modelgen/internal/registry"
)

//go:generate go tool stringer -type=State

// State is the scheduling state of a registered type.
type State int

const (
	Pending State = iota
	Deferred
	Emitted
)

// Emitter renders and writes the units of one type.
type Emitter interface {
	Emit(ctx context.Context, td *registry.TypeDescriptor) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, td *registry.TypeDescriptor) error

// Emit calls f.
func (f EmitterFunc) Emit(ctx context.Context, td *registry.TypeDescriptor) error {
	return f(ctx, td)
}

// Result summarizes one run.
type Result struct {
	// Emitted lists the types handed to the emitter, in order.
	Emitted []analyze.TypeID
	// Rounds is the number of embeddable rounds.
	Rounds int
	// Stuck lists the embeddables left unemitted after a round emitted nothing.
	Stuck []analyze.TypeID
}

// Scheduler orders emission for one session.
type Scheduler struct {
	session   *registry.Session
	emitter   Emitter
	logger    *slog.Logger
	maxRounds int
	states    map[analyze.TypeID]State
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMaxRounds caps the embeddable rounds. Zero means one round per
// registered embeddable plus one.
func WithMaxRounds(n int) Option {
	return func(s *Scheduler) {
		s.maxRounds = n
	}
}

// New creates a Scheduler emitting through emitter.
func New(session *registry.Session, emitter Emitter, opts ...Option) *Scheduler {
	s := &Scheduler{
		session: session,
		emitter: emitter,
		logger:  session.Logger(),
		states:  map[analyze.TypeID]State{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// State returns the state of id. Unknown types are Pending.
func (s *Scheduler) State(id analyze.TypeID) State {
	return s.states[id]
}

// Run emits every direct entity, then drains the embeddables. Only a
// cancelled context or an emitter error is returned; non-convergence is a
// diagnostic.
func (s *Scheduler) Run(ctx context.Context) (Result, error) {
	var res Result

	for _, td := range s.session.Direct() {
		if err := s.emit(ctx, td, &res); err != nil {
			return res, err
		}
	}

	err := s.drain(ctx, &res)

	return res, err
}

func (s *Scheduler) emit(ctx context.Context, td *registry.TypeDescriptor, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !s.session.MarkEmitted(td.ID()) {
		return nil
	}

	s.states[td.ID()] = Emitted
	res.Emitted = append(res.Emitted, td.ID())

	if err := s.emitter.Emit(ctx, td); err != nil {
		return fmt.Errorf("emitting %s: %w", td.QualifiedName(), err)
	}

	return nil
}

// drain runs the embeddable rounds. The pending list is re-read every round
// because emitting and walking may register more embeddables.
func (s *Scheduler) drain(ctx context.Context, res *Result) error {
	walker := s.session.Walker()

	for {
		pending := s.session.PendingEmbeddables()
		if len(pending) == 0 {
			return nil
		}

		limit := s.maxRounds
		if limit == 0 {
			limit = len(s.session.Embeddables()) + 1
		}

		if res.Rounds >= limit {
			s.stuck(pending, res, fmt.Sprintf("gave up after %d rounds", res.Rounds))
			return nil
		}

		res.Rounds++

		var ready, deferred []*registry.TypeDescriptor

		for _, td := range pending {
			reached := false

			for _, other := range pending {
				if other.ID() != td.ID() && walker.Reaches(other.Info, td.ID()) {
					reached = true
					break
				}
			}

			if reached {
				s.states[td.ID()] = Deferred
				deferred = append(deferred, td)
			} else {
				ready = append(ready, td)
			}
		}

		s.logger.Debug("embeddable round",
			slog.Int("round", res.Rounds),
			slog.Int("ready", len(ready)),
			slog.Int("deferred", len(deferred)))

		if len(deferred) == len(pending) {
			s.stuck(deferred, res, "references form a cycle")
			return nil
		}

		for _, td := range ready {
			if err := s.emit(ctx, td, res); err != nil {
				return err
			}
		}
	}
}

func (s *Scheduler) stuck(tds []*registry.TypeDescriptor, res *Result, reason string) {
	for _, td := range tds {
		s.states[td.ID()] = Deferred
		res.Stuck = append(res.Stuck, td.ID())
	}

	names := cycleMembers(s.session.Walker(), tds)
	if len(names) == 0 {
		for _, td := range tds {
			names = append(names, td.QualifiedName())
		}
	}

	s.session.Diagnostics().AddError(diagnostic.CodePotentialEndlessLoop,
		fmt.Sprintf("%s: %s (%s)", diagnostic.ErrNonConvergence, reason, joinNames(names)), "", "")
}
