// Package engine carries what every query engine shares: options, the round
// budget of fixpoint loops, and the logging and tracing around one call.
package engine

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/liran-funaro/pathq/internal/telemetry"
)

var ErrRoundLimit = errors.New("fixpoint round limit exceeded")

type Option func(*options)

type options struct {
	logger    logrus.FieldLogger
	maxRounds int
}

// WithLogger sets the logger receiving the engine's debug output. The default
// is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMaxRounds caps the number of fixpoint rounds. A call exceeding it fails
// with ErrRoundLimit. Zero means unbounded.
func WithMaxRounds(n int) Option {
	return func(o *options) {
		o.maxRounds = n
	}
}

// Run tracks a single engine call.
type Run struct {
	ctx     context.Context
	span    trace.Span
	log     logrus.FieldLogger
	name    string
	max     int
	rounds  int
	started time.Time
}

// Start opens a run named after the engine. The returned context carries the
// run's span.
func Start(ctx context.Context, name string, opts []Option) (context.Context, *Run) {
	o := options{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, span := telemetry.Tracer.Start(ctx, name)
	return ctx, &Run{
		ctx:     ctx,
		span:    span,
		log:     o.logger.WithField("engine", name),
		name:    name,
		max:     o.maxRounds,
		started: time.Now(),
	}
}

func (r *Run) Log() logrus.FieldLogger { return r.log }

// Rounds returns the number of rounds started so far.
func (r *Run) Rounds() int { return r.rounds }

// Round must be called at the start of every fixpoint round. It fails when
// the context is done or the round budget is spent.
func (r *Run) Round() error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	r.rounds++
	if r.max > 0 && r.rounds > r.max {
		return errors.Wrapf(ErrRoundLimit, "%s: more than %d rounds", r.name, r.max)
	}
	return nil
}

// Finish closes the run, recording its outcome.
func (r *Run) Finish(answers int, err error) {
	elapsed := time.Since(r.started)
	telemetry.RecordQuery(r.ctx, r.name, elapsed, r.rounds, answers, err == nil)

	r.span.SetAttributes(
		attribute.Int("rounds", r.rounds),
		attribute.Int("answers", answers),
	)
	if err != nil {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, err.Error())
	}
	r.span.End()

	log := r.log.WithFields(logrus.Fields{
		"rounds":  r.rounds,
		"pairs":   answers,
		"elapsed": elapsed,
	})
	if err != nil {
		log.WithError(err).Debug("query failed")
		return
	}
	log.Debug("query done")
}
