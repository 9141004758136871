package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/VrityaCodeRishi/order-exporter/internal/core/domain"
	"github.com/VrityaCodeRishi/order-exporter/internal/core/ports"
)

// Fixed distribution parameters of the synthetic feed.
const (
	failureProbability = 0.12
	minOrderValue      = 20.0
	maxOrderValue      = 250.0
	backlogMean        = 40.0
	backlogStdDev      = 10.0
	latencyRate        = 2.0 // mean 0.5s
)

// ErrRoundAborted wraps a panic recovered from a sampler round.
var ErrRoundAborted = errors.New("sampler round aborted")

// Pacing controls the sleep between rounds. The target interval is drawn
// uniformly from {MinInterval, MinInterval+Step, ..., MaxInterval}; the
// actual sleep is the target minus the round's work time, never below Floor.
type Pacing struct {
	MinInterval time.Duration
	MaxInterval time.Duration
	Step        time.Duration
	Floor       time.Duration
}

// DefaultPacing draws a whole number of seconds in [5, 15] and sleeps at least 1s.
var DefaultPacing = Pacing{
	MinInterval: 5 * time.Second,
	MaxInterval: 15 * time.Second,
	Step:        time.Second,
	Floor:       time.Second,
}

type noopObserver struct{}

func (noopObserver) IterationCompleted(time.Time) {}
func (noopObserver) IterationFailed()             {}

// Sampler is the only writer to the order metrics and the snapshot store.
// Its random source is not synchronised: once Start has been called, only
// the sampler goroutine may draw from it.
type Sampler struct {
	metrics  ports.OrderMetrics
	snapshot ports.SnapshotWriter
	observer ports.SamplerObserver
	rng      *rand.Rand
	log      zerolog.Logger

	now    func() time.Time
	draw   func() domain.Sample
	pacing Pacing

	startOnce sync.Once
	done      chan struct{}
}

// NewSampler returns a Sampler using DefaultPacing and the wall clock.
// observer may be nil.
func NewSampler(
	metrics ports.OrderMetrics,
	snapshot ports.SnapshotWriter,
	observer ports.SamplerObserver,
	rng *rand.Rand,
	log zerolog.Logger,
) *Sampler {
	if observer == nil {
		observer = noopObserver{}
	}
	s := &Sampler{
		metrics:  metrics,
		snapshot: snapshot,
		observer: observer,
		rng:      rng,
		log:      log,
		now:      time.Now,
		pacing:   DefaultPacing,
		done:     make(chan struct{}),
	}
	s.draw = s.Draw
	return s
}

// Draw produces the values for one round without touching any shared state.
func (s *Sampler) Draw() domain.Sample {
	status := domain.OrderFulfilled
	if s.rng.Float64() <= failureProbability {
		status = domain.OrderFailed
	}

	value := roundCents(minOrderValue + s.rng.Float64()*(maxOrderValue-minOrderValue))
	backlog := int(math.Max(0, s.rng.NormFloat64()*backlogStdDev+backlogMean))
	latency := s.rng.ExpFloat64() / latencyRate

	// Region is drawn independently of the order values.
	region := domain.Regions[s.rng.IntN(len(domain.Regions))]

	return domain.Sample{
		Status:         status,
		OrderValue:     value,
		Backlog:        backlog,
		ProcessingTime: latency,
		Region:         region,
	}
}

// Apply commits a drawn sample: five independent metric updates, then the
// snapshot as one unit.
func (s *Sampler) Apply(sample domain.Sample, now time.Time) {
	s.metrics.RecordOrder(sample.Status)
	s.metrics.SetLatestOrderValue(sample.OrderValue)
	s.metrics.SetBacklog(sample.Backlog)
	s.metrics.ObserveProcessingLatency(sample.ProcessingTime)
	s.metrics.SetLastRefresh(now)

	s.snapshot.Update(domain.Snapshot{
		LatestOrderValue: sample.OrderValue,
		Region:           sample.Region,
		Backlog:          sample.Backlog,
		LastGenerated:    domain.FormatTimestamp(now),
	}, now)
}

// Step runs one full round. All random draws happen before the first write,
// so a panic while drawing commits nothing; it is returned as ErrRoundAborted.
// Apply is outside that boundary: a panic there would leave the round half
// written, so it is not recovered and propagates to the caller.
func (s *Sampler) Step() (domain.Sample, error) {
	sample, err := s.safeDraw()
	if err != nil {
		return domain.Sample{}, err
	}

	now := s.now()
	s.Apply(sample, now)
	s.observer.IterationCompleted(now)
	return sample, nil
}

func (s *Sampler) safeDraw() (sample domain.Sample, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRoundAborted, r)
		}
	}()
	return s.draw(), nil
}

// NextDelay picks the next target interval and returns how long to sleep
// given the time the last round took.
func (s *Sampler) NextDelay(elapsed time.Duration) time.Duration {
	p := s.pacing
	steps := int64((p.MaxInterval - p.MinInterval) / p.Step)
	target := p.MinInterval + time.Duration(s.rng.Int64N(steps+1))*p.Step
	target = max(target, p.MinInterval)

	return max(target-elapsed, p.Floor)
}

// Run generates samples until ctx is cancelled. A round whose draw panics is
// logged and counted, and the loop carries on with the next round.
func (s *Sampler) Run(ctx context.Context) {
	s.log.Info().
		Dur("min_interval", s.pacing.MinInterval).
		Dur("max_interval", s.pacing.MaxInterval).
		Msg("sampler started")

	for {
		if ctx.Err() != nil {
			s.log.Info().Msg("sampler stopped")
			return
		}

		start := time.Now()
		sample, err := s.Step()
		if err != nil {
			s.observer.IterationFailed()
			s.log.Error().Err(err).Msg("sampler round failed")
		} else {
			s.log.Debug().
				Str("status", string(sample.Status)).
				Float64("order_value", sample.OrderValue).
				Int("backlog", sample.Backlog).
				Float64("processing_seconds", sample.ProcessingTime).
				Str("region", sample.Region).
				Msg("sample generated")
		}

		delay := s.NextDelay(time.Since(start))
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info().Msg("sampler stopped")
			return
		case <-timer.C:
		}
	}
}

// Start launches Run in its own goroutine. Calls after the first are no-ops.
func (s *Sampler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go func() {
			defer close(s.done)
			s.Run(ctx)
		}()
	})
}

// Done is closed once a started sampler has returned from Run.
func (s *Sampler) Done() <-chan struct{} {
	return s.done
}

func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
