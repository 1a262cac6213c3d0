package sampler

import (
	"context"
	"errors"
	"time"

	"stcgauge/internal/stc3100"
)

// Source abstracts the gauge read the sampler needs.
type Source interface {
	ReadAll() (stc3100.Reading, error)
}

// Sample is one timestamped ReadAll result.
type Sample struct {
	At      time.Time
	Reading stc3100.Reading
	Err     error
}

// Sampler is a clock-driven reader. No retries, no overlap.
type Sampler struct {
	src      Source
	interval time.Duration
}

func New(src Source, interval time.Duration) (*Sampler, error) {
	if src == nil {
		return nil, errors.New("sampler: source required")
	}
	if interval <= 0 {
		return nil, errors.New("sampler: interval must be > 0")
	}
	return &Sampler{src: src, interval: interval}, nil
}

// SampleOnce performs exactly one read.
func (s *Sampler) SampleOnce() Sample {
	r, err := s.src.ReadAll()
	return Sample{At: time.Now(), Reading: r, Err: err}
}

// Run emits a Sample on out every interval until ctx is done.
func (s *Sampler) Run(ctx context.Context, out chan<- Sample) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case out <- s.SampleOnce():
			case <-ctx.Done():
				return
			}
		}
	}
}
