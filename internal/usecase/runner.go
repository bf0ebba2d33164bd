package usecase

import (
	"errors"
	"io"

	"github.com/rs/zerolog"
)

// Runner drives the processor over an event source, strictly in input
// order. Every event is fully applied before the next one is read.
type Runner struct {
	processor *Processor
	logger    zerolog.Logger
	metrics   MetricsRecorder
}

// NewRunner creates a new Runner.
func NewRunner(processor *Processor, logger zerolog.Logger, metrics MetricsRecorder) *Runner {
	return &Runner{
		processor: processor,
		logger:    logger,
		metrics:   metrics,
	}
}

// RunResult summarizes one completed replay.
type RunResult struct {
	Applied  int
	Rejected int
}

// Run consumes src until io.EOF. Rejected events are counted and
// logged at debug level, then processing continues; a source error is
// a fatal input error and is returned as-is, wrapped with nothing.
func (r *Runner) Run(src EventSource) (RunResult, error) {
	var result RunResult

	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		if err != nil {
			return result, err
		}

		if applyErr := r.processor.Apply(ev); applyErr != nil {
			result.Rejected++
			r.metrics.EventRejected(string(ev.Type), applyErr.Error())
			r.logger.Debug().
				Str("type", string(ev.Type)).
				Uint16("client", ev.Client).
				Uint32("tx", ev.TxID).
				Err(applyErr).
				Msg("event rejected")

			continue
		}

		result.Applied++
		r.metrics.EventApplied(string(ev.Type))
	}
}
