package archive

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gaengine/internal/ga"
	"gaengine/internal/logging"
)

// Recorder saves a record for every evolved generation
type Recorder struct {
	ctx    context.Context
	store  Store
	runID  string
	logger *zap.Logger
	now    func() time.Time
	err    error
}

func NewRecorder(ctx context.Context, store Store, runID string, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{ctx: ctx, store: store, runID: runID, logger: logger, now: time.Now}
}

// Err returns the first save failure
func (r *Recorder) Err() error { return r.err }

func (r *Recorder) GeneticEventFired(ev ga.GeneticEvent) {
	if ev.Type != ga.GenerationEvolvedEvent || ev.Population == nil {
		return
	}
	s := logging.Summarize(ev.Generation, ev.Population, ev.Fittest)
	rec := Record{
		RunID:       r.runID,
		Generation:  ev.Generation,
		Size:        s.Size,
		BestFitness: s.BestFitness,
		MeanFitness: s.MeanFitness,
		Fittest:     s.Fittest,
		RecordedAt:  r.now(),
	}
	if ev.Fittest != nil {
		rec.FittestID = ev.Fittest.UniqueID()
	}
	if err := r.store.SaveGeneration(r.ctx, rec); err != nil {
		r.logger.Warn("archive generation failed", zap.Int("generation", ev.Generation), zap.Error(err))
		if r.err == nil {
			r.err = err
		}
	}
}
