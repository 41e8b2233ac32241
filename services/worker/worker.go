package worker

import (
	"context"
	"time"

	"lotwatch/torgiwatch/helpers"
	"lotwatch/torgiwatch/internal/model"
	"lotwatch/torgiwatch/logger"
	"lotwatch/torgiwatch/pkg/errors"
	"lotwatch/torgiwatch/pkg/metrics"
	"lotwatch/torgiwatch/services/notifier"
	"lotwatch/torgiwatch/services/publisher"
)

// LotSource yields the lots of up to maxPages listing pages
type LotSource interface {
	FetchAll(ctx context.Context, filter model.Filter, maxPages int) []model.Lot
}

// DetailSource enriches a lot from its detail page
type DetailSource interface {
	FetchDetails(ctx context.Context, lotURL string) (model.Details, error)
}

// LotStore is the part of the repository a check needs
type LotStore interface {
	Get(ctx context.Context, lotNumber string) (model.Lot, error)
	Upsert(ctx context.Context, lot model.Lot) (bool, error)
	GetFilter(ctx context.Context) (model.Filter, bool, error)
}

// Summary is the outcome of one check
type Summary struct {
	New     int `json:"new_lots"`
	Changed int `json:"updated_lots"`
	Total   int `json:"total_found"`
}

// Worker runs the check pipeline: paginate, enrich, classify, persist, notify
type Worker struct {
	source    LotSource
	details   DetailSource
	store     LotStore
	notifier  notifier.Notifier
	publisher publisher.Publisher
	logger    helpers.LoggerInterface
	maxPages  int
}

// NewWorker creates a new worker. maxPages is the page ceiling of scheduled checks.
func NewWorker(
	source LotSource,
	details DetailSource,
	store LotStore,
	notify notifier.Notifier,
	pub publisher.Publisher,
	logger helpers.LoggerInterface,
	maxPages int,
) *Worker {
	if pub == nil {
		pub = publisher.NopPublisher{}
	}
	return &Worker{
		source:    source,
		details:   details,
		store:     store,
		notifier:  notify,
		publisher: pub,
		logger:    logger,
		maxPages:  maxPages,
	}
}

// RunScheduled runs a check with the scheduled page ceiling. It does nothing
// until a filter configuration has been saved.
func (w *Worker) RunScheduled(ctx context.Context) {
	_, ok, err := w.store.GetFilter(ctx)
	if err != nil {
		w.logger.LogError("Scheduler", err)
		return
	}
	if !ok {
		logger.ForWorker().Info().Msg("No filter configured, skipping scheduled check")
		return
	}

	summary, err := w.Check(ctx, w.maxPages)
	if err != nil {
		w.logger.LogError("Scheduler", err)
		return
	}
	w.logger.LogInfo("Scheduled check done: %d new, %d changed, %d found", summary.New, summary.Changed, summary.Total)
}

// Check runs one pass over up to maxPages listing pages with the stored
// filter, or no filter when none is saved
func (w *Worker) Check(ctx context.Context, maxPages int) (Summary, error) {
	start := time.Now()
	defer func() {
		metrics.CheckDuration.Observe(time.Since(start).Seconds())
	}()

	filter, _, err := w.store.GetFilter(ctx)
	if err != nil {
		return Summary{}, err
	}

	log := logger.ForWorker()
	log.Info().Int("max_pages", maxPages).Interface("filter", filter).Msg("Starting check")

	lots := w.source.FetchAll(ctx, filter, maxPages)
	summary := Summary{Total: len(lots)}

	for _, lot := range lots {
		if ctx.Err() != nil {
			break
		}

		change, err := w.process(ctx, lot)
		if err != nil {
			w.logger.LogError("Check", err)
			continue
		}

		switch change {
		case ChangeNew:
			summary.New++
		case ChangeChanged:
			summary.Changed++
		}
	}

	// Trim all streams after checking
	if err := w.publisher.TrimStreams(ctx); err != nil {
		w.logger.LogError("StreamTrimming", err)
	}

	log.Info().
		Int("new", summary.New).
		Int("changed", summary.Changed).
		Int("total", summary.Total).
		Dur("elapsed", time.Since(start)).
		Msg("Check finished")

	return summary, nil
}

// process enriches, classifies, persists and announces one lot
func (w *Worker) process(ctx context.Context, lot model.Lot) (Change, error) {
	if lot.LotURL != "" && w.details != nil {
		details, err := w.details.FetchDetails(ctx, lot.LotURL)
		if err != nil {
			w.logger.LogError("Details", err)
		} else {
			lot.Apply(details)
		}
	}

	var stored *model.Lot
	existing, err := w.store.Get(ctx, lot.LotNumber)
	switch {
	case err == nil:
		stored = &existing
	case !errors.Is(err, errors.ErrNotFound):
		return "", err
	}

	change := Classify(stored, lot)

	if _, err := w.store.Upsert(ctx, lot); err != nil {
		return "", err
	}

	metrics.LotsChecked.Inc()
	metrics.LotsClassified.WithLabelValues(string(change)).Inc()

	switch change {
	case ChangeNew:
		w.announce(ctx, publisher.LotEvent{Type: publisher.EventNewLot, Lot: lot, At: time.Now()},
			w.notifier.NotifyNewLot(ctx, lot))
	case ChangeChanged:
		w.announce(ctx, publisher.LotEvent{Type: publisher.EventStatusChange, Lot: lot, OldStatus: stored.Status, At: time.Now()},
			w.notifier.NotifyStatusChange(ctx, lot, stored.Status))
	}

	return change, nil
}

// announce records the notification outcome and publishes the event
func (w *Worker) announce(ctx context.Context, event publisher.LotEvent, delivered bool) {
	if !delivered {
		metrics.NotificationFailures.Inc()
	}
	if err := w.publisher.Publish(ctx, event); err != nil {
		w.logger.LogError("Publisher", err)
	}
}
