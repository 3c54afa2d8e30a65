package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"

	"github.com/sig-0/fxconvert/storage"
	"github.com/sig-0/fxconvert/storage/types"
)

var (
	errInvalidProvider = errors.New("invalid provider")
	errInvalidInterval = errors.New("invalid interval")
)

const (
	defaultQueryInterval = time.Second
	defaultRetryDelay    = time.Second * 10
	defaultBufferSize    = 100
	saveTimeout          = time.Second * 10
)

// Orchestrator periodically runs the registered ingestion providers,
// and saves the fetched rates into storage
type Orchestrator struct {
	storage storage.Storage
	logger  *slog.Logger

	registeredProviders sync.Map

	q             iq.Queue[scheduledIngest]
	queryInterval time.Duration
	retryDelay    time.Duration
	bufferSize    int
	qMux          sync.Mutex
}

// New creates a new Orchestrator instance
func New(storage storage.Storage, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		storage:       storage,
		q:             iq.NewQueue[scheduledIngest](),
		queryInterval: defaultQueryInterval,
		retryDelay:    defaultRetryDelay,
		bufferSize:    defaultBufferSize,
	}

	// Apply the options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Register registers a new provider with the orchestrator.
// The provider is immediately queued up for execution
func (o *Orchestrator) Register(p Provider) error {
	if p == nil || p.Name() == "" {
		return errInvalidProvider
	}

	if p.Interval() <= 0 {
		return errInvalidInterval
	}

	id := xid.New()
	o.registeredProviders.Store(id, p)

	o.logger.Info(
		"registered ingestion provider",
		"name", p.Name(),
		"interval", p.Interval().String(),
	)

	o.scheduleIngest(
		time.Now().UTC(),
		id,
		p,
	)

	return nil
}

// Start starts the provider orchestration service loop [BLOCKING]
func (o *Orchestrator) Start(ctx context.Context) error {
	collectorCh := make(chan *workerResponse, o.bufferSize)

	ticker := time.NewTicker(o.queryInterval)
	defer ticker.Stop()

	// dispatchDue spawns workers for all jobs that are due
	dispatchDue := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				next := o.nextIngest()
				if next == nil {
					return
				}

				o.logger.Debug(
					"dispatching ingest",
					"name", next.provider.Name(),
				)

				go handleJob(ctx, &workerInfo{
					provider:   next.provider,
					providerID: next.providerID,
					resCh:      collectorCh,
				})
			}
		}
	}

	// Dispatch the jobs registered before boot
	dispatchDue()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("orchestrator service shut down")

			return nil
		case <-ticker.C:
			dispatchDue()
		case response := <-collectorCh:
			o.collect(ctx, response)
		}
	}
}

// collect saves the worker results and reschedules the provider
func (o *Orchestrator) collect(ctx context.Context, response *workerResponse) {
	now := time.Now().UTC()

	rpRaw, ok := o.registeredProviders.Load(response.providerID)
	if !ok {
		o.logger.Error(
			"unable to load registered provider",
			"id", response.providerID.String(),
		)

		return
	}

	rp, _ := rpRaw.(Provider)

	if response.error != nil {
		o.logger.Error(
			"error encountered during rate fetch",
			"name", rp.Name(),
			"err", response.error,
		)

		o.scheduleIngest(
			now.Add(o.retryDelay),
			response.providerID,
			rp,
		)

		return
	}

	saved := 0

	for _, rate := range response.rates {
		if rate == nil {
			continue
		}

		if err := o.save(ctx, rate); err != nil {
			o.logger.Error(
				"unable to save exchange rate",
				"base", rate.Base,
				"target", rate.Target,
				"source", rate.Source,
				"err", err,
			)

			continue
		}

		saved++

		o.logger.Debug(
			"saved exchange rate",
			"base", rate.Base,
			"target", rate.Target,
			"source", rate.Source,
			"rate", rate.Rate,
			"rate_type", rate.RateType,
			"effective_date", rate.AsOf.String(),
		)
	}

	o.logger.Info(
		"ingest complete",
		"name", rp.Name(),
		"fetched", len(response.rates),
		"saved", saved,
	)

	o.scheduleIngest(
		now.Add(rp.Interval()),
		response.providerID,
		rp,
	)
}

// save saves a single rate, bounded by the save timeout
func (o *Orchestrator) save(ctx context.Context, rate *types.ExchangeRate) error {
	saveCtx, cancelFn := context.WithTimeout(ctx, saveTimeout)
	defer cancelFn()

	return o.storage.SaveExchangeRate(saveCtx, rate)
}

// scheduleIngest schedules a new provider ingest
func (o *Orchestrator) scheduleIngest(
	at time.Time,
	providerID xid.ID,
	provider Provider,
) {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	o.q.Push(scheduledIngest{
		at:         at,
		providerID: providerID,
		provider:   provider,
	})
}

// nextIngest fetches the next due ingest job, as of the moment of calling
func (o *Orchestrator) nextIngest() *scheduledIngest {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	if o.q.Len() == 0 {
		return nil // all jobs are running
	}

	if o.q.Index(0).at.After(time.Now().UTC()) {
		return nil // earliest job is in the future
	}

	return o.q.PopFront()
}
