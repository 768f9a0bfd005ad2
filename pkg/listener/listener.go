package listener

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/somnia-buy-listener/pkg/alert"
	"github.com/somnia-buy-listener/pkg/config"
	"github.com/somnia-buy-listener/pkg/db"
	"github.com/somnia-buy-listener/pkg/explorer"
	"github.com/somnia-buy-listener/pkg/metrics"
)

type TransferSource interface {
	LatestTransfer(ctx context.Context) (*explorer.Transfer, error)
}

type Notifier interface {
	BuyAlert(a alert.BuyAlert)
	Baseline(t explorer.Transfer)
	Heartbeat()
}

// Journal receives a copy of every observation. Optional.
type Journal interface {
	RecordObservation(o db.Observation) error
	InsertAlert(a db.BuyAlert) error
}

// Listener polls the explorer for the newest transfer of one token and
// alerts once per new buy. State is owned by the instance; cycles never
// overlap.
type Listener struct {
	cfg      *config.Config
	source   TransferSource
	notifier Notifier
	journal  Journal

	cycleMu sync.Mutex // held for the duration of a poll cycle

	mu        sync.Mutex
	lastKnown *explorer.Transfer
	running   bool
	scheduler *cron.Cron
	cancel    context.CancelFunc
	lastPoll  time.Time
	inflight  sync.WaitGroup
}

func New(cfg *config.Config, source TransferSource, notifier Notifier, journal Journal) *Listener {
	return &Listener{
		cfg:      cfg,
		source:   source,
		notifier: notifier,
		journal:  journal,
	}
}

// Start runs a cycle immediately and then every PollInterval. Returns false
// if the listener was already running.
func (l *Listener) Start(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		log.Warn().Msg("⚠️  listener is already running")
		return false
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New(
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)
	id := c.Schedule(every(l.cfg.PollInterval), cron.FuncJob(func() {
		l.CheckForNewBuys(runCtx)
	}))
	job := c.Entry(id).WrappedJob

	l.scheduler, l.cancel, l.running = c, cancel, true

	log.Info().
		Str("contract", l.cfg.TargetContract).
		Dur("interval", l.cfg.PollInterval).
		Msg("🚀 starting buy listener")

	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		job.Run()
	}()
	c.Start()

	log.Info().Msg("👂 listening for new buys on token")
	return true
}

// Stop cancels any in-flight fetch, halts the schedule and waits for the
// running cycle. Returns false if the listener was not running.
func (l *Listener) Stop() bool {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		log.Warn().Msg("⚠️  listener is not running")
		return false
	}
	c, cancel := l.scheduler, l.cancel
	l.scheduler, l.cancel, l.running = nil, nil, false
	l.mu.Unlock()

	log.Info().Msg("🛑 stopping buy listener...")
	cancel()
	<-c.Stop().Done()
	l.inflight.Wait()
	log.Info().Msg("✅ buy listener stopped")
	return true
}

func (l *Listener) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// ManualCheck runs one cycle on demand, outside the schedule.
func (l *Listener) ManualCheck(ctx context.Context) {
	log.Info().Msg("🔍 manual check triggered")
	l.CheckForNewBuys(ctx)
}

// CheckForNewBuys is one poll cycle. Nothing that happens inside it stops
// the schedule.
func (l *Listener) CheckForNewBuys(ctx context.Context) {
	l.cycleMu.Lock()
	defer l.cycleMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("💥 error in buy check")
		}
	}()

	metrics.PollCycles.Inc()
	latest := l.latestTransfer(ctx)

	l.mu.Lock()
	l.lastPoll = time.Now()
	l.mu.Unlock()

	if latest == nil {
		log.Warn().Msg("⚠️  no transfer data available")
		return
	}

	outcome := l.advance(latest)
	l.record(latest, outcome)

	switch outcome {
	case db.OutcomeBaseline:
		l.notifier.Baseline(*latest)
		log.Info().
			Str("amount", latest.FormattedAmount()).
			Str("tx", latest.TxHash).
			Msg("✅ baseline set")
	case db.OutcomeAlert:
		l.emit(alert.NewBuyAlert(*latest, l.cfg.AlertThreshold))
	case db.OutcomeNew:
		log.Debug().Str("tx", latest.TxHash).Msg("new transfer without positive amount")
	case db.OutcomeUnchanged:
		metrics.Heartbeats.Inc()
		l.notifier.Heartbeat()
		log.Debug().Msg("still watching")
	}
}

// advance compares t with the baseline and moves the baseline forward when t
// is new. The baseline never moves to an older transfer.
func (l *Listener) advance(t *explorer.Transfer) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var outcome string
	switch {
	case l.lastKnown == nil:
		outcome = db.OutcomeBaseline
	case !IsNew(t, l.lastKnown):
		return db.OutcomeUnchanged
	case IsBuy(t):
		outcome = db.OutcomeAlert
	default:
		outcome = db.OutcomeNew
	}
	l.lastKnown = t
	metrics.LastTransferTimestamp.Set(float64(t.Timestamp.Unix()))
	return outcome
}

func (l *Listener) emit(a alert.BuyAlert) {
	l.notifier.BuyAlert(a)

	metrics.BuyAlerts.WithLabelValues(a.Tier.String()).Inc()
	if a.Significant {
		metrics.SignificantBuys.Inc()
	}
	log.Info().
		Str("tier", a.Tier.String()).
		Str("amount", a.Amount.StringFixed(4)).
		Bool("significant", a.Significant).
		Str("tx", a.Transfer.TxHash).
		Msg("🚨 buy alert")

	if l.journal == nil {
		return
	}
	t := a.Transfer
	if err := l.journal.InsertAlert(db.BuyAlert{
		Contract:     l.cfg.TargetContract,
		TxHash:       t.TxHash,
		FromAddress:  t.From.Hash,
		ToAddress:    t.To.Hash,
		Amount:       a.Amount.String(),
		Tier:         a.Tier.String(),
		Significant:  a.Significant,
		TransferTime: t.Timestamp,
	}); err != nil {
		log.Warn().Err(err).Msg("journal alert failed")
	}
}

func (l *Listener) record(t *explorer.Transfer, outcome string) {
	if l.journal == nil {
		return
	}
	if err := l.journal.RecordObservation(db.Observation{
		Contract:     l.cfg.TargetContract,
		TxHash:       t.TxHash,
		FromAddress:  t.From.Hash,
		ToAddress:    t.To.Hash,
		RawValue:     t.Total.Value,
		Decimals:     int(t.Total.Scale()),
		TransferTime: t.Timestamp,
		Outcome:      outcome,
	}); err != nil {
		log.Warn().Err(err).Msg("journal observation failed")
	}
}

// latestTransfer degrades every fetch failure to "nothing this cycle".
func (l *Listener) latestTransfer(ctx context.Context) *explorer.Transfer {
	t, err := l.source.LatestTransfer(ctx)
	if err == nil {
		return t
	}

	kind := explorer.KindOf(err)
	metrics.FetchErrors.WithLabelValues(string(kind)).Inc()

	ev := log.Error().Err(err).Str("kind", string(kind))
	var fe *explorer.FetchError
	if errors.As(err, &fe) && fe.Kind == explorer.KindHTML {
		ev = ev.Str("preview", fe.Preview)
	}
	ev.Msg("❌ error fetching latest transfer")
	return nil
}

type Status struct {
	Running      bool               `json:"running"`
	Contract     string             `json:"contract"`
	PollInterval string             `json:"poll_interval"`
	Baseline     *explorer.Transfer `json:"baseline"`
	LastPoll     *time.Time         `json:"last_poll,omitempty"`
}

func (l *Listener) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Status{
		Running:      l.running,
		Contract:     l.cfg.TargetContract,
		PollInterval: l.cfg.PollInterval.String(),
	}
	if l.lastKnown != nil {
		b := *l.lastKnown
		s.Baseline = &b
	}
	if !l.lastPoll.IsZero() {
		lp := l.lastPoll
		s.LastPoll = &lp
	}
	return s
}
