package runner

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwise-mfg/eukodyne-cesmii/internal/metrics"
	"github.com/jwise-mfg/eukodyne-cesmii/internal/model"
)

// ErrConnect is returned when the startup broker connection fails. There is
// no retry at startup: the caller treats this as fatal.
var ErrConnect = errors.New("runner: failed to connect to MQTT broker")

// Generator yields one fresh work order per call.
type Generator interface {
	Generate() model.WorkOrder
}

// Publisher is the broker session the runner drives.
type Publisher interface {
	Connect() bool
	Publish(model.WorkOrder) bool
	Disconnect()
}

// Runner ties the generator and publisher together in a timed loop: connect
// once, then generate-publish-sleep until the context is cancelled.
type Runner struct {
	gen      Generator
	pub      Publisher
	interval time.Duration
}

func New(gen Generator, pub Publisher, interval time.Duration) *Runner {
	return &Runner{gen: gen, pub: pub, interval: interval}
}

// Run executes the publish loop until ctx is cancelled. Cancellation is
// observed between ticks only: an in-flight publish resolves via its own
// timeout, and the tick in progress always completes. The broker session is
// released on every exit path.
//
// A failed publish is logged and the loop proceeds to the next tick; there
// is no per-tick retry or backoff.
func (r *Runner) Run(ctx context.Context) error {
	if !r.pub.Connect() {
		return ErrConnect
	}
	defer r.pub.Disconnect()

	log.Info().
		Dur("interval", r.interval).
		Msg("work order publishing loop started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down publishing loop")
			return nil
		default:
		}

		r.tick()

		// Delay is additive: measured from the end of one tick to the
		// start of the next, however long the tick itself took.
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down publishing loop")
			return nil
		case <-time.After(r.interval):
		}
	}
}

func (r *Runner) tick() {
	wo := r.gen.Generate()
	metrics.GeneratedTotal.Inc()

	log.Info().
		Int("work_order", wo.WorkOrderNumber).
		Str("product", wo.ProductName).
		Int("product_number", wo.ProductNumber).
		Str("lot", wo.LotNumber).
		Str("quantity", wo.Quantity.String()+" "+wo.UnitOfMeasure).
		Str("weight", wo.Weight.String()+" "+wo.WeightUnitOfMeasure).
		Int("ingredients", len(wo.FeedIngredients)).
		Time("start_local", wo.StartTimeLocal).
		Time("end_local", wo.EndTimeLocal).
		Msg("generated work order")

	if !r.pub.Publish(wo) {
		log.Warn().
			Int("work_order", wo.WorkOrderNumber).
			Msg("work order not delivered, will continue with next tick")
	}
}
