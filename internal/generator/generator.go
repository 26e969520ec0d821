package generator

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jwise-mfg/eukodyne-cesmii/internal/model"
)

const (
	// Work order numbers start here and increment by one per generated order.
	baseWorkOrderNumber = 100000

	// Every order runs a fixed 8-hour shift.
	shiftDuration = 8 * time.Hour

	// Quantity is a random multiple of 6 in [minQuantity, maxQuantity].
	minQuantity = 12
	maxQuantity = 120

	// Weight per case in pounds.
	weightPerUnit = 2

	lotAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	lineLotLength = 6
)

// Clock supplies "now"; injected so tests can pin timestamps.
type Clock func() time.Time

// Generator synthesizes work orders from a fixed product catalog. The only
// state it carries is the work order counter; every other input (randomness,
// clock, plant timezone) is injected.
//
// Generate itself is not safe for concurrent use: the runner is its single
// caller. The counter is atomic only so the status listener can read the
// last number while the loop runs.
type Generator struct {
	catalog []model.Product
	rng     *rand.Rand
	now     Clock
	loc     *time.Location
	counter atomic.Int64
}

// New builds a generator over the given catalog. loc is the plant's civil
// timezone used for the local timestamps and the lot number.
func New(catalog []model.Product, rng *rand.Rand, now Clock, loc *time.Location) *Generator {
	g := &Generator{
		catalog: catalog,
		rng:     rng,
		now:     now,
		loc:     loc,
	}
	g.counter.Store(baseWorkOrderNumber)
	return g
}

// Generate produces one immutable work order. It never fails; the counter
// advances exactly once per call.
func (g *Generator) Generate() model.WorkOrder {
	product := g.catalog[g.rng.Intn(len(g.catalog))]
	quantity := decimal.NewFromInt(g.randomQuantity())
	return g.build(product, quantity)
}

// build assembles the order for a chosen product and quantity. Split out of
// Generate so the derivation rules are testable without steering the RNG.
func (g *Generator) build(product model.Product, quantity decimal.Decimal) model.WorkOrder {
	// Truncate to microseconds: the wire format carries no finer precision
	// and round-trips must be lossless.
	startUTC := g.now().UTC().Truncate(time.Microsecond)
	startLocal := startUTC.In(g.loc)
	endUTC := startUTC.Add(shiftDuration)
	endLocal := startLocal.Add(shiftDuration)

	weight := quantity.Mul(decimal.NewFromInt(weightPerUnit))

	lines := make([]model.WorkOrderLine, 0, len(product.Ingredients))
	for _, ing := range product.Ingredients {
		lines = append(lines, model.WorkOrderLine{
			ProductID:           ing.ProductID,
			ProductNumber:       ing.ProductNumber,
			ProductName:         ing.ProductName,
			LotNumber:           g.randomLot(lineLotLength),
			UnitOfMeasure:       model.UnitCases,
			Quantity:            quantity.Mul(ing.MixProportion),
			WeightUnitOfMeasure: model.UnitPounds,
			Weight:              weight.Mul(ing.MixProportion),
		})
	}

	wo := model.WorkOrder{
		WorkOrderID:         uuid.New(),
		WorkOrderNumber:     int(g.counter.Load()),
		TimeZone:            timeZoneData(startLocal),
		StartTimeLocal:      startLocal,
		StartTimeUTC:        startUTC,
		EndTimeLocal:        endLocal,
		EndTimeUTC:          endUTC,
		ProductID:           product.ProductID,
		ProductNumber:       product.ProductNumber,
		ProductName:         product.ProductName,
		LotNumber:           "LOT-" + startLocal.Format("20060102-150405"),
		UnitOfMeasure:       model.UnitCases,
		Quantity:            quantity,
		WeightUnitOfMeasure: model.UnitPounds,
		Weight:              weight,
		FeedIngredients:     lines,
	}

	g.counter.Add(1)
	return wo
}

// LastWorkOrderNumber reports the number of the most recently generated
// order, or baseWorkOrderNumber-1 before the first call. Safe to call from
// other goroutines; the status endpoint reads it while the loop runs.
func (g *Generator) LastWorkOrderNumber() int {
	return int(g.counter.Load()) - 1
}

// randomQuantity draws a uniform multiple of 6 in [minQuantity, maxQuantity].
func (g *Generator) randomQuantity() int64 {
	low := minQuantity / 6
	high := maxQuantity / 6
	return int64(6 * (low + g.rng.Intn(high-low+1)))
}

// randomLot draws an uppercase-alphanumeric lot code of the given length.
func (g *Generator) randomLot(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = lotAlphabet[g.rng.Intn(len(lotAlphabet))]
	}
	return string(b)
}

// timeZoneData derives the OPC UA timezone descriptor from a local instant.
func timeZoneData(local time.Time) model.TimeZoneData {
	_, offsetSeconds := local.Zone()
	return model.TimeZoneData{
		OffsetMinutes:          offsetSeconds / 60,
		DaylightSavingInOffset: local.IsDST(),
	}
}
