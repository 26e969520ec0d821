package generator

import (
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwise-mfg/eukodyne-cesmii/internal/model"
)

// ── Fixtures ─────────────────────────────────────────────────────────────────

// Winter instant: Chicago is on standard time (UTC-6).
var winterInstant = time.Date(2026, 1, 15, 14, 30, 0, 123456789, time.UTC)

// Summer instant: Chicago is on daylight time (UTC-5).
var summerInstant = time.Date(2026, 7, 15, 14, 30, 0, 0, time.UTC)

func chicago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return loc
}

func fixedClock(instant time.Time) Clock {
	return func() time.Time { return instant }
}

func testCatalog() []model.Product {
	return []model.Product{
		{
			ProductID:     uuid.New(),
			ProductNumber: 2221,
			ProductName:   "Product A",
			Ingredients: []model.FeedIngredient{
				{ProductID: uuid.New(), ProductNumber: 2001, ProductName: "Product A1", MixProportion: decimal.NewFromFloat(0.10)},
				{ProductID: uuid.New(), ProductNumber: 2002, ProductName: "Product A2", MixProportion: decimal.NewFromFloat(0.30)},
				{ProductID: uuid.New(), ProductNumber: 2003, ProductName: "Product A3", MixProportion: decimal.NewFromFloat(0.60)},
			},
		},
		{
			ProductID:     uuid.New(),
			ProductNumber: 4450,
			ProductName:   "Product B",
			Ingredients: []model.FeedIngredient{
				{ProductID: uuid.New(), ProductNumber: 4001, ProductName: "Product B1", MixProportion: decimal.NewFromFloat(0.30)},
				{ProductID: uuid.New(), ProductNumber: 4002, ProductName: "Product B2", MixProportion: decimal.NewFromFloat(0.70)},
			},
		},
	}
}

func newTestGenerator(t *testing.T, seed int64, instant time.Time) *Generator {
	t.Helper()
	return New(testCatalog(), rand.New(rand.NewSource(seed)), fixedClock(instant), chicago(t))
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestGenerateQuantityAndWeightBounds(t *testing.T) {
	g := newTestGenerator(t, 1, winterInstant)

	for i := 0; i < 200; i++ {
		wo := g.Generate()

		require.True(t, wo.Quantity.IsInteger(), "quantity must be a whole number, got %s", wo.Quantity)
		qty := wo.Quantity.IntPart()
		assert.Zero(t, qty%6, "quantity %d must be a multiple of 6", qty)
		assert.GreaterOrEqual(t, qty, int64(12))
		assert.LessOrEqual(t, qty, int64(120))

		assert.True(t, wo.Weight.Equal(wo.Quantity.Mul(decimal.NewFromInt(2))),
			"weight %s must be quantity %s x 2", wo.Weight, wo.Quantity)
	}
}

func TestGenerateSequenceNumbers(t *testing.T) {
	g := newTestGenerator(t, 2, winterInstant)
	assert.Equal(t, 99999, g.LastWorkOrderNumber(), "nothing generated yet")

	for i := 0; i < 5; i++ {
		wo := g.Generate()
		assert.Equal(t, 100000+i, wo.WorkOrderNumber)
	}
	assert.Equal(t, 100004, g.LastWorkOrderNumber())
}

func TestGenerateShiftDuration(t *testing.T) {
	g := newTestGenerator(t, 3, winterInstant)
	wo := g.Generate()

	assert.Equal(t, 8*time.Hour, wo.EndTimeUTC.Sub(wo.StartTimeUTC))
	assert.Equal(t, 8*time.Hour, wo.EndTimeLocal.Sub(wo.StartTimeLocal))
	assert.True(t, wo.StartTimeUTC.Equal(wo.StartTimeLocal), "local and UTC start must be the same instant")
}

func TestGenerateTimestampPrecision(t *testing.T) {
	g := newTestGenerator(t, 4, winterInstant)
	wo := g.Generate()

	// Wire format carries microseconds only; anything finer must be gone.
	assert.Zero(t, wo.StartTimeUTC.Nanosecond()%1000)
	assert.Zero(t, wo.EndTimeUTC.Nanosecond()%1000)
}

func TestGenerateLotNumbers(t *testing.T) {
	g := newTestGenerator(t, 5, winterInstant)
	wo := g.Generate()

	// 2026-01-15 14:30 UTC is 08:30 in Chicago (standard time)
	assert.Equal(t, "LOT-20260115-083000", wo.LotNumber)

	lineLot := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	seen := map[string]bool{}
	for _, line := range wo.FeedIngredients {
		assert.Regexp(t, lineLot, line.LotNumber)
		seen[line.LotNumber] = true
	}
	assert.Len(t, seen, len(wo.FeedIngredients), "line lots are drawn independently")
}

func TestGenerateTimeZoneDescriptor(t *testing.T) {
	t.Run("standard time", func(t *testing.T) {
		wo := newTestGenerator(t, 6, winterInstant).Generate()
		assert.Equal(t, -360, wo.TimeZone.OffsetMinutes)
		assert.False(t, wo.TimeZone.DaylightSavingInOffset)
	})

	t.Run("daylight time", func(t *testing.T) {
		wo := newTestGenerator(t, 6, summerInstant).Generate()
		assert.Equal(t, -300, wo.TimeZone.OffsetMinutes)
		assert.True(t, wo.TimeZone.DaylightSavingInOffset)
	})
}

func TestBuildDerivesLinesFromProportions(t *testing.T) {
	product := model.Product{
		ProductID:     uuid.New(),
		ProductNumber: 9001,
		ProductName:   "P",
		Ingredients: []model.FeedIngredient{
			{ProductID: uuid.New(), ProductNumber: 9101, ProductName: "i1", MixProportion: decimal.NewFromFloat(0.4)},
			{ProductID: uuid.New(), ProductNumber: 9102, ProductName: "i2", MixProportion: decimal.NewFromFloat(0.6)},
		},
	}
	g := New([]model.Product{product}, rand.New(rand.NewSource(7)), fixedClock(winterInstant), chicago(t))

	wo := g.build(product, decimal.NewFromInt(60))

	assert.True(t, wo.Weight.Equal(decimal.NewFromInt(120)))
	require.Len(t, wo.FeedIngredients, 2)

	i1 := wo.FeedIngredients[0]
	assert.Equal(t, "i1", i1.ProductName)
	assert.True(t, i1.Quantity.Equal(decimal.NewFromInt(24)), "i1 quantity, got %s", i1.Quantity)
	assert.True(t, i1.Weight.Equal(decimal.NewFromInt(48)), "i1 weight, got %s", i1.Weight)

	i2 := wo.FeedIngredients[1]
	assert.Equal(t, "i2", i2.ProductName)
	assert.True(t, i2.Quantity.Equal(decimal.NewFromInt(36)), "i2 quantity, got %s", i2.Quantity)
	assert.True(t, i2.Weight.Equal(decimal.NewFromInt(72)), "i2 weight, got %s", i2.Weight)

	assert.Equal(t, model.UnitCases, i1.UnitOfMeasure)
	assert.Equal(t, model.UnitPounds, i1.WeightUnitOfMeasure)
}

func TestGenerateCopiesProductIdentity(t *testing.T) {
	catalog := testCatalog()
	g := New(catalog, rand.New(rand.NewSource(8)), fixedClock(winterInstant), chicago(t))
	wo := g.Generate()

	var selected *model.Product
	for i := range catalog {
		if catalog[i].ProductNumber == wo.ProductNumber {
			selected = &catalog[i]
		}
	}
	require.NotNil(t, selected, "generated order must reference a catalog product")
	assert.Equal(t, selected.ProductID, wo.ProductID)
	assert.Equal(t, selected.ProductName, wo.ProductName)
	require.Len(t, wo.FeedIngredients, len(selected.Ingredients))
	for i, line := range wo.FeedIngredients {
		assert.Equal(t, selected.Ingredients[i].ProductNumber, line.ProductNumber, "lines keep catalog order")
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	a := newTestGenerator(t, 42, winterInstant).Generate()
	b := newTestGenerator(t, 42, winterInstant).Generate()

	assert.Equal(t, a.ProductNumber, b.ProductNumber)
	assert.True(t, a.Quantity.Equal(b.Quantity))
	require.Equal(t, len(a.FeedIngredients), len(b.FeedIngredients))
	for i := range a.FeedIngredients {
		assert.Equal(t, a.FeedIngredients[i].LotNumber, b.FeedIngredients[i].LotNumber)
	}
}
