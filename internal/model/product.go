package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Units used on every work order; the demo line always ships cases weighed in pounds.
const (
	UnitCases  = "CS"
	UnitPounds = "lb"
)

// FeedIngredient is one component of a product's mix.
// MixProportion is a decimal fraction in (0, 1] (0.10 = 10%).
// Proportions within a product are not required to sum to 1.
type FeedIngredient struct {
	ProductID     uuid.UUID
	ProductNumber int
	ProductName   string
	MixProportion decimal.Decimal
}

// Product is a finished good with its ordered list of feed ingredients.
// Immutable after construction.
type Product struct {
	ProductID     uuid.UUID
	ProductNumber int
	ProductName   string
	Ingredients   []FeedIngredient
}

// DemoCatalog builds the fixed demo product table. IDs are fresh per process
// start; numbers, names, and mix proportions are stable.
func DemoCatalog() []Product {
	return []Product{
		{
			ProductID:     uuid.New(),
			ProductNumber: 2221,
			ProductName:   "Product A",
			Ingredients: []FeedIngredient{
				{ProductID: uuid.New(), ProductNumber: 2001, ProductName: "Product A1", MixProportion: decimal.NewFromFloat(0.10)},
				{ProductID: uuid.New(), ProductNumber: 2002, ProductName: "Product A2", MixProportion: decimal.NewFromFloat(0.30)},
				{ProductID: uuid.New(), ProductNumber: 2003, ProductName: "Product A3", MixProportion: decimal.NewFromFloat(0.60)},
			},
		},
		{
			ProductID:     uuid.New(),
			ProductNumber: 4450,
			ProductName:   "Product B",
			Ingredients: []FeedIngredient{
				{ProductID: uuid.New(), ProductNumber: 4001, ProductName: "Product B1", MixProportion: decimal.NewFromFloat(0.30)},
				{ProductID: uuid.New(), ProductNumber: 4002, ProductName: "Product B2", MixProportion: decimal.NewFromFloat(0.70)},
			},
		},
		{
			ProductID:     uuid.New(),
			ProductNumber: 3170,
			ProductName:   "Product C",
			Ingredients: []FeedIngredient{
				{ProductID: uuid.New(), ProductNumber: 3001, ProductName: "Product C1", MixProportion: decimal.NewFromFloat(0.50)},
				{ProductID: uuid.New(), ProductNumber: 3002, ProductName: "Product C2", MixProportion: decimal.NewFromFloat(0.50)},
			},
		},
	}
}
