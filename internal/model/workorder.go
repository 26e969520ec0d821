package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeZoneData mirrors the OPC UA TimeZoneDataType:
// offset from UTC in minutes (negative west of UTC) and whether
// a daylight-saving adjustment is currently in effect.
type TimeZoneData struct {
	OffsetMinutes          int
	DaylightSavingInOffset bool
}

// WorkOrderLine is one feed ingredient of a generated work order, with its
// quantity and weight derived from the order totals by the ingredient's
// mix proportion. Each line carries its own independently generated lot.
type WorkOrderLine struct {
	ProductID           uuid.UUID
	ProductNumber       int
	ProductName         string
	LotNumber           string
	UnitOfMeasure       string
	Quantity            decimal.Decimal
	WeightUnitOfMeasure string
	Weight              decimal.Decimal
}

// WorkOrder is the synthesized manufacturing record. It is a value object:
// built once by the generator, handed to the publisher, never mutated.
// Product identity is copied in, not referenced.
type WorkOrder struct {
	WorkOrderID         uuid.UUID
	WorkOrderNumber     int
	TimeZone            TimeZoneData
	StartTimeLocal      time.Time
	StartTimeUTC        time.Time
	EndTimeLocal        time.Time
	EndTimeUTC          time.Time
	ProductID           uuid.UUID
	ProductNumber       int
	ProductName         string
	LotNumber           string
	UnitOfMeasure       string
	Quantity            decimal.Decimal
	WeightUnitOfMeasure string
	Weight              decimal.Decimal
	FeedIngredients     []WorkOrderLine
}
