package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jwise-mfg/eukodyne-cesmii/internal/model"
)

// CESMII SM Profile references. The URLs are identifiers only; nothing is
// fetched at runtime.
const (
	WorkOrderProfileURL      = "https://www.github.com/eukodyne/cesmii/smprofiles/WorkOrderV1.jsonld"
	FeedIngredientProfileURL = "https://www.github.com/eukodyne/cesmii/smprofiles/FeedIngredientV1.jsonld"

	opcUANamespace  = "http://opcfoundation.org/UA/"
	cesmiiNamespace = "https://profiles.cesmii.org/"

	workOrderTerm      = "https://www.github.com/eukodyne/cesmii/smprofiles/WorkOrderV1#"
	feedIngredientTerm = "https://www.github.com/eukodyne/cesmii/smprofiles/FeedIngredientV1#"
)

// Timestamp layouts: UTC fields use a Z suffix, local fields carry the
// explicit offset. Both keep microsecond precision so the payload
// round-trips without loss.
const (
	utcTimeLayout   = "2006-01-02T15:04:05.000000Z"
	localTimeLayout = "2006-01-02T15:04:05.000000-07:00"
)

// TimeZonePayload serializes the OPC UA TimeZoneDataType.
type TimeZonePayload struct {
	Offset                 int  `json:"offset"`
	DaylightSavingInOffset bool `json:"daylightSavingInOffset"`
}

// FeedIngredientPayload is one FeedIngredientV1 line on the wire.
type FeedIngredientPayload struct {
	Type                string  `json:"@type"`
	ProductID           string  `json:"ProductID"`
	ProductNumber       int     `json:"ProductNumber"`
	ProductName         string  `json:"ProductName"`
	LotNumber           string  `json:"LotNumber"`
	UnitOfMeasure       string  `json:"UnitOfMeasure"`
	Quantity            float64 `json:"Quantity"`
	WeightUnitOfMeasure string  `json:"WeightUnitOfMeasure"`
	Weight              float64 `json:"Weight"`
}

// WorkOrderPayload is the JSON-LD document published to the broker,
// conforming to the WorkOrderV1 SM Profile.
type WorkOrderPayload struct {
	Context             map[string]any          `json:"@context"`
	Type                string                  `json:"@type"`
	ProfileDefinition   string                  `json:"profileDefinition"`
	WorkOrderID         string                  `json:"WorkOrderID"`
	WorkOrderNumber     int                     `json:"WorkOrderNumber"`
	TimeZone            TimeZonePayload         `json:"TimeZone"`
	StartTimeLocal      string                  `json:"StartTimeLocal"`
	StartTimeUTC        string                  `json:"StartTimeUTC"`
	EndTimeLocal        string                  `json:"EndTimeLocal"`
	EndTimeUTC          string                  `json:"EndTimeUTC"`
	ProductID           string                  `json:"ProductID"`
	ProductNumber       int                     `json:"ProductNumber"`
	ProductName         string                  `json:"ProductName"`
	LotNumber           string                  `json:"LotNumber"`
	UnitOfMeasure       string                  `json:"UnitOfMeasure"`
	Quantity            float64                 `json:"Quantity"`
	WeightUnitOfMeasure string                  `json:"WeightUnitOfMeasure"`
	Weight              float64                 `json:"Weight"`
	FeedIngredients     []FeedIngredientPayload `json:"FeedIngredients"`
}

func profileContext() map[string]any {
	return map[string]any{
		"@version":         1.1,
		"cesmii":           cesmiiNamespace,
		"opc":              opcUANamespace,
		"WorkOrderV1":      workOrderTerm,
		"FeedIngredientV1": feedIngredientTerm,
		"profileDefinition": map[string]any{
			"@id":   "cesmii:profileDefinition",
			"@type": "@id",
		},
	}
}

// NewWorkOrderPayload maps a work order to its wire representation.
func NewWorkOrderPayload(wo model.WorkOrder) WorkOrderPayload {
	lines := make([]FeedIngredientPayload, 0, len(wo.FeedIngredients))
	for _, line := range wo.FeedIngredients {
		lines = append(lines, FeedIngredientPayload{
			Type:                "FeedIngredientV1",
			ProductID:           line.ProductID.String(),
			ProductNumber:       line.ProductNumber,
			ProductName:         line.ProductName,
			LotNumber:           line.LotNumber,
			UnitOfMeasure:       line.UnitOfMeasure,
			Quantity:            line.Quantity.InexactFloat64(),
			WeightUnitOfMeasure: line.WeightUnitOfMeasure,
			Weight:              line.Weight.InexactFloat64(),
		})
	}

	return WorkOrderPayload{
		Context:           profileContext(),
		Type:              "WorkOrderV1",
		ProfileDefinition: WorkOrderProfileURL,
		WorkOrderID:       wo.WorkOrderID.String(),
		WorkOrderNumber:   wo.WorkOrderNumber,
		TimeZone: TimeZonePayload{
			Offset:                 wo.TimeZone.OffsetMinutes,
			DaylightSavingInOffset: wo.TimeZone.DaylightSavingInOffset,
		},
		StartTimeLocal:      wo.StartTimeLocal.Format(localTimeLayout),
		StartTimeUTC:        wo.StartTimeUTC.UTC().Format(utcTimeLayout),
		EndTimeLocal:        wo.EndTimeLocal.Format(localTimeLayout),
		EndTimeUTC:          wo.EndTimeUTC.UTC().Format(utcTimeLayout),
		ProductID:           wo.ProductID.String(),
		ProductNumber:       wo.ProductNumber,
		ProductName:         wo.ProductName,
		LotNumber:           wo.LotNumber,
		UnitOfMeasure:       wo.UnitOfMeasure,
		Quantity:            wo.Quantity.InexactFloat64(),
		WeightUnitOfMeasure: wo.WeightUnitOfMeasure,
		Weight:              wo.Weight.InexactFloat64(),
		FeedIngredients:     lines,
	}
}

// Marshal renders the payload as indented JSON, matching what subscribers
// of the retained topic expect to read.
func (p WorkOrderPayload) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("dto: marshal work order payload: %w", err)
	}
	return data, nil
}

// ParseWorkOrderPayload decodes a wire document back into a payload struct.
func ParseWorkOrderPayload(data []byte) (WorkOrderPayload, error) {
	var p WorkOrderPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return WorkOrderPayload{}, fmt.Errorf("dto: unmarshal work order payload: %w", err)
	}
	return p, nil
}

// WorkOrder converts the payload back into the domain record. Used by tests
// and by consumers that want typed access instead of raw JSON.
func (p WorkOrderPayload) WorkOrder() (model.WorkOrder, error) {
	id, err := uuid.Parse(p.WorkOrderID)
	if err != nil {
		return model.WorkOrder{}, fmt.Errorf("dto: work order id: %w", err)
	}
	productID, err := uuid.Parse(p.ProductID)
	if err != nil {
		return model.WorkOrder{}, fmt.Errorf("dto: product id: %w", err)
	}

	startLocal, err := time.Parse(localTimeLayout, p.StartTimeLocal)
	if err != nil {
		return model.WorkOrder{}, fmt.Errorf("dto: start time local: %w", err)
	}
	endLocal, err := time.Parse(localTimeLayout, p.EndTimeLocal)
	if err != nil {
		return model.WorkOrder{}, fmt.Errorf("dto: end time local: %w", err)
	}
	startUTC, err := time.Parse(utcTimeLayout, p.StartTimeUTC)
	if err != nil {
		return model.WorkOrder{}, fmt.Errorf("dto: start time utc: %w", err)
	}
	endUTC, err := time.Parse(utcTimeLayout, p.EndTimeUTC)
	if err != nil {
		return model.WorkOrder{}, fmt.Errorf("dto: end time utc: %w", err)
	}

	lines := make([]model.WorkOrderLine, 0, len(p.FeedIngredients))
	for _, fp := range p.FeedIngredients {
		lineID, err := uuid.Parse(fp.ProductID)
		if err != nil {
			return model.WorkOrder{}, fmt.Errorf("dto: ingredient product id: %w", err)
		}
		lines = append(lines, model.WorkOrderLine{
			ProductID:           lineID,
			ProductNumber:       fp.ProductNumber,
			ProductName:         fp.ProductName,
			LotNumber:           fp.LotNumber,
			UnitOfMeasure:       fp.UnitOfMeasure,
			Quantity:            decimal.NewFromFloat(fp.Quantity),
			WeightUnitOfMeasure: fp.WeightUnitOfMeasure,
			Weight:              decimal.NewFromFloat(fp.Weight),
		})
	}

	return model.WorkOrder{
		WorkOrderID:     id,
		WorkOrderNumber: p.WorkOrderNumber,
		TimeZone: model.TimeZoneData{
			OffsetMinutes:          p.TimeZone.Offset,
			DaylightSavingInOffset: p.TimeZone.DaylightSavingInOffset,
		},
		StartTimeLocal:      startLocal,
		StartTimeUTC:        startUTC,
		EndTimeLocal:        endLocal,
		EndTimeUTC:          endUTC,
		ProductID:           productID,
		ProductNumber:       p.ProductNumber,
		ProductName:         p.ProductName,
		LotNumber:           p.LotNumber,
		UnitOfMeasure:       p.UnitOfMeasure,
		Quantity:            decimal.NewFromFloat(p.Quantity),
		WeightUnitOfMeasure: p.WeightUnitOfMeasure,
		Weight:              decimal.NewFromFloat(p.Weight),
		FeedIngredients:     lines,
	}, nil
}
