// Package pricing holds the fixed per-category pricing table used to turn
// consolidated damage measurements into priced claim line items.
package pricing

import (
	"fmt"
	"strings"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/config"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
	"github.com/shopspring/decimal"
)

const (
	UnitSquareFeet = "SQFT"
	UnitEach       = "EA"
	UnitCubicYards = "CUYD"
)

type Table struct {
	roofPerSqFt         decimal.Decimal
	sidingPerSqFt       decimal.Decimal
	structuralComponent decimal.Decimal
	waterBasePerSqFt    decimal.Decimal
	debrisPerCuYd       decimal.Decimal
	taxRate             decimal.Decimal
}

func NewTable(cfg *config.PricingConfig) Table {
	return Table{
		roofPerSqFt:         decimal.NewFromFloat(cfg.RoofUnitPrice),
		sidingPerSqFt:       decimal.NewFromFloat(cfg.SidingUnitPrice),
		structuralComponent: decimal.NewFromFloat(cfg.StructuralComponent),
		waterBasePerSqFt:    decimal.NewFromFloat(cfg.WaterBaseUnitPrice),
		debrisPerCuYd:       decimal.NewFromFloat(cfg.DebrisUnitPrice),
		taxRate:             decimal.NewFromFloat(cfg.TaxRate),
	}
}

func (t Table) TaxRate() float64 {
	return t.taxRate.InexactFloat64()
}

// LineItems prices the consolidated measurements of a job summary. When
// multiple photos reported the same category, only the first measurement
// block is used.
func (t Table) LineItems(m model.MeasurementLists) []model.LineItem {
	var items []model.LineItem

	if len(m.Roof) > 0 {
		roof := m.Roof[0]
		items = append(items, priced(model.LineItem{
			Category:    "Roofing",
			ItemID:      "RFG-ASPH-RPL",
			Description: fmt.Sprintf("Replace %s roof", roof.Material),
			Quantity:    roof.AreaSqFt,
			Unit:        UnitSquareFeet,
			Notes:       fmt.Sprintf("Roof pitch: %s, Damage: %.0f%%", roof.Pitch, roof.DamageFraction*100),
		}, t.roofPerSqFt))
	}

	if len(m.Siding) > 0 {
		siding := m.Siding[0]
		items = append(items, priced(model.LineItem{
			Category:    "Exterior",
			ItemID:      "EXT-SDNG-RPL",
			Description: fmt.Sprintf("Replace %s siding", siding.Material),
			Quantity:    siding.AreaSqFt,
			Unit:        UnitSquareFeet,
			Notes:       fmt.Sprintf("Damage: %.0f%%", siding.DamageFraction*100),
		}, t.sidingPerSqFt))
	}

	if len(m.Structural) > 0 {
		structural := m.Structural[0]
		// one fixed-price item per affected component
		for _, component := range structural.AffectedComponents {
			items = append(items, priced(model.LineItem{
				Category:    "Structural",
				ItemID:      fmt.Sprintf("STR-%s-RPR", strings.ToUpper(component)),
				Description: fmt.Sprintf("Repair %s %s damage", structural.Severity, component),
				Quantity:    1,
				Unit:        UnitEach,
				Notes:       fmt.Sprintf("%s structural damage to %s", capitalize(structural.Severity), component),
			}, t.structuralComponent))
		}
	}

	if len(m.Water) > 0 {
		water := m.Water[0]
		// price scales linearly with the water category
		unitPrice := t.waterBasePerSqFt.Mul(decimal.NewFromInt(int64(water.Category)))
		items = append(items, priced(model.LineItem{
			Category:    "Water Damage",
			ItemID:      fmt.Sprintf("WTR-CAT%d-MIT", water.Category),
			Description: fmt.Sprintf("Category %d water damage mitigation", water.Category),
			Quantity:    water.AffectedAreaSqFt,
			Unit:        UnitSquareFeet,
			Notes:       fmt.Sprintf("Water depth: %.0f inches", water.DepthInches),
		}, unitPrice))
	}

	if len(m.Debris) > 0 {
		debris := m.Debris[0]
		items = append(items, priced(model.LineItem{
			Category:    "Cleanup",
			ItemID:      "CLN-DBRS-RMV",
			Description: fmt.Sprintf("Remove %s debris", debris.Type),
			Quantity:    debris.VolumeCubicYards,
			Unit:        UnitCubicYards,
			Notes:       fmt.Sprintf("Debris type: %s", debris.Type),
		}, t.debrisPerCuYd))
	}

	return items
}

// Totals sums the line totals and applies the tax rate.
func (t Table) Totals(items []model.LineItem) (subtotal, tax, total float64) {
	sub := decimal.Zero
	for _, item := range items {
		sub = sub.Add(decimal.NewFromFloat(item.Total))
	}
	taxAmount := sub.Mul(t.taxRate)
	return sub.InexactFloat64(), taxAmount.InexactFloat64(), sub.Add(taxAmount).InexactFloat64()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func priced(item model.LineItem, unitPrice decimal.Decimal) model.LineItem {
	item.UnitPrice = unitPrice.InexactFloat64()
	item.Total = unitPrice.Mul(decimal.NewFromFloat(item.Quantity)).InexactFloat64()
	return item
}
