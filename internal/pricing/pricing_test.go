package pricing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/config"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/pricing"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
)

var _ = Describe("pricing table", func() {
	var table pricing.Table

	BeforeEach(func() {
		table = pricing.NewTable(config.NewDefault().Pricing)
	})

	Context("line items", func() {
		It("prices roof replacement by the square foot", func() {
			items := table.LineItems(model.MeasurementLists{
				Roof: []model.RoofMeasurement{
					{AreaSqFt: 1000, Pitch: "6/12", Material: "asphalt shingle", DamageFraction: 0.5},
				},
			})

			Expect(items).To(HaveLen(1))
			Expect(items[0].ItemID).To(Equal("RFG-ASPH-RPL"))
			Expect(items[0].Unit).To(Equal("SQFT"))
			Expect(items[0].Quantity).To(Equal(1000.0))
			Expect(items[0].UnitPrice).To(Equal(4.50))
			Expect(items[0].Total).To(Equal(4500.0))
			Expect(items[0].Description).To(Equal("Replace asphalt shingle roof"))
			Expect(items[0].Notes).To(Equal("Roof pitch: 6/12, Damage: 50%"))
		})

		It("prices siding replacement by the square foot", func() {
			items := table.LineItems(model.MeasurementLists{
				Siding: []model.SidingMeasurement{
					{AreaSqFt: 100, Material: "vinyl", DamageFraction: 0.3},
				},
			})

			Expect(items).To(HaveLen(1))
			Expect(items[0].ItemID).To(Equal("EXT-SDNG-RPL"))
			Expect(items[0].Total).To(Equal(375.0))
		})

		It("prices one fixed item per structural component", func() {
			items := table.LineItems(model.MeasurementLists{
				Structural: []model.StructuralMeasurement{
					{AffectedComponents: []string{"wall", "beam"}, Severity: "severe"},
				},
			})

			Expect(items).To(HaveLen(2))
			Expect(items[0].ItemID).To(Equal("STR-WALL-RPR"))
			Expect(items[1].ItemID).To(Equal("STR-BEAM-RPR"))
			for _, item := range items {
				Expect(item.Unit).To(Equal("EA"))
				Expect(item.Quantity).To(Equal(1.0))
				Expect(item.Total).To(Equal(750.0))
			}
			Expect(items[0].Notes).To(Equal("Severe structural damage to wall"))
		})

		It("scales the water mitigation price with the water category", func() {
			items := table.LineItems(model.MeasurementLists{
				Water: []model.WaterMeasurement{
					{AffectedAreaSqFt: 200, DepthInches: 6, Category: 3},
				},
			})

			Expect(items).To(HaveLen(1))
			Expect(items[0].ItemID).To(Equal("WTR-CAT3-MIT"))
			Expect(items[0].UnitPrice).To(Equal(7.50))
			Expect(items[0].Total).To(Equal(1500.0))
		})

		It("prices debris removal by the cubic yard", func() {
			items := table.LineItems(model.MeasurementLists{
				Debris: []model.DebrisMeasurement{
					{VolumeCubicYards: 10, Type: "mixed"},
				},
			})

			Expect(items).To(HaveLen(1))
			Expect(items[0].ItemID).To(Equal("CLN-DBRS-RMV"))
			Expect(items[0].Unit).To(Equal("CUYD"))
			Expect(items[0].Total).To(Equal(450.0))
		})

		It("uses only the first measurement block per category", func() {
			items := table.LineItems(model.MeasurementLists{
				Roof: []model.RoofMeasurement{
					{AreaSqFt: 1000, Pitch: "6/12", Material: "metal", DamageFraction: 0.5},
					{AreaSqFt: 2500, Pitch: "4/12", Material: "tile", DamageFraction: 0.9},
				},
			})

			Expect(items).To(HaveLen(1))
			Expect(items[0].Quantity).To(Equal(1000.0))
		})

		It("produces no items for empty measurements", func() {
			Expect(table.LineItems(model.MeasurementLists{})).To(BeEmpty())
		})
	})

	Context("totals", func() {
		It("applies the tax rate on top of the subtotal", func() {
			items := table.LineItems(model.MeasurementLists{
				Roof: []model.RoofMeasurement{
					{AreaSqFt: 1000, Pitch: "6/12", Material: "asphalt shingle", DamageFraction: 0.5},
				},
			})

			subtotal, tax, total := table.Totals(items)
			Expect(subtotal).To(Equal(4500.0))
			Expect(tax).To(Equal(315.0))
			Expect(total).To(Equal(4815.0))
		})

		It("returns zeros for no items", func() {
			subtotal, tax, total := table.Totals(nil)
			Expect(subtotal).To(BeZero())
			Expect(tax).To(BeZero())
			Expect(total).To(BeZero())
		})
	})
})
