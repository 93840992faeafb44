package model

import (
	"math"

	"telegram-order-notifier/internal/domain"
)

// PricingModel holds the atelier economics used to turn an estimated task
// duration into a minimum viable price. All money values are whole UAH.
type PricingModel struct {
	HourlyLaborRate float64 `yaml:"hourly_labor_rate"`
	OverheadPerHour float64 `yaml:"overhead_per_hour"`
	DepreciationFee float64 `yaml:"depreciation_fee"`
	ConsumablesFee  float64 `yaml:"consumables_fee"`
	TaxRate         float64 `yaml:"tax_rate"`
}

func DefaultPricingModel() PricingModel {
	return PricingModel{
		HourlyLaborRate: 156.0,
		OverheadPerHour: 31.0,
		DepreciationFee: 10.0,
		ConsumablesFee:  15.0,
		TaxRate:         0.05,
	}
}

// PriceBreakdown is the rounded cost decomposition of one estimate.
type PriceBreakdown struct {
	FinalPrice int
	Labor      int
	Overhead   int
	Tax        int
}

// MinPrice computes the minimum price for a task of the given duration.
// The tax is applied on top so that the net amount still covers costs.
func (p PricingModel) MinPrice(baseMinutes int) (PriceBreakdown, error) {
	if baseMinutes <= 0 {
		return PriceBreakdown{}, domain.ErrInvalidArgument
	}
	hours := float64(baseMinutes) / 60
	labor := hours * p.HourlyLaborRate
	overhead := hours * p.OverheadPerHour
	subtotal := labor + overhead + p.DepreciationFee + p.ConsumablesFee
	final := subtotal / (1 - p.TaxRate)

	return PriceBreakdown{
		FinalPrice: int(math.Round(final)),
		Labor:      int(math.Round(labor)),
		Overhead:   int(math.Round(overhead)),
		Tax:        int(math.Round(final * p.TaxRate)),
	}, nil
}
