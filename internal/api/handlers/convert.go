package handlers

import (
	"tradein-valuation/internal/api/models"
	"tradein-valuation/internal/model"
	"tradein-valuation/internal/tradein"
	"tradein-valuation/internal/valuation"
)

func toValuationResponse(r *valuation.Result) models.ValuationResponse {
	return models.ValuationResponse{
		DeviceID:   r.DeviceID,
		Brand:      r.Brand,
		Model:      r.Model,
		Storage:    r.Storage.String(),
		Condition:  r.Condition.String(),
		ValuedAt:   r.ValuedAt,
		FinalValue: r.FinalValue,
		Clamped:    r.Clamped,
		Breakdown: models.Breakdown{
			ReferencePrice:           r.ReferencePrice,
			BasePrice:                r.BasePrice,
			MonthsSinceRelease:       r.MonthsSinceRelease,
			TimeDecay:                r.TimeDecay,
			MarketDemand:             r.MarketDemand,
			SupplyLevel:              r.SupplyLevel,
			SupplyDemandRatio:        r.SupplyDemandRatio,
			SupplyDemandMultiplier:   r.SupplyDemandMultiplier,
			DemandSignal:             string(r.DemandSignal),
			CompetitorPrice:          r.CompetitorPrice,
			MarketPosition:           r.MarketPosition,
			MarketPositionMultiplier: r.MarketPositionMultiplier,
			MarketSignal:             string(r.MarketSignal),
			SeasonalMultiplier:       r.SeasonalMultiplier,
			Season:                   r.Season,
			StorageValue:             r.StorageValue,
			ConditionMultiplier:      r.ConditionMultiplier,
		},
	}
}

func toDeviceInfo(p *model.DeviceMarketProfile) models.DeviceInfo {
	options := make([]string, len(p.StorageOptions))
	for i, t := range p.StorageOptions {
		options[i] = t.String()
	}
	return models.DeviceInfo{
		ID:             p.ID,
		Brand:          p.Brand,
		Model:          p.Model,
		Name:           p.DisplayName(),
		ReleaseDate:    p.ReleaseDate.Format("2006-01-02"),
		BasePrice:      p.BasePrice,
		StorageOptions: options,
	}
}

func toTradeInResponse(s *tradein.Submission) models.TradeInResponse {
	return models.TradeInResponse{
		ID:        s.ID.String(),
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		Customer: models.CustomerInfo{
			Name:  s.Customer.Name,
			Email: s.Customer.Email,
			Phone: s.Customer.Phone,
		},
		Valuation: toValuationResponse(s.Result),
	}
}
