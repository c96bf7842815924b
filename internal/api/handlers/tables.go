package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradein-valuation/internal/api/models"
	"tradein-valuation/internal/model"
	"tradein-valuation/internal/valuation"
)

// TablesHandler exposes the active multiplier tables so the UI can explain
// each factor.
type TablesHandler struct {
	body models.TablesResponse
}

// NewTablesHandler renders the tables once; they are immutable at runtime.
func NewTablesHandler(t valuation.Tables) *TablesHandler {
	return &TablesHandler{body: describeTables(t)}
}

// GetTables handles GET /api/v1/tables
func (h *TablesHandler) GetTables(c *gin.Context) {
	c.JSON(http.StatusOK, h.body)
}

func describeTables(t valuation.Tables) models.TablesResponse {
	out := models.TablesResponse{
		Decay:           models.DecayInfo{MonthlyRate: t.MonthlyDecayRate, Floor: t.DecayFloor},
		DefaultSeasonal: t.DefaultSeasonal,
		OfferBounds:     models.OfferBoundsInfo{Minimum: t.MinimumOffer},
	}
	for _, s := range t.AgeSteps {
		months := s.MaxMonths
		out.AgeSteps = append(out.AgeSteps, models.AgeStepInfo{
			MaxMonths:    &months,
			DemandFactor: s.DemandFactor,
			SupplyFactor: s.SupplyFactor,
		})
	}
	out.AgeSteps = append(out.AgeSteps, models.AgeStepInfo{
		DemandFactor: t.AgeFallback.DemandFactor,
		SupplyFactor: t.AgeFallback.SupplyFactor,
	})
	for _, s := range t.Seasons {
		months := make([]string, len(s.Months))
		for i, m := range s.Months {
			months[i] = m.String()
		}
		out.Seasons = append(out.Seasons, models.SeasonInfo{Name: s.Name, Months: months, Factor: s.Factor})
	}
	for _, c := range model.Conditions() {
		if m, ok := t.Conditions[c]; ok {
			out.Conditions = append(out.Conditions, models.MultiplierInfo{Name: c.String(), Multiplier: m})
		}
	}
	tiers := make([]model.StorageTier, 0, len(t.Storage))
	for tier := range t.Storage {
		tiers = append(tiers, tier)
	}
	model.SortStorageTiers(tiers)
	for _, tier := range tiers {
		out.Storage = append(out.Storage, models.MultiplierInfo{Name: tier.String(), Multiplier: t.Storage[tier]})
	}
	for _, p := range t.SupplyDemandCurve {
		out.SupplyDemandCurve = append(out.SupplyDemandCurve, models.CurvePoint{X: p.X, Y: p.Y})
	}
	for _, p := range t.MarketPositionCurve {
		out.MarketPositionCurve = append(out.MarketPositionCurve, models.CurvePoint{X: p.X, Y: p.Y})
	}
	if t.MaximumOffer.IsPositive() {
		ceiling := t.MaximumOffer
		out.OfferBounds.Maximum = &ceiling
	}
	return out
}
