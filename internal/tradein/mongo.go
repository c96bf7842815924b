package tradein

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"tradein-valuation/internal/model"
	"tradein-valuation/internal/valuation"
)

const collection = "trade_ins"

// resultDocument stores the valuation breakdown. Money is kept as decimal
// strings so the stored offer is exactly what the customer was shown.
type resultDocument struct {
	Brand                    string    `bson:"brand"`
	Model                    string    `bson:"model"`
	ValuedAt                 time.Time `bson:"valued_at"`
	FinalValue               string    `bson:"final_value"`
	Clamped                  bool      `bson:"clamped"`
	ReferencePrice           string    `bson:"reference_price"`
	BasePrice                string    `bson:"base_price"`
	MonthsSinceRelease       float64   `bson:"months_since_release"`
	TimeDecay                float64   `bson:"time_decay"`
	MarketDemand             float64   `bson:"market_demand"`
	SupplyLevel              float64   `bson:"supply_level"`
	SupplyDemandRatio        float64   `bson:"supply_demand_ratio"`
	SupplyDemandMultiplier   float64   `bson:"supply_demand_multiplier"`
	DemandSignal             string    `bson:"demand_signal"`
	CompetitorPrice          string    `bson:"competitor_price"`
	MarketPosition           float64   `bson:"market_position"`
	MarketPositionMultiplier float64   `bson:"market_position_multiplier"`
	MarketSignal             string    `bson:"market_signal"`
	SeasonalMultiplier       float64   `bson:"seasonal_multiplier"`
	Season                   string    `bson:"season"`
	StorageValue             float64   `bson:"storage_value"`
	ConditionMultiplier      float64   `bson:"condition_multiplier"`
}

type submissionDocument struct {
	ID        string         `bson:"_id"`
	Customer  Customer       `bson:"customer"`
	DeviceID  string         `bson:"device_id"`
	Storage   string         `bson:"storage"`
	Condition string         `bson:"condition"`
	Result    resultDocument `bson:"result"`
	Status    string         `bson:"status"`
	CreatedAt time.Time      `bson:"created_at"`
}

func documentFromSubmission(s *Submission) submissionDocument {
	r := s.Result
	return submissionDocument{
		ID:        s.ID.String(),
		Customer:  s.Customer,
		DeviceID:  s.DeviceID,
		Storage:   s.Storage.String(),
		Condition: s.Condition.String(),
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt.UTC(),
		Result: resultDocument{
			Brand:                    r.Brand,
			Model:                    r.Model,
			ValuedAt:                 r.ValuedAt.UTC(),
			FinalValue:               r.FinalValue.String(),
			Clamped:                  r.Clamped,
			ReferencePrice:           r.ReferencePrice.String(),
			BasePrice:                r.BasePrice.String(),
			MonthsSinceRelease:       r.MonthsSinceRelease,
			TimeDecay:                r.TimeDecay,
			MarketDemand:             r.MarketDemand,
			SupplyLevel:              r.SupplyLevel,
			SupplyDemandRatio:        r.SupplyDemandRatio,
			SupplyDemandMultiplier:   r.SupplyDemandMultiplier,
			DemandSignal:             string(r.DemandSignal),
			CompetitorPrice:          r.CompetitorPrice.String(),
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

func (d submissionDocument) toSubmission() (*Submission, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "trade-in id %q", d.ID)
	}
	money := func(field, raw string) (decimal.Decimal, error) {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "trade-in %s: %s", d.ID, field)
		}
		return v, nil
	}
	final, err := money("final_value", d.Result.FinalValue)
	if err != nil {
		return nil, err
	}
	reference, err := money("reference_price", d.Result.ReferencePrice)
	if err != nil {
		return nil, err
	}
	base, err := money("base_price", d.Result.BasePrice)
	if err != nil {
		return nil, err
	}
	competitor, err := money("competitor_price", d.Result.CompetitorPrice)
	if err != nil {
		return nil, err
	}
	r := d.Result
	storage := model.StorageTier(d.Storage)
	condition := model.Condition(d.Condition)
	return &Submission{
		ID:        id,
		Customer:  d.Customer,
		DeviceID:  d.DeviceID,
		Storage:   storage,
		Condition: condition,
		Status:    Status(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		Result: &valuation.Result{
			DeviceID:                 d.DeviceID,
			Brand:                    r.Brand,
			Model:                    r.Model,
			Storage:                  storage,
			Condition:                condition,
			ValuedAt:                 r.ValuedAt.UTC(),
			FinalValue:               final,
			Clamped:                  r.Clamped,
			ReferencePrice:           reference,
			BasePrice:                base,
			MonthsSinceRelease:       r.MonthsSinceRelease,
			TimeDecay:                r.TimeDecay,
			MarketDemand:             r.MarketDemand,
			SupplyLevel:              r.SupplyLevel,
			SupplyDemandRatio:        r.SupplyDemandRatio,
			SupplyDemandMultiplier:   r.SupplyDemandMultiplier,
			DemandSignal:             valuation.DemandSignal(r.DemandSignal),
			CompetitorPrice:          competitor,
			MarketPosition:           r.MarketPosition,
			MarketPositionMultiplier: r.MarketPositionMultiplier,
			MarketSignal:             valuation.MarketSignal(r.MarketSignal),
			SeasonalMultiplier:       r.SeasonalMultiplier,
			Season:                   r.Season,
			StorageValue:             r.StorageValue,
			ConditionMultiplier:      r.ConditionMultiplier,
		},
	}, nil
}

// MongoRepository stores submissions in the trade_ins collection.
type MongoRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewMongoRepository uses an already connected client; the caller owns
// Disconnect.
func NewMongoRepository(client *mongo.Client, dbName string, logger *zap.Logger) *MongoRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoRepository{
		coll:   client.Database(dbName).Collection(collection),
		logger: logger,
	}
}

func (r *MongoRepository) Save(ctx context.Context, s *Submission) error {
	if s == nil || s.Result == nil {
		return errors.New("submission with a result is required")
	}
	if _, err := r.coll.InsertOne(ctx, documentFromSubmission(s)); err != nil {
		return errors.Wrap(err, "failed to insert trade-in")
	}
	return nil
}

func (r *MongoRepository) Get(ctx context.Context, id uuid.UUID) (*Submission, error) {
	var doc submissionDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Wrapf(ErrNotFound, "%s", id)
	}
	if err != nil {
		r.logger.Warn("trade-in query failed", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.Wrapf(model.ErrUpstreamUnavailable, "mongodb: %v", err)
	}
	return doc.toSubmission()
}
