package data

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"tradein-valuation/internal/model"
)

const profileCollection = "device_market_profiles"

// profileDocument is the BSON shape of a profile. Prices use Decimal128.
type profileDocument struct {
	ID                      string               `bson:"_id"`
	Brand                   string               `bson:"brand"`
	Model                   string               `bson:"model"`
	ReleaseDate             time.Time            `bson:"release_date"`
	BasePrice               primitive.Decimal128 `bson:"base_price"`
	BaselineMarketDemand    float64              `bson:"baseline_market_demand"`
	BaselineSupplyLevel     float64              `bson:"baseline_supply_level"`
	BaselineCompetitorPrice primitive.Decimal128 `bson:"baseline_competitor_price"`
	StorageOptions          []string             `bson:"storage_options"`
	Active                  bool                 `bson:"active"`
	UpdatedAt               time.Time            `bson:"updated_at"`
}

func documentFromModel(p *model.DeviceMarketProfile, now time.Time) (profileDocument, error) {
	base, err := primitive.ParseDecimal128(p.BasePrice.String())
	if err != nil {
		return profileDocument{}, errors.Wrapf(err, "%s: base price", p.ID)
	}
	competitor, err := primitive.ParseDecimal128(p.BaselineCompetitorPrice.String())
	if err != nil {
		return profileDocument{}, errors.Wrapf(err, "%s: competitor price", p.ID)
	}
	options := make([]string, len(p.StorageOptions))
	for i, t := range p.StorageOptions {
		options[i] = t.String()
	}
	return profileDocument{
		ID:                      p.ID,
		Brand:                   p.Brand,
		Model:                   p.Model,
		ReleaseDate:             p.ReleaseDate.UTC(),
		BasePrice:               base,
		BaselineMarketDemand:    p.BaselineMarketDemand,
		BaselineSupplyLevel:     p.BaselineSupplyLevel,
		BaselineCompetitorPrice: competitor,
		StorageOptions:          options,
		Active:                  p.Active,
		UpdatedAt:               now.UTC(),
	}, nil
}

func (d profileDocument) toModel() (*model.DeviceMarketProfile, error) {
	base, err := decimal.NewFromString(d.BasePrice.String())
	if err != nil {
		return nil, errors.Wrapf(err, "%s: base price", d.ID)
	}
	competitor, err := decimal.NewFromString(d.BaselineCompetitorPrice.String())
	if err != nil {
		return nil, errors.Wrapf(err, "%s: competitor price", d.ID)
	}
	options := make([]model.StorageTier, 0, len(d.StorageOptions))
	for _, raw := range d.StorageOptions {
		tier, err := model.ParseStorageTier(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: storage options", d.ID)
		}
		options = append(options, tier)
	}
	return &model.DeviceMarketProfile{
		ID:                      d.ID,
		Brand:                   d.Brand,
		Model:                   d.Model,
		ReleaseDate:             d.ReleaseDate.UTC(),
		BasePrice:               base,
		BaselineMarketDemand:    d.BaselineMarketDemand,
		BaselineSupplyLevel:     d.BaselineSupplyLevel,
		BaselineCompetitorPrice: competitor,
		StorageOptions:          options,
		Active:                  d.Active,
	}, nil
}

// MongoStore reads profiles from the catalog database the admin screens
// write to.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *zap.Logger
}

// ConnectMongo dials and pings MongoDB.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "failed to ping mongodb")
	}
	return client, nil
}

func NewMongoStore(client *mongo.Client, dbName string, logger *zap.Logger) *MongoStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(dbName).Collection(profileCollection),
		logger: logger,
	}
}

func (s *MongoStore) GetProfile(ctx context.Context, deviceID string) (*model.DeviceMarketProfile, error) {
	var doc profileDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": deviceID, "active": true}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Wrapf(model.ErrNotFound, "%q", deviceID)
	}
	if err != nil {
		s.logger.Warn("profile query failed", zap.String("device_id", deviceID), zap.Error(err))
		return nil, errors.Wrapf(model.ErrUpstreamUnavailable, "mongodb: %v", err)
	}
	p, err := doc.toModel()
	if err != nil {
		return nil, errors.Wrap(model.ErrComputation, err.Error())
	}
	return p, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*model.DeviceMarketProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "brand", Value: 1}, {Key: "model", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, errors.Wrapf(model.ErrUpstreamUnavailable, "mongodb: %v", err)
	}
	defer cur.Close(ctx)

	var out []*model.DeviceMarketProfile
	for cur.Next(ctx) {
		var doc profileDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "decode profile")
		}
		p, err := doc.toModel()
		if err != nil {
			s.logger.Warn("skipping malformed profile", zap.String("device_id", doc.ID), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrapf(model.ErrUpstreamUnavailable, "mongodb: %v", err)
	}
	return out, nil
}

// Upsert writes a profile, replacing any existing document with the same id.
func (s *MongoStore) Upsert(ctx context.Context, p *model.DeviceMarketProfile, now time.Time) error {
	doc, err := documentFromModel(p, now)
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrapf(err, "upsert profile %s", p.ID)
	}
	return nil
}
