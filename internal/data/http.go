package data

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradein-valuation/internal/model"
)

// HTTPStore reads profiles from the storefront's catalog service.
//
// Endpoints:
//
//	GET /v1/devices/{id}/market-profile -> DeviceMarketProfile
//	GET /v1/market-profiles             -> {"profiles": [...]}
type HTTPStore struct {
	client *resty.Client
	logger *zap.Logger
}

type profileListResponse struct {
	Profiles []json.RawMessage `json:"profiles"`
}

// catalogProfile is the catalog service's JSON shape. It is normalized the
// same way ProfileRecord is, so labels like "256 gb" match "256GB".
type catalogProfile struct {
	ID                      string          `json:"id"`
	Brand                   string          `json:"brand"`
	Model                   string          `json:"model"`
	ReleaseDate             time.Time       `json:"release_date"`
	BasePrice               decimal.Decimal `json:"base_price"`
	BaselineMarketDemand    float64         `json:"baseline_market_demand"`
	BaselineSupplyLevel     float64         `json:"baseline_supply_level"`
	BaselineCompetitorPrice decimal.Decimal `json:"baseline_competitor_price"`
	StorageOptions          []string        `json:"storage_options"`
	// Active defaults to true when omitted.
	Active *bool `json:"active"`
}

func (c catalogProfile) toModel() (*model.DeviceMarketProfile, error) {
	id := strings.TrimSpace(c.ID)
	if id == "" {
		return nil, errors.New("id is required")
	}
	options := make([]model.StorageTier, 0, len(c.StorageOptions))
	for _, raw := range c.StorageOptions {
		tier, err := model.ParseStorageTier(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: storage_options", id)
		}
		options = append(options, tier)
	}
	model.SortStorageTiers(options)

	active := true
	if c.Active != nil {
		active = *c.Active
	}
	return &model.DeviceMarketProfile{
		ID:                      id,
		Brand:                   strings.TrimSpace(c.Brand),
		Model:                   strings.TrimSpace(c.Model),
		ReleaseDate:             c.ReleaseDate,
		BasePrice:               c.BasePrice,
		BaselineMarketDemand:    c.BaselineMarketDemand,
		BaselineSupplyLevel:     c.BaselineSupplyLevel,
		BaselineCompetitorPrice: c.BaselineCompetitorPrice,
		StorageOptions:          options,
		Active:                  active,
	}, nil
}

// decodeProfile parses one catalog entry. Anything the catalog sends that is
// not a usable profile counts as the catalog being unavailable.
func decodeProfile(raw []byte, fallbackID string) (*model.DeviceMarketProfile, error) {
	var c catalogProfile
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrapf(model.ErrUpstreamUnavailable, "catalog: undecodable profile: %v", err)
	}
	if strings.TrimSpace(c.ID) == "" {
		c.ID = fallbackID
	}
	p, err := c.toModel()
	if err != nil {
		return nil, errors.Wrapf(model.ErrUpstreamUnavailable, "catalog: invalid profile: %v", err)
	}
	return p, nil
}

// NewHTTPStore builds a resty-backed catalog client. Retries are left to the
// caller; a failed lookup is reported, never papered over.
func NewHTTPStore(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &HTTPStore{client: client, logger: logger}
}

func (s *HTTPStore) GetProfile(ctx context.Context, deviceID string) (*model.DeviceMarketProfile, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("id", deviceID).
		Get("/v1/devices/{id}/market-profile")
	if err := s.classify(resp, err, deviceID); err != nil {
		return nil, err
	}
	p, err := decodeProfile(resp.Body(), deviceID)
	if err != nil {
		s.logger.Warn("catalog sent an unusable profile", zap.String("device_id", deviceID), zap.Error(err))
		return nil, err
	}
	if !p.Active {
		return nil, errors.Wrapf(model.ErrNotFound, "%q is inactive", deviceID)
	}
	return p, nil
}

func (s *HTTPStore) List(ctx context.Context) ([]*model.DeviceMarketProfile, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get("/v1/market-profiles")
	if err := s.classify(resp, err, ""); err != nil {
		return nil, err
	}
	var body profileListResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		s.logger.Warn("catalog sent an undecodable list", zap.Error(err))
		return nil, errors.Wrapf(model.ErrUpstreamUnavailable, "catalog: undecodable list: %v", err)
	}
	out := make([]*model.DeviceMarketProfile, 0, len(body.Profiles))
	for i, raw := range body.Profiles {
		p, err := decodeProfile(raw, "")
		if err != nil {
			s.logger.Warn("skipping unusable catalog entry", zap.Int("index", i), zap.Error(err))
			continue
		}
		if p.Active {
			out = append(out, p)
		}
	}
	sortProfiles(out)
	return out, nil
}

func (s *HTTPStore) classify(resp *resty.Response, err error, deviceID string) error {
	if err != nil {
		s.logger.Warn("catalog request failed", zap.String("device_id", deviceID), zap.Error(err))
		return errors.Wrapf(model.ErrUpstreamUnavailable, "catalog: %v", err)
	}
	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return errors.Wrapf(model.ErrNotFound, "%q", deviceID)
	case resp.IsError():
		s.logger.Warn("catalog returned error status",
			zap.String("device_id", deviceID),
			zap.Int("status", code))
		return errors.Wrapf(model.ErrUpstreamUnavailable, "catalog: status %d", code)
	}
	return nil
}
