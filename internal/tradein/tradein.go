package tradein

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tradein-valuation/internal/model"
	"tradein-valuation/internal/valuation"
)

// Status is the lifecycle state of a submission. Only pending is produced
// here; inspection and payout happen in the fulfilment system.
type Status string

const StatusPending Status = "pending"

// ErrNotFound is returned for unknown submission ids.
var ErrNotFound = errors.New("trade-in not found")

var validate = validator.New()

// Customer identifies who booked the trade-in.
type Customer struct {
	Name  string `json:"name" bson:"name" validate:"required"`
	Email string `json:"email" bson:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Validate requires a name and a parseable email address.
func (c Customer) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	err := validate.Struct(c)
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		return errors.Wrapf(model.ErrInvalidRequest, "customer %s fails %q",
			strings.ToLower(fields[0].Field()), fields[0].Tag())
	}
	return err
}

// Submission is a booked trade-in. Result is always computed server side.
type Submission struct {
	ID        uuid.UUID         `json:"id"`
	Customer  Customer          `json:"customer"`
	DeviceID  string            `json:"device_id"`
	Storage   model.StorageTier `json:"storage"`
	Condition model.Condition   `json:"condition"`
	Result    *valuation.Result `json:"result"`
	Status    Status            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// Repository persists submissions.
type Repository interface {
	Save(ctx context.Context, s *Submission) error
	Get(ctx context.Context, id uuid.UUID) (*Submission, error)
}

// Quoter is the slice of valuation.Service the booking flow needs.
type Quoter interface {
	Quote(ctx context.Context, req valuation.Request) (*valuation.Result, error)
}

// Service books trade-ins against a freshly computed offer.
type Service struct {
	quoter Quoter
	repo   Repository
	logger *zap.Logger
	newID  func() uuid.UUID
}

func NewService(quoter Quoter, repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{quoter: quoter, repo: repo, logger: logger, newID: uuid.New}
}

// Submit revalues the device at now and stores a pending submission.
func (s *Service) Submit(ctx context.Context, customer Customer, req valuation.Request) (*Submission, error) {
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	res, err := s.quoter.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	sub := &Submission{
		ID:        s.newID(),
		Customer:  customer,
		DeviceID:  res.DeviceID,
		Storage:   res.Storage,
		Condition: res.Condition,
		Result:    res,
		Status:    StatusPending,
		CreatedAt: req.Now.UTC(),
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		s.logger.Error("failed to store trade-in", zap.String("device_id", req.DeviceID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("trade-in booked",
		zap.String("id", sub.ID.String()),
		zap.String("device_id", sub.DeviceID),
		zap.String("final_value", res.FinalValue.String()))
	return sub, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Submission, error) {
	return s.repo.Get(ctx, id)
}
