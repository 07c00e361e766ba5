package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clipcart/internal/clock"
	orderdomain "github.com/smallbiznis/clipcart/internal/order/domain"
	"github.com/smallbiznis/clipcart/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  orderdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  orderdomain.Repository
}

func New(p Params) orderdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("order.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Upsert(ctx context.Context, data orderdomain.OrderData) (*orderdomain.Order, bool, error) {
	platformID := strings.TrimSpace(data.PlatformOrderID)
	if platformID == "" || data.OrderDate.IsZero() {
		return nil, false, orderdomain.ErrInvalidOrder
	}
	if data.TotalAmount < 0 {
		return nil, false, orderdomain.ErrInvalidAmount
	}
	if data.Method != "" && !data.Method.Known() {
		return nil, false, orderdomain.ErrInvalidOrder
	}

	currency := strings.ToUpper(strings.TrimSpace(data.Currency))
	if currency == "" {
		currency = "USD"
	}

	now := s.clock.Now()

	existing, err := s.repo.FindByPlatformID(ctx, s.db, platformID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		existing.TotalAmount = data.TotalAmount
		existing.Currency = currency
		existing.OrderStatus = data.OrderStatus
		existing.PromoCodeUsed = data.PromoCodeUsed
		existing.DiscountAmount = data.DiscountAmount
		existing.CustomerID = data.CustomerID
		existing.CustomerEmail = data.CustomerEmail
		existing.OrderDate = data.OrderDate.UTC()
		existing.UpdatedAt = now
		if err := s.repo.UpdateSyncedFields(ctx, s.db, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	o := &orderdomain.Order{
		ID:                s.genID.Generate(),
		PlatformOrderID:   platformID,
		TotalAmount:       data.TotalAmount,
		Currency:          currency,
		OrderStatus:       data.OrderStatus,
		CreatorID:         data.CreatorID,
		AttributionMethod: data.Method,
		PromoCodeUsed:     data.PromoCodeUsed,
		DiscountAmount:    data.DiscountAmount,
		CustomerID:        data.CustomerID,
		CustomerEmail:     data.CustomerEmail,
		OrderDate:         data.OrderDate.UTC(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Insert(ctx, s.db, o); err != nil {
		if db.IsDuplicateKeyErr(err) {
			existing, ferr := s.repo.FindByPlatformID(ctx, s.db, platformID)
			if ferr != nil {
				return nil, false, ferr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return o, true, nil
}

func (s *Service) GetByPlatformID(ctx context.Context, platformOrderID string) (*orderdomain.Order, error) {
	platformOrderID = strings.TrimSpace(platformOrderID)
	if platformOrderID == "" {
		return nil, orderdomain.ErrInvalidOrder
	}
	o, err := s.repo.FindByPlatformID(ctx, s.db, platformOrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, orderdomain.ErrNotFound
	}
	return o, nil
}
