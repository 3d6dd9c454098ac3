package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/lunch-order/internal/clock"
)

// Service owns the day-scoped order records. Every day argument is truncated
// with Day before it reaches the repository.
type Service interface {
	Upsert(ctx context.Context, identity string, day time.Time, content string) (*Record, error)
	FindForDay(ctx context.Context, day time.Time) ([]Record, error)
	FindOne(ctx context.Context, identity string, day time.Time) (*Record, error)
	EarliestForDay(ctx context.Context, day time.Time) (*Record, error)
	Remove(ctx context.Context, identity string, day time.Time) error
}

type service struct {
	orderRepo Repository
	clock     clock.Clock
}

func NewService(orderRepo Repository, clk clock.Clock) Service {
	return &service{
		orderRepo: orderRepo,
		clock:     clk,
	}
}

func (s *service) Upsert(ctx context.Context, identity string, day time.Time, content string) (*Record, error) {
	if strings.TrimSpace(identity) == "" {
		log.Warn().Msg("service: attempt to upsert order without identity")
		return nil, ErrInvalidIdentity
	}

	now := s.clock.Now().UTC()
	rec := &Record{
		Identity:  identity,
		Day:       Day(day),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orderRepo.Upsert(ctx, rec); err != nil {
		log.Error().Err(err).Str("identity", identity).Msg("service: failed to upsert order in repository")
		return nil, fmt.Errorf("service: failed to upsert order: %w", err)
	}

	log.Info().Str("identity", identity).Stringer("order_id", rec.ID).Msg("service: order saved")

	return rec, nil
}

func (s *service) FindForDay(ctx context.Context, day time.Time) ([]Record, error) {
	records, err := s.orderRepo.FindByDay(ctx, Day(day))
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch orders for day in repository")
		return nil, fmt.Errorf("service: failed to fetch orders for day: %w", err)
	}

	return records, nil
}

func (s *service) FindOne(ctx context.Context, identity string, day time.Time) (*Record, error) {
	rec, err := s.orderRepo.FindByKey(ctx, identity, Day(day))
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}

		log.Error().Err(err).Str("identity", identity).Msg("service: failed to fetch order in repository")
		return nil, fmt.Errorf("service: failed to fetch order: %w", err)
	}

	return rec, nil
}

func (s *service) EarliestForDay(ctx context.Context, day time.Time) (*Record, error) {
	rec, err := s.orderRepo.FindEarliestByDay(ctx, Day(day))
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}

		log.Error().Err(err).Msg("service: failed to fetch earliest order in repository")
		return nil, fmt.Errorf("service: failed to fetch earliest order: %w", err)
	}

	return rec, nil
}

func (s *service) Remove(ctx context.Context, identity string, day time.Time) error {
	if err := s.orderRepo.DeleteByKey(ctx, identity, Day(day)); err != nil {
		log.Error().Err(err).Str("identity", identity).Msg("service: failed to delete order in repository")
		return fmt.Errorf("service: failed to delete order: %w", err)
	}

	log.Info().Str("identity", identity).Msg("service: order removed")

	return nil
}
