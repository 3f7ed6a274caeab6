package credit_card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "agency/internal/errors"
	"agency/internal/logger"
	"agency/internal/models"
	"agency/internal/repositories"
	"agency/internal/repositories/cache"
	"agency/internal/services/status"
	cachekeys "agency/internal/utils/cache"
)

type service struct {
	repo     repositories.CreditCardRepository
	cache    repositories.CacheRepository
	statuses *status.Resolver
	cipher   *Cipher
	log      *slog.Logger
	clock    func() time.Time
	location *time.Location
	ttl      time.Duration
}

type Option func(*service)

func WithLogger(log *slog.Logger) Option {
	return func(s *service) { s.log = log }
}

func WithClock(clock func() time.Time) Option {
	return func(s *service) { s.clock = clock }
}

// WithLocation sets the zone statuses are classified in. Use the same
// location as the reconciliation jobs.
func WithLocation(loc *time.Location) Option {
	return func(s *service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithTTL overrides the lifetime of cached card projections.
func WithTTL(ttl time.Duration) Option {
	return func(s *service) { s.ttl = ttl }
}

func NewService(
	repo repositories.CreditCardRepository,
	cacheRepo repositories.CacheRepository,
	statuses *status.Resolver,
	cipher *Cipher,
	opts ...Option,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cacheRepo == nil {
		panic("cache is required")
	}
	if statuses == nil || cipher == nil {
		panic("status resolver and cipher are required")
	}

	s := &service{
		repo:     repo,
		cache:    cacheRepo,
		statuses: statuses,
		cipher:   cipher,
		log:      logger.Discard(),
		clock:    time.Now,
		location: time.UTC,
		ttl:      cachekeys.CollectionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) ListCards(ctx context.Context) ([]*models.CreditCard, error) {
	return cache.Remember(ctx, s.cache, s.log, cachekeys.AllKey(cachekeys.CollectionCards), s.ttl, s.repo.FindAll)
}

func (s *service) GetCustomerCards(ctx context.Context, customerID uint) ([]*models.CreditCard, error) {
	return cache.Remember(ctx, s.cache, s.log, cachekeys.CustomerCardsKey(customerID), s.ttl,
		func(ctx context.Context) ([]*models.CreditCard, error) {
			return s.repo.GetByCustomerID(ctx, customerID)
		})
}

func (s *service) GetCard(ctx context.Context, cardID uint) (*models.CreditCard, error) {
	card, err := s.repo.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// CreateCard encrypts the number, keeps the last four digits in clear and
// assigns the status the expiration implies today.
func (s *service) CreateCard(ctx context.Context, input models.CreateCardInput) (*models.CreditCard, error) {
	number := normalizeNumber(input.CardNumber)
	if err := validateCardInput(input, number); err != nil {
		return nil, err
	}

	statusID, err := s.statuses.ClassifyCard(ctx, input.ExpirationDate, s.now())
	if err != nil {
		return nil, err
	}

	encrypted, err := s.cipher.Encrypt(number)
	if err != nil {
		return nil, fmt.Errorf("encrypt card number: %w", err)
	}

	brand := strings.ToUpper(strings.TrimSpace(input.Brand))
	if brand == "" {
		brand = detectBrand(number)
	}

	card := &models.CreditCard{
		CustomerID:      input.CustomerID,
		BankID:          input.BankID,
		HolderName:      strings.TrimSpace(input.HolderName),
		EncryptedNumber: encrypted,
		LastFour:        number[len(number)-4:],
		Brand:           brand,
		ExpirationDate:  input.ExpirationDate,
		CardStatusID:    statusID,
	}
	if err := s.repo.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cachekeys.Prefix(cachekeys.CollectionCards))
	s.log.Info("card registered", "card_id", card.ID, "customer_id", card.CustomerID, "brand", card.Brand)
	return card, nil
}

// UpdateExpiration stores a renewed expiration and re-derives the status
// in the same write.
func (s *service) UpdateExpiration(ctx context.Context, cardID uint, expiration time.Time) (*models.CreditCard, error) {
	if expiration.IsZero() {
		return nil, apperrors.ErrInvalidExpiration
	}
	if _, err := s.GetCard(ctx, cardID); err != nil {
		return nil, err
	}

	statusID, err := s.statuses.ClassifyCard(ctx, expiration, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateExpiration(ctx, cardID, expiration, statusID); err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cachekeys.Prefix(cachekeys.CollectionCards))
	return s.GetCard(ctx, cardID)
}

func (s *service) DeleteCard(ctx context.Context, cardID uint) error {
	if err := s.repo.Delete(ctx, cardID); err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return apperrors.ErrCardNotFound
		}
		return fmt.Errorf("failed to delete card: %w", err)
	}
	cache.Invalidate(ctx, s.cache, s.log, cachekeys.Prefix(cachekeys.CollectionCards))
	return nil
}

func (s *service) now() time.Time {
	return s.clock().In(s.location)
}
