// Package cache provides a redis-backed read-through cache for wallets and
// transactions. The cache is advisory only: the engine always treats the
// database as the source of truth during a mutating unit and invalidates
// cache entries after commit.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"walletapi/internal/models"

	"github.com/redis/go-redis/v9"
)

type Service struct {
	client *redis.Client
	ttl    time.Duration
}

func NewService(client *redis.Client, defaultTTL time.Duration) *Service {
	return &Service{client: client, ttl: defaultTTL}
}

func (s *Service) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *Service) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get unmarshals the cached value into dest and reports whether the key was
// present.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *Service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *Service) Close() error {
	return s.client.Close()
}

// Key generation

func (s *Service) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Wallet caching

func (s *Service) CacheWallet(ctx context.Context, wallet *models.Wallet) error {
	if wallet == nil {
		return errors.New("cannot cache nil wallet")
	}
	keys := []string{
		s.GenerateKey("wallet", "id", wallet.ID),
		s.GenerateKey("wallet", "user", wallet.UserID),
	}
	for _, key := range keys {
		if err := s.Set(ctx, key, wallet); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) GetWalletByUserID(ctx context.Context, userID uint) (*models.Wallet, bool) {
	var wallet models.Wallet
	found, err := s.Get(ctx, s.GenerateKey("wallet", "user", userID), &wallet)
	if err != nil || !found {
		return nil, false
	}
	return &wallet, true
}

// InvalidateWallet drops every cache entry derived from a wallet.
func (s *Service) InvalidateWallet(ctx context.Context, walletID, userID uint) error {
	return s.Delete(ctx,
		s.GenerateKey("wallet", "id", walletID),
		s.GenerateKey("wallet", "user", userID),
		s.GenerateKey("wallet", "balance", walletID),
	)
}
