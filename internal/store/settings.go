package store

import (
	"context"
	"fmt"
	"strings"

	"FoodExpress/internal/kv"
)

func validateConfig(c SystemConfig) error {
	if strings.TrimSpace(c.StoreName) == "" {
		return fmt.Errorf("%w: store name required", ErrInvalidConfig)
	}
	if !c.ExchangeRateKHR.IsPositive() || !c.ExchangeRateVND.IsPositive() {
		return fmt.Errorf("%w: exchange rates must be positive", ErrInvalidConfig)
	}
	for _, l := range c.ContactLinks {
		if l.ID == "" || l.Platform == "" {
			return fmt.Errorf("%w: contact link needs id and platform", ErrInvalidConfig)
		}
	}
	return nil
}

// UpdateConfig replaces the singleton config.
func (s *Store) UpdateConfig(ctx context.Context, c SystemConfig) error {
	return s.mutate(ctx, "update_config", func(ctx context.Context) error {
		if err := validateConfig(c); err != nil {
			return err
		}
		return writeDoc(ctx, s.origin.KV, kv.KeyConfig, cloneConfig(c))
	})
}
