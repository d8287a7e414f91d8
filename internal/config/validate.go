package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive (got %v)", c.Auth.SessionTTL)
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}

	if c.Telegram.InitDataTTL <= 0 {
		return fmt.Errorf("telegram.init_data_ttl must be positive (got %v)", c.Telegram.InitDataTTL)
	}

	// A webhook secret without a bot token cannot be checked against anything.
	if c.Telegram.WebhookSecret != "" && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.webhook_secret is set but telegram.bot_token is empty")
	}

	return nil
}
