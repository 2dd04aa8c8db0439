package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from environment variables named by its `env` tags. Every
// bad variable is reported at once, so a misconfigured deployment fails with
// the full list instead of one variable per restart:
//
//	type Config struct {
//	    Port    int    `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
//	    Backend string `env:"STORAGE_BACKEND" envDefault:"sqlite"`
//	}
func Load(cfg any) error {
	err := env.Parse(cfg)
	if err == nil {
		return nil
	}

	var agg env.AggregateError
	if errors.As(err, &agg) && len(agg.Errors) > 1 {
		msgs := make([]string, len(agg.Errors))
		for i, e := range agg.Errors {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("parse config: %d errors: %s: %w", len(msgs), strings.Join(msgs, "; "), err)
	}
	return fmt.Errorf("parse config: %w", err)
}
