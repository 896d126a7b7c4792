package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PriceIDs groups the billing provider's price identifiers for one tier.
// BaseYearly is empty for tiers without a yearly plan.
type PriceIDs struct {
	BaseMonthly string `mapstructure:"baseMonthly"`
	BaseYearly  string `mapstructure:"baseYearly"`
	Usage       string `mapstructure:"usage"`
}

// PricingConfig maps tier names to price identifiers.
type PricingConfig struct {
	Tiers map[string]PriceIDs `mapstructure:"tiers"`
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		Tiers: map[string]PriceIDs{
			"basic": {
				BaseMonthly: "price_1MkLnmGshsrPnzgFf9DQehQT",
				Usage:       "price_1MkLnlGshsrPnzgFQgLaPbYV",
			},
			"pro": {
				BaseMonthly: "price_1MkLpdGshsrPnzgFBgAePfkN",
				BaseYearly:  "price_1MkLq2GshsrPnzgFGkIshuxt",
				Usage:       "price_1MlsfGGshsrPnzgFCZvixwCl",
			},
			"business": {
				BaseMonthly: "price_1MkLraGshsrPnzgFPVWRuQfs",
				BaseYearly:  "price_1MkLraGshsrPnzgFNrNw2iLg",
				Usage:       "price_1MlskbGshsrPnzgFXSTzeg1V",
			},
		},
	}
}

// PricingHolder serves the current pricing catalog and hot-reloads it when
// the backing file changes. Without a file the compiled defaults apply.
type PricingHolder struct {
	current atomic.Value // holds PricingConfig
}

func NewPricingHolder() (*PricingHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/transcribe")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TRANSCRIBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &PricingHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultPricingConfig())
		return holder, nil
	}

	var cfg PricingConfig
	if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return nil, err
	}
	if err := validatePricingConfig(cfg); err != nil {
		return nil, err
	}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingConfig
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[pricing-config] reload failed: %v", err)
			return
		}
		if err := validatePricingConfig(updated); err != nil {
			log.Printf("[pricing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pricing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPricingHolder returns a holder pinned to the given catalog.
// Used by tests and by callers that manage their own configuration.
func NewStaticPricingHolder(cfg PricingConfig) *PricingHolder {
	holder := &PricingHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PricingHolder) Get() PricingConfig {
	return h.current.Load().(PricingConfig)
}

func validatePricingConfig(cfg PricingConfig) error {
	if len(cfg.Tiers) == 0 {
		return errors.New("pricing.tiers cannot be empty")
	}
	for name, ids := range cfg.Tiers {
		if ids.BaseMonthly == "" {
			return errors.New("pricing.tiers." + name + ".baseMonthly cannot be empty")
		}
		if ids.Usage == "" {
			return errors.New("pricing.tiers." + name + ".usage cannot be empty")
		}
	}
	return nil
}
