package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	DBDSN string

	MarketplaceURL   string
	MarketplaceToken string
	InventoryURL     string

	RelistInterval time.Duration
	ThrottleDelay  time.Duration
	HeartbeatEvery time.Duration

	FilterUnaffordable bool
	ForcedBump         bool

	BuyTemplate  string
	SellTemplate string
	MaxNameLen   int
}

func Load() Config {
	return Config{
		Port:               getenv("PORT", "8080"),
		DBDSN:              os.Getenv("DB_DSN"),
		MarketplaceURL:     getenv("MARKETPLACE_URL", "https://backpack.tf"),
		MarketplaceToken:   os.Getenv("MARKETPLACE_TOKEN"),
		InventoryURL:       getenv("INVENTORY_URL", "http://127.0.0.1:4466"),
		RelistInterval:     parseDur("RELIST_INTERVAL", 30*time.Minute),
		ThrottleDelay:      parseDur("SWEEP_THROTTLE", 200*time.Millisecond),
		HeartbeatEvery:     parseDur("HEARTBEAT_EVERY", 5*time.Minute),
		FilterUnaffordable: parseBool("FILTER_UNAFFORDABLE", false),
		ForcedBump:         parseBool("FORCED_BUMP", false),
		BuyTemplate:        os.Getenv("BUY_TEMPLATE"),
		SellTemplate:       os.Getenv("SELL_TEMPLATE"),
		MaxNameLen:         parseInt("MAX_NAME_LEN", 0),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseDur(k string, d time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if x, err := time.ParseDuration(v); err == nil {
			return x
		}
	}
	return d
}

func parseInt(k string, d int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if x, err := strconv.Atoi(v); err == nil {
			return x
		}
	}
	return d
}

func parseBool(k string, d bool) bool {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if x, err := strconv.ParseBool(v); err == nil {
			return x
		}
	}
	return d
}
