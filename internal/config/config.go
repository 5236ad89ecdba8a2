package config

import (
	"os"
	"strconv"
	"time"
)

// InventoryConfig configures the inventory service.
type InventoryConfig struct {
	HTTPAddr string
	MySQLDSN string
	SeedData bool
}

// OrderConfig configures the order service, including the network address
// of its inventory peer.
type OrderConfig struct {
	HTTPAddr        string
	MySQLDSN        string
	RedisAddr       string
	InventoryURL    string
	PeerTimeout     time.Duration
	AvailabilityTTL time.Duration
}

func LoadInventory() InventoryConfig {
	return InventoryConfig{
		HTTPAddr: getEnvOrDefault("HTTP_ADDR", ":8081"),
		MySQLDSN: getEnvOrDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/inventory?parseTime=true"),
		SeedData: getEnvBool("SEED_DATA", false),
	}
}

func LoadOrder() OrderConfig {
	return OrderConfig{
		HTTPAddr:        getEnvOrDefault("HTTP_ADDR", ":8080"),
		MySQLDSN:        getEnvOrDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/orders?parseTime=true"),
		RedisAddr:       getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		InventoryURL:    getEnvOrDefault("INVENTORY_URL", "http://localhost:8081"),
		PeerTimeout:     getEnvDuration("PEER_TIMEOUT", 10*time.Second),
		AvailabilityTTL: getEnvDuration("AVAILABILITY_TTL", 30*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
