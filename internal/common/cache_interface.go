package common

import (
	"encoding/json"
	"fmt"
	"time"
)

// CacheInterface defines the contract for cache implementations
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get retrieves a value from cache by key
	// Returns the value and true if found, nil and false otherwise
	Get(key string) (interface{}, bool)

	// Delete removes a value from cache by key
	Delete(key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// Cache key prefixes
const (
	CacheKeyOperatorConfig = "operator_config"
	CacheKeyBatchPrefix    = "batch_result:"
)

// GetTyped reads key into dst. The in-memory cache hands back the stored value
// while Redis hands back decoded JSON, so both are normalized through JSON.
func GetTyped(c CacheInterface, key string, dst any) (bool, error) {
	val, found := c.Get(key)
	if !found {
		return false, nil
	}
	data, err := json.Marshal(val)
	if err != nil {
		return false, fmt.Errorf("failed to re-encode cached %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}
