package models

import "time"

// ServiceStats summarises instrumentation counters for the /stats endpoint.
type ServiceStats struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	StoreCalls               uint64    `json:"store_calls"`
	StoreFailures            uint64    `json:"store_failures"`
	AverageStoreDurationMs   float64   `json:"average_store_duration_ms"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	GeneratedAt              time.Time `json:"generated_at"`
}
