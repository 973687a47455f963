// AngelaMos | 2026
// system.go

package admin

import (
	"context"
	"database/sql"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
)

type Database interface {
	Ping(ctx context.Context) error
	Stats() sql.DBStats
}

type Cache interface {
	Ping(ctx context.Context) error
	PoolStats() *redis.PoolStats
}

type SweepResponse struct {
	DeletedCount int `json:"deleted_count"`
}

type SystemStatsResponse struct {
	Database *DependencyStatus[DBPoolStats]    `json:"database,omitempty"`
	Redis    *DependencyStatus[RedisPoolStats] `json:"redis,omitempty"`
	Runtime  RuntimeStats                      `json:"runtime"`
}

// DependencyStatus pairs a live ping with the client-side pool counters.
type DependencyStatus[T any] struct {
	Healthy   bool    `json:"healthy"`
	Error     string  `json:"error,omitempty"`
	LatencyMS float64 `json:"latency_ms"`
	Pool      T       `json:"pool"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	HeapAlloc    uint64 `json:"heap_alloc_bytes"`
	Sys          uint64 `json:"sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}

func snapshot(ctx context.Context, db Database, cache Cache) SystemStatsResponse {
	var resp SystemStatsResponse

	if db != nil {
		s := db.Stats()
		resp.Database = probe(ctx, db.Ping, DBPoolStats{
			MaxOpenConnections: s.MaxOpenConnections,
			OpenConnections:    s.OpenConnections,
			InUse:              s.InUse,
			Idle:               s.Idle,
			WaitCount:          s.WaitCount,
			WaitDuration:       s.WaitDuration.String(),
		})
	}

	if cache != nil {
		var pool RedisPoolStats
		if s := cache.PoolStats(); s != nil {
			pool = RedisPoolStats{
				Hits:       s.Hits,
				Misses:     s.Misses,
				Timeouts:   s.Timeouts,
				TotalConns: s.TotalConns,
				IdleConns:  s.IdleConns,
				StaleConns: s.StaleConns,
			}
		}
		resp.Redis = probe(ctx, cache.Ping, pool)
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	resp.Runtime = RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		HeapAlloc:    mem.HeapAlloc,
		Sys:          mem.Sys,
		NumGC:        mem.NumGC,
	}

	return resp
}

func probe[T any](ctx context.Context, ping func(context.Context) error, pool T) *DependencyStatus[T] {
	start := time.Now()
	err := ping(ctx)

	status := &DependencyStatus[T]{
		Healthy:   err == nil,
		LatencyMS: float64(time.Since(start).Microseconds()) / 1000,
		Pool:      pool,
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}
