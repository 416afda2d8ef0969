package repository

import (
	"context"
	"time"

	"github.com/mohammad-safakhou/learnmap/config"
	"github.com/mohammad-safakhou/learnmap/repository/memory_repository"
	"github.com/mohammad-safakhou/learnmap/repository/redis_repository"
)

// VerdictRepository stores link reachability verdicts keyed by URL fingerprint.
type VerdictRepository interface {
	GetVerdict(ctx context.Context, fingerprint string) (reachable bool, found bool, err error)
	SaveVerdict(ctx context.Context, fingerprint string, reachable bool, ttl time.Duration) error
	Close() error
}

type RepoType string

const (
	RepoTypeRedis  RepoType = "redis"
	RepoTypeMemory RepoType = "memory"
)

// RepoTypeFor picks redis when a host is configured, memory otherwise.
func RepoTypeFor(cfg config.RedisConfig) RepoType {
	if cfg.Enabled() {
		return RepoTypeRedis
	}
	return RepoTypeMemory
}

// NewVerdictRepository opens the verdict store for cfg.
func NewVerdictRepository(ctx context.Context, cfg config.RedisConfig) (VerdictRepository, error) {
	switch RepoTypeFor(cfg) {
	case RepoTypeRedis:
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		c, err := redis_repository.Conn(ctx, cfg.Addr(), cfg.Password, cfg.DB, timeout)
		if err != nil {
			return nil, err
		}
		return redis_repository.NewRedisVerdictRepository(c), nil
	default:
		return memory_repository.NewMemoryVerdictRepository(), nil
	}
}
