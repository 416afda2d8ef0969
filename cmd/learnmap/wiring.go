package main

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/learnmap/config"
	"github.com/mohammad-safakhou/learnmap/internal/platform/logger"
	"github.com/mohammad-safakhou/learnmap/internal/policy"
	"github.com/mohammad-safakhou/learnmap/internal/validation"
	"github.com/mohammad-safakhou/learnmap/repository"
)

// buildValidator assembles the resource pipeline from cfg. The returned
// close func releases the verdict store.
func buildValidator(ctx context.Context, cfg *config.Config, log *logger.Logger) (*validation.Validator, func(), error) {
	domains, err := policy.NewDomainPolicy(cfg.Validation.Blocklist)
	if err != nil {
		return nil, nil, fmt.Errorf("blocklist: %w", err)
	}

	closeFn := func() {}
	var checker validation.Checker
	if cfg.Validation.SkipReachability {
		checker = validation.AlwaysReachable
	} else {
		probe := validation.NewHTTPChecker(
			validation.WithProbeTimeout(cfg.Validation.ReachabilityTimeout),
			validation.WithUserAgent(cfg.Validation.UserAgent),
		)
		repo, err := repository.NewVerdictRepository(ctx, cfg.Storage.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("verdict store: %w", err)
		}
		log.Info("reachability cache ready", "store", repository.RepoTypeFor(cfg.Storage.Redis))
		closeFn = func() {
			if err := repo.Close(); err != nil {
				log.Warn("closing verdict store", "error", err)
			}
		}
		checker = validation.NewCachedChecker(probe, repo, cfg.Validation.ReachabilityCacheTTL, cfg.Validation.NegativeCacheTTL, log)
	}

	v := validation.New(checker,
		validation.WithDomainFilter(domains),
		validation.WithMaxResources(cfg.Validation.MaxResourcesPerNode),
		validation.WithLogger(log),
	)
	return v, closeFn, nil
}
