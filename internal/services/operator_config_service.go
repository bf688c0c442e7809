package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"despachos/rndc-gateway/internal/common"
	"despachos/rndc-gateway/internal/db/repositories"
	"despachos/rndc-gateway/internal/logging"
	"despachos/rndc-gateway/internal/metrics"
	"despachos/rndc-gateway/internal/models/dtos"
	gormModels "despachos/rndc-gateway/internal/models/gorm"
	"despachos/rndc-gateway/internal/rndc"
)

const (
	operatorConfigTTL = 10 * time.Minute
	maskedPassword    = "********"
)

// OperatorConfigService owns the single operator configuration row. The row
// carries the RNDC password, so it is cached in process memory only and never
// in the shared cache.
type OperatorConfigService struct {
	repo    *repositories.OperatorConfigRepository
	cache   *common.CacheService
	metrics *metrics.MetricsRegistry
}

func NewOperatorConfigService(repo *repositories.OperatorConfigRepository, m *metrics.MetricsRegistry) *OperatorConfigService {
	return &OperatorConfigService{
		repo:    repo,
		cache:   common.NewCacheService(operatorConfigTTL, time.Minute),
		metrics: m,
	}
}

// Current returns the stored configuration, or an empty one when the operator
// never saved any.
func (s *OperatorConfigService) Current(ctx context.Context) (*gormModels.OperatorConfig, error) {
	var cached gormModels.OperatorConfig
	found, err := common.GetTyped(s.cache, common.CacheKeyOperatorConfig, &cached)
	if err != nil {
		logging.Warn("Discarding cached operator config", "error", err.Error())
		s.cache.Delete(common.CacheKeyOperatorConfig)
	}
	s.metrics.CacheLookup(common.CacheKeyOperatorConfig, found && err == nil)
	if found && err == nil {
		return &cached, nil
	}

	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &gormModels.OperatorConfig{ID: gormModels.OperatorConfigID}, nil
	}
	s.cache.Set(common.CacheKeyOperatorConfig, cfg, operatorConfigTTL)
	return cfg, nil
}

// RNDCConfig loads the configuration a batch runs with, together with the
// operator's default concurrency. An incomplete configuration is a
// *ConfigError.
func (s *OperatorConfigService) RNDCConfig(ctx context.Context) (rndc.Config, int, error) {
	stored, err := s.Current(ctx)
	if err != nil {
		return rndc.Config{}, 0, err
	}
	cfg := ToRNDCConfig(stored)
	if missing := cfg.Missing(); len(missing) > 0 {
		return rndc.Config{}, 0, &ConfigError{Missing: missing}
	}
	return cfg, stored.Concurrency, nil
}

// Update validates and stores req, then evicts the cached copy.
func (s *OperatorConfigService) Update(ctx context.Context, req dtos.OperatorConfigRequest) (*gormModels.OperatorConfig, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	next := &gormModels.OperatorConfig{
		Usuario:           strings.TrimSpace(req.Usuario),
		Password:          req.Password,
		EmpresaNIT:        strings.TrimSpace(req.EmpresaNIT),
		SubmitURL:         strings.TrimSpace(req.SubmitURL),
		QueryURL:          strings.TrimSpace(req.QueryURL),
		TimeoutSeconds:    req.TimeoutSeconds,
		MaxRetries:        req.MaxRetries,
		BackoffMs:         req.BackoffMs,
		BackoffMaxMs:      req.BackoffMaxMs,
		RequestsPerSecond: req.RequestsPerSecond,
		Concurrency:       req.Concurrency,
		CreatedAt:         current.CreatedAt,
	}
	if next.Password == "" || next.Password == maskedPassword {
		next.Password = current.Password
	}

	if missing := ToRNDCConfig(next).Missing(); len(missing) > 0 {
		return nil, &ConfigError{Missing: missing}
	}
	if err := validateOperatorConfig(next); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, next); err != nil {
		return nil, err
	}
	s.cache.Delete(common.CacheKeyOperatorConfig)
	logging.Info("Operator config updated", "usuario", next.Usuario, "empresa_nit", next.EmpresaNIT)
	return next, nil
}

func validateOperatorConfig(c *gormModels.OperatorConfig) error {
	urls := []struct{ name, raw string }{
		{"submitUrl", c.SubmitURL},
		{"queryUrl", c.QueryURL},
	}
	for _, f := range urls {
		if f.raw == "" {
			continue
		}
		u, err := url.Parse(f.raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %s must be an http(s) URL", ErrInvalidConfig, f.name)
		}
	}
	if c.TimeoutSeconds < 0 || c.MaxRetries < 0 || c.BackoffMs < 0 || c.BackoffMaxMs < 0 ||
		c.RequestsPerSecond < 0 || c.Concurrency < 0 {
		return fmt.Errorf("%w: numeric settings cannot be negative", ErrInvalidConfig)
	}
	if c.MaxRetries > 10 {
		return fmt.Errorf("%w: maxRetries cannot exceed 10", ErrInvalidConfig)
	}
	if c.Concurrency > MaxBatchConcurrency {
		return fmt.Errorf("%w: concurrency cannot exceed %d", ErrInvalidConfig, MaxBatchConcurrency)
	}
	return nil
}

// ToRNDCConfig converts the stored row into what the renderer and client use.
func ToRNDCConfig(c *gormModels.OperatorConfig) rndc.Config {
	return rndc.Config{
		Usuario:    c.Usuario,
		Password:   c.Password,
		EmpresaNIT: c.EmpresaNIT,
		SubmitURL:  c.SubmitURL,
		QueryURL:   c.QueryURL,
		Timeout:    time.Duration(c.TimeoutSeconds) * time.Second,
		Retry: rndc.RetryPolicy{
			MaxRetries: c.MaxRetries,
			Backoff:    time.Duration(c.BackoffMs) * time.Millisecond,
			MaxBackoff: time.Duration(c.BackoffMaxMs) * time.Millisecond,
		},
		RequestsPerSecond: c.RequestsPerSecond,
	}
}

// ToOperatorConfigResponse masks the password.
func ToOperatorConfigResponse(c *gormModels.OperatorConfig) dtos.OperatorConfigResponse {
	resp := dtos.OperatorConfigResponse{
		Usuario:           c.Usuario,
		PasswordSet:       c.Password != "",
		EmpresaNIT:        c.EmpresaNIT,
		SubmitURL:         c.SubmitURL,
		QueryURL:          c.QueryURL,
		TimeoutSeconds:    c.TimeoutSeconds,
		MaxRetries:        c.MaxRetries,
		BackoffMs:         c.BackoffMs,
		BackoffMaxMs:      c.BackoffMaxMs,
		RequestsPerSecond: c.RequestsPerSecond,
		Concurrency:       c.Concurrency,
		Missing:           ToRNDCConfig(c).Missing(),
		UpdatedAt:         c.UpdatedAt,
	}
	if resp.PasswordSet {
		resp.Password = maskedPassword
	}
	return resp
}
