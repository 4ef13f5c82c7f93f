// Package app wires the portal together once at startup.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"staff-portal/internal/adapter/api"
	"staff-portal/internal/config"
	"staff-portal/internal/infrastructure/cache"
	"staff-portal/internal/notify"
	"staff-portal/internal/prompt"
	"staff-portal/internal/session"
	"staff-portal/internal/usecase"
	"staff-portal/internal/usecase/branch"
	"staff-portal/internal/usecase/loan"
	"staff-portal/internal/usecase/product"
	"staff-portal/internal/usecase/role"
	"staff-portal/internal/usecase/user"
	"staff-portal/internal/usecase/workplace"
	"staff-portal/internal/validation"
	"staff-portal/internal/viewstate"
)

const forbiddenMessage = "You do not have permission to perform this action."

// Container owns every long-lived portal component. There is one per process.
type Container struct {
	Config   *config.Config
	Log      zerolog.Logger
	Registry *prometheus.Registry

	Client  *api.Client
	Session *session.Holder
	Dialog  *prompt.Dialog
	Errors  *notify.Modal

	Users     *user.Facade
	Roles     *role.Facade
	Branches  *branch.Facade
	Products  *product.Facade
	Loans     *loan.Facade
	Workplace *workplace.Facade

	rdb *redis.Client
}

// New builds the container. With REDIS_ADDR set the session survives
// restarts, otherwise it lives in memory.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{
		Config:   cfg,
		Log:      log,
		Registry: prometheus.NewRegistry(),
		Dialog:   prompt.NewDialog(),
		Errors:   notify.NewModal(log),
	}
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var store session.Store = session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis %s: %w", cfg.RedisAddr, err)
		}
		c.rdb = rdb
		store = session.NewRedisStore(rdb, "portal:", cfg.SessionTTL)
	}
	holder, err := session.NewHolder(ctx, store, log)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("restoring session: %w", err)
	}
	c.Session = holder

	apiMetrics := api.NewMetrics(c.Registry)
	client, err := api.New(api.Config{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.HTTPTimeout,
		Token:          holder.Token,
		OnUnauthorized: holder.Clear,
		OnForbidden:    func() { c.Errors.Show(forbiddenMessage) },
		Notifier:       c.Errors,
		Log:            log,
		Metrics:        apiMetrics,
	})
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Client = client
	holder.UseAuth(client.Auth())

	deps := usecase.Deps{
		Read:         viewstate.ReadPolicy(cfg.RetryBase, api.Retryable),
		Write:        viewstate.WritePolicy(cfg.RetryBase, api.Retryable),
		SubRead:      viewstate.SubReadPolicy(cfg.RetryBase, api.Retryable),
		Debounce:     cfg.DebounceWindow,
		WriteContext: api.WithNewRequestID,
		NotFound:     api.IsNotFound,
		Confirm:      c.Dialog,
		Validator:    validation.New(),
		Log:          log,
		Metrics:      viewstate.NewMetrics(c.Registry),
	}
	deps.Read.OnRetry = apiMetrics.Retried
	deps.Write.OnRetry = apiMetrics.Retried
	deps.SubRead.OnRetry = apiMetrics.Retried

	c.Users = user.New(client.Users(), client.Roles(), client.Branches(), deps)
	c.Roles = role.New(client.Roles(), deps)
	c.Branches = branch.New(client.Branches(), deps)
	c.Products = product.New(client.Products(), deps)
	c.Loans = loan.New(client.AdminLoans(), deps)
	c.Workplace = workplace.New(client.Approvals(), holder, deps)
	return c, nil
}

// Close stops pending debounce timers and releases redis.
func (c *Container) Close() {
	// facades are built together, last
	if c.Workplace != nil {
		for _, f := range []interface{ Close() }{c.Users, c.Roles, c.Branches, c.Products, c.Loans, c.Workplace} {
			f.Close()
		}
	}
	if c.rdb != nil {
		if err := c.rdb.Close(); err != nil {
			c.Log.Warn().Err(err).Msg("closing redis")
		}
	}
}
