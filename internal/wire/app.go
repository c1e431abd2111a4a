package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/support-router/internal/adapter/file"
	"github.com/alanyang/support-router/internal/adapter/memory"
	pgdb "github.com/alanyang/support-router/internal/adapter/postgres"
	pgagent "github.com/alanyang/support-router/internal/adapter/postgres/agent"
	pgeventbus "github.com/alanyang/support-router/internal/adapter/postgres/eventbus"
	pgstrategy "github.com/alanyang/support-router/internal/adapter/postgres/strategy"
	"github.com/alanyang/support-router/internal/adapter/rabbitmq"
	"github.com/alanyang/support-router/internal/config"
	"github.com/alanyang/support-router/internal/domain/assignment"
	portassign "github.com/alanyang/support-router/internal/port/assignment"

	agentsvc "github.com/alanyang/support-router/internal/service/agent"
	assignsvc "github.com/alanyang/support-router/internal/service/assignment"

	"github.com/alanyang/support-router/internal/transport"
	mcptransport "github.com/alanyang/support-router/internal/transport/mcp"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Pool      *pgxpool.Pool
	Server    *http.Server
	AssignSvc *assignsvc.Service
	AgentSvc  *agentsvc.Service
	MCPServer *mcptransport.Server

	amqp *rabbitmq.Publisher
}

// Close releases the broker connection and the database pool.
func (a *App) Close() {
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			slog.Error("closing amqp publisher", "error", err)
		}
	}
	a.Pool.Close()
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	// ── Database ─────────────────────────────────────────────────────────────
	pool, err := pgdb.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// ── Adapters ─────────────────────────────────────────────────────────────
	agentRepo := pgagent.New(pool)
	eventBus := pgeventbus.New(pool)

	resolver, err := NewResolver(cfg, pgstrategy.New(pool))
	if err != nil {
		pool.Close()
		return nil, err
	}

	publishers := fanout{eventBus}
	var amqpPub *rabbitmq.Publisher
	if cfg.AMQPURL != "" {
		amqpPub, err = rabbitmq.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connecting to broker: %w", err)
		}
		publishers = append(publishers, amqpPub)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	reg := mcptransport.NewSessionRegistry()

	assignSvcInstance := assignsvc.NewService(
		resolver,
		agentRepo, // implements port/assignment.CandidateProvider
		agentRepo, // implements port/assignment.LoadProvider
		publishers,
		reg, // implements port/notifier.AgentNotifier
	)
	agentSvcInstance := agentsvc.NewService(agentRepo, publishers)

	// ── Offline grace period ──────────────────────────────────────────────────
	reaper := startReaper(ctx, eventBus, cfg.OfflineGrace, agentSvcInstance.MarkOffline)

	mcpServer := mcptransport.New(reg, assignSvcInstance, agentSvcInstance, reaper.Disconnected)

	// ── Transport ─────────────────────────────────────────────────────────────
	router := transport.NewRouter(
		ctx,
		assignSvcInstance,
		agentSvcInstance,
		mcpServer.Handler(),
		eventBus,
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	slog.Info("application wired",
		"port", cfg.Port,
		"default_strategy", cfg.DefaultStrategy,
		"strategy_cache_ttl", cfg.StrategyCacheTTL,
		"amqp", amqpPub != nil,
	)

	return &App{
		Pool:      pool,
		Server:    server,
		AssignSvc: assignSvcInstance,
		AgentSvc:  agentSvcInstance,
		MCPServer: mcpServer,
		amqp:      amqpPub,
	}, nil
}

// NewResolver builds the strategy resolver. When cfg.StrategyFile is set the
// YAML table is consulted first and db answers the queues it does not list;
// its custom strategy keys are added to the registry.
func NewResolver(cfg config.Config, db portassign.TenantStrategyConfig) (*assignsvc.Resolver, error) {
	registry := assignment.DefaultRegistry()

	var lookup portassign.TenantStrategyConfig = db
	if cfg.StrategyFile != "" {
		fileCfg, err := file.Load(cfg.StrategyFile)
		if err != nil {
			return nil, fmt.Errorf("loading strategy file: %w", err)
		}
		if err := fileCfg.RegisterCustom(registry); err != nil {
			return nil, fmt.Errorf("registering custom strategies: %w", err)
		}
		lookup = fileCfg.WithFallback(db)
	}

	return assignsvc.NewResolver(
		lookup,
		registry,
		memory.NewCache[string](nil),
		assignsvc.WithDefaultKey(cfg.DefaultStrategy),
		assignsvc.WithCacheTTL(cfg.StrategyCacheTTL),
	), nil
}

// Engine is the assignment stack without transport, for one-shot CLI use.
// Route decisions are computed but not announced.
type Engine struct {
	Pool       *pgxpool.Pool
	Service    *assignsvc.Service
	Strategies *pgstrategy.Repository
}

func BuildEngine(ctx context.Context, cfg config.Config) (*Engine, error) {
	pool, err := pgdb.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	strategies := pgstrategy.New(pool)
	resolver, err := NewResolver(cfg, strategies)
	if err != nil {
		pool.Close()
		return nil, err
	}

	agentRepo := pgagent.New(pool)
	return &Engine{
		Pool:       pool,
		Service:    assignsvc.NewService(resolver, agentRepo, agentRepo, discard{}, discard{}),
		Strategies: strategies,
	}, nil
}

// Migrate applies pending schema migrations and reports which ran.
func Migrate(ctx context.Context, cfg config.Config) ([]string, error) {
	pool, err := pgdb.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	return pgdb.Migrate(ctx, pool)
}
