package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/helloid/internal/cache"
	cachemem "github.com/dropDatabas3/helloid/internal/cache/memory"
	cacheredis "github.com/dropDatabas3/helloid/internal/cache/redis"
	"github.com/dropDatabas3/helloid/internal/config"
	"github.com/dropDatabas3/helloid/internal/domain/repository"
	"github.com/dropDatabas3/helloid/internal/grants"
	httpapi "github.com/dropDatabas3/helloid/internal/http"
	grantsctrl "github.com/dropDatabas3/helloid/internal/http/controllers/grants"
	"github.com/dropDatabas3/helloid/internal/observability/logger"
	"github.com/dropDatabas3/helloid/internal/profile"
	"github.com/dropDatabas3/helloid/internal/seed"
	"github.com/dropDatabas3/helloid/internal/store/cached"
	"github.com/dropDatabas3/helloid/internal/store/memory"
	"github.com/dropDatabas3/helloid/internal/store/pg"
)

func main() {
	// .env (opcional) - prioridad .env.dev > .env
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.dev")

	var configPath string

	root := &cobra.Command{
		Use:   "helloid",
		Short: "Sample OpenID Connect identity provider core",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path al config YAML")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Corre el bootstrap y levanta el servicio HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Corre el bootstrap (seed) una vez y termina",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(configPath)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones de schema (solo driver postgres)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(configPath)
		},
	}

	root.AddCommand(serveCmd, seedCmd, migrateCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// stores agrupa las vistas de repositorio que consume el core. Con driver
// memory todas apuntan al mismo Store en proceso.
type stores struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	clients   repository.ClientRepository
	resources repository.ResourceRepository
	consents  repository.ConsentRepository
	close     func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		lifetime, _ := time.ParseDuration(cfg.Storage.Postgres.ConnMaxLifetime)
		st, err := pg.Open(ctx, cfg.Storage.DSN, pg.Options{
			MaxConns:        cfg.Storage.Postgres.MaxConns,
			ConnMaxLifetime: lifetime,
		})
		if err != nil {
			return nil, err
		}
		return &stores{
			users: st, roles: st, clients: st, resources: st, consents: st,
			close: st.Close,
		}, nil
	case "memory", "":
		st := memory.New()
		return &stores{
			users: st, roles: st, clients: st, resources: st, consents: st,
			close: func() {},
		}, nil
	default:
		return nil, fmt.Errorf("storage driver %q no soportado", cfg.Storage.Driver)
	}
}

func openCache(cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Kind {
	case "redis":
		return cacheredis.New(cacheredis.Config{
			Addr:   cfg.Cache.Redis.Addr,
			DB:     cfg.Cache.Redis.DB,
			Prefix: cfg.Cache.Redis.Prefix,
		})
	default:
		return cachemem.New(cfg.CacheTTL()), nil
	}
}

func newReconciler(cfg *config.Config, st *stores) *seed.Reconciler {
	src := &seed.Source{
		UseCustomizationData: cfg.Seed.UseCustomizationData,
		ContentRoot:          cfg.Seed.ContentRoot,
	}
	return seed.NewReconciler(src, st.users, st.roles, st.clients, st.resources, seed.Options{
		MaxRetries: cfg.Seed.MaxRetries,
		Backoff:    cfg.RetryBackoff(),
	})
}

func runSeed(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Init(logger.Config{Env: cfg.App.Env, ServiceName: "helloid"})
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	// En el comando standalone el agotamiento sí aborta: el operador que
	// corre `helloid seed` quiere el exit code.
	return newReconciler(cfg, st).Seed(ctx)
}

func runMigrate(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Init(logger.Config{Env: cfg.App.Env, ServiceName: "helloid"})
	defer logger.Sync()

	if cfg.Storage.Driver != "postgres" {
		return fmt.Errorf("migrate requiere storage driver postgres (actual: %q)", cfg.Storage.Driver)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lifetime, _ := time.ParseDuration(cfg.Storage.Postgres.ConnMaxLifetime)
	st, err := pg.Open(ctx, cfg.Storage.DSN, pg.Options{
		MaxConns:        cfg.Storage.Postgres.MaxConns,
		ConnMaxLifetime: lifetime,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return err
	}
	logger.Named("migrate").Info("schema up to date")
	return nil
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Init(logger.Config{Env: cfg.App.Env, ServiceName: "helloid"})
	defer logger.Sync()
	log := logger.Named("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	// Bootstrap antes de aceptar requests. Si agota los reintentos, el
	// servicio arranca igual con lo que haya quedado sembrado, pero el
	// error queda visible y contado, no tragado.
	if err := newReconciler(cfg, st).Seed(ctx); err != nil {
		if errors.Is(err, seed.ErrRetriesExhausted) {
			log.Error("bootstrap seed exhausted retries; starting without full seed data", zap.Error(err))
		} else {
			return err
		}
	}

	c, err := openCache(cfg)
	if err != nil {
		return err
	}
	clients := cached.NewClients(st.clients, c, cfg.CacheTTL())
	resources := cached.NewResources(st.resources, c, cfg.CacheTTL())

	profileSvc := profile.NewService(st.users, profile.StandardFactory{})
	grantsMgr := grants.NewManager(st.consents, clients, resources)

	handler := httpapi.NewRouter(httpapi.RouterDeps{
		Grants:    grantsctrl.NewController(grantsMgr),
		JWTSecret: cfg.Auth.JWTSecret,
		Sessions:  profileSvc,
	})

	appSrv := &http.Server{Addr: cfg.Server.Addr, Handler: handler}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: metricsMux}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", zap.String("addr", cfg.Server.Addr))
		if err := appSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("metrics listening", zap.String("addr", cfg.Server.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = appSrv.Shutdown(shutdownCtx)
		_ = metricsSrv.Shutdown(shutdownCtx)
		return nil
	})

	return g.Wait()
}
