package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/TumaeProject/tumae-be/internal/config"
	pgrepo "github.com/TumaeProject/tumae-be/internal/repo/postgres"
	redrepo "github.com/TumaeProject/tumae-be/internal/repo/redis"
	analyticssvc "github.com/TumaeProject/tumae-be/internal/services/analytics"
	answerssvc "github.com/TumaeProject/tumae-be/internal/services/answers"
	matchsvc "github.com/TumaeProject/tumae-be/internal/services/match"
	profilessvc "github.com/TumaeProject/tumae-be/internal/services/profiles"
	ratesvc "github.com/TumaeProject/tumae-be/internal/services/rate"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	var redisClient *goredis.Client
	if c, err := redrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Warn("redis init failed, continuing in degraded mode", zap.Error(err))
	} else {
		redisClient = c
	}

	matchRepo := pgrepo.NewMatchRepo(pool)
	regionRepo := pgrepo.NewRegionRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	answerRepo := pgrepo.NewAnswerRepo(pool)
	eventRepo := pgrepo.NewEventRepo(pool)
	rateRepo := redrepo.NewRateRepo(redisClient)

	matchService := matchsvc.NewService(matchsvc.Dependencies{
		SeedStore:    matchRepo,
		RegionStore:  regionRepo,
		MinScore:     cfg.Matching.MinScore,
		DefaultLimit: cfg.Matching.DefaultLimit,
		MaxLimit:     cfg.Matching.MaxLimit,
	})
	answersService := answerssvc.NewService(answerssvc.Dependencies{
		Pool:        pool,
		AnswerStore: answerRepo,
	})
	profilesService := profilessvc.NewService(profilessvc.Dependencies{
		Pool:         pool,
		ProfileStore: profileRepo,
	})
	analyticsService := analyticssvc.NewService(eventRepo)
	rateLimiter := ratesvc.NewLimiter(
		rateRepo,
		cfg.Matching.RatePerMinute,
		cfg.Matching.RatePer10Seconds,
	)

	RegisterRoutes(r, Dependencies{
		MatchService:     matchService,
		AnswersService:   answersService,
		ProfilesService:  profilesService,
		AnalyticsService: analyticsService,
		RateLimiter:      rateLimiter,
		Logger:           log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
