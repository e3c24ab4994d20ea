package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"score_predictor_backend/internal/config"
	"score_predictor_backend/internal/controller"
	"score_predictor_backend/internal/inference"
	"score_predictor_backend/internal/repository"
	"score_predictor_backend/internal/service"
	"score_predictor_backend/pkg/configwatcher"
	"score_predictor_backend/pkg/database"
	"score_predictor_backend/pkg/logger"
	"score_predictor_backend/pkg/monitoring"
	"score_predictor_backend/pkg/security"
	"score_predictor_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Backends are the external collaborators of the prediction pipeline.
type Backends struct {
	Predictor inference.Predictor
	Model     controller.ModelStatus
	Completer service.TextCompleter
}

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	services        *services
	tracer          *sdktrace.TracerProvider
	modelHandle     *inference.ModelHandle
	stop            chan struct{}
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	prediction *repository.PredictionRepository
}

type services struct {
	auth       *service.AuthService
	ai         *service.AIService
	narrative  *service.NarrativeService
	prediction *service.PredictionService
}

type controllers struct {
	auth       *controller.AuthController
	prediction *controller.PredictionController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig passes a reloaded config to every registered callback.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		prediction: repository.NewPredictionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, backends Backends) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)

	completer := backends.Completer
	if completer == nil {
		s.ai = service.NewAIService(cfg.AI)
		completer = s.ai
		a.RegisterConfigCallback(func(newCfg *config.Config) {
			s.ai.UpdateConfig(newCfg.AI)
		})
	}
	s.narrative = service.NewNarrativeService(completer, cfg.AI.Timeout)
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.narrative.SetTimeout(newCfg.AI.Timeout)
	})

	s.prediction = service.NewPredictionService(repos.user, repos.prediction, backends.Predictor, s.narrative)
	if a.Redis != nil {
		s.prediction.Cache = repository.NewRedisPredictionCache(a.Redis, cfg.Redis.TTL)
	}

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, model controller.ModelStatus) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		prediction: controller.NewPredictionController(s.prediction),
		health:     controller.NewHealthController(db, model),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute, a.stop))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New assembles the HTTP application on top of already opened stores. rdb
// may be nil, which disables the prediction cache.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, backends Backends) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		stop:   make(chan struct{}),
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, backends)
	controllers := app.initControllers(app.services, db, backends.Model)

	app.RegisterConfigCallback(logger.SetLevel)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app
}

// NewApp opens every dependency named in cfg and builds the application.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	// release 模式默认不自动迁移，需要 -migrate 显式开启
	migrate := cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	storage, err := service.NewStorageService(&cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize model storage", zap.Error(err))
	}
	handle := inference.NewModelHandle(storage, storage.Describe(), cfg.Model.ManifestPath)

	app := New(cfg, db, rdb, Backends{Predictor: handle, Model: handle})
	app.modelHandle = handle

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("score-predictor", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	if cfg.Model.Preload {
		go func() {
			// 失败不缓存，首次预测时会重新加载
			if _, err := handle.Load(context.Background()); err != nil {
				logger.Log.Warn("Model preload failed", zap.Error(err))
			}
		}()
	}

	return app
}

func (a *App) Run(configFile string) {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		if err := configwatcher.WatchConfig(watchCtx, configFile, a.ApplyConfig); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}()

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(ctx)

	logger.Log.Info("Server exiting")
}

// Close releases background workers and connections.
func (a *App) Close(ctx context.Context) {
	if a.stop != nil {
		close(a.stop)
		a.stop = nil
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

// ginLogger 用 zap 记录访问日志
func ginLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)))
	}
}
