package app

import (
	"context"
	"corpquiz_backend/internal/config"
	"corpquiz_backend/internal/controller"
	"corpquiz_backend/internal/repository"
	"corpquiz_backend/internal/service"
	"corpquiz_backend/pkg/database"
	"corpquiz_backend/pkg/logger"
	"corpquiz_backend/pkg/monitoring"
	"corpquiz_backend/pkg/security"
	"corpquiz_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	company      *repository.CompanyRepository
	action       *repository.ActionRepository
	quiz         *repository.QuizRepository
	quizResult   *repository.QuizResultRepository
	quizCache    *repository.QuizCacheRepository
	notification *repository.NotificationRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	company      *service.CompanyService
	membership   *service.MembershipService
	quiz         *service.QuizService
	quizTaking   *service.QuizTakingService
	notification *service.NotificationService
	reminder     *service.ReminderService
	analytics    *service.AnalyticsService
	export       *service.ExportService
	storage      service.StorageProvider
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	company      *controller.CompanyController
	membership   *controller.MembershipController
	quiz         *controller.QuizController
	analytics    *controller.AnalyticsController
	notification *controller.NotificationController
	export       *controller.ExportController
	health       *controller.HealthController
	admin        *controller.AdminController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置热更新入口，由 configwatcher 触发
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		company:      repository.NewCompanyRepository(db),
		action:       repository.NewActionRepository(db),
		quiz:         repository.NewQuizRepository(db),
		quizResult:   repository.NewQuizResultRepository(db),
		quizCache:    repository.NewQuizCacheRepository(rdb),
		notification: repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage provider", zap.Error(err))
	}
	s.storage = storage

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.company = service.NewCompanyService(repos.company)
	s.membership = service.NewMembershipService(repos.action, repos.company, repos.user)
	s.quiz = service.NewQuizService(repos.quiz)
	s.quizTaking = service.NewQuizTakingService(repos.quiz, repos.quizResult, repos.quizCache)
	s.notification = service.NewNotificationService(repos.notification, repos.action)
	s.reminder = service.NewReminderService(repos.quiz, repos.quizResult, repos.action, repos.notification)
	s.analytics = service.NewAnalyticsService(repos.quizResult)
	s.export = service.NewExportService(repos.quizCache, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		company:      controller.NewCompanyController(s.company, s.membership),
		membership:   controller.NewMembershipController(s.membership, s.company),
		quiz:         controller.NewQuizController(s.quiz, s.quizTaking, s.membership, s.notification),
		analytics:    controller.NewAnalyticsController(s.analytics, s.membership),
		notification: controller.NewNotificationController(s.notification),
		export:       controller.NewExportController(s.export, s.membership),
		health:       controller.NewHealthController(db, rdb),
		admin:        controller.NewAdminController(s.reminder),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 每 24 小时跑一轮逾期测验提醒
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		for range ticker.C {
			sent, err := s.reminder.RunMissedQuizReminders()
			if err != nil {
				logger.Log.Error("missed quiz reminder run failed", zap.Error(err))
				continue
			}
			logger.Log.Info("missed quiz reminder run completed", zap.Int("sent", sent))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if database.ShouldMigrate(cfg.Server.Mode, cfg.ForceMigrate) {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Println("Database migration completed")
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("corpquiz-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/exports", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
