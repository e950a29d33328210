package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docqa_backend/internal/config"
	"docqa_backend/internal/controller"
	"docqa_backend/internal/repository"
	"docqa_backend/internal/service"
	"docqa_backend/pkg/database"
	"docqa_backend/pkg/logger"
	"docqa_backend/pkg/monitoring"
	"docqa_backend/pkg/security"
	"docqa_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user         *repository.UserRepository
	document     *repository.DocumentRepository
	statistic    *repository.StatisticRepository
	feedback     *repository.FeedbackRepository
	contest      *repository.ContestRepository
	adminRequest *repository.AdminRequestRepository
}

type services struct {
	llm          *service.LLMService
	notification *service.NotificationService
	statistic    *service.StatisticService
	qa           *service.QAService
	quiz         *service.QuizService
	feedback     *service.FeedbackService
	contest      *service.ContestService
	document     *service.DocumentService
	auth         *service.AuthService
	admin        *service.AdminService
}

type controllers struct {
	auth     *controller.AuthController
	qa       *controller.QAController
	contest  *controller.ContestController
	document *controller.DocumentController
	admin    *controller.AdminController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		document:     repository.NewDocumentRepository(db),
		statistic:    repository.NewStatisticRepository(db),
		feedback:     repository.NewFeedbackRepository(db),
		contest:      repository.NewContestRepository(db),
		adminRequest: repository.NewAdminRequestRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client, loc *time.Location) (*services, error) {
	s := &services{}

	s.llm = service.NewLLMService(cfg.LLM)
	s.notification = service.NewNotificationService(rdb, cfg)
	s.statistic = service.NewStatisticService(repos.statistic, rdb, s.notification, cfg, loc)
	s.qa = service.NewQAService(repos.document, s.llm, s.statistic)
	s.quiz = service.NewQuizService(repos.statistic, repos.contest, repos.document, s.llm, s.statistic, cfg)
	s.feedback = service.NewFeedbackService(repos.feedback, repos.statistic, repos.contest, repos.document)
	s.contest = service.NewContestService(repos.contest, repos.document)

	storage, err := service.NewStorageProvider(cfg)
	if err != nil {
		return nil, err
	}
	s.document = service.NewDocumentService(repos.document, s.llm, storage)

	s.auth = service.NewAuthService(repos.user, repos.adminRequest, s.notification, cfg)
	s.admin = service.NewAdminService(repos.adminRequest, repos.feedback, s.notification, cfg)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		qa:       controller.NewQAController(s.qa, s.quiz, s.feedback),
		contest:  controller.NewContestController(s.contest),
		document: controller.NewDocumentController(s.document),
		admin:    controller.NewAdminController(s.admin, s.statistic),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests, window := cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute
	if maxRequests <= 0 {
		maxRequests, window = 6000, time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	loc, err := time.LoadLocation(cfg.Server.TimeZone)
	if err != nil {
		logger.Log.Fatal("Failed to load time zone", zap.String("zone", cfg.Server.TimeZone), zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	// 仅迁移模式在建库后直接返回，不初始化其余组件
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb, loc)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("docqa-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 邮件任务从 Redis 队列异步消费
	go services.notification.RunWorker()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

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

	// 停掉邮件消费协程再关闭 HTTP 服务
	if a.services != nil && a.services.notification != nil {
		a.services.notification.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
