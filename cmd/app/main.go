package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"linkly-go/internal/cache"
	"linkly-go/internal/dto"
	"linkly-go/internal/geo"
	"linkly-go/internal/handler"
	"linkly-go/internal/i18n"
	"linkly-go/internal/ingest"
	"linkly-go/internal/middleware"
	"linkly-go/internal/repository"
	"linkly-go/internal/service"
	"linkly-go/internal/session"
	"linkly-go/pkg/logging"
	"linkly-go/pkg/metrics"
)

func initConfig() {
	// .env 先于 config.yaml 加载，ADMIN_PASSWORD 只从环境取
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "linkly",
	Short: "Self-hosted link shortener with click analytics",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	Run: func(cmd *cobra.Command, args []string) {
		initConfig()
		logging.InitLoggerFromConfig()
		repository.InitDB(logging.Logger, logging.AtomicLevel)
		logging.Logger.Info("Migration completed")
	},
}

func runServe() {
	initConfig()
	logging.InitLoggerFromConfig()
	logging.Logger.Info("Application started")

	// 管理口令必须来自环境，缺失直接拒绝启动
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		logging.Logger.Fatal("ADMIN_PASSWORD environment variable is required")
	}

	repository.InitDB(logging.Logger, logging.AtomicLevel)

	cache.InitLinkCache()
	if err := service.WarmLinkCache(); err != nil {
		logging.Logger.Fatal("Failed to warm link cache", zap.Error(err))
	}

	geo.Init()
	session.Init(adminPassword)
	ingest.Init(repository.DB, geo.Default)
	dto.RegisterValidations()

	bundle, err := i18n.InitI18n([]string{
		"./i18n/en.toml",
		"./i18n/zh.toml",
	}, "en")
	if err != nil {
		logging.Logger.Fatal("Failed to load i18n messages", zap.Error(err))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.GlobalErrorMiddleware())
	r.Use(middleware.ZapGinLogger(logging.Logger))
	r.Use(middleware.CorsMiddleware())
	r.Use(middleware.I18nMiddleware(bundle))
	r.Use(middleware.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", handler.LoginHandler)
		auth.POST("/logout", handler.LogoutHandler)
	}

	api := r.Group("/api", middleware.AuthMiddleware())
	{
		api.POST("/links", handler.CreateLinkHandler)
		api.GET("/links", handler.ListLinksHandler)
		api.PUT("/links/:id", handler.UpdateLinkHandler)
		api.PUT("/links/:id/status", handler.UpdateLinkStatusHandler)
		api.DELETE("/links/:id", handler.DeleteLinkHandler)
		api.GET("/links/:id/analytics", handler.LinkAnalyticsHandler)
	}

	// 短码重定向路由，与上面的静态路由共存
	r.GET("/:code", handler.RedirectHandler)

	startCron()
	startServer(r)
}

// startCron 定时重建链接缓存（兜底对账）并清理过期的地理位置负缓存
func startCron() {
	spec := viper.GetString("cache.resync_cron")
	if spec == "" {
		spec = "*/10 * * * *"
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := service.WarmLinkCache(); err != nil {
			logging.Logger.Error("Scheduled cache resync failed", zap.Error(err))
		}
		if pruned := geo.Default.PruneExpired(); pruned > 0 {
			logging.Logger.Info("Pruned expired geo entries", zap.Int("count", pruned))
		}
	})
	if err != nil {
		logging.Logger.Fatal("Failed to schedule cron job", zap.Error(err))
	}
	c.Start()
}

func startServer(r *gin.Engine) {
	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logging.Logger.Info("Server is running on " + addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// 把采集队列里的积压点击落完再退出
	ingest.Default.Stop()

	logging.Logger.Info("Server exiting")
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
