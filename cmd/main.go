package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pageforge-backend/internal/config"
	"pageforge-backend/internal/handler"
	"pageforge-backend/internal/registry"
	"pageforge-backend/internal/service"
	"pageforge-backend/internal/storage"
	"pageforge-backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// 初始化存储
	projectRegistry, fileStore := setupStorage(cfg)
	if err := projectRegistry.Init(); err != nil {
		logger.Fatalf("Failed to init registry: %v", err)
	}
	if err := fileStore.Init(); err != nil {
		logger.Fatalf("Failed to init file store: %v", err)
	}

	// 初始化服务
	pipeline := service.NewPipeline(cfg, projectRegistry, fileStore)
	projectService := service.NewProjectService(projectRegistry, fileStore)

	// 初始化处理器
	aiHandler := handler.NewAIHandler(pipeline)
	projectHandler := handler.NewProjectHandler(projectService)

	// 创建路由
	router := setupRouter(cfg, aiHandler, projectHandler)

	// 创建HTTP服务器
	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// 启动服务器
	go func() {
		logger.Infof("服务器启动在端口 %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待信号优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务器正在关闭...")
	if err := server.Close(); err != nil {
		logger.Errorf("服务器关闭失败: %v", err)
	}
	if err := projectRegistry.Close(); err != nil {
		logger.Errorf("注册表关闭失败: %v", err)
	}
	logger.Info("服务器已关闭")
}

func setupStorage(cfg *config.Config) (registry.Registry, storage.FileStore) {
	if cfg.Storage.Type == "memory" {
		return registry.NewMemoryRegistry(), storage.NewMemoryStore()
	}

	return registry.NewDiskRegistry(cfg.Storage.DataDir, cfg.Storage.CacheSize),
		storage.NewDiskStore(cfg.Storage.DataDir)
}

func setupRouter(cfg *config.Config, aiHandler *handler.AIHandler, projectHandler *handler.ProjectHandler) *gin.Engine {
	// 设置gin模式
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS配置
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	// API路由
	api := router.Group("/api")
	{
		ai := api.Group("/ai")
		{
			ai.POST("/create-project-stream", aiHandler.CreateProjectStream)
			ai.GET("/tokens", aiHandler.GetTokenInfo)
		}

		projects := api.Group("/projects")
		{
			projects.POST("", projectHandler.Create)
			projects.GET("", projectHandler.List)
			projects.GET("/:project_id", projectHandler.Get)
			projects.PATCH("/:project_id", projectHandler.Update)
			projects.DELETE("/:project_id", projectHandler.Delete)
			projects.GET("/:project_id/files", projectHandler.GetFiles)
			projects.GET("/:project_id/files/:filename", projectHandler.GetFile)
			projects.PUT("/:project_id/files/:filename", projectHandler.UpdateFile)
			projects.GET("/:project_id/preview", projectHandler.Preview)
		}
	}

	return router
}
