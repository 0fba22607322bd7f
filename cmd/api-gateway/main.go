// Package main 是应用程序入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/common/cache"
	"github.com/dmvillareal/hotel-backoffice/internal/common/config"
	"github.com/dmvillareal/hotel-backoffice/internal/common/crypto"
	"github.com/dmvillareal/hotel-backoffice/internal/common/database"
	"github.com/dmvillareal/hotel-backoffice/internal/common/logger"
	"github.com/dmvillareal/hotel-backoffice/internal/common/metrics"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
	"github.com/dmvillareal/hotel-backoffice/internal/scheduler"
	reservationService "github.com/dmvillareal/hotel-backoffice/internal/service/reservation"
	"github.com/dmvillareal/hotel-backoffice/pkg/oss"
	"github.com/dmvillareal/hotel-backoffice/pkg/sms"
)

func main() {
	// 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.GetLogger()

	log.Info("Starting Hotel Backoffice",
		zap.String("version", "1.0.0"),
		zap.String("env", cfg.Server.Mode),
	)

	// 初始化数据库连接
	db, err := database.Init(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// 同步表结构
	if err := autoMigrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// 初始化 Redis 连接
	redisClient, err := cache.Init(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Redis connected successfully")

	// 初始化指标采集
	if cfg.Metrics.Enabled {
		metrics.Init("hotel_backoffice")
	}

	// 初始化证件加密组件
	aes, err := crypto.NewAES(cfg.Crypto.AESKey)
	if err != nil {
		log.Fatal("Failed to init AES cipher", zap.Error(err))
	}

	// 初始化短信与对象存储客户端
	smsSender := newSMSSender(cfg, log)
	uploader := newUploader(cfg, log)

	// 设置 Gin 模式
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.Server.Mode == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 设置路由
	setupRouter(engine, cfg, log, db, redisClient, aes, smsSender, uploader)

	// 启动后台定时任务
	sched := startScheduler(db, smsSender, log)
	defer sched.Stop()

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 在 goroutine 中启动服务器
	go func() {
		log.Info("HTTP server starting",
			zap.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// 创建超时上下文用于优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// 关闭数据库连接
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}

	log.Info("Server exited")
}

// autoMigrate 同步全部业务表结构
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.GuestIDType{},
		&models.Guest{},
		&models.RoomType{},
		&models.Room{},
		&models.Reservation{},
		&models.ReservedRoom{},
		&models.Companion{},
		&models.Billing{},
		&models.PaymentMethod{},
		&models.PaymentSubMethod{},
		&models.Payment{},
		&models.AddonProduct{},
		&models.AddonOrder{},
		&models.AddonOrderItem{},
		&models.User{},
		&models.OperationLog{},
		&models.SystemConfig{},
	)
}

// newSMSSender 根据配置选择短信客户端，未配置凭证时使用 Mock
func newSMSSender(cfg *config.Config, log *zap.Logger) sms.Sender {
	if cfg.SMS.Provider == "aliyun" && cfg.SMS.AccessKeyID != "" {
		sender, err := sms.NewAliyunSender(&sms.AliyunConfig{
			AccessKeyID:     cfg.SMS.AccessKeyID,
			AccessKeySecret: cfg.SMS.AccessKeySecret,
			SignName:        cfg.SMS.SignName,
		})
		if err != nil {
			log.Fatal("Failed to init SMS client", zap.Error(err))
		}
		return sender
	}
	log.Warn("SMS credentials not configured, using mock sender")
	return sms.NewMockSender()
}

// newUploader 根据配置选择对象存储客户端，未配置凭证时使用 Mock
func newUploader(cfg *config.Config, log *zap.Logger) oss.Uploader {
	if cfg.OSS.Provider == "aliyun" && cfg.OSS.AccessKeyID != "" {
		uploader, err := oss.NewAliyunUploader(&oss.AliyunConfig{
			Endpoint:        cfg.OSS.Endpoint,
			AccessKeyID:     cfg.OSS.AccessKeyID,
			AccessKeySecret: cfg.OSS.AccessKeySecret,
			BucketName:      cfg.OSS.Bucket,
			Domain:          cfg.OSS.CustomDomain,
			BasePath:        cfg.OSS.UploadDir,
		})
		if err != nil {
			log.Fatal("Failed to init OSS client", zap.Error(err))
		}
		return uploader
	}
	log.Warn("OSS credentials not configured, using mock uploader")
	return oss.NewMockUploader()
}

// startScheduler 注册并启动后台定时任务
func startScheduler(db *gorm.DB, smsSender sms.Sender, log *zap.Logger) *scheduler.Scheduler {
	reservationRepo := repository.NewReservationRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	operationLogRepo := repository.NewOperationLogRepository(db)

	reservationSvc := reservationService.NewReservationService(db, reservationRepo, billingRepo, smsSender)
	taskHandler := scheduler.NewTaskHandler(reservationRepo, operationLogRepo, reservationSvc)

	sched := scheduler.NewScheduler()
	scheduler.SetupTasks(sched, taskHandler)
	sched.Start()
	log.Info("Scheduler started")
	return sched
}
