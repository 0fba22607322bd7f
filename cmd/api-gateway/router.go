// Package main 是应用程序入口
package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/common/config"
	"github.com/dmvillareal/hotel-backoffice/internal/common/crypto"
	"github.com/dmvillareal/hotel-backoffice/internal/common/jwt"
	"github.com/dmvillareal/hotel-backoffice/internal/common/metrics"
	commonMiddleware "github.com/dmvillareal/hotel-backoffice/internal/common/middleware"
	addonHandler "github.com/dmvillareal/hotel-backoffice/internal/handler/addon"
	adminHandler "github.com/dmvillareal/hotel-backoffice/internal/handler/admin"
	billingHandler "github.com/dmvillareal/hotel-backoffice/internal/handler/billing"
	guestHandler "github.com/dmvillareal/hotel-backoffice/internal/handler/guest"
	inventoryHandler "github.com/dmvillareal/hotel-backoffice/internal/handler/inventory"
	reservationHandler "github.com/dmvillareal/hotel-backoffice/internal/handler/reservation"
	"github.com/dmvillareal/hotel-backoffice/internal/middleware"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
	addonService "github.com/dmvillareal/hotel-backoffice/internal/service/addon"
	adminService "github.com/dmvillareal/hotel-backoffice/internal/service/admin"
	billingService "github.com/dmvillareal/hotel-backoffice/internal/service/billing"
	guestService "github.com/dmvillareal/hotel-backoffice/internal/service/guest"
	inventoryService "github.com/dmvillareal/hotel-backoffice/internal/service/inventory"
	reservationService "github.com/dmvillareal/hotel-backoffice/internal/service/reservation"
	"github.com/dmvillareal/hotel-backoffice/pkg/oss"
	"github.com/dmvillareal/hotel-backoffice/pkg/sms"
)

// setupRouter 设置路由
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	aes *crypto.AES,
	smsSender sms.Sender,
	uploader oss.Uploader,
) {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
	})

	// 初始化仓储
	guestRepo := repository.NewGuestRepository(db)
	idTypeRepo := repository.NewGuestIDTypeRepository(db)
	roomTypeRepo := repository.NewRoomTypeRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	methodRepo := repository.NewPaymentMethodRepository(db)
	productRepo := repository.NewAddonProductRepository(db)
	orderRepo := repository.NewAddonOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	configRepo := repository.NewSystemConfigRepository(db)
	operationLogRepo := repository.NewOperationLogRepository(db)

	// 初始化服务
	codeService := reservationService.NewCodeService()
	guestSvc := guestService.NewGuestService(guestRepo, idTypeRepo, aes, uploader)
	roomTypeSvc := inventoryService.NewRoomTypeService(roomTypeRepo, roomRepo)
	roomSvc := inventoryService.NewRoomService(roomRepo, roomTypeRepo, reservationRepo)
	bookingSvc := reservationService.NewBookingService(db, roomTypeRepo, methodRepo, configRepo, codeService, aes, smsSender)
	reservationSvc := reservationService.NewReservationService(db, reservationRepo, billingRepo, smsSender)
	billingSvc := billingService.NewBillingService(billingRepo, paymentRepo)
	paymentSvc := billingService.NewPaymentService(db, billingRepo, paymentRepo, methodRepo)
	addonSvc := addonService.NewAddonService(db, productRepo, orderRepo, reservationRepo, billingRepo)
	authSvc := adminService.NewAuthService(userRepo, jwtManager)
	staffSvc := adminService.NewStaffService(userRepo)
	dashboardSvc := adminService.NewDashboardService(guestRepo, roomRepo, reservationRepo, billingRepo, paymentRepo, orderRepo)
	configSvc := adminService.NewSystemConfigService(configRepo)

	// 初始化处理器
	guestH := guestHandler.NewGuestHandler(guestSvc)
	roomTypeH := inventoryHandler.NewRoomTypeHandler(roomTypeSvc)
	roomH := inventoryHandler.NewRoomHandler(roomSvc)
	reservationH := reservationHandler.NewReservationHandler(bookingSvc, reservationSvc)
	billingH := billingHandler.NewBillingHandler(billingSvc)
	paymentH := billingHandler.NewPaymentHandler(paymentSvc)
	addonH := addonHandler.NewAddonHandler(addonSvc)
	authH := adminHandler.NewAuthHandler(authSvc)
	staffH := adminHandler.NewStaffHandler(staffSvc)
	dashboardH := adminHandler.NewDashboardHandler(dashboardSvc)
	systemH := adminHandler.NewSystemHandler(configSvc, operationLogRepo)

	// 操作日志中间件
	operationLogger := commonMiddleware.NewOperationLogger(operationLogRepo)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.CORS(nil))
	r.Use(middleware.AccessLog(logger))
	if m := metrics.GetMetrics(); m != nil {
		r.Use(m.Middleware())
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// Prometheus 指标
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 公开查询 API，预订页面浏览房型与空房情况
	v1 := r.Group("/api/v1")
	{
		v1.GET("/room-types", roomTypeH.ListRoomTypes)
		v1.GET("/room-types/:id", roomTypeH.GetRoomType)
		v1.GET("/room-types/:id/availability", roomTypeH.GetAvailability)
	}

	// 管理后台 API
	admin := r.Group("/api/admin")
	{
		// 登录与刷新令牌（公开）
		auth := admin.Group("/auth")
		if cfg.RateLimit.Enabled {
			auth.Use(middleware.IPRateLimit(redisClient, 10, time.Minute))
		}
		{
			auth.POST("/login", authH.Login)
			auth.POST("/refresh", authH.RefreshToken)
		}

		// 需要员工认证
		protected := admin.Group("")
		protected.Use(middleware.AdminAuth(jwtManager))
		protected.Use(operationLogger.Log())
		{
			// 当前登录员工
			protected.GET("/auth/me", authH.GetUserInfo)
			protected.PUT("/auth/password", authH.ChangePassword)

			// 客人档案
			protected.POST("/guests", guestH.CreateGuest)
			protected.GET("/guests", guestH.ListGuests)
			protected.GET("/guests/:id", guestH.GetGuest)
			protected.PUT("/guests/:id", guestH.UpdateGuest)
			protected.DELETE("/guests/:id", guestH.DeleteGuest)
			protected.POST("/guests/:id/id-photo", guestH.UploadIDPhoto)
			protected.GET("/guest-id-types", guestH.ListIDTypes)

			// 房型管理
			protected.POST("/room-types", roomTypeH.CreateRoomType)
			protected.GET("/room-types", roomTypeH.ListRoomTypes)
			protected.GET("/room-types/:id", roomTypeH.GetRoomType)
			protected.PUT("/room-types/:id", roomTypeH.UpdateRoomType)
			protected.DELETE("/room-types/:id", roomTypeH.DeleteRoomType)
			protected.GET("/room-types/:id/availability", roomTypeH.GetAvailability)

			// 房间管理
			protected.POST("/rooms", roomH.CreateRoom)
			protected.GET("/rooms", roomH.ListRooms)
			protected.GET("/rooms/available", roomH.ListAvailableRooms)
			protected.GET("/rooms/:id", roomH.GetRoom)
			protected.PUT("/rooms/:id", roomH.UpdateRoom)
			protected.PUT("/rooms/:id/status", roomH.UpdateRoomStatus)
			protected.DELETE("/rooms/:id", roomH.DeleteRoom)

			// 预订管理
			protected.POST("/reservations", reservationH.CreateReservation)
			protected.GET("/reservations", reservationH.ListReservations)
			protected.GET("/reservations/arrivals-today", reservationH.ListArrivalsToday)
			protected.GET("/reservations/overdue", reservationH.ListOverdueStays)
			protected.PUT("/reservations/check-in", reservationH.CheckInByCode)
			protected.GET("/reservations/no/:reservation_no", reservationH.GetReservationByNo)
			protected.GET("/reservations/:id", reservationH.GetReservation)
			protected.PUT("/reservations/:id/confirm", reservationH.ConfirmReservation)
			protected.PUT("/reservations/:id/check-in", reservationH.CheckIn)
			protected.PUT("/reservations/:id/check-out", reservationH.CheckOut)
			protected.PUT("/reservations/:id/cancel", reservationH.CancelReservation)
			protected.GET("/reservations/:id/addon-orders", addonH.ListOrdersByReservation)

			// 账单管理
			protected.GET("/billings", billingH.ListBillings)
			protected.GET("/billings/by-reservation", billingH.GetBillingByReservation)
			protected.GET("/billings/:id", billingH.GetBilling)
			// 作废账单仅限管理员
			protected.PUT("/billings/:id/void", middleware.RequireAdmin(), billingH.VoidBilling)
			protected.GET("/billings/:id/payments", paymentH.ListByBilling)

			// 收款管理
			protected.POST("/payments", paymentH.RecordPayment)
			protected.GET("/payments", paymentH.ListPayments)
			protected.GET("/payments/:id", paymentH.GetPayment)
			protected.GET("/payment-methods", paymentH.ListPaymentMethods)

			// 附加消费
			protected.POST("/addon-products", addonH.CreateProduct)
			protected.GET("/addon-products", addonH.ListProducts)
			protected.GET("/addon-products/:id", addonH.GetProduct)
			protected.PUT("/addon-products/:id", addonH.UpdateProduct)
			protected.DELETE("/addon-products/:id", addonH.DeleteProduct)
			protected.POST("/addon-orders", addonH.CreateOrder)
			protected.GET("/addon-orders", addonH.ListOrders)
			protected.GET("/addon-orders/:id", addonH.GetOrder)

			// 运营看板
			protected.GET("/dashboard/overview", dashboardH.GetOverview)
			protected.GET("/dashboard/revenue/daily", dashboardH.GetDailyRevenue)
			protected.GET("/dashboard/revenue/monthly", dashboardH.GetMonthlyRevenue)

			// 员工与系统管理（仅管理员）
			system := protected.Group("")
			system.Use(middleware.RequireAdmin())
			{
				system.POST("/staff", staffH.CreateStaff)
				system.GET("/staff", staffH.ListStaff)
				system.GET("/staff/:id", staffH.GetStaff)
				system.PUT("/staff/:id", staffH.UpdateStaff)
				system.PUT("/staff/:id/status", staffH.UpdateStaffStatus)
				system.PUT("/staff/:id/reset-password", staffH.ResetPassword)
				system.DELETE("/staff/:id", staffH.DeleteStaff)

				system.GET("/configs", systemH.ListConfigs)
				system.GET("/configs/:key", systemH.GetConfig)
				system.PUT("/configs/:key", systemH.UpdateConfig)

				system.GET("/operation-logs", systemH.ListOperationLogs)
			}
		}
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    404,
			"message": "接口不存在",
		})
	})
}
