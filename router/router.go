package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/hotel-app/audit"
	"github.com/yeremiapane/hotel-app/controllers"
	"github.com/yeremiapane/hotel-app/hub"
	"github.com/yeremiapane/hotel-app/middlewares"
	"github.com/yeremiapane/hotel-app/models"
	"github.com/yeremiapane/hotel-app/services"
)

// SetupRouter merakit seluruh service dan route. Hub di-inject dari main
// supaya coordinator dan room service memakai dispatcher yang sama.
func SetupRouter(db *gorm.DB, h *hub.Hub) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Wiring service: satu lock table dibagi coordinator dan registry
	auditStore := audit.NewStore(db)
	locks := services.NewRoomLocker()
	bookingSvc := services.NewBookingService(db)
	roomSvc := services.NewRoomService(db, locks, auditStore, h)
	coordinator := services.NewCoordinator(db, bookingSvc, locks, auditStore, h)

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	roomCtrl := controllers.NewRoomController(roomSvc)
	bookingCtrl := controllers.NewBookingController(coordinator, bookingSvc)
	paymentCtrl := controllers.NewPaymentController(coordinator, bookingSvc)
	auditCtrl := controllers.NewAuditController(auditStore)
	adminCtrl := controllers.NewAdminController(db)
	wsCtrl := controllers.NewWSController(h)

	// Public, dengan rate limit ketat untuk percobaan auth
	r.POST("/register", middlewares.NewStrictRateLimiter(), userCtrl.Register)
	r.POST("/login", middlewares.NewStrictRateLimiter(), userCtrl.Login)

	// WebSocket pakai token query param
	r.GET("/ws", middlewares.WebSocketAuthMiddleware(), wsCtrl.Subscribe)

	// Authenticated
	authed := r.Group("/", middlewares.AuthMiddleware())
	{
		authed.POST("/logout", userCtrl.Logout)
		authed.GET("/profile", userCtrl.GetProfile)

		authed.GET("/rooms", roomCtrl.GetAllRooms)
		authed.GET("/rooms/:room_id", roomCtrl.GetRoomByID)

		authed.GET("/bookings/quote", bookingCtrl.QuoteBooking)
		authed.POST("/bookings", bookingCtrl.CreateBooking)
		authed.GET("/bookings/me", bookingCtrl.GetMyBookings)
		authed.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
		authed.GET("/bookings/:booking_id/payments", paymentCtrl.GetPayments)
	}

	// Staff & admin
	staff := r.Group("/", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleStaff))
	{
		staff.PATCH("/rooms/:room_id/status", roomCtrl.UpdateRoomStatus)
		staff.GET("/bookings", bookingCtrl.GetAllBookings)
		staff.POST("/bookings/:booking_id/check-in", bookingCtrl.CheckIn)
		staff.POST("/bookings/:booking_id/check-out", bookingCtrl.CheckOut)
		staff.POST("/bookings/:booking_id/payments",
			middlewares.PaymentSecurityHeaders(),
			middlewares.PaymentRateLimiter(),
			middlewares.LogPaymentRequest(),
			paymentCtrl.RecordPayment)
	}

	// Admin only
	admin := r.Group("/admin", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleAdmin))
	{
		admin.POST("/rooms", roomCtrl.CreateRoom)
		admin.PATCH("/rooms/:room_id/pricing", roomCtrl.UpdateRoomPricing)
		admin.DELETE("/rooms/:room_id", roomCtrl.DeleteRoom)
		admin.GET("/audit", auditCtrl.GetAuditEntries)
		admin.GET("/stats", adminCtrl.GetDashboardStats)
		admin.GET("/users", userCtrl.GetAllUsers)
	}

	return r
}
