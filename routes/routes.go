package routes

import (
	"time"

	"github.com/RichKitibwa/BloodLink/app"
	"github.com/RichKitibwa/BloodLink/controllers"
	"github.com/RichKitibwa/BloodLink/models"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	userCtl := controllers.NewUserController(s)
	stockCtl := controllers.NewStockController(s)
	donationCtl := controllers.NewDonationController(s)
	requestCtl := controllers.NewRequestController(s)
	notifCtl := controllers.NewNotificationController(s)
	transferCtl := controllers.NewTransferController(s)

	authMW := app.AuthRequired(a.Sessions(), s.Repo)
	adminMW := app.RequireRole(models.RoleAdmin)
	staffMW := app.RequireRole(models.RoleAdmin, models.RoleBloodBankStaff, models.RoleHospitalStaff)
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	app.RegisterMetrics(r)

	// ------------------------------
	// Auth (public)
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/token", authCtl.Login)
		auth.POST("/logout", authMW, authCtl.Logout)
	}

	// ------------------------------
	// Users & hospitals
	// ------------------------------
	users := r.Group("/api/users")
	{
		users.POST("/register", userCtl.Register)
		users.POST("/verify-hospital-code", userCtl.VerifyHospitalCode)
	}
	usersAuth := r.Group("/api/users", authMW, seenMW)
	{
		usersAuth.GET("/me", userCtl.Me)
		usersAuth.PUT("/me", userCtl.UpdateMe)
		usersAuth.GET("/dashboard", userCtl.Dashboard)
		usersAuth.GET("/hospitals", userCtl.ListHospitals)
		usersAuth.POST("/hospitals", adminMW, userCtl.CreateHospital)
	}

	// ------------------------------
	// Inventory ledger
	// ------------------------------
	stock := r.Group("/api/bloodstock", authMW, seenMW)
	{
		stock.POST("", staffMW, stockCtl.AddStock)
		stock.PUT("/:id", staffMW, stockCtl.UpdateStock)
		stock.GET("", stockCtl.ListStock)
		stock.GET("/search", stockCtl.Search)
		stock.GET("/near-expiry", stockCtl.NearExpiry)
		stock.GET("/summary", stockCtl.Summary)
		stock.GET("/alerts", stockCtl.Alerts)
	}

	// ------------------------------
	// Donation offers
	// ------------------------------
	donations := r.Group("/api/donations", authMW, seenMW)
	{
		donations.GET("/critical-expiry", donationCtl.CriticalExpiry)
		donations.POST("/schedule", staffMW, donationCtl.Schedule)
		donations.GET("/available", donationCtl.Available)
		donations.GET("/my-schedules", donationCtl.MySchedules)
		donations.POST("/:id/accept", staffMW, donationCtl.Accept)
		donations.DELETE("/:id", staffMW, donationCtl.Withdraw)
	}

	// ------------------------------
	// Blood requests
	// ------------------------------
	requests := r.Group("/api/requests", authMW, seenMW)
	{
		requests.POST("", staffMW, requestCtl.Create)
		requests.GET("", requestCtl.List)
		requests.GET("/pending", requestCtl.Pending)
		requests.GET("/:id", requestCtl.Get)
		requests.POST("/:id/respond", staffMW, requestCtl.Respond)
		requests.GET("/:id/responses", requestCtl.Responses)
		requests.POST("/:id/responses/:rid/accept", staffMW, requestCtl.AcceptResponse)
		requests.PUT("/:id", staffMW, requestCtl.Update)
		requests.DELETE("/:id", staffMW, requestCtl.Cancel)
	}

	// ------------------------------
	// Notifications & transfer history
	// ------------------------------
	misc := r.Group("/api", authMW, seenMW)
	{
		misc.GET("/notifications", notifCtl.List)
		misc.PUT("/notifications/:id/read", notifCtl.MarkRead)
		misc.GET("/transfers", transferCtl.List)
	}
}
