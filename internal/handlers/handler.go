package handlers

import (
	"timekeeper/internal/hub"
	"timekeeper/internal/logger"
	"timekeeper/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services, the client hub and logging.
type Handler struct {
	services *service.Service
	hub      *hub.Hub
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, hb *hub.Hub, log *logger.Logger) *Handler {
	return &Handler{services: services, hub: hb, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// widget clients: state stream, notifications, title and visibility
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/setup", h.setupOwner)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.ownerMiddleware)
	{
		api.GET("/state", h.getState)
		api.GET("/clock", h.getClock)
		h.registerTimerRoutes(api)
		h.registerAlarmRoutes(api)
		h.registerMemoRoutes(api)
		h.registerPreferenceRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerTimerRoutes(api *gin.RouterGroup) {
	timers := api.Group("/timers")
	{
		timers.GET("", h.listTimers)
		timers.POST("", h.addTimer)
		// Body example: {"hour":7,"minute":30,"start":true}
		timers.POST("/at", h.addTimerAt)
		timers.DELETE("", h.clearTimers)
		timers.POST("/:id/start", h.startTimer)
		timers.POST("/:id/pause", h.pauseTimer)
		timers.POST("/:id/reset", h.resetTimer)
		timers.POST("/:id/tick", h.tickTimer)
		timers.POST("/:id/activate", h.activateTimer)
		timers.DELETE("/:id", h.removeTimer)
	}
}

func (h *Handler) registerAlarmRoutes(api *gin.RouterGroup) {
	alarms := api.Group("/alarms")
	{
		alarms.GET("", h.listAlarms)
		alarms.POST("", h.addAlarm)
		alarms.GET("/next", h.nextAlarm)
		alarms.PATCH("/:id", h.updateAlarm)
		alarms.POST("/:id/toggle", h.toggleAlarm)
		alarms.DELETE("/:id", h.removeAlarm)
	}
}

func (h *Handler) registerMemoRoutes(api *gin.RouterGroup) {
	memos := api.Group("/memos")
	{
		memos.GET("", h.listMemos)
		memos.POST("", h.addMemo)
		memos.GET("/colors", h.memoColors)
		memos.PATCH("/:id", h.updateMemo)
		memos.POST("/:id/activate", h.activateMemo)
		memos.DELETE("/:id", h.removeMemo)
	}
}

func (h *Handler) registerPreferenceRoutes(api *gin.RouterGroup) {
	prefs := api.Group("/preferences")
	{
		prefs.GET("", h.getPreferences)
		prefs.PUT("/clock-mode", h.setClockMode)
		prefs.POST("/clock-mode/toggle", h.toggleClockMode)
		prefs.PUT("/theme", h.setTheme)
		prefs.POST("/theme/toggle", h.toggleTheme)
		prefs.POST("/onboarding/dismiss", h.dismissOnboarding)
		prefs.PUT("/notification-permission", h.setNotificationPermission)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
