package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/murmur/config"
	_ "github.com/d60-Lab/murmur/docs"
	"github.com/d60-Lab/murmur/internal/api/handler"
	"github.com/d60-Lab/murmur/internal/api/middleware"
	"github.com/d60-Lab/murmur/internal/service"
)

// New 组装全部路由；公开接口也挂 Authenticate，匿名访问拿到 Anonymous principal
func New(cfg *config.Config, h *handler.Handler, authSvc service.AuthService) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(otelgin.Middleware("murmur"))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Authenticate(authSvc))

	authGrp := v1.Group("/auth")
	{
		authGrp.POST("/register", h.Register)
		authGrp.POST("/login", h.Login)
	}

	users := v1.Group("/users")
	{
		users.GET("", h.SearchUsers)
		users.GET("/me", middleware.RequireAuth(), h.Me)
		users.PUT("/me", middleware.RequireAuth(), h.UpdateMe)
		users.PUT("/me/password", middleware.RequireAuth(), h.ChangePassword)
		users.GET("/:user_id", h.GetUser)
		users.GET("/:user_id/murmurs", h.UserFeed)
		users.GET("/:user_id/followers", h.ListFollowers)
		users.GET("/:user_id/following", h.ListFollowing)
		users.POST("/:user_id/follow", middleware.RequireAuth(), h.Follow)
		users.DELETE("/:user_id/follow", middleware.RequireAuth(), h.Unfollow)
	}

	murmurs := v1.Group("/murmurs")
	{
		murmurs.POST("", middleware.RequireAuth(), h.CreateMurmur)
		murmurs.GET("/search", h.SearchMurmurs)
		murmurs.GET("/:murmur_id", h.GetMurmur)
		murmurs.DELETE("/:murmur_id", middleware.RequireAuth(), h.DeleteMurmur)
		murmurs.GET("/:murmur_id/replies", h.ListReplies)
		murmurs.POST("/:murmur_id/like", middleware.RequireAuth(), h.ToggleLike)
	}

	feed := v1.Group("/feed")
	{
		feed.GET("/timeline", middleware.RequireAuth(), h.Timeline)
		feed.GET("/public", h.PublicFeed)
		feed.GET("/trending", h.Trending)
	}

	notifications := v1.Group("/notifications", middleware.RequireAuth())
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.PUT("/read-all", h.MarkAllNotificationsRead)
		notifications.PUT("/:notification_id/read", h.MarkNotificationRead)
		notifications.DELETE("/:notification_id", h.DeleteNotification)
	}

	return r
}
