// Package router 提供HTTP路由配置
// 负责服务装配、中间件注册与API路由分组
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/ideaboard/config"
	"github.com/weiwangfds/ideaboard/internal/handler"
	"github.com/weiwangfds/ideaboard/internal/middleware"
	authservice "github.com/weiwangfds/ideaboard/internal/service/auth"
	noteservice "github.com/weiwangfds/ideaboard/internal/service/note"
	shareservice "github.com/weiwangfds/ideaboard/internal/service/share"
	tagservice "github.com/weiwangfds/ideaboard/internal/service/tag"
	"gorm.io/gorm"
)

// Router 路由配置
type Router struct {
	engine *gin.Engine
	db     *gorm.DB
}

// NewRouter 创建路由实例
func NewRouter(loggerMiddleware *middleware.LoggerMiddleware, db *gorm.DB, cfg *config.Config) *Router {
	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	// 初始化服务
	tagService := tagservice.NewTagService(db)
	noteService := noteservice.NewNoteService(db, tagService)
	shareService := shareservice.NewShareService(db)
	authService := authservice.NewAuthService(db, cfg.Auth)

	// 初始化处理器
	noteHandler := handler.NewNoteHandler(noteService)
	tagHandler := handler.NewTagHandler(tagService)
	shareHandler := handler.NewShareHandler(shareService)
	authHandler := handler.NewAuthHandler(authService)

	// 初始化认证中间件
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// 使用中间件
	engine.Use(gin.Recovery())
	engine.Use(loggerMiddleware.RequestLogger())

	// 配置CORS
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Service is running",
		})
	})

	// API路由组
	api := engine.Group("/api")
	{
		// 认证接口
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
		}

		// 公开分享接口，无需身份校验
		api.GET("/shared/:shareId", shareHandler.GetSharedNote)

		// 笔记接口，需要有效会话
		notes := api.Group("/notes", authMiddleware.RequireAuth())
		{
			notes.GET("", noteHandler.ListNotes)
			notes.POST("", noteHandler.CreateNote)
			notes.GET("/:id", noteHandler.GetNote)
			notes.PUT("/:id", noteHandler.UpdateNote)
			notes.DELETE("/:id", noteHandler.DeleteNote)
		}

		// 标签接口，需要有效会话
		api.GET("/tags", authMiddleware.RequireAuth(), tagHandler.ListTags)
	}

	return &Router{
		engine: engine,
		db:     db,
	}
}

// GetEngine 获取Gin引擎实例
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
