package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-blog/config"
	_ "github.com/d60-Lab/gin-blog/docs"
	"github.com/d60-Lab/gin-blog/internal/api/handler"
	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/internal/auth"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

// Services 路由依赖的业务服务
type Services struct {
	Posts    service.PostService
	Auth     service.AuthService
	Users    service.UserService
	Resolver *auth.Resolver
}

// NewServices wires repositories and services over db.
func NewServices(cfg *config.Config, db *gorm.DB) *Services {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	codec := auth.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.Expire)
	return &Services{
		Posts:    service.NewPostService(postRepo),
		Auth:     service.NewAuthService(userRepo, codec, cfg.Auth.IsAdminEmail, cfg.Auth.BcryptCost),
		Users:    service.NewUserService(userRepo),
		Resolver: auth.NewResolver(codec, userRepo, repository.ErrNotFound),
	}
}

// NewRouter 构建 gin 引擎
func NewRouter(cfg *config.Config, db *gorm.DB, svc *Services) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	handler.RegisterValidation()

	r := gin.New()
	r.Use(middleware.Logger(), middleware.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	var pinger handler.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	h := handler.NewHandler(svc.Posts, svc.Auth, svc.Users, pinger)

	r.GET("/health", h.Health)
	if cfg.Swagger.Enabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	strict := middleware.Authenticate(svc.Resolver, auth.Strict)
	soft := middleware.Authenticate(svc.Resolver, auth.Soft)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/profile", strict, h.Profile)

		posts := api.Group("/posts")
		posts.GET("", soft, h.ListPosts)
		posts.GET("/:id", h.GetPost)
		posts.POST("/:id/like", strict, h.LikePost)
		posts.POST("", strict, adminOnly, h.CreatePost)
		posts.PUT("/:id", strict, adminOnly, h.UpdatePost)
		posts.DELETE("/:id", strict, adminOnly, h.DeletePost)

		api.GET("/users", strict, h.ListUsers)
	}

	r.NoRoute(noRoute(cfg.Server.StaticDir))
	return r
}

func corsConfig(origins []string) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization")
	cc.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	all := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			all = true
		}
	}
	if all {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cc
}

// noRoute serves the client bundle (SPA fallback to index.html) when staticDir is set.
func noRoute(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if staticDir == "" || strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			response.NotFound(c, "route not found")
			return
		}
		file := filepath.Join(staticDir, filepath.Clean("/"+path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}
