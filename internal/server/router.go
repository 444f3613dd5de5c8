package server

import (
	"net/http"

	"github.com/AlanVogel/ChatAppSample/internal/auth"
	"github.com/AlanVogel/ChatAppSample/internal/config"
	"github.com/AlanVogel/ChatAppSample/internal/metrics"
	"github.com/AlanVogel/ChatAppSample/internal/mw"
	"github.com/AlanVogel/ChatAppSample/internal/repo"
	"github.com/AlanVogel/ChatAppSample/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// SetupRouter wires middleware, public auth endpoints and the token-gated
// room/message endpoints.
func SetupRouter(cfg config.Config, db *gorm.DB) *gin.Engine {
	store := repo.NewStore(db)
	h := NewHandler(
		service.NewUserService(store, cfg),
		service.NewRoomService(store),
		service.NewMessageService(store),
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	// Everything below requires the X-User-ID header and a bearer token
	// signed with that user's current key word.
	authed := api.Group("")
	authed.Use(auth.Middleware(cfg, store))

	authed.GET("/users/:id", h.GetUser)
	authed.GET("/users/:id/rooms", h.ListRooms)
	authed.POST("/rooms", h.CreateRoom)
	authed.POST("/rooms/:id/join", h.JoinRoom)
	authed.DELETE("/rooms/:id/leave", h.LeaveRoom)
	authed.POST("/rooms/:id/messages", h.SendMessage)
	authed.DELETE("/rooms/:id", h.DeleteRoom)
	authed.DELETE("/messages/:id", h.DeleteMessage)

	return r
}
