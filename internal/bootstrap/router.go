package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akshar-paaul/akshar-backend/config"
	apihttp "github.com/akshar-paaul/akshar-backend/internal/api/http"
	"github.com/akshar-paaul/akshar-backend/internal/api/http/middleware"
	authhttp "github.com/akshar-paaul/akshar-backend/internal/auth/http"
	authmw "github.com/akshar-paaul/akshar-backend/internal/auth/middleware"
	authrepo "github.com/akshar-paaul/akshar-backend/internal/auth/repository"
	authservice "github.com/akshar-paaul/akshar-backend/internal/auth/service"
	chathttp "github.com/akshar-paaul/akshar-backend/internal/chat/http"
	chatrepo "github.com/akshar-paaul/akshar-backend/internal/chat/repository"
	chatservice "github.com/akshar-paaul/akshar-backend/internal/chat/service"
	eventshttp "github.com/akshar-paaul/akshar-backend/internal/events/http"
	eventsrepo "github.com/akshar-paaul/akshar-backend/internal/events/repository"
	eventsservice "github.com/akshar-paaul/akshar-backend/internal/events/service"
	notifhttp "github.com/akshar-paaul/akshar-backend/internal/notifications/http"
	notifrepo "github.com/akshar-paaul/akshar-backend/internal/notifications/repository"
	notifservice "github.com/akshar-paaul/akshar-backend/internal/notifications/service"
	"github.com/akshar-paaul/akshar-backend/internal/notifications/sms"
	"github.com/akshar-paaul/akshar-backend/internal/realtime"
	realtimehttp "github.com/akshar-paaul/akshar-backend/internal/realtime/http"
)

// Deps carries everything BuildRouter needs. Verifier and Sender are
// interfaces so main can wire the real Firebase client and SMS provider while
// tests wire fakes.
type Deps struct {
	Cfg      *config.Config
	DB       *sql.DB
	Redis    *redis.Client
	Hub      *realtime.Hub
	Verifier authservice.TokenVerifier
	Sender   sms.Sender
	Log      *zap.Logger
}

// BuildRouter assembles the full HTTP surface: repositories, services,
// middleware and route registration.
func BuildRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(d.Log))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
	}))

	health := apihttp.NewHealthHandler("akshar-backend", d.Cfg.App.Version, d.DB, d.Redis)
	health.RegisterRoutes(r)

	profiles := authrepo.NewProfileRepository(d.DB)
	sessions := authrepo.NewSessionRepository(d.Redis, d.Cfg.App.SessionTTL)
	authSvc := authservice.NewAuthService(profiles, sessions, d.Verifier, d.Cfg.App.SessionRoleTTL, d.Log)

	chatSvc := chatservice.NewChatService(chatrepo.NewMessageRepository(d.DB))
	eventSvc := eventsservice.NewEventService(eventsrepo.NewEventRepository(d.DB))
	broadcastSvc := notifservice.NewBroadcastService(
		notifrepo.NewParentRepository(d.DB), d.Sender, chatSvc, d.Log)

	api := r.Group("/api/v1")
	authed := r.Group("/api/v1")
	authed.Use(authmw.RequireSession(authSvc))

	authhttp.New(authSvc, d.Log).Register(api, authed)
	eventshttp.New(eventSvc, d.Log).Register(authed)
	chathttp.New(chatSvc, d.Log).Register(authed)
	notifhttp.New(broadcastSvc, d.Log).Register(authed)
	realtimehttp.New(d.Hub, d.Log).Register(authed)

	return r
}
