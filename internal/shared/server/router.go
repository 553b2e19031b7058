package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docpipe-backend/internal/chat"
	"docpipe-backend/internal/documents"
	"docpipe-backend/internal/services/health"
	"docpipe-backend/internal/shared/config"
	"docpipe-backend/internal/shared/metrics"
	"docpipe-backend/internal/shared/server/middleware"
	"docpipe-backend/internal/shared/server/respond"
	"docpipe-backend/internal/shared/telemetry"
)

// APIPrefix is the route group every document endpoint lives under.
const APIPrefix = "/api/v1"

// RouterDeps holds handlers used to construct the router.
type RouterDeps struct {
	Config          config.Config
	DocumentHandler *documents.Handler
	ChatHandler     *chat.Handler
	Health          *health.Service
	RateLimiter     *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	// ClientIP keys the rate limiter; forwarding headers count only from listed proxies.
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		telemetry.Warn("router.trusted_proxies_invalid", map[string]any{
			"error": err.Error(),
		})
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		middleware.RequestID(),
		middleware.Actor(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				middleware.LLMRateLimitGroup: {
					Rate:  deps.Config.ChatRateLimitRPS,
					Burst: deps.Config.ChatRateLimitBurst,
				},
			},
			GroupFor: middleware.GroupByPath(
				middleware.LLMRateLimitGroup,
				APIPrefix+chat.PathChatWithDocument,
				APIPrefix+chat.PathSearchAndChat,
			),
			Limiter: deps.RateLimiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group(APIPrefix)
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
