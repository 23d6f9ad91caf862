package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cardlink/internal/core/auth"
	"cardlink/internal/domain"
	"cardlink/internal/service"
	mdw "cardlink/internal/transport/http/middleware"
)

// Deps is everything the routers need; main wires it once.
type Deps struct {
	Log      *zap.Logger
	JWT      *auth.JWTer
	Cards    *service.CardService
	Accounts *service.AccountService
	Quota    *service.QuotaGuard
	Slugs    *service.SlugAllocator
	Users    domain.UserRepository
	CardRepo domain.CardRepository
	Stats    domain.StatRepository
	Views    domain.ViewRepository
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Plain HTTP surface: vCard download, slug reservation, quota check.
	mountWeb(r, d)

	api := r.Group("/api/v1")
	mountAuthActions(api, d)

	// Callable surface; principal attached by the transport when present.
	rpc := r.Group("/rpc/v1")
	rpc.Use(mdw.AuthOptional(d.JWT))
	mountRPCActions(rpc, d)

	return r
}
