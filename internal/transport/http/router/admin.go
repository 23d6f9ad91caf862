package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"

	"cardlink/internal/apperr"
	"cardlink/internal/domain"
	httpez "cardlink/internal/transport/http/ez"
	mdw "cardlink/internal/transport/http/middleware"
)

// NewAdminEngine is the back-office surface; lighter middleware chain than
// the public API.
func NewAdminEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		ginzap.Ginzap(d.Log, time.RFC3339, true),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT, domain.RoleAdmin))
	mountAdminActions(admin, d)

	return r
}

func mountAdminActions(admin *gin.RouterGroup, d Deps) {
	ez := httpez.New(admin)

	type listQ struct {
		Offset int    `form:"offset,default=0"`
		Limit  int    `form:"limit,default=20"`
		Q      string `form:"q"` // email/name substring
	}
	type listOut struct {
		Total int64                `json:"total"`
		Items []domain.UserAccount `json:"items"`
	}
	httpez.Register(ez, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			users, total, err := d.Users.List(c.Request.Context(), in.Q, in.Offset, in.Limit)
			if err != nil {
				return listOut{}, apperr.Internal("list users failed", err)
			}
			return listOut{Total: total, Items: users}, nil
		},
	})

	// All cards of one owner, drafts included.
	type cardsQ struct {
		Owner string `form:"owner" binding:"required"`
	}
	type cardsOut struct {
		Items []domain.Card `json:"items"`
	}
	httpez.Register(ez, httpez.Action[cardsQ, cardsOut]{
		Method: http.MethodGet,
		Path:   "/cards",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *cardsQ) (cardsOut, error) {
			cards, err := d.CardRepo.ListByOwner(c.Request.Context(), in.Owner, false)
			if err != nil {
				return cardsOut{}, apperr.Internal("list cards failed", err)
			}
			return cardsOut{Items: cards}, nil
		},
	})

	// Manual plan override, e.g. refunds or support comps.
	type planIn struct {
		Plan      string `json:"plan" binding:"required,oneof=free pro"`
		CardLimit int    `json:"cardLimit" binding:"required,min=1"`
	}
	httpez.Register(ez, httpez.Action[planIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/plan",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *planIn) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, apperr.InvalidArgument("missing id")
			}
			if err := d.Users.SetPlan(c.Request.Context(), id, in.Plan, in.CardLimit, time.Now()); err != nil {
				return nil, apperr.Internal("set plan failed", err)
			}
			return gin.H{"id": id, "plan": in.Plan}, nil
		},
	})
}
