package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardlink/internal/apperr"
	"cardlink/internal/domain"
	"cardlink/internal/service"
	httpez "cardlink/internal/transport/http/ez"
	mdw "cardlink/internal/transport/http/middleware"
)

// mountRPCActions registers the callable surface under /rpc/v1. Every
// method takes a tagged JSON payload; the principal comes from the
// transport (Bearer token) when present.
func mountRPCActions(g *gin.RouterGroup, d Deps) {
	ez := httpez.New(g)

	type byIDIn struct {
		CardID string `json:"cardId" binding:"required"`
	}
	httpez.Register(ez, httpez.Action[byIDIn, *domain.Card]{
		Method: http.MethodPost,
		Path:   "/getCardById",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *byIDIn) (*domain.Card, error) {
			p := mdw.Principal(c)
			card, err := d.Cards.GetByID(c.Request.Context(), in.CardID, p)
			if err == nil && !p.IsOwnerOf(card) {
				mdw.CountCardView()
			}
			return card, err
		},
	})

	type bySlugIn struct {
		Slug string `json:"slug" binding:"required"`
	}
	httpez.Register(ez, httpez.Action[bySlugIn, *domain.Card]{
		Method: http.MethodPost,
		Path:   "/getCardBySlug",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *bySlugIn) (*domain.Card, error) {
			p := mdw.Principal(c)
			card, err := d.Cards.GetBySlug(c.Request.Context(), in.Slug, p)
			if err == nil && !p.IsOwnerOf(card) {
				mdw.CountCardView()
			}
			return card, err
		},
	})

	type listIn struct {
		UserID string `json:"userId"`
	}
	type listOut struct {
		Cards []domain.Card `json:"cards"`
	}
	httpez.Register(ez, httpez.Action[listIn, listOut]{
		Method:      http.MethodPost,
		Path:        "/getUserCards",
		Binder:      httpez.BindJSON,
		RequireAuth: true,
		Handler: func(c *gin.Context, in *listIn) (listOut, error) {
			cards, err := d.Cards.ListForUser(c.Request.Context(), mdw.Principal(c), in.UserID)
			return listOut{Cards: cards}, err
		},
	})

	type createIn struct {
		CardData service.CreateCardInput `json:"cardData" binding:"required"`
	}
	httpez.Register(ez, httpez.Action[createIn, *domain.Card]{
		Method:      http.MethodPost,
		Path:        "/createCard",
		Binder:      httpez.BindJSON,
		RequireAuth: true,
		Handler: func(c *gin.Context, in *createIn) (*domain.Card, error) {
			return d.Cards.Create(c.Request.Context(), mdw.Principal(c), in.CardData)
		},
	})

	type updateIn struct {
		CardID   string           `json:"cardId" binding:"required"`
		CardData domain.CardPatch `json:"cardData"`
	}
	httpez.Register(ez, httpez.Action[updateIn, *domain.Card]{
		Method:      http.MethodPost,
		Path:        "/updateCard",
		Binder:      httpez.BindJSON,
		RequireAuth: true,
		Handler: func(c *gin.Context, in *updateIn) (*domain.Card, error) {
			return d.Cards.Update(c.Request.Context(), mdw.Principal(c), in.CardID, in.CardData)
		},
	})

	httpez.Register(ez, httpez.Action[byIDIn, gin.H]{
		Method:      http.MethodPost,
		Path:        "/deleteCard",
		Binder:      httpez.BindJSON,
		RequireAuth: true,
		Handler: func(c *gin.Context, in *byIDIn) (gin.H, error) {
			if err := d.Cards.Delete(c.Request.Context(), mdw.Principal(c), in.CardID); err != nil {
				return nil, err
			}
			return gin.H{"id": in.CardID}, nil
		},
	})

	type upgradeIn struct {
		PaymentToken string `json:"paymentToken"`
	}
	httpez.Register(ez, httpez.Action[upgradeIn, service.UpgradeResult]{
		Method:      http.MethodPost,
		Path:        "/upgradePlan",
		Binder:      httpez.BindJSON,
		RequireAuth: true,
		Handler: func(c *gin.Context, in *upgradeIn) (service.UpgradeResult, error) {
			return d.Accounts.Upgrade(c.Request.Context(), mdw.Principal(c), in.PaymentToken)
		},
	})

	httpez.Register(ez, httpez.Action[byIDIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/recordShare",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *byIDIn) (gin.H, error) {
			if err := d.Cards.RecordShare(c.Request.Context(), mdw.Principal(c), in.CardID); err != nil {
				return nil, err
			}
			return gin.H{"id": in.CardID}, nil
		},
	})

	// Owner-only dashboard numbers: stat counters plus the raw view count.
	type statsOut struct {
		Stat      *domain.CardStat `json:"stat"`
		ViewCount int64            `json:"viewCount"`
	}
	httpez.Register(ez, httpez.Action[byIDIn, statsOut]{
		Method:      http.MethodPost,
		Path:        "/getCardStats",
		Binder:      httpez.BindJSON,
		RequireAuth: true,
		Handler: func(c *gin.Context, in *byIDIn) (statsOut, error) {
			ctx := c.Request.Context()
			p := mdw.Principal(c)
			card, err := d.CardRepo.FindByID(ctx, in.CardID)
			if err != nil {
				return statsOut{}, apperr.Internal("load card failed", err)
			}
			if card == nil {
				return statsOut{}, apperr.NotFound("card not found")
			}
			if !service.CanWrite(card, p) {
				return statsOut{}, apperr.PermissionDenied("not the card owner")
			}
			stat, err := d.Stats.FindByCardID(ctx, in.CardID)
			if err != nil {
				return statsOut{}, apperr.Internal("load stats failed", err)
			}
			n, err := d.Views.CountByCard(ctx, in.CardID)
			if err != nil {
				return statsOut{}, apperr.Internal("count views failed", err)
			}
			return statsOut{Stat: stat, ViewCount: n}, nil
		},
	})
}
