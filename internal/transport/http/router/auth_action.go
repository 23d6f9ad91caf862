package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardlink/internal/apperr"
	"cardlink/internal/domain"
	httpez "cardlink/internal/transport/http/ez"
	mdw "cardlink/internal/transport/http/middleware"
)

// mountAuthActions wires login (register-on-first-sight) and /me. Identity
// is otherwise an external concern; this is the minimal principal source.
func mountAuthActions(api *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(api)

	type loginIn struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"omitempty,max=64"`
	}
	type loginOut struct {
		Token string              `json:"token"`
		IsNew bool                `json:"isNew"`
		User  *domain.UserAccount `json:"user"`
	}
	httpez.Register(ezPublic, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			u, isNew, err := d.Accounts.Login(c.Request.Context(), in.Email, in.Password, in.Name)
			if err != nil {
				return loginOut{}, err
			}
			tok, err := d.JWT.Issue(u.ID, u.Role)
			if err != nil || tok == "" {
				return loginOut{}, apperr.Internal("issue token failed", err)
			}
			return loginOut{Token: tok, IsNew: isNew, User: u}, nil
		},
	})

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, ""))
	ezAuth := httpez.New(authed)

	httpez.Register(ezAuth, httpez.Action[struct{}, *domain.UserAccount]{
		Method:      http.MethodGet,
		Path:        "/me",
		Binder:      httpez.BindNone,
		RequireAuth: true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.UserAccount, error) {
			return d.Accounts.Get(c.Request.Context(), mdw.Principal(c).ID)
		},
	})
}
