// Package ez registers callable-style actions: one typed request struct
// in, one typed result out, taxonomy failures mapped onto the envelope.
package ez

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardlink/internal/apperr"
	mdw "cardlink/internal/transport/http/middleware"
	resp "cardlink/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Binder selects how the request payload is read.
type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none"
)

// Action describes one callable: I is the tagged request struct, O the
// result. RequireAuth rejects anonymous callers before the handler runs.
type Action[I any, O any] struct {
	Method      string
	Path        string
	Binder      Binder
	RequireAuth bool
	Handler     func(c *gin.Context, in *I) (O, error)
}

// Register mounts the action on the group. The callable surface always
// answers 200 with the envelope; the taxonomy kind travels in the body.
func Register[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if a.RequireAuth && mdw.Principal(c) == nil {
			r := resp.FromError(apperr.Unauthenticated("sign in required"))
			c.JSON(http.StatusOK, r)
			return
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			r := resp.FromError(apperr.InvalidArgument(bindErr.Error()))
			c.JSON(http.StatusOK, r)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			c.JSON(http.StatusOK, resp.FromError(err))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch a.Method {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}
