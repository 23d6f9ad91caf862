package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"cardlink/internal/apperr"
	mdw "cardlink/internal/transport/http/middleware"
	resp "cardlink/internal/transport/http/response"
	"cardlink/internal/vcard"
)

// mountWeb wires the plain HTTP surface. Unlike the callable surface it
// answers with real status codes.
func mountWeb(r *gin.Engine, d Deps) {
	r.GET("/vcf/:slug", func(c *gin.Context) {
		slug := c.Param("slug")
		card, err := d.Cards.GetPublishedBySlug(c.Request.Context(), slug)
		if err != nil {
			writeWebError(c, err)
			return
		}
		d.Cards.RecordDownload(c.Request.Context(), card)
		mdw.CountVCFDownload()

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", card.Slug+".vcf"))
		c.Data(http.StatusOK, "text/vcard; charset=utf-8", []byte(vcard.Render(card)))
	})

	type reserveIn struct {
		FullName string `json:"fullName" binding:"required"`
		UID      string `json:"uid" binding:"required"`
	}
	r.POST("/reserve-slug", func(c *gin.Context) {
		var in reserveIn
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slug, err := d.Slugs.Allocate(c.Request.Context(), in.FullName)
		if err != nil {
			writeWebError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"slug": slug})
	})

	type quotaIn struct {
		UID string `json:"uid" binding:"required"`
	}
	r.POST("/check-quota", func(c *gin.Context) {
		var in quotaIn
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		st, err := d.Quota.Check(c.Request.Context(), in.UID)
		if err != nil {
			writeWebError(c, err)
			return
		}
		if !st.Allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "QUOTA_EXCEEDED",
				"current": st.Current,
				"limit":   st.Limit,
			})
			return
		}
		c.JSON(http.StatusOK, st)
	})
}

func writeWebError(c *gin.Context, err error) {
	ae, ok := apperr.As(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(resp.StatusOf(ae.Kind), gin.H{"error": ae.Msg})
}
