package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HealthCheck 提供部署平台与监控系统使用的健康检查端点。
func (a *API) HealthCheck(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "database handle unavailable",
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "up",
	})
}

// NotFound renders the 404 page.
func (a *API) NotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "404.html", gin.H{"title": "Page Not Found"})
	c.Abort()
}

// Recover renders the 500 page for a recovered panic.
func (a *API) Recover(c *gin.Context, recovered any) {
	zerolog.Ctx(c.Request.Context()).Error().
		Interface("panic", recovered).
		Str("path", c.Request.URL.Path).
		Msg("panic recovered")
	a.renderInternalError(c)
}

func (a *API) renderServerError(c *gin.Context, err error) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.Error(err)
	a.renderInternalError(c)
}

func (a *API) renderInternalError(c *gin.Context) {
	if c.Writer.Written() {
		c.Abort()
		return
	}
	a.renderHTML(c, http.StatusInternalServerError, "500.html", gin.H{"title": "Server Error"})
	c.Abort()
}
