package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/folio/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	msgLoginRequired  = "Email and password are required."
	msgBadCredentials = "Invalid credentials"
	msgLoggedOut      = "You have been logged out successfully."
)

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	if currentPrincipal(c).CanAccessAdmin() {
		c.Redirect(http.StatusFound, "/admin/")
		return
	}
	a.renderLogin(c, http.StatusOK, "", "")
}

// Login checks the submitted credentials and stores the principal in the
// session. Failures re-render the form without touching the session.
func (a *API) Login(c *gin.Context) {
	if currentPrincipal(c).CanAccessAdmin() {
		c.Redirect(http.StatusFound, "/admin/")
		return
	}

	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	if email == "" || password == "" {
		a.renderLogin(c, http.StatusBadRequest, email, msgLoginRequired)
		return
	}

	logger := zerolog.Ctx(c.Request.Context())
	principal, err := a.auth.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logger.Info().Str("email", email).Msg("login rejected")
			a.renderLogin(c, http.StatusUnauthorized, email, msgBadCredentials)
			return
		}
		a.renderServerError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(principalSessionKey, a.auth.Serialize(principal))
	if err := session.Save(); err != nil {
		a.renderServerError(c, err)
		return
	}

	logger.Info().Uint("user_id", principal.UserID).Bool("admin", principal.IsAdmin).Msg("login succeeded")
	c.Redirect(http.StatusFound, "/admin/")
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	if !currentPrincipal(c).Authenticated() {
		c.Redirect(http.StatusFound, "/admin/login")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.AddFlash(msgLoggedOut)
	if err := session.Save(); err != nil {
		a.renderServerError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/login")
}

func (a *API) renderLogin(c *gin.Context, status int, email, message string) {
	a.renderHTML(c, status, "login.html", gin.H{
		"title": "Admin Login",
		"email": email,
		"error": message,
	})
}
