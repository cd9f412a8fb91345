package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/folio/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	principalSessionKey = "principal"
	csrfSessionKey      = "csrf_token"
	principalContextKey = "__principal"

	// CSRFFormField is the hidden input carrying the token on public forms.
	CSRFFormField  = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
)

// LoadPrincipal resolves the session principal once per request. Sessions
// that point at a deleted user are cleared.
func (a *API) LoadPrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(principalSessionKey).(string)
		if token == "" {
			c.Next()
			return
		}

		principal, err := a.auth.Deserialize(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(principalContextKey, principal)
		case errors.Is(err, service.ErrUnknownPrincipal):
			session.Delete(principalSessionKey)
			if saveErr := session.Save(); saveErr != nil {
				c.Error(saveErr)
			}
		default:
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("load session principal")
		}
		c.Next()
	}
}

// AdminRequired lets only administrators through; everyone else is sent
// to the login page.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentPrincipal(c).CanAccessAdmin() {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) *service.Principal {
	if value, exists := c.Get(principalContextKey); exists {
		if principal, ok := value.(*service.Principal); ok && principal != nil {
			return principal
		}
	}
	return &service.Principal{}
}

// CSRFProtect rejects unsafe requests whose token does not match the one
// stored in the session.
func (a *API) CSRFProtect(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		expected, _ := sessions.Default(c).Get(csrfSessionKey).(string)
		submitted := c.PostForm(CSRFFormField)
		if submitted == "" {
			submitted = c.GetHeader(csrfHeaderName)
		}
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) != 1 {
			zerolog.Ctx(c.Request.Context()).Warn().Str("path", c.Request.URL.Path).Msg("csrf token mismatch")
			a.renderHTML(c, http.StatusBadRequest, "error.html", gin.H{
				"title":   "Bad Request",
				"status":  http.StatusBadRequest,
				"message": "The form expired or the CSRF token is missing. Reload the page and try again.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func ensureCSRFToken(session sessions.Session) string {
	if token, ok := session.Get(csrfSessionKey).(string); ok && token != "" {
		return token
	}
	token := uuid.NewString()
	session.Set(csrfSessionKey, token)
	return token
}

// addFlash queues a message for the next rendered page.
func addFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("save flash")
	}
}
