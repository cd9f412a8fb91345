package handler

import (
	"time"

	"github.com/folio/internal/admin"
	"github.com/folio/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	articles  *service.ArticleService
	comments  *service.CommentService
	contact   *service.ContactService
	auth      service.Authenticator
	registry  *admin.Registry
	staticDir string
}

// NewAPI constructs a handler set with shared services. staticDir is the
// directory served under /static; uploads are written below it.
func NewAPI(db *gorm.DB, staticDir string) *API {
	return &API{
		db:        db,
		articles:  service.NewArticleService(db),
		comments:  service.NewCommentService(db),
		contact:   service.NewContactService(),
		auth:      service.NewAuthService(db),
		registry:  admin.NewBlogRegistry(StaticURL),
		staticDir: staticDir,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Registry exposes the admin entities, for menus and tests.
func (a *API) Registry() *admin.Registry {
	return a.registry
}

// renderHTML adds the values every layout needs: the principal, pending
// flashes, the CSRF token and the admin menu.
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	session := sessions.Default(c)
	payload["flashes"] = session.Flashes()
	payload["csrfToken"] = ensureCSRFToken(session)
	if err := session.Save(); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("save session")
	}

	principal := currentPrincipal(c)
	payload["principal"] = principal
	if principal.CanAccessAdmin() {
		payload["adminEntities"] = a.registry.Metas()
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}

	c.HTML(status, template, payload)
}
