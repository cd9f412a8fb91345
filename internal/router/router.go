package router

import (
	"html/template"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/folio/internal/handler"
	"github.com/folio/internal/view"
	"github.com/folio/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const sessionName = "folio_session"

// Options carries the settings the router needs from the app config.
type Options struct {
	SecretKey     string
	SecureCookies bool
	CSRFEnabled   bool
	StaticDir     string
	Logger        zerolog.Logger
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, opts Options) *gin.Engine {
	api := handler.NewAPI(gdb, opts.StaticDir)

	r := gin.New()
	r.Use(handler.RequestLogger(opts.Logger))

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SecretKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		Secure:   opts.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(gin.CustomRecovery(api.Recover))
	r.Use(api.LoadPrincipal())

	r.SetHTMLTemplate(template.Must(web.ParseTemplates(TemplateFuncs())))

	// 静态文件服务
	r.Static(handler.StaticURL, opts.StaticDir)

	r.GET("/healthz", api.HealthCheck)
	r.NoRoute(api.NotFound)

	csrf := api.CSRFProtect(opts.CSRFEnabled)

	public := r.Group("")
	public.Use(csrf)
	{
		public.GET("/", api.ShowHome)
		public.GET("/about", api.ShowAbout)
		public.GET("/projects", api.ShowProjects)
		public.GET("/tools", api.ShowTools)
		public.GET("/articles", api.ShowArticles)
		public.GET("/articles/:slug", api.ShowArticle)
		public.POST("/articles/:slug", api.PostComment)
		public.GET("/contact", api.ShowContact)
		public.POST("/contact", api.SubmitContact)
	}

	// 后台管理路由
	adminGroup := r.Group("/admin")
	{
		adminGroup.GET("/login", api.ShowLoginPage)
		adminGroup.POST("/login", csrf, api.Login)
		adminGroup.GET("/logout", api.Logout)

		// 需要管理员权限的后台路由
		auth := adminGroup.Group("")
		auth.Use(handler.AdminRequired())
		{
			auth.GET("", api.ShowDashboard)
			auth.GET("/", api.ShowDashboard)
			auth.POST("/upload", api.UploadImage)
			auth.GET("/:entity", api.ListRecords)
			auth.GET("/:entity/new", api.NewRecord)
			auth.POST("/:entity/new", api.CreateRecord)
			auth.GET("/:entity/:id/edit", api.EditRecord)
			auth.POST("/:entity/:id/edit", api.UpdateRecord)
			auth.POST("/:entity/:id/delete", api.DeleteRecord)
		}
	}

	return r
}

// TemplateFuncs are the helpers available to every page template.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format("January 2, 2006")
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format("Jan 2, 2006 15:04")
		},
		"imageURL": imageURL,
		"icon":     view.IconSVG,
	}
}

// imageURL resolves an article or project image: absolute URLs are kept,
// anything else is served from the static tree.
func imageURL(value string) string {
	src := strings.TrimSpace(value)
	if src == "" || strings.HasPrefix(src, "http") {
		return src
	}
	return path.Join(handler.StaticURL, src)
}
