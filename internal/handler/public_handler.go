package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/folio/internal/db"
	"github.com/folio/internal/service"
	"github.com/folio/internal/view"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

const msgContactSent = "Thank you! Your message has been sent."

// ShowHome renders the landing page with a random selection of articles.
func (a *API) ShowHome(c *gin.Context) {
	featured, err := a.articles.Featured(c.Request.Context(), service.FeaturedLimit)
	if err != nil {
		a.renderServerError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title":    "Home",
		"featured": featured,
	})
}

// ShowArticles lists every article, newest first.
func (a *API) ShowArticles(c *gin.Context) {
	articles, err := a.articles.List(c.Request.Context())
	if err != nil {
		a.renderServerError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "articles.html", gin.H{
		"title":    "Articles",
		"articles": articles,
	})
}

// ShowArticle renders one article with its comments.
func (a *API) ShowArticle(c *gin.Context) {
	article, ok := a.loadArticle(c)
	if !ok {
		return
	}
	a.renderArticle(c, http.StatusOK, article, nil, service.CommentInput{})
}

// PostComment stores a reader comment and redirects back to the article.
// Invalid input re-renders the page with the field errors.
func (a *API) PostComment(c *gin.Context) {
	article, ok := a.loadArticle(c)
	if !ok {
		return
	}

	input := service.CommentInput{
		Name:    c.PostForm("name"),
		Content: c.PostForm("content"),
	}
	comment, err := a.comments.Create(c.Request.Context(), article.ID, input)
	if err != nil {
		var fieldErrs validation.Errors
		switch {
		case errors.As(err, &fieldErrs):
			a.renderArticle(c, http.StatusBadRequest, article, fieldMessages(fieldErrs), input)
		case errors.Is(err, service.ErrArticleNotFound):
			a.NotFound(c)
		default:
			a.renderServerError(c, err)
		}
		return
	}

	zerolog.Ctx(c.Request.Context()).Info().
		Uint("article_id", article.ID).
		Uint("comment_id", comment.ID).
		Msg("comment posted")
	c.Redirect(http.StatusSeeOther, "/articles/"+article.Slug)
}

func (a *API) loadArticle(c *gin.Context) (*db.Article, bool) {
	article, err := a.articles.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			a.NotFound(c)
		} else {
			a.renderServerError(c, err)
		}
		return nil, false
	}
	return article, true
}

func (a *API) renderArticle(c *gin.Context, status int, article *db.Article, errs map[string]string, input service.CommentInput) {
	comments, err := a.comments.ListForArticle(c.Request.Context(), article.ID)
	if err != nil {
		a.renderServerError(c, err)
		return
	}

	content, err := renderMarkdown(article.Content)
	if err != nil {
		a.renderServerError(c, err)
		return
	}

	a.renderHTML(c, status, "article_detail.html", gin.H{
		"title":    article.Title,
		"article":  article,
		"content":  content,
		"comments": comments,
		"errors":   errs,
		"form":     input,
	})
}

// ShowAbout renders the about page.
func (a *API) ShowAbout(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title": "About",
		"links": view.ContactLinks(),
	})
}

// ShowProjects renders the fixed project list.
func (a *API) ShowProjects(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "projects.html", gin.H{
		"title":    "Projects",
		"projects": view.Projects(),
	})
}

// ShowTools renders the tools page.
func (a *API) ShowTools(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "tools.html", gin.H{
		"title": "Tools",
		"tools": view.Tools(),
	})
}

// ShowContact renders the contact form.
func (a *API) ShowContact(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "contact.html", gin.H{
		"title": "Contact",
		"links": view.ContactLinks(),
	})
}

// SubmitContact logs the message; nothing is stored or sent.
func (a *API) SubmitContact(c *gin.Context) {
	a.contact.Submit(c.Request.Context(), service.ContactMessage{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Message: c.PostForm("message"),
	})
	addFlash(c, msgContactSent)
	c.Redirect(http.StatusSeeOther, "/contact")
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}

func fieldMessages(errs validation.Errors) map[string]string {
	messages := make(map[string]string, len(errs))
	for field, err := range errs {
		messages[field] = strings.TrimSpace(err.Error())
	}
	return messages
}
