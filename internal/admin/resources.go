package admin

import (
	"errors"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/folio/internal/db"
	"github.com/folio/internal/service"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"
)

// NewBlogRegistry wires the article, comment and user resources.
// staticURL is the URL prefix used to resolve relative image paths.
func NewBlogRegistry(staticURL string) *Registry {
	return NewRegistry(
		ArticleResource(staticURL),
		CommentResource(),
		UserResource(),
	)
}

// ArticleResource configures article management. The comments relationship
// is not part of the form; comments arrive through the public detail page.
func ArticleResource(staticURL string) *Resource[db.Article] {
	return &Resource[db.Article]{
		Name:   "article",
		Label:  "Article",
		Plural: "Articles",
		Columns: []Column[db.Article]{
			{Label: "Title", Render: func(a *db.Article) template.HTML { return Text(a.Title) }},
			{Label: "Tag", Render: func(a *db.Article) template.HTML { return Text(a.Tag) }},
			{Label: "Published On", Render: func(a *db.Article) template.HTML { return Text(formatDate(a.PublishedOn)) }},
			{Label: "Author", Render: func(a *db.Article) template.HTML { return Text(a.Author) }},
			{Label: "Slug", Render: func(a *db.Article) template.HTML { return Text(a.Slug) }},
			{Label: "Image", Render: func(a *db.Article) template.HTML { return ImagePreview(staticURL, a.Image) }},
		},
		Searchable: []string{"title", "summary", "content", "slug", "tag", "author"},
		Filters: []Filter{
			{Name: "tag", Label: "Tag", Column: "tag", Kind: FilterExact},
			{Name: "published_on", Label: "Published On", Column: "published_on", Kind: FilterDate},
		},
		Form: []Field[db.Article]{
			{
				Name: "title", Label: "Title", Kind: KindText, Required: true,
				Get: func(a *db.Article) string { return a.Title },
				Set: func(a *db.Article, v string) error { a.Title = strings.TrimSpace(v); return nil },
			},
			{
				Name: "slug", Label: "Slug", Kind: KindText,
				Help: "Leave blank to derive it from the title.",
				Get:  func(a *db.Article) string { return a.Slug },
				Set:  func(a *db.Article, v string) error { a.Slug = strings.TrimSpace(v); return nil },
			},
			{
				Name: "tag", Label: "Tag", Kind: KindText,
				Get: func(a *db.Article) string { return a.Tag },
				Set: func(a *db.Article, v string) error { a.Tag = strings.TrimSpace(v); return nil },
			},
			{
				Name: "summary", Label: "Summary", Kind: KindTextarea,
				Get: func(a *db.Article) string { return a.Summary },
				Set: func(a *db.Article, v string) error { a.Summary = strings.TrimSpace(v); return nil },
			},
			{
				Name: "image", Label: "Image", Kind: KindText,
				Help: "Absolute URL or a path under /static, e.g. uploads/cover.png.",
				Get:  func(a *db.Article) string { return a.Image },
				Set:  func(a *db.Article, v string) error { a.Image = strings.TrimSpace(v); return nil },
			},
			{
				Name: "author", Label: "Author", Kind: KindText,
				Help: "Defaults to " + db.DefaultAuthor + ".",
				Get:  func(a *db.Article) string { return a.Author },
				Set:  func(a *db.Article, v string) error { a.Author = strings.TrimSpace(v); return nil },
			},
			{
				Name: "published_on", Label: "Published On", Kind: KindDate,
				Help: "Defaults to today.",
				Get:  func(a *db.Article) string { return formatDate(a.PublishedOn) },
				Set:  setPublishedOn,
			},
			{
				Name: "content", Label: "Content", Kind: KindTextarea,
				Help: "Markdown or HTML.",
				Get:  func(a *db.Article) string { return a.Content },
				Set:  func(a *db.Article, v string) error { a.Content = v; return nil },
			},
		},
		Order:         "published_on desc, id desc",
		CascadeDelete: []string{"Comments"},
		Unique:        []string{"slug"},
		BeforeSave: []Hook[db.Article]{
			func(a *db.Article, _ bool) error {
				service.DeriveArticleSlug(a)
				return nil
			},
		},
		Validate: func(_ *gorm.DB, a *db.Article, _ bool) error {
			return validation.Errors{
				"title": validation.Validate(a.Title,
					validation.Required.Error("Title is required."),
					validation.RuneLength(0, 200),
				),
				"slug": validation.Validate(a.Slug,
					validation.Required.Error("Slug is required; enter one or a title to derive it from."),
					validation.RuneLength(0, 200),
				),
				"tag":    validation.Validate(a.Tag, validation.RuneLength(0, 50)),
				"image":  validation.Validate(a.Image, validation.RuneLength(0, 200)),
				"author": validation.Validate(a.Author, validation.RuneLength(0, 100)),
			}.Filter()
		},
		ID: func(a *db.Article) uint { return a.ID },
	}
}

func setPublishedOn(a *db.Article, v string) error {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		// blank keeps the stored date; new records default to today
		return nil
	}
	day, err := time.Parse(dateLayout, trimmed)
	if err != nil {
		return errors.New("Use the YYYY-MM-DD format.")
	}
	a.PublishedOn = db.TruncateDay(day)
	return nil
}

// CommentResource configures comment moderation.
func CommentResource() *Resource[db.Comment] {
	return &Resource[db.Comment]{
		Name:   "comment",
		Label:  "Comment",
		Plural: "Comments",
		Columns: []Column[db.Comment]{
			{Label: "Article", Render: func(c *db.Comment) template.HTML {
				if c.Article != nil {
					return Text(c.Article.Title)
				}
				return Text("#" + strconv.FormatUint(uint64(c.ArticleID), 10))
			}},
			{Label: "Name", Render: func(c *db.Comment) template.HTML { return Text(c.Name) }},
			{Label: "Content", Render: func(c *db.Comment) template.HTML { return Text(Truncate(c.Content, 80)) }},
			{Label: "Created At", Render: func(c *db.Comment) template.HTML { return Text(formatDateTime(c.CreatedAt)) }},
		},
		Searchable: []string{"name", "content"},
		Filters: []Filter{
			{Name: "article_id", Label: "Article ID", Column: "article_id", Kind: FilterNumber},
		},
		Form: []Field[db.Comment]{
			{
				Name: "article_id", Label: "Article ID", Kind: KindNumber, Required: true,
				Get: func(c *db.Comment) string {
					if c.ArticleID == 0 {
						return ""
					}
					return strconv.FormatUint(uint64(c.ArticleID), 10)
				},
				Set: func(c *db.Comment, v string) error {
					id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
					if err != nil || id == 0 {
						return errors.New("Choose an existing article id.")
					}
					c.ArticleID = uint(id)
					return nil
				},
			},
			{
				Name: "name", Label: "Name", Kind: KindText, Required: true,
				Get: func(c *db.Comment) string { return c.Name },
				Set: func(c *db.Comment, v string) error { c.Name = strings.TrimSpace(v); return nil },
			},
			{
				Name: "content", Label: "Content", Kind: KindTextarea, Required: true,
				Get: func(c *db.Comment) string { return c.Content },
				Set: func(c *db.Comment, v string) error { c.Content = strings.TrimSpace(v); return nil },
			},
		},
		Order:   "created_at desc, id desc",
		Preload: []string{"Article"},
		Validate: func(tx *gorm.DB, c *db.Comment, _ bool) error {
			errs := validation.Errors{
				"name": validation.Validate(c.Name,
					validation.Required.Error("Name is required."),
					validation.RuneLength(0, 100),
				),
				"content": validation.Validate(c.Content, validation.Required.Error("Content is required.")),
			}
			var exists int64
			if err := tx.Model(&db.Article{}).Where("id = ?", c.ArticleID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				errs["article_id"] = errors.New("Choose an existing article id.")
			}
			return errs.Filter()
		},
		ID: func(c *db.Comment) uint { return c.ID },
	}
}

// UserResource configures user management. The password hash is never
// rendered; a non-empty password field replaces it.
func UserResource() *Resource[db.User] {
	return &Resource[db.User]{
		Name:   "user",
		Label:  "User",
		Plural: "Users",
		Columns: []Column[db.User]{
			{Label: "Email", Render: func(u *db.User) template.HTML { return Text(u.Email) }},
			{Label: "Admin", Render: func(u *db.User) template.HTML { return YesNo(u.IsAdmin) }},
			{Label: "Created At", Render: func(u *db.User) template.HTML { return Text(formatDateTime(u.CreatedAt)) }},
		},
		Searchable: []string{"email"},
		Filters: []Filter{
			{Name: "is_admin", Label: "Admin", Column: "is_admin", Kind: FilterBool},
		},
		Form: []Field[db.User]{
			{
				Name: "email", Label: "Email", Kind: KindEmail, Required: true,
				Get: func(u *db.User) string { return u.Email },
				Set: func(u *db.User, v string) error { u.Email = db.NormalizeEmail(v); return nil },
			},
			{
				Name: "is_admin", Label: "Administrator", Kind: KindCheckbox,
				Get: func(u *db.User) string { return strconv.FormatBool(u.IsAdmin) },
				Set: func(u *db.User, v string) error { u.IsAdmin = v == "true"; return nil },
			},
			{
				Name: "password", Label: "Password", Kind: KindPassword,
				Help: "Leave blank to keep the current password.",
				Set: func(u *db.User, v string) error {
					if v == "" {
						return nil
					}
					return u.SetPassword(v)
				},
			},
		},
		Order:  "id asc",
		Unique: []string{"email"},
		Validate: func(_ *gorm.DB, u *db.User, created bool) error {
			errs := validation.Errors{
				"email": validation.Validate(u.Email,
					validation.Required.Error("Email is required."),
					validation.RuneLength(0, 255),
					is.EmailFormat.Error("Enter a valid email address."),
				),
			}
			if created && u.PasswordHash == "" {
				errs["password"] = errors.New("Password is required for new users.")
			}
			return errs.Filter()
		},
		ID: func(u *db.User) uint { return u.ID },
	}
}
