package handler

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/folio/internal/admin"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	msgRecordCreated = "Record was successfully created."
	msgRecordSaved   = "Record was successfully saved."
	msgRecordDeleted = "Record was successfully deleted."
)

type dashboardCount struct {
	Meta  admin.Meta
	Count int64
}

// ShowDashboard 渲染后台主面板
func (a *API) ShowDashboard(c *gin.Context) {
	entities := a.registry.Entities()
	counts := make([]dashboardCount, 0, len(entities))
	for _, entity := range entities {
		count, err := entity.Count(c.Request.Context(), a.db)
		if err != nil {
			a.renderServerError(c, err)
			return
		}
		counts = append(counts, dashboardCount{Meta: entity.Meta(), Count: count})
	}

	a.renderHTML(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"title":  "Admin",
		"counts": counts,
	})
}

// ListRecords renders one page of an entity list with search and filters.
func (a *API) ListRecords(c *gin.Context) {
	entity, ok := a.entity(c)
	if !ok {
		return
	}

	page := parsePositiveInt(c.Query("page"), 1)
	query := admin.ListQueryFromValues(c.Request.URL.Query(), page)
	list, err := entity.List(c.Request.Context(), a.db, query)
	if err != nil {
		var verr *admin.ValidationError
		if !errors.As(err, &verr) {
			a.renderServerError(c, err)
			return
		}
		a.renderHTML(c, http.StatusBadRequest, "admin_list.html", gin.H{
			"title": entity.Meta().Plural,
			"list":  &admin.ListPage{Meta: entity.Meta(), Search: query.Search, Page: 1, TotalPages: 1},
			"error": validationSummary(verr),
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "admin_list.html", gin.H{
		"title": entity.Meta().Plural,
		"list":  list,
	})
}

// NewRecord renders an empty create form.
func (a *API) NewRecord(c *gin.Context) {
	entity, ok := a.entity(c)
	if !ok {
		return
	}
	a.renderForm(c, http.StatusOK, entity.Blank())
}

// CreateRecord stores a submitted create form.
func (a *API) CreateRecord(c *gin.Context) {
	entity, ok := a.entity(c)
	if !ok {
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		a.renderForm(c, http.StatusBadRequest, entity.Blank())
		return
	}

	form, id, err := entity.Create(c.Request.Context(), a.db, c.Request.PostForm)
	if err != nil {
		a.handleWriteError(c, form, err)
		return
	}

	zerolog.Ctx(c.Request.Context()).Info().Str("entity", entity.Meta().Name).Uint("id", id).Msg("record created")
	addFlash(c, msgRecordCreated)
	c.Redirect(http.StatusSeeOther, "/admin/"+entity.Meta().Name)
}

// EditRecord renders the edit form of a stored record.
func (a *API) EditRecord(c *gin.Context) {
	entity, id, ok := a.entityRecord(c)
	if !ok {
		return
	}

	form, err := entity.Load(c.Request.Context(), a.db, id)
	if err != nil {
		a.handleLookupError(c, err)
		return
	}
	a.renderForm(c, http.StatusOK, form)
}

// UpdateRecord saves a submitted edit form.
func (a *API) UpdateRecord(c *gin.Context) {
	entity, id, ok := a.entityRecord(c)
	if !ok {
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		a.renderServerError(c, err)
		return
	}

	form, err := entity.Update(c.Request.Context(), a.db, id, c.Request.PostForm)
	if err != nil {
		if errors.Is(err, admin.ErrRecordNotFound) {
			a.NotFound(c)
			return
		}
		a.handleWriteError(c, form, err)
		return
	}

	zerolog.Ctx(c.Request.Context()).Info().Str("entity", entity.Meta().Name).Uint("id", id).Msg("record updated")
	addFlash(c, msgRecordSaved)
	c.Redirect(http.StatusSeeOther, "/admin/"+entity.Meta().Name)
}

// DeleteRecord removes a record and its cascaded children.
func (a *API) DeleteRecord(c *gin.Context) {
	entity, id, ok := a.entityRecord(c)
	if !ok {
		return
	}

	if err := entity.Delete(c.Request.Context(), a.db, id); err != nil {
		a.handleLookupError(c, err)
		return
	}

	zerolog.Ctx(c.Request.Context()).Info().Str("entity", entity.Meta().Name).Uint("id", id).Msg("record deleted")
	addFlash(c, msgRecordDeleted)
	c.Redirect(http.StatusSeeOther, "/admin/"+entity.Meta().Name)
}

func (a *API) entity(c *gin.Context) (admin.Entity, bool) {
	entity, ok := a.registry.Lookup(c.Param("entity"))
	if !ok {
		a.NotFound(c)
		return nil, false
	}
	return entity, true
}

func (a *API) entityRecord(c *gin.Context) (admin.Entity, uint, bool) {
	entity, ok := a.entity(c)
	if !ok {
		return nil, 0, false
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.NotFound(c)
		return nil, 0, false
	}
	return entity, id, true
}

func (a *API) handleLookupError(c *gin.Context, err error) {
	if errors.Is(err, admin.ErrRecordNotFound) {
		a.NotFound(c)
		return
	}
	a.renderServerError(c, err)
}

func (a *API) handleWriteError(c *gin.Context, form *admin.FormView, err error) {
	var verr *admin.ValidationError
	if errors.As(err, &verr) && form != nil {
		a.renderForm(c, http.StatusBadRequest, form)
		return
	}
	a.renderServerError(c, err)
}

func (a *API) renderForm(c *gin.Context, status int, form *admin.FormView) {
	title := "Edit " + form.Meta.Label
	if form.IsNew() {
		title = "New " + form.Meta.Label
	}
	a.renderHTML(c, status, "admin_form.html", gin.H{
		"title": title,
		"form":  form,
	})
}

func validationSummary(verr *admin.ValidationError) string {
	if verr.Message != "" {
		return verr.Message
	}
	keys := make([]string, 0, len(verr.Fields))
	for key := range verr.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+verr.Fields[key])
	}
	return strings.Join(parts, " ")
}
