package admin

import (
	"context"
	"errors"
	"html/template"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Meta names an entity for routing and display.
type Meta struct {
	Name   string
	Label  string
	Plural string
}

// Entity is the type-erased view of a Resource used by the HTTP layer.
type Entity interface {
	Meta() Meta
	Count(ctx context.Context, gdb *gorm.DB) (int64, error)
	List(ctx context.Context, gdb *gorm.DB, query ListQuery) (*ListPage, error)
	Blank() *FormView
	Load(ctx context.Context, gdb *gorm.DB, id uint) (*FormView, error)
	Create(ctx context.Context, gdb *gorm.DB, form url.Values) (*FormView, uint, error)
	Update(ctx context.Context, gdb *gorm.DB, id uint, form url.Values) (*FormView, error)
	Delete(ctx context.Context, gdb *gorm.DB, id uint) error
}

// ListQuery carries the search term, filters and page of a list request.
type ListQuery struct {
	Search  string
	Filters map[string]string
	Page    int
}

// ListQueryFromValues reads q, page and flt_* parameters.
func ListQueryFromValues(values url.Values, page int) ListQuery {
	query := ListQuery{
		Search:  strings.TrimSpace(values.Get("q")),
		Filters: make(map[string]string),
		Page:    page,
	}
	for key := range values {
		if name, ok := strings.CutPrefix(key, "flt_"); ok {
			query.Filters[name] = values.Get(key)
		}
	}
	return query
}

// ListPage is one rendered page of a record list.
type ListPage struct {
	Meta       Meta
	Columns    []string
	Rows       []Row
	Search     string
	Searchable bool
	Filters    []FilterView
	Total      int64
	Page       int
	TotalPages int
}

// HasPrev reports whether an earlier page exists.
func (p *ListPage) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a later page exists.
func (p *ListPage) HasNext() bool {
	return p.Page < p.TotalPages
}

// PageURL links to another page of the same list, keeping search and filters.
func (p *ListPage) PageURL(page int) string {
	values := url.Values{}
	if p.Search != "" {
		values.Set("q", p.Search)
	}
	for _, filter := range p.Filters {
		if filter.Value != "" {
			values.Set("flt_"+filter.Name, filter.Value)
		}
	}
	values.Set("page", strconv.Itoa(page))
	return "/admin/" + p.Meta.Name + "?" + values.Encode()
}

// Row is one record in a list.
type Row struct {
	ID    uint
	Cells []template.HTML
}

// FilterView is the current state of one filter input.
type FilterView struct {
	Name  string
	Label string
	Kind  string
	Value string
}

// FormView is a create or edit form ready for rendering.
type FormView struct {
	Meta   Meta
	ID     uint
	Fields []FieldView
	Error  string
}

// IsNew reports whether the form creates a record.
func (f *FormView) IsNew() bool {
	return f.ID == 0
}

// FieldView is one rendered form input.
type FieldView struct {
	Name     string
	Label    string
	Kind     string
	Help     string
	Required bool
	Value    string
	Checked  bool
	Error    string
}

// ErrDuplicate marks a write rejected by a unique index.
var ErrDuplicate = errors.New("duplicate value")

// ValidationError rejects a write with per-field and general messages.
type ValidationError struct {
	Fields  map[string]string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "invalid record: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// FieldError attributes a hook or model error to one form field.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Registry holds the managed entities in menu order.
type Registry struct {
	entities []Entity
	byName   map[string]Entity
}

// NewRegistry builds a registry from entity configurations.
func NewRegistry(entities ...Entity) *Registry {
	r := &Registry{byName: make(map[string]Entity, len(entities))}
	for _, entity := range entities {
		r.entities = append(r.entities, entity)
		r.byName[entity.Meta().Name] = entity
	}
	return r
}

// Lookup finds an entity by its URL name.
func (r *Registry) Lookup(name string) (Entity, bool) {
	entity, ok := r.byName[name]
	return entity, ok
}

// Entities returns the entities in registration order.
func (r *Registry) Entities() []Entity {
	return r.entities
}

// Metas returns the naming information of all entities, for menus.
func (r *Registry) Metas() []Meta {
	metas := make([]Meta, 0, len(r.entities))
	for _, entity := range r.entities {
		metas = append(metas, entity.Meta())
	}
	return metas
}
