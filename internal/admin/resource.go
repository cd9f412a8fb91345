// Package admin implements the generic record manager behind /admin.
//
// Every entity is described by a Resource: the columns to list, the fields to
// search and filter on, the editable form fields and the hooks that run before
// a write. One routine handles listing, creating, editing and deleting for all
// of them.
package admin

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PageSize is the number of rows shown per list page.
const PageSize = 50

var ErrRecordNotFound = errors.New("record not found")

// FieldKind selects the input widget of a form field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindDate     FieldKind = "date"
	KindNumber   FieldKind = "number"
	KindCheckbox FieldKind = "checkbox"
	KindPassword FieldKind = "password"
	KindEmail    FieldKind = "email"
)

// FilterKind selects how a filter value is matched.
type FilterKind string

const (
	FilterExact  FilterKind = "exact"
	FilterDate   FilterKind = "date"
	FilterBool   FilterKind = "bool"
	FilterNumber FilterKind = "number"
)

// Column is one list column.
type Column[T any] struct {
	Label  string
	Render func(record *T) template.HTML
}

// Field is one editable form field. Set receives the raw submitted value.
type Field[T any] struct {
	Name     string
	Label    string
	Kind     FieldKind
	Help     string
	Required bool
	Get      func(record *T) string
	Set      func(record *T, value string) error
}

// Filter narrows the list by one column. The query parameter is flt_<Name>.
type Filter struct {
	Name   string
	Label  string
	Column string
	Kind   FilterKind
}

// Hook runs inside the write transaction before the record is persisted.
type Hook[T any] func(record *T, created bool) error

// Resource is the configuration record for one managed entity.
type Resource[T any] struct {
	Name          string
	Label         string
	Plural        string
	Columns       []Column[T]
	Searchable    []string
	Filters       []Filter
	Form          []Field[T]
	Order         string
	Preload       []string
	CascadeDelete []string
	Unique        []string
	BeforeSave    []Hook[T]
	Validate      func(tx *gorm.DB, record *T, created bool) error
	ID            func(record *T) uint
}

// Meta returns the naming information of the resource.
func (r *Resource[T]) Meta() Meta {
	return Meta{Name: r.Name, Label: r.Label, Plural: r.Plural}
}

// Count returns the number of stored records.
func (r *Resource[T]) Count(ctx context.Context, gdb *gorm.DB) (int64, error) {
	var count int64
	err := gdb.WithContext(ctx).Model(new(T)).Count(&count).Error
	return count, err
}

// List returns one page of records matching the search and filters.
func (r *Resource[T]) List(ctx context.Context, gdb *gorm.DB, query ListQuery) (*ListPage, error) {
	base := gdb.WithContext(ctx).Model(new(T))
	base = r.applySearch(base, query.Search)

	filters := make([]FilterView, 0, len(r.Filters))
	for _, filter := range r.Filters {
		raw := strings.TrimSpace(query.Filters[filter.Name])
		filters = append(filters, FilterView{Name: filter.Name, Label: filter.Label, Kind: string(filter.Kind), Value: raw})
		if raw == "" {
			continue
		}
		next, err := applyFilter(base, filter, raw)
		if err != nil {
			return nil, err
		}
		base = next
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page := max(query.Page, 1)
	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages == 0 {
		totalPages = 1
	}

	find := base
	for _, association := range r.Preload {
		find = find.Preload(association)
	}
	if r.Order != "" {
		find = find.Order(r.Order)
	}

	var records []T
	if err := find.Limit(PageSize).Offset((page - 1) * PageSize).Find(&records).Error; err != nil {
		return nil, err
	}

	result := &ListPage{
		Meta:       r.Meta(),
		Search:     query.Search,
		Searchable: len(r.Searchable) > 0,
		Filters:    filters,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}
	for _, column := range r.Columns {
		result.Columns = append(result.Columns, column.Label)
	}
	for i := range records {
		record := &records[i]
		row := Row{ID: r.ID(record)}
		for _, column := range r.Columns {
			row.Cells = append(row.Cells, column.Render(record))
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

// Blank returns an empty form for a new record.
func (r *Resource[T]) Blank() *FormView {
	return r.formFromRecord(new(T), 0)
}

// Load returns the edit form of a stored record.
func (r *Resource[T]) Load(ctx context.Context, gdb *gorm.DB, id uint) (*FormView, error) {
	record, err := r.find(ctx, gdb, id)
	if err != nil {
		return nil, err
	}
	return r.formFromRecord(record, id), nil
}

// Create binds the submitted form onto a new record and stores it.
// A rejected write returns the form to re-render and a *ValidationError.
func (r *Resource[T]) Create(ctx context.Context, gdb *gorm.DB, form url.Values) (*FormView, uint, error) {
	record := new(T)
	if err := r.save(ctx, gdb, record, form, true); err != nil {
		return r.formFromSubmission(form, 0, err), 0, err
	}
	return r.formFromRecord(record, r.ID(record)), r.ID(record), nil
}

// Update binds the submitted form onto the stored record and saves it.
func (r *Resource[T]) Update(ctx context.Context, gdb *gorm.DB, id uint, form url.Values) (*FormView, error) {
	record, err := r.find(ctx, gdb, id)
	if err != nil {
		return nil, err
	}
	if err := r.save(ctx, gdb, record, form, false); err != nil {
		return r.formFromSubmission(form, id, err), err
	}
	return r.formFromRecord(record, id), nil
}

// Delete removes the record together with its cascaded associations.
func (r *Resource[T]) Delete(ctx context.Context, gdb *gorm.DB, id uint) error {
	record, err := r.find(ctx, gdb, id)
	if err != nil {
		return err
	}
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(r.CascadeDelete) > 0 {
			tx = tx.Select(r.CascadeDelete)
		}
		return tx.Delete(record).Error
	})
}

func (r *Resource[T]) find(ctx context.Context, gdb *gorm.DB, id uint) (*T, error) {
	record := new(T)
	if err := gdb.WithContext(ctx).First(record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

func (r *Resource[T]) save(ctx context.Context, gdb *gorm.DB, record *T, form url.Values, created bool) error {
	if fieldErrs := r.bind(record, form); len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}

	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, hook := range r.BeforeSave {
			if err := hook(record, created); err != nil {
				return err
			}
		}
		if r.Validate != nil {
			if err := r.Validate(tx, record, created); err != nil {
				return err
			}
		}
		if created {
			return tx.Omit(clause.Associations).Create(record).Error
		}
		return tx.Omit(clause.Associations).Save(record).Error
	})
	return r.translate(err)
}

func (r *Resource[T]) bind(record *T, form url.Values) map[string]string {
	fieldErrs := make(map[string]string)
	for _, field := range r.Form {
		if field.Set == nil {
			continue
		}
		value := form.Get(field.Name)
		if field.Kind == KindCheckbox {
			value = strconv.FormatBool(value != "" && value != "false")
		}
		if err := field.Set(record, value); err != nil {
			fieldErrs[field.Name] = err.Error()
		}
	}
	return fieldErrs
}

// translate maps persistence and validation failures onto form errors.
func (r *Resource[T]) translate(err error) error {
	if err == nil {
		return nil
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
		for key, fieldErr := range fieldErrs {
			out.Fields[key] = fieldErr.Error()
		}
		return out
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		out := &ValidationError{Message: "A record with the same unique value already exists.", Err: ErrDuplicate}
		if len(r.Unique) == 1 {
			out.Fields = map[string]string{r.Unique[0]: "This value is already taken."}
		}
		return out
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &ValidationError{Message: "A referenced record does not exist."}
	}

	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return &ValidationError{Fields: map[string]string{fieldErr.Field: fieldErr.Message}}
	}
	return err
}

func (r *Resource[T]) applySearch(query *gorm.DB, search string) *gorm.DB {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" || len(r.Searchable) == 0 {
		return query
	}

	clauses := make([]string, 0, len(r.Searchable))
	args := make([]any, 0, len(r.Searchable))
	for _, column := range r.Searchable {
		clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", column))
		args = append(args, "%"+term+"%")
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func applyFilter(query *gorm.DB, filter Filter, raw string) (*gorm.DB, error) {
	switch filter.Kind {
	case FilterDate:
		day, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{filter.Name: "Use the YYYY-MM-DD format."}}
		}
		return query.Where(fmt.Sprintf("%s >= ? AND %s < ?", filter.Column, filter.Column), day, day.AddDate(0, 0, 1)), nil
	case FilterBool:
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{filter.Name: "Use true or false."}}
		}
		return query.Where(fmt.Sprintf("%s = ?", filter.Column), value), nil
	case FilterNumber:
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{filter.Name: "Use a whole number."}}
		}
		return query.Where(fmt.Sprintf("%s = ?", filter.Column), value), nil
	default:
		return query.Where(fmt.Sprintf("%s = ?", filter.Column), raw), nil
	}
}

func (r *Resource[T]) formFromRecord(record *T, id uint) *FormView {
	view := &FormView{Meta: r.Meta(), ID: id}
	for _, field := range r.Form {
		value := ""
		if field.Get != nil && field.Kind != KindPassword {
			value = field.Get(record)
		}
		view.Fields = append(view.Fields, r.fieldView(field, value))
	}
	return view
}

func (r *Resource[T]) formFromSubmission(form url.Values, id uint, err error) *FormView {
	view := &FormView{Meta: r.Meta(), ID: id}
	var verr *ValidationError
	if errors.As(err, &verr) {
		view.Error = verr.Message
	}
	for _, field := range r.Form {
		value := form.Get(field.Name)
		switch field.Kind {
		case KindPassword:
			value = ""
		case KindCheckbox:
			value = strconv.FormatBool(value != "" && value != "false")
		}
		fv := r.fieldView(field, value)
		if verr != nil {
			fv.Error = verr.Fields[field.Name]
		}
		view.Fields = append(view.Fields, fv)
	}
	if verr != nil && view.Error == "" && len(verr.Fields) > 0 {
		view.Error = "Please correct the highlighted fields."
	}
	return view
}

func (r *Resource[T]) fieldView(field Field[T], value string) FieldView {
	return FieldView{
		Name:     field.Name,
		Label:    field.Label,
		Kind:     string(field.Kind),
		Help:     field.Help,
		Required: field.Required,
		Value:    value,
		Checked:  field.Kind == KindCheckbox && value == "true",
	}
}
