// Package query maps list parameters to the wire query string of the tasks endpoint.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Direction is the sort direction on the createdAt key.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

const (
	// DefaultPage is the page used when none is given.
	DefaultPage = 1

	// DefaultPageSize is the page size used when none is given.
	DefaultPageSize = 10

	// SortField is the only sortable key.
	SortField = "createdAt"
)

// Wire parameter names.
const (
	ParamPage    = "_page"
	ParamPerPage = "_per_page"
	ParamSort    = "_sort"
	ParamUserID  = "userId"
	ParamTitle   = "title"
)

// Filter narrows a task listing.
type Filter struct {
	// UserID is always sent, even when empty. The server treats an empty
	// userId as matching nothing.
	UserID string
	// Title is a substring match, sent only when non-empty.
	Title string
}

// Query describes one page request.
type Query struct {
	Page     int
	PageSize int
	Filter   Filter
	Sort     Direction
}

// Normalized returns q with defaults applied to zero or invalid fields.
func (q Query) Normalized() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.Sort != Desc {
		q.Sort = Asc
	}
	return q
}

// Encode returns the query string, without the leading '?'.
// Parameters are emitted in a fixed order so equal queries encode equally.
func (q Query) Encode() string {
	q = q.Normalized()

	var b strings.Builder
	writeParam(&b, ParamPage, strconv.Itoa(q.Page))
	writeParam(&b, ParamPerPage, strconv.Itoa(q.PageSize))
	writeParam(&b, ParamSort, sortParam(q.Sort))
	writeParam(&b, ParamUserID, q.Filter.UserID)
	if q.Filter.Title != "" {
		writeParam(&b, ParamTitle, q.Filter.Title)
	}
	return b.String()
}

func (q Query) String() string { return q.Encode() }

func writeParam(b *strings.Builder, key, value string) {
	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
}

// sortParam encodes desc as a negated field name and asc as the bare field.
func sortParam(d Direction) string {
	if d == Desc {
		return "-" + SortField
	}
	return SortField
}

// Parse decodes a query string produced by Encode.
func Parse(raw string) (Query, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return Query{}, fmt.Errorf("invalid query: %w", err)
	}

	var q Query
	if v := values.Get(ParamPage); v != "" {
		if q.Page, err = strconv.Atoi(v); err != nil {
			return Query{}, fmt.Errorf("invalid %s: %s", ParamPage, v)
		}
	}
	if v := values.Get(ParamPerPage); v != "" {
		if q.PageSize, err = strconv.Atoi(v); err != nil {
			return Query{}, fmt.Errorf("invalid %s: %s", ParamPerPage, v)
		}
	}
	switch v := values.Get(ParamSort); v {
	case "", SortField:
		q.Sort = Asc
	case "-" + SortField:
		q.Sort = Desc
	default:
		return Query{}, fmt.Errorf("invalid %s: %s", ParamSort, v)
	}
	q.Filter.UserID = values.Get(ParamUserID)
	q.Filter.Title = values.Get(ParamTitle)
	return q.Normalized(), nil
}

// ParseDirection parses "asc" or "desc" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("invalid sort direction: %s", s)
}

// Override is a partial query. Nil fields keep the base value.
type Override struct {
	Page     *int
	PageSize *int
	Title    *string
	Sort     *Direction
}

// Apply merges o onto base and returns the result. base is not modified.
func (o Override) Apply(base Query) Query {
	q := base
	if o.Page != nil {
		q.Page = *o.Page
	}
	if o.PageSize != nil {
		q.PageSize = *o.PageSize
	}
	if o.Title != nil {
		q.Filter.Title = *o.Title
	}
	if o.Sort != nil {
		q.Sort = *o.Sort
	}
	return q.Normalized()
}

// Ptr returns a pointer to v, for filling Override fields.
func Ptr[T any](v T) *T { return &v }
