package jsonserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"taskboard/internal/service"
)

// totalCountHeader is sent by servers that paginate bare arrays.
const totalCountHeader = "X-Total-Count"

// envelope is the paginated shape returned for _page/_per_page requests.
type envelope[T any] struct {
	Data  []T  `json:"data"`
	First int  `json:"first"`
	Prev  *int `json:"prev"`
	Next  *int `json:"next"`
	Last  int  `json:"last"`
	Pages int  `json:"pages"`
	Items int  `json:"items"`
}

// decodePage builds a ResultPage from either a pagination envelope or a bare
// array. The page index is always the requested one.
func decodePage[T any](body []byte, header http.Header, page, pageSize int) (service.ResultPage[T], error) {
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return service.ResultPage[T]{}, err
		}
		total := len(items)
		if v := header.Get(totalCountHeader); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				total = n
			}
		}
		return derivePage(items, page, pageSize, total), nil
	}

	var env envelope[T]
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return service.ResultPage[T]{}, err
		}
	}
	data := env.Data
	if data == nil {
		data = []T{}
	}
	return service.ResultPage[T]{
		Data:  data,
		Page:  page,
		Pages: env.Pages,
		Items: env.Items,
		First: env.First,
		Last:  env.Last,
		Next:  env.Next,
		Prev:  env.Prev,
	}, nil
}

// derivePage computes pagination metadata for a bare array response.
func derivePage[T any](items []T, page, pageSize, total int) service.ResultPage[T] {
	if items == nil {
		items = []T{}
	}
	pages := 1
	if pageSize > 0 && total > 0 {
		pages = (total + pageSize - 1) / pageSize
	}

	p := service.ResultPage[T]{
		Data:  items,
		Page:  page,
		Pages: pages,
		Items: total,
		First: 1,
		Last:  pages,
	}
	if page < pages {
		next := page + 1
		p.Next = &next
	}
	if page > 1 {
		prev := page - 1
		if prev > pages {
			prev = pages
		}
		p.Prev = &prev
	}
	return p
}
