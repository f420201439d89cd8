package commands

import (
	"flag"
	"fmt"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/query"
)

// taskFlags are the flags shared by commands scoped to one user's tasks.
type taskFlags struct {
	userID  string
	page    int
	perPage int
	search  string
	sort    string
}

func (f *taskFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.userID, "user", "", "")
	fs.StringVar(&f.userID, "u", "", "")
	fs.IntVar(&f.page, "page", 1, "")
	fs.IntVar(&f.perPage, "per-page", 0, "")
	fs.StringVar(&f.search, "search", "", "")
	fs.StringVar(&f.sort, "sort", string(query.Asc), "")
}

// query validates the flags and builds the initial list query.
func (f *taskFlags) query(cfg *config.Config) (query.Query, error) {
	userID := strings.TrimSpace(f.userID)
	if userID == "" {
		return query.Query{}, fmt.Errorf("--user required")
	}
	if f.page < 1 {
		return query.Query{}, fmt.Errorf("invalid page number: %d", f.page)
	}
	perPage := f.perPage
	if perPage == 0 {
		perPage = cfg.PageSize
	}
	if perPage < 1 {
		return query.Query{}, fmt.Errorf("invalid page size: %d", perPage)
	}
	dir, err := query.ParseDirection(f.sort)
	if err != nil {
		return query.Query{}, err
	}
	return query.Query{
		Page:     f.page,
		PageSize: perPage,
		Sort:     dir,
		Filter:   query.Filter{UserID: userID, Title: f.search},
	}.Normalized(), nil
}
