// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskboard/internal/query"
	"taskboard/internal/service"
)

const (
	// Separator is the rule printed around list headers.
	Separator = "------------"
)

// FormatHeader prints a section header.
func FormatHeader(w io.Writer, title string) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, Separator)
}

// FormatUser formats a user line.
// Format: "{N:>4}  {EMAIL}  {ID}\n"
func FormatUser(w io.Writer, num int, user service.User) {
	fmt.Fprintf(w, "%4d  %s  %s\n", num, normalize(user.Email), user.ID)
}

// FormatUsers prints all users, or "no users" when there are none.
func FormatUsers(w io.Writer, users []service.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "no users")
		return
	}
	for i, u := range users {
		FormatUser(w, i+1, u)
	}
}

// FormatTask formats a task line. num is the position across pages.
// Format: "{N:>4}  [x] {TITLE}\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	mark := " "
	if task.Done {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s\n", num, mark, normalize(task.Title))
}

// FormatTaskPage prints a page of tasks followed by a pagination footer.
func FormatTaskPage(w io.Writer, q query.Query, page service.ResultPage[service.Task]) {
	if len(page.Data) == 0 {
		fmt.Fprintln(w, "no tasks found")
	}
	start := (page.Page-1)*q.PageSize + 1
	for i, t := range page.Data {
		FormatTask(w, start+i, t)
	}
	FormatFooter(w, q, page)
}

// FormatFooter prints page position, total, sort and filter.
// Format: "page 2/4 · 31 tasks · sort createdAt desc · search "milk" · prev 1 · next 3"
func FormatFooter(w io.Writer, q query.Query, page service.ResultPage[service.Task]) {
	parts := []string{
		fmt.Sprintf("page %d/%d", page.Page, max(page.Pages, 1)),
		fmt.Sprintf("%d tasks", page.Items),
		fmt.Sprintf("sort %s %s", query.SortField, q.Sort),
	}
	if q.Filter.Title != "" {
		parts = append(parts, fmt.Sprintf("search %q", q.Filter.Title))
	}
	if page.Prev != nil {
		parts = append(parts, fmt.Sprintf("prev %d", *page.Prev))
	}
	if page.Next != nil {
		parts = append(parts, fmt.Sprintf("next %d", *page.Next))
	}
	fmt.Fprintln(w, strings.Join(parts, " · "))
}

// FormatFallback prints the page-level message for a failed list load.
func FormatFallback(w io.Writer, err error) {
	msg := "An unknown error occurred."
	if err != nil {
		msg = err.Error()
	}
	fmt.Fprintf(w, "Something went wrong: %s\n", msg)
}

// normalize replaces newlines and marks empty values.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if strings.TrimSpace(s) == "" {
		return "(untitled)"
	}
	return s
}
