package web

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/MinhBui2k4/CDTT/internal/pager"
)

// Table is a rendered grid of rows.
type Table struct {
	Columns []string
	Rows    []Row
	Empty   string
}

type Row struct {
	Cells   []Cell
	Actions []Action
}

// Cell is one table value. Image and Badge take precedence over Text when set.
type Cell struct {
	Text  string
	Link  string
	Image string
	Badge string
	Tone  string
}

// Action is a row or page button. Actions with Confirm set are posted from a
// small form after the browser confirm prompt.
type Action struct {
	Label   string
	URL     string
	Confirm string
	Tone    string
}

func (a Action) Post() bool { return a.Confirm != "" }

func ViewAction(url string) Action { return Action{Label: "View", URL: url} }
func EditAction(url string) Action { return Action{Label: "Edit", URL: url} }

// DeleteAction posts to url after the browser confirms.
func DeleteAction(url, what string) Action {
	return Action{Label: "Delete", URL: url, Confirm: "Delete this " + what + "?", Tone: "danger"}
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Options builds select options and marks the one equal to selected.
func Options(selected string, pairs ...string) []Option {
	opts := make([]Option, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		opts = append(opts, Option{Value: pairs[i], Label: pairs[i+1], Selected: pairs[i] == selected})
	}
	return opts
}

// Filter is a control in the list filter bar. A filter with Options renders as a select.
type Filter struct {
	Name    string
	Label   string
	Value   string
	Options []Option
}

// ListView is the model of the shared list screen. Form, when set, is shown
// above the table for resources edited in place.
type ListView struct {
	Title   string
	Create  *Action
	Filters []Filter
	Form    *FormView
	Table   Table
	Pages   []PageLink
	Summary string
}

// Field is one form control. Type is an HTML input type, or "textarea",
// "select" or "checkbox".
type Field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Checked  bool
	Required bool
	Multiple bool
	Step     string
	Min      string
	Max      string
	Help     string
	Image    string
	Images   []string
	Options  []Option
}

type FormView struct {
	Title     string
	Action    string
	Submit    string
	Cancel    string
	Multipart bool
	Fields    []Field
}

type Item struct {
	Label string
	Value string
	Image string
	Badge string
	Tone  string
	Link  string
}

// Section is a titled block of a detail screen holding a table, a form, or both.
type Section struct {
	Title string
	Items []Item
	Table *Table
	Form  *FormView
}

type DetailView struct {
	Title    string
	Images   []string
	Items    []Item
	Sections []Section
	Actions  []Action
	Back     string
}

// PageLink is one control of the pagination bar.
type PageLink struct {
	Label    string
	URL      string
	Active   bool
	Disabled bool
	Gap      bool
}

// Pagination renders the pager window as links that keep the current query
// string, replacing only the page parameter.
func Pagination(c *fiber.Ctx, current, total int) []PageLink {
	w := pager.New(current, total)
	if w.Total <= 1 {
		return nil
	}
	query := currentQuery(c)
	href := func(page int) string {
		query.Set("page", strconv.Itoa(page))
		return c.Path() + "?" + query.Encode()
	}

	links := []PageLink{{Label: "‹", URL: href(w.Prev()), Disabled: w.PrevDisabled}}
	if w.ShowFirst {
		links = append(links, PageLink{Label: "1", URL: href(0)})
	}
	if w.LeadingDots {
		links = append(links, PageLink{Label: "…", Gap: true})
	}
	for _, p := range w.Pages {
		links = append(links, PageLink{Label: strconv.Itoa(p + 1), URL: href(p), Active: p == w.Current})
	}
	if w.TrailingDots {
		links = append(links, PageLink{Label: "…", Gap: true})
	}
	if w.ShowLast {
		links = append(links, PageLink{Label: strconv.Itoa(w.Total), URL: href(w.Last())})
	}
	links = append(links, PageLink{Label: "›", URL: href(w.Next()), Disabled: w.NextDisabled})
	return links
}

// Summary is the "showing x-y of n" line under a list.
func Summary(page, size, count int, total int64) string {
	if count == 0 {
		return ""
	}
	from := page*size + 1
	return fmt.Sprintf("Showing %d-%d of %d", from, from+count-1, total)
}

// RowNumber continues numbering across pages.
func RowNumber(page, size, index int) string {
	return strconv.Itoa(page*size + index + 1)
}

func currentQuery(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		if len(v) > 0 {
			values.Add(string(k), string(v))
		}
	})
	return values
}
