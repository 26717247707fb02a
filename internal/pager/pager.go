// Package pager computes the pagination control shown under every list.
package pager

// Width is the number of page buttons in the window.
const Width = 5

// Window describes the visible part of the pagination control. Pages are
// zero-based; the screen labels them one-based.
type Window struct {
	Current int
	Total   int

	Pages []int

	ShowFirst    bool
	LeadingDots  bool
	ShowLast     bool
	TrailingDots bool
	PrevDisabled bool
	NextDisabled bool
}

// New builds the window for the current page out of total pages.
// The window starts two pages before current and is not shifted back near the end.
func New(current, total int) Window {
	if total < 1 {
		total = 1
	}
	if current < 0 {
		current = 0
	}
	if current > total-1 {
		current = total - 1
	}

	start := current - 2
	if start < 0 {
		start = 0
	}
	end := start + Width
	if end > total {
		end = total
	}

	pages := make([]int, 0, end-start)
	for p := start; p < end; p++ {
		pages = append(pages, p)
	}

	return Window{
		Current:      current,
		Total:        total,
		Pages:        pages,
		ShowFirst:    start > 0,
		LeadingDots:  start > 1,
		ShowLast:     end < total,
		TrailingDots: end < total-1,
		PrevDisabled: current == 0,
		NextDisabled: current == total-1,
	}
}

// Prev is the page the previous button targets.
func (w Window) Prev() int {
	if w.Current == 0 {
		return 0
	}
	return w.Current - 1
}

// Next is the page the next button targets.
func (w Window) Next() int {
	if w.Current >= w.Total-1 {
		return w.Total - 1
	}
	return w.Current + 1
}

// Last is the index of the final page.
func (w Window) Last() int {
	return w.Total - 1
}
