// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explorer

// VisiblePageNumbers returns up to five page numbers centered on the
// current page. Near either edge the window shifts inward so it always
// holds min(5, TotalPages) numbers.
func (e *Explorer[R, D]) VisiblePageNumbers() []int {
	start, end := e.window()
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

func (e *Explorer[R, D]) window() (start, end int) {
	half := maxPageButtons / 2
	start = max(1, e.currentPage-half)
	end = min(e.totalPages, start+maxPageButtons-1)
	if end-start+1 < maxPageButtons {
		start = max(1, end-maxPageButtons+1)
	}
	return start, end
}

// PageItem is one control in a pager: a page button or an ellipsis.
type PageItem struct {
	Page     int
	Ellipsis bool
	Current  bool
}

// PageControls returns the pager: the first page and an ellipsis when the
// window does not touch the start, the window itself, then an ellipsis and
// the last page when the window does not touch the end.
func (e *Explorer[R, D]) PageControls() []PageItem {
	start, end := e.window()
	var items []PageItem
	button := func(p int) {
		items = append(items, PageItem{Page: p, Current: p == e.currentPage})
	}

	if start > 1 {
		button(1)
		if start > 2 {
			items = append(items, PageItem{Ellipsis: true})
		}
	}
	for p := start; p <= end; p++ {
		button(p)
	}
	if end < e.totalPages {
		if end < e.totalPages-1 {
			items = append(items, PageItem{Ellipsis: true})
		}
		button(e.totalPages)
	}
	return items
}

// HasPrev reports whether PrevPage would move.
func (e *Explorer[R, D]) HasPrev() bool { return e.currentPage > 1 }

// HasNext reports whether NextPage would move.
func (e *Explorer[R, D]) HasNext() bool { return e.currentPage < e.totalPages }
