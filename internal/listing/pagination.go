package listing

// window is how many page numbers are shown around the current page.
const window = 2

// Pager holds the page links rendered under a table.
type Pager struct {
	Current int
	Pages   int
	Prev    int // 0 when on the first page
	Next    int // 0 when on the last page
	Numbers []int
}

// Pagination derives the links for a page of a collection with pages pages.
// current is kept as the server reported it; a page past the end only moves
// the window of numbers back into range.
func Pagination(current, pages int) Pager {
	if pages < 1 {
		return Pager{Current: current}
	}

	p := Pager{Current: current, Pages: pages}
	if current > 1 {
		p.Prev = min(current-1, pages)
	}
	if current >= 1 && current < pages {
		p.Next = current + 1
	}

	anchor := min(max(current, 1), pages)
	lo, hi := max(anchor-window, 1), min(anchor+window, pages)
	for n := lo; n <= hi; n++ {
		p.Numbers = append(p.Numbers, n)
	}
	return p
}
