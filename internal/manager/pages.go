package manager

// PageLink is one entry of a pagination bar. Gap entries stand for skipped pages.
type PageLink struct {
	Number  int
	Current bool
	Gap     bool
}

// Pages lays out a pagination bar: the first and last page, the current page
// with up to neighbors pages on each side, and gaps between them.
func Pages(current, total, neighbors int) []PageLink {
	if total < 1 {
		total = 1
	}
	current = min(max(current, 1), total)

	var links []PageLink
	last := 0
	for n := 1; n <= total; n++ {
		near := n >= current-neighbors && n <= current+neighbors
		if n != 1 && n != total && !near {
			continue
		}
		if last != 0 && n > last+1 {
			links = append(links, PageLink{Gap: true})
		}
		links = append(links, PageLink{Number: n, Current: n == current})
		last = n
	}
	return links
}
