package view

import (
	"strconv"

	"github.com/Rajarajeshwaran-2003/eshop/internal/domain"
	"github.com/Rajarajeshwaran-2003/eshop/internal/filter"
)

// PageNav renders Previous, one link per page, and Next. Disabled edges are
// plain spans so they can never trigger navigation; enabled links carry both
// a data-page attribute for the click handler and a real href for no-JS use.
func PageNav(p domain.Pagination, st filter.State) Node {
	nav := El("nav").
		Attr("class", "pagination").
		Attr("aria-label", "Product pages")

	nav.Children = append(nav.Children,
		edgeLink("Previous", p.CurrentPage-1, p.CurrentPage == 1, st))

	for page := 1; page <= p.TotalPages; page++ {
		if page == p.CurrentPage {
			nav.Children = append(nav.Children,
				El("span", Text(strconv.Itoa(page))).
					Attr("class", "page-link current").
					Attr("aria-current", "page"))
			continue
		}
		nav.Children = append(nav.Children, pageLink(strconv.Itoa(page), page, st))
	}

	nav.Children = append(nav.Children,
		edgeLink("Next", p.CurrentPage+1, p.CurrentPage == p.TotalPages, st))

	return nav
}

func edgeLink(label string, target int, disabled bool, st filter.State) Node {
	if disabled {
		return El("span", Text(label)).
			Attr("class", "page-link disabled").
			Attr("aria-disabled", "true")
	}
	return pageLink(label, target, st)
}

func pageLink(label string, target int, st filter.State) Node {
	st.SetPage(target)
	return El("a", Text(label)).
		Attr("class", "page-link").
		Attr("href", "?"+st.Query().Encode()).
		Attr("data-page", strconv.Itoa(target))
}
