package view

import (
	"fmt"
	"strconv"

	"github.com/Rajarajeshwaran-2003/eshop/internal/domain"
	"github.com/Rajarajeshwaran-2003/eshop/internal/filter"
)

// starSlots is the fixed number of star slots in a rating.
const starSlots = 5

// FormatPrice renders a price with exactly two decimal places.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ProductGrid renders the full listing fragment: one card per product in
// response order, followed by the page navigation when pagination metadata
// is present.
func ProductGrid(list *domain.ProductList, st filter.State) Node {
	grid := El("div").Attr("class", "product-grid")
	for i := range list.Products {
		grid.Children = append(grid.Children, ProductCard(&list.Products[i]))
	}

	if list.Pagination == nil {
		return grid
	}
	return El("div", grid, PageNav(*list.Pagination, st)).Attr("class", "product-listing")
}

// ProductCard renders a single self-contained product card.
func ProductCard(p *domain.Product) Node {
	card := El("article").
		Attr("class", "product-card").
		Attr("data-product-id", strconv.FormatInt(p.ID, 10))

	if p.OnSale {
		card.Children = append(card.Children,
			El("span", Text("Sale")).Attr("class", "sale-badge"))
	}

	if p.ImageURL != nil {
		card.Children = append(card.Children,
			El("img").
				Attr("class", "product-image").
				Attr("src", *p.ImageURL).
				Attr("alt", p.Name).
				Attr("loading", "lazy"))
	}

	card.Children = append(card.Children,
		El("h3",
			El("a", Text(p.Name)).Attr("href", "/products/"+p.Slug),
		).Attr("class", "product-name"),
		El("span", Text(p.Category)).Attr("class", "product-category"),
	)

	if p.Rating != nil {
		card.Children = append(card.Children, StarRating(*p.Rating),
			El("span", Text(fmt.Sprintf("(%d reviews)", p.ReviewCount))).
				Attr("class", "review-count"))
	}

	card.Children = append(card.Children, priceBlock(p),
		El("button", Text("Add to Cart")).
			Attr("type", "button").
			Attr("class", "add-to-cart").
			Attr("data-product-id", strconv.FormatInt(p.ID, 10)))

	return card
}

// StarRating renders exactly five star slots: floor(rating) full stars, one
// half star when the remainder is at least 0.5, empty stars for the rest.
// The numeric rating is exposed for assistive tech; the glyphs are decorative.
func StarRating(rating float64) Node {
	full := int(rating)
	if full > starSlots {
		full = starSlots
	}
	half := 0
	if full < starSlots && rating-float64(full) >= 0.5 {
		half = 1
	}

	wrap := El("span").
		Attr("class", "star-rating").
		Attr("role", "img").
		Attr("aria-label", fmt.Sprintf("Rated %.1f out of %d", rating, starSlots))

	star := func(class, glyph string) Node {
		return El("span", Text(glyph)).
			Attr("class", "star "+class).
			Attr("aria-hidden", "true")
	}

	for i := 0; i < full; i++ {
		wrap.Children = append(wrap.Children, star("star-full", "★"))
	}
	if half == 1 {
		wrap.Children = append(wrap.Children, star("star-half", "★"))
	}
	for i := full + half; i < starSlots; i++ {
		wrap.Children = append(wrap.Children, star("star-empty", "☆"))
	}

	return wrap
}

func priceBlock(p *domain.Product) Node {
	block := El("div").Attr("class", "product-price")
	if p.Discounted() {
		block.Children = append(block.Children,
			El("s", Text("$"+FormatPrice(*p.OriginalPrice))).Attr("class", "original-price"),
			Text(" "),
		)
	}
	block.Children = append(block.Children,
		El("span", Text("$"+FormatPrice(p.Price))).Attr("class", "current-price"))
	return block
}

// EmptyState renders the no-results indicator.
func EmptyState() Node {
	return El("p", Text("No products match your filters.")).
		Attr("class", "no-results").
		Attr("role", "status")
}

// ErrorState renders a non-fatal error message.
func ErrorState(msg string) Node {
	return El("p", Text(msg)).
		Attr("class", "error-message").
		Attr("role", "alert")
}
