package snapshot

import (
	"fmt"
	"strconv"
	"strings"
)

func orUnspecified(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func renderReview(out *strings.Builder, r Review) {
	out.WriteString("[Author: ")
	out.WriteString(r.AuthorName)
	out.WriteString("\n")
	fmt.Fprintf(out, "Score: %d/5\n", r.Score)
	out.WriteString("Text:\n")
	out.WriteString(r.Text)
	out.WriteString("]\n")
}

func renderItem(out *strings.Builder, item Item) {
	out.WriteString("Name - ")
	out.WriteString(item.Name)
	out.WriteString("\n")
	out.WriteString("Retail price - ")
	out.WriteString(item.RetailPrice)
	out.WriteString("\n")
	out.WriteString("Wholesale price - ")
	out.WriteString(item.WholesalePrice)
	out.WriteString("\n")
	fmt.Fprintf(out, "Rating - %s/5\n", formatRating(item.Rating))
	fmt.Fprintf(out, "Stores carrying the item: %d\n", item.NumberOfStores)
	fmt.Fprintf(out, "Review count: %d\n", len(item.Reviews))
	if len(item.Reviews) > 0 {
		out.WriteString("Reviews:\n")
		for _, r := range item.Reviews {
			renderReview(out, r)
		}
	}
}

// Render produces the plain-text report of a snapshot: labeled profile
// fields followed by every favorite item with its reviews. the output
// is for humans, it is not meant to be parsed back.
func (u User) Render() string {
	var out strings.Builder

	out.WriteString("User:\n\n")
	fmt.Fprintf(&out, "Last name: %s\n", orUnspecified(u.LastName))
	fmt.Fprintf(&out, "First name: %s\n", orUnspecified(u.FirstName))
	fmt.Fprintf(&out, "Email: %s\n", u.Email)
	fmt.Fprintf(&out, "City: %s\n", orUnspecified(u.City))
	out.WriteString("\nFavorite items:\n\n")

	for i, item := range u.FavoriteItems {
		if i > 0 {
			out.WriteString("\n")
		}
		renderItem(&out, item)
	}

	return out.String()
}
