// Package snapshot holds the data model produced by one scrape of a
// user's account: the profile fields plus the wishlist items and their
// reviews, treated as one atomic, replaceable unit.
package snapshot

type Review struct {
	AuthorName string
	// count of filled stars on the review, 0-5
	Score int
	Text  string
}

type Item struct {
	Name string
	// prices are kept as the site's display text, they are never
	// parsed into numbers
	RetailPrice    string
	WholesalePrice string
	// 0-5 in 0.5 increments
	Rating float64
	// count of stores currently carrying the item
	NumberOfStores int
	Reviews        []Review
}

type User struct {
	Email         string
	FirstName     string
	LastName      string
	City          string
	FavoriteItems []Item
}
