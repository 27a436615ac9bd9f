package siriust

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"siriust-backend/lib/htmlutil"
	"siriust-backend/lib/snapshot"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// the localized word the site uses for an item being out of stock in a
// store's availability row
const absentMarker = "отсутствует"

func (c *Client) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// FetchSnapshot scrapes the logged-in account into a snapshot: profile
// fields, then every wishlist item with its reviews. any missing
// expected markup aborts the whole fetch, a partial snapshot is never
// returned.
func (c *Client) FetchSnapshot(ctx context.Context) (snapshot.User, error) {
	ctx, span := tracer.Start(ctx, "client:FetchSnapshot")
	defer span.End()

	if !c.authenticated {
		return snapshot.User{}, ErrNotAuthenticated
	}

	doc, err := c.fetchDocument(ctx, "/profiles-update/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch profile page")
		return snapshot.User{}, err
	}

	user := snapshot.User{}
	fields := []struct {
		name string
		dst  *string
	}{
		{"user_data[email]", &user.Email},
		{"user_data[s_firstname]", &user.FirstName},
		{"user_data[s_lastname]", &user.LastName},
		{"user_data[s_city]", &user.City},
	}
	for _, f := range fields {
		*f.dst, err = htmlutil.InputValue(doc, f.name)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to read profile field")
			return snapshot.User{}, fmt.Errorf("profile page: %w", err)
		}
	}

	user.FavoriteItems, err = c.fetchFavoriteItems(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch favorite items")
		return snapshot.User{}, err
	}

	return user, nil
}

func (c *Client) fetchFavoriteItems(ctx context.Context) ([]snapshot.Item, error) {
	ctx, span := tracer.Start(ctx, "client:fetchFavoriteItems")
	defer span.End()

	doc, err := c.fetchDocument(ctx, "/wishlist/")
	if err != nil {
		return nil, err
	}

	var items []snapshot.Item
	entries := doc.Find("div.ty-grid-list__item-name a")
	for i := range entries.Nodes {
		href, err := htmlutil.RequireAttr(entries.Eq(i), "href")
		if err != nil {
			return nil, fmt.Errorf("wishlist page: %w", err)
		}

		slog.DebugContext(ctx, "scraping wishlist item", "url", href)
		item, err := c.fetchItem(ctx, href)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func (c *Client) fetchItem(ctx context.Context, href string) (snapshot.Item, error) {
	ctx, span := tracer.Start(ctx, "client:fetchItem")
	defer span.End()

	doc, err := c.fetchDocument(ctx, href)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch product page")
		return snapshot.Item{}, err
	}

	item, err := parseItemPage(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse product page")
		return snapshot.Item{}, fmt.Errorf("product page %s: %w", href, err)
	}
	return item, nil
}

func parseItemPage(doc *goquery.Document) (snapshot.Item, error) {
	item := snapshot.Item{}

	name, err := htmlutil.RequireOne(doc.Selection, "h1.ty-product-block-title")
	if err != nil {
		return item, err
	}
	item.Name = htmlutil.NormalizeText(name.Text())

	// prices live in the first "col" block only, later blocks can
	// carry unrelated price tags
	priceBlock, err := htmlutil.RequireOne(doc.Selection, "div.col")
	if err != nil {
		return item, err
	}
	prices := priceBlock.Find("span.ty-price-num[id]")
	if len(prices.Nodes) < 2 {
		return item, fmt.Errorf("expected retail and wholesale price, got %d price tags", len(prices.Nodes))
	}
	item.RetailPrice = prices.Eq(0).Text()
	item.WholesalePrice = prices.Eq(1).Text()

	item.Rating, err = parseRating(doc)
	if err != nil {
		return item, err
	}

	item.NumberOfStores, err = parseStoreCount(doc)
	if err != nil {
		return item, err
	}

	item.Reviews, err = parseReviews(doc)
	if err != nil {
		return item, err
	}

	return item, nil
}

// the star rating is rendered as icons: one per full star, plus an
// optional half-star icon
func parseRating(doc *goquery.Document) (float64, error) {
	wrapper, err := htmlutil.RequireOne(doc.Selection, "div.ty-discussion__rating-wrapper")
	if err != nil {
		return 0, err
	}

	rating := float64(wrapper.Find("i.ty-stars__icon.ty-icon-star").Length())
	if wrapper.Find("i.ty-stars__icon.ty-icon-star-half").Length() > 0 {
		rating += 0.5
	}
	return rating, nil
}

// counts the "feature" blocks whose value does not read "absent". one
// of the feature blocks is not a store-availability row at all, hence
// the -1 offset.
func parseStoreCount(doc *goquery.Document) (int, error) {
	features := doc.Find("div.ty-product-feature")
	inStock := 0
	for i := range features.Nodes {
		value, err := htmlutil.RequireOne(features.Eq(i), "div.ty-product-feature__value")
		if err != nil {
			return 0, err
		}
		if !strings.Contains(value.Text(), absentMarker) {
			inStock++
		}
	}
	return inStock - 1, nil
}

func parseReviews(doc *goquery.Document) ([]snapshot.Review, error) {
	var reviews []snapshot.Review

	posts := doc.Find("div.ty-discussion-post__content.ty-mb-l")
	for i := range posts.Nodes {
		post := posts.Eq(i)

		author, err := htmlutil.RequireOne(post, "span.ty-discussion-post__author")
		if err != nil {
			return nil, err
		}
		message, err := htmlutil.RequireOne(post, "div.ty-discussion-post__message")
		if err != nil {
			return nil, err
		}

		reviews = append(reviews, snapshot.Review{
			AuthorName: htmlutil.GetText(author.Nodes[0]),
			Score:      post.Find("i.ty-stars__icon.ty-icon-star").Length(),
			Text:       htmlutil.GetText(message.Nodes[0]),
		})
	}

	return reviews, nil
}
