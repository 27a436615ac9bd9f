// Package snapshotstore persists user snapshots to sqlite, keyed by
// email. an upsert replaces the user's whole snapshot: scalar fields
// are overwritten and the favorite items association is rebuilt from
// scratch, reclaiming the rows of items dropped from the wishlist.
package snapshotstore

import (
	"context"
	"database/sql"

	"siriust-backend/lib/snapshot"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Upsert inserts the snapshot if no user with the same email exists,
// otherwise overwrites the stored user and replaces their items
// wholesale (old item rows and their reviews are deleted, the new
// snapshot's are inserted). the whole operation is one transaction,
// on failure the store's prior state is kept.
func (s Store) Upsert(ctx context.Context, user snapshot.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (email, first_name, last_name, city)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			city = excluded.city
	`, user.Email, user.FirstName, user.LastName, user.City)
	if err != nil {
		return err
	}

	var userId int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM users WHERE email = ?`, user.Email,
	).Scan(&userId)
	if err != nil {
		return err
	}

	// the new snapshot wholly supersedes the old one, reviews go with
	// their items through the cascade
	_, err = tx.ExecContext(ctx, `DELETE FROM items WHERE user_id = ?`, userId)
	if err != nil {
		return err
	}

	for position, item := range user.FavoriteItems {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO items (user_id, position, name, retail_price, wholesale_price, rating, number_of_stores)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, userId, position, item.Name, item.RetailPrice, item.WholesalePrice, item.Rating, item.NumberOfStores)
		if err != nil {
			return err
		}
		itemId, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for reviewPosition, review := range item.Reviews {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO reviews (item_id, position, author_name, score, text)
				VALUES (?, ?, ?, ?, ?)
			`, itemId, reviewPosition, review.AuthorName, review.Score, review.Text)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ListUsers returns every stored snapshot, items and reviews in the
// order they were scraped in.
func (s Store) ListUsers(ctx context.Context) ([]snapshot.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, first_name, last_name, city
		FROM users ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []snapshot.User
	var userIds []int64
	for rows.Next() {
		var id int64
		var user snapshot.User
		err := rows.Scan(&id, &user.Email, &user.FirstName, &user.LastName, &user.City)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
		userIds = append(userIds, id)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}

	for i, id := range userIds {
		users[i].FavoriteItems, err = s.listItems(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	return users, nil
}

func (s Store) listItems(ctx context.Context, userId int64) ([]snapshot.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, retail_price, wholesale_price, rating, number_of_stores
		FROM items WHERE user_id = ? ORDER BY position
	`, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []snapshot.Item
	var itemIds []int64
	for rows.Next() {
		var id int64
		var item snapshot.Item
		err := rows.Scan(&id, &item.Name, &item.RetailPrice, &item.WholesalePrice, &item.Rating, &item.NumberOfStores)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		itemIds = append(itemIds, id)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}

	for i, id := range itemIds {
		items[i].Reviews, err = s.listReviews(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (s Store) listReviews(ctx context.Context, itemId int64) ([]snapshot.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT author_name, score, text
		FROM reviews WHERE item_id = ? ORDER BY position
	`, itemId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []snapshot.Review
	for rows.Next() {
		var review snapshot.Review
		err := rows.Scan(&review.AuthorName, &review.Score, &review.Text)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
