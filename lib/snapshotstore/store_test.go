package snapshotstore

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"siriust-backend/lib/snapshot"
	"siriust-backend/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupStore(t testing.TB) Store {
	cleanup := telemetry.SetupForTesting(t, "snapshotstore")
	t.Cleanup(cleanup)

	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlite.Close() })
	sqlite.SetMaxOpenConns(1)

	_, err = sqlite.Exec("PRAGMA foreign_keys=ON")
	if err != nil {
		t.Fatal(err)
	}
	_, err = sqlite.Exec(Schema)
	if err != nil {
		t.Fatal(err)
	}

	return NewStore(sqlite)
}

func countRows(t testing.TB, store Store, table string) int {
	var count int
	err := store.db.QueryRow(fmt.Sprintf("SELECT count(*) FROM %s", table)).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	return count
}

func testUser() snapshot.User {
	return snapshot.User{
		Email:     "ivan@example.com",
		FirstName: "Ivan",
		LastName:  "Petrov",
		City:      "Moscow",
		FavoriteItems: []snapshot.Item{
			{
				Name:           "Electric Teapot",
				RetailPrice:    "1 490 ₽",
				WholesalePrice: "1 190 ₽",
				Rating:         3.5,
				NumberOfStores: 1,
				Reviews: []snapshot.Review{
					{AuthorName: "Anna", Score: 4, Text: "Boils fast."},
					{AuthorName: "Oleg", Score: 5, Text: "Great."},
				},
			},
			{
				Name:           "Kettle",
				RetailPrice:    "990 ₽",
				WholesalePrice: "790 ₽",
				Rating:         5,
				NumberOfStores: 3,
			},
		},
	}
}

func TestListUsersEmpty(t *testing.T) {
	store := setupStore(t)

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 0)
}

func TestUpsertAndList(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, testUser())
	require.NoError(t, err)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	diff := cmp.Diff(testUser(), users[0])
	if diff != "" {
		t.Fatalf("stored user does not match scraped user:\n%s", diff)
	}
}

func TestUpsertIdempotent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, testUser())
	require.NoError(t, err)
	err = store.Upsert(ctx, testUser())
	require.NoError(t, err)

	require.Equal(t, 1, countRows(t, store, "users"))
	require.Equal(t, 2, countRows(t, store, "items"))
	require.Equal(t, 2, countRows(t, store, "reviews"))
}

func TestUpsertReplacesItems(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, testUser())
	require.NoError(t, err)

	// the wishlist shrank to a single item, the dropped item and its
	// reviews must be reclaimed
	updated := testUser()
	updated.City = "Kazan"
	updated.FavoriteItems = updated.FavoriteItems[1:]
	err = store.Upsert(ctx, updated)
	require.NoError(t, err)

	require.Equal(t, 1, countRows(t, store, "users"))
	require.Equal(t, 1, countRows(t, store, "items"))
	require.Equal(t, 0, countRows(t, store, "reviews"))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "Kazan", users[0].City)
	require.Len(t, users[0].FavoriteItems, 1)
	require.Equal(t, "Kettle", users[0].FavoriteItems[0].Name)
}

func TestRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, testUser())
	require.NoError(t, err)

	before, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, before, 1)

	err = store.Upsert(ctx, before[0])
	require.NoError(t, err)

	after, err := store.ListUsers(ctx)
	require.NoError(t, err)

	diff := cmp.Diff(before, after)
	if diff != "" {
		t.Fatalf("re-upserting a stored user changed it:\n%s", diff)
	}
}
