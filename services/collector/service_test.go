package collector

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"siriust-backend/lib/scrapers/siriust"
	"siriust-backend/lib/snapshotstore"
	"siriust-backend/lib/telemetry"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const testEmail = "ivan@example.com"
const testPassword = "hunter2"

const profilePage = `<html><body>
<input name="user_data[email]" value="ivan@example.com"/>
<input name="user_data[s_firstname]" value="Ivan"/>
<input name="user_data[s_lastname]" value="Petrov"/>
<input name="user_data[s_city]" value="Moscow"/>
</body></html>`

const wishlistPage = `<html><body>
<div class="ty-grid-list__item-name"><a href="/teapot/">Teapot</a></div>
</body></html>`

const teapotPage = `<html><body>
<h1 class="ty-product-block-title">Electric Teapot</h1>
<div class="col">
<span class="ty-price-num" id="r">1 490 ₽</span>
<span class="ty-price-num" id="w">1 190 ₽</span>
</div>
<div class="ty-discussion__rating-wrapper">
<i class="ty-stars__icon ty-icon-star"></i>
<i class="ty-stars__icon ty-icon-star"></i>
<i class="ty-stars__icon ty-icon-star-half"></i>
</div>
<div class="ty-product-feature">
<div class="ty-product-feature__value">есть</div>
</div>
<div class="ty-product-feature">
<div class="ty-product-feature__value">В наличии</div>
</div>
</body></html>`

func setupService(t testing.TB) Service {
	cleanup := telemetry.SetupForTesting(t, "services/collector")
	t.Cleanup(cleanup)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /", func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseForm()
		if err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("user_login") == testEmail &&
			r.PostForm.Get("password") == testPassword {
			http.SetCookie(w, &http.Cookie{Name: "cp_email", Value: testEmail, Path: "/"})
		}
	})
	mux.HandleFunc("GET /profiles-update/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, profilePage)
	})
	mux.HandleFunc("GET /wishlist/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, wishlistPage)
	})
	mux.HandleFunc("GET /teapot/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, teapotPage)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := siriust.NewClient(context.Background(), siriust.ClientOptions{
		BaseUrl: server.URL,
	})
	if err != nil {
		t.Fatal(err)
	}

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
	_, err = sqlite.Exec(snapshotstore.Schema)
	if err != nil {
		t.Fatal(err)
	}

	return NewService(client, snapshotstore.NewStore(sqlite))
}

func TestServiceFlow(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	err := svc.Login(ctx, testEmail, "nope")
	require.ErrorIs(t, err, siriust.LoginFailed)

	err = svc.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	user, err := svc.FetchSnapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, testEmail, user.Email)
	require.Len(t, user.FavoriteItems, 1)
	require.Equal(t, 2.5, user.FavoriteItems[0].Rating)
	require.Equal(t, 1, user.FavoriteItems[0].NumberOfStores)

	err = svc.Upsert(ctx, user)
	require.NoError(t, err)

	stored, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, testEmail, stored[0].Email)

	path := filepath.Join(t.TempDir(), "report.txt")
	err = svc.ExportText(ctx, user, path)
	require.NoError(t, err)

	report, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(report), "Email: "+testEmail))
	require.True(t, strings.Contains(string(report), "Electric Teapot"))
	require.True(t, strings.Contains(string(report), "Rating - 2.5/5"))
}
