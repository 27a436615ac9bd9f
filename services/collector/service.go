// Package collector is the core service both front ends talk to. it
// owns one site client and one snapshot store, injected at startup,
// and exposes the five operations the presentation layer needs: log
// in, fetch a snapshot, list stored users, upsert a snapshot and
// export it as text.
package collector

import (
	"context"
	"os"

	"siriust-backend/lib/scrapers/siriust"
	"siriust-backend/lib/snapshot"
	"siriust-backend/lib/snapshotstore"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/collector")

type Service struct {
	client *siriust.Client
	store  snapshotstore.Store
}

func NewService(client *siriust.Client, store snapshotstore.Store) Service {
	return Service{
		client: client,
		store:  store,
	}
}

// Login authenticates the site session. returns siriust.LoginFailed
// on bad credentials, which the front end treats as recoverable.
func (s Service) Login(ctx context.Context, email, password string) error {
	return s.client.Login(ctx, email, password)
}

// FetchSnapshot scrapes the logged-in user's profile and wishlist.
func (s Service) FetchSnapshot(ctx context.Context) (snapshot.User, error) {
	return s.client.FetchSnapshot(ctx)
}

func (s Service) ListUsers(ctx context.Context) ([]snapshot.User, error) {
	return s.store.ListUsers(ctx)
}

func (s Service) Upsert(ctx context.Context, user snapshot.User) error {
	return s.store.Upsert(ctx, user)
}

// ExportText writes the plain-text report of a snapshot to `path`.
func (s Service) ExportText(ctx context.Context, user snapshot.User, path string) error {
	_, span := tracer.Start(ctx, "ExportText")
	defer span.End()

	err := os.WriteFile(path, []byte(user.Render()), 0644)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write report")
		return err
	}
	return nil
}
