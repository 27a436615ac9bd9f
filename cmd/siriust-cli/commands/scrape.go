package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"siriust-backend/lib/scrapers/siriust"
	"siriust-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

var scrapeEmail *string

func init() {
	scrapeEmail = scrapeCmd.Flags().String("email", "", "The account email to log in with.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--email <email>]",
	Short: "Log in, scrape the account's profile and wishlist and save the snapshot to the database.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, _, closeDb := setup()
		defer closeDb()
		ctx := cmd.Context()

		email := *scrapeEmail
		if email == "" {
			email = prompt("Email: ")
		}
		password := promptPassword("Password: ")

		err := svc.Login(ctx, email, password)
		if errors.Is(err, siriust.LoginFailed) {
			serviceutil.Fatal("could not log in", err)
		}
		if err != nil {
			serviceutil.Fatal("failed to log in", err)
		}

		slog.Info("scraping account data", "email", email)
		user, err := svc.FetchSnapshot(ctx)
		if err != nil {
			serviceutil.Fatal("failed to scrape account data", err)
		}

		err = svc.Upsert(ctx, user)
		if err != nil {
			serviceutil.Fatal("failed to save to the database", err)
		}
		fmt.Printf("Saved snapshot of %s (%d favorite items).\n", user.Email, len(user.FavoriteItems))
	},
}
