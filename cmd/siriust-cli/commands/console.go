package commands

import (
	"context"
	"errors"
	"fmt"

	"siriust-backend/lib/scrapers/siriust"
	"siriust-backend/lib/serviceutil"
	"siriust-backend/lib/snapshot"
	"siriust-backend/services/collector"
)

const menu = `Choose an action:
1) Print the scraped data
2) Refresh the data
3) Save the data to the database
4) Save the data to a file
0) Quit
`

// runConsole is the interactive front end: pick a saved user (or type
// credentials), log in, then loop over the menu until quit.
func runConsole(ctx context.Context, svc collector.Service, cfg Config) {
	users, err := svc.ListUsers(ctx)
	if err != nil {
		serviceutil.Fatal("failed to load saved users", err)
	}

	savedEmail := ""
	if len(users) > 0 && promptYesNo("Found saved users. Log in as one of them? (y/n) ") {
		savedEmail = chooseUser(users)
	}

	current := logIn(ctx, svc, savedEmail)

	for {
		switch promptChoice(menu, 0, 4) {
		case 1:
			fmt.Println(current.Render())
		case 2:
			fmt.Println("Scraping account data...")
			current, err = svc.FetchSnapshot(ctx)
			if err != nil {
				serviceutil.Fatal("failed to scrape account data", err)
			}
			fmt.Println("Scraping finished.")
		case 3:
			err = svc.Upsert(ctx, current)
			if err != nil {
				serviceutil.Fatal("failed to save to the database", err)
			}
			fmt.Println("Saved to the database.")
		case 4:
			err = svc.ExportText(ctx, current, cfg.ExportFile)
			if err != nil {
				serviceutil.Fatal("failed to save to a file", err)
			}
			fmt.Printf("Saved to %s.\n", cfg.ExportFile)
		case 0:
			return
		}
	}
}

func chooseUser(users []snapshot.User) string {
	fmt.Println("Choose a user:")
	for i, user := range users {
		fmt.Printf("%d: %s\n", i+1, user.Email)
	}
	answer := promptChoice("", 1, len(users))
	return users[answer-1].Email
}

// logIn loops on bad credentials (the only recoverable failure) and
// returns the freshly scraped snapshot once a login succeeds.
// passwords are never stored, so a saved user only pre-fills the
// email.
func logIn(ctx context.Context, svc collector.Service, savedEmail string) snapshot.User {
	for {
		email := savedEmail
		if email == "" {
			email = prompt("Email: ")
		} else {
			fmt.Printf("Email: %s\n", email)
		}
		password := promptPassword("Password: ")

		err := svc.Login(ctx, email, password)
		if errors.Is(err, siriust.LoginFailed) {
			fmt.Println(err.Error())
			continue
		}
		if err != nil {
			serviceutil.Fatal("failed to log in", err)
		}
		fmt.Println("Logged in successfully.")

		fmt.Println("Scraping account data...")
		user, err := svc.FetchSnapshot(ctx)
		if err != nil {
			serviceutil.Fatal("failed to scrape account data", err)
		}
		fmt.Println("Scraping finished.")
		return user
	}
}
