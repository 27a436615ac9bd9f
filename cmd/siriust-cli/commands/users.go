package commands

import (
	"fmt"
	"os"
	"strings"

	"siriust-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(usersCmd)
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the users stored in the database.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, _, closeDb := setup()
		defer closeDb()

		users, err := svc.ListUsers(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to load saved users", err)
		}
		if len(users) == 0 {
			fmt.Println("No saved users.")
			return
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Email", "Name", "City", "Favorite items"})
		for _, user := range users {
			name := strings.TrimSpace(fmt.Sprintf("%s %s", user.FirstName, user.LastName))
			t.AppendRow(table.Row{user.Email, name, user.City, len(user.FavoriteItems)})
		}
		t.Render()
	},
}
