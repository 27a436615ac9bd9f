package commands

import (
	"fmt"

	"siriust-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

var exportEmail *string
var exportOut *string

func init() {
	exportEmail = exportCmd.Flags().String("email", "", "The stored user to export. Defaults to the only stored user.")
	exportOut = exportCmd.Flags().String("out", "", "The file to write the report to. Defaults to the configured export_file.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--email <email>] [--out <path>]",
	Short: "Write the text report of a stored user to a file.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, cfg, closeDb := setup()
		defer closeDb()
		ctx := cmd.Context()

		users, err := svc.ListUsers(ctx)
		if err != nil {
			serviceutil.Fatal("failed to load saved users", err)
		}
		if len(users) == 0 {
			serviceutil.Fatal("nothing to export", fmt.Errorf("the database has no saved users"))
		}

		target := users[0]
		if *exportEmail != "" {
			found := false
			for _, user := range users {
				if user.Email == *exportEmail {
					target = user
					found = true
					break
				}
			}
			if !found {
				serviceutil.Fatal("nothing to export", fmt.Errorf("no saved user with email %s", *exportEmail))
			}
		} else if len(users) > 1 {
			serviceutil.Fatal("nothing to export", fmt.Errorf("multiple saved users, pick one with --email"))
		}

		out := *exportOut
		if out == "" {
			out = cfg.ExportFile
		}
		err = svc.ExportText(ctx, target, out)
		if err != nil {
			serviceutil.Fatal("failed to write the report", err)
		}
		fmt.Printf("Saved report of %s to %s.\n", target.Email, out)
	},
}
