package commands

import (
	"context"
	"fmt"
	"os"

	"siriust-backend/lib/restyutil"
	"siriust-backend/lib/scrapers/siriust"
	"siriust-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

var debug *bool

func init() {
	debug = rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging.")
}

var rootCmd = &cobra.Command{
	Use:   "siriust-cli",
	Short: "siriust-cli scrapes a siriust.ru account's profile and wishlist into a local database.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if *debug {
			telemetry.InitSlog(true)
			siriust.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/siriust-cli"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		svc, cfg, closeDb := setup()
		defer closeDb()

		runConsole(cmd.Context(), svc, cfg)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
