package main

import (
	"context"

	"siriust-backend/cmd/siriust-cli/commands"
	"siriust-backend/lib/serviceutil"
	"siriust-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)

	tel, err := telemetry.SetupFromEnv(context.Background(), "siriust-cli")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())

	commands.ExecuteContext(serviceutil.SignalContext())
}
