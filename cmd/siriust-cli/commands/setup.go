package commands

import (
	"context"
	"os"
	"time"

	"siriust-backend/lib/configutil"
	configsqlite "siriust-backend/lib/configutil/sqlite"
	"siriust-backend/lib/scrapers/siriust"
	"siriust-backend/lib/serviceutil"
	"siriust-backend/lib/snapshotstore"
	"siriust-backend/services/collector"
)

type Config struct {
	BaseUrl    string              `json:"base_url"`
	Database   configsqlite.Struct `json:"database"`
	ExportFile string              `json:"export_file"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.BaseUrl == "" {
		cfg.BaseUrl = "https://siriust.ru"
	}
	if cfg.Database.File == "" {
		cfg.Database.File = "siriust.db"
	}
	if cfg.ExportFile == "" {
		cfg.ExportFile = "parser_result.txt"
	}
	return cfg
}

// setup builds the core service from the config: one site client and
// one store handle, both living for the rest of the process.
func setup() (collector.Service, Config, func()) {
	cfg := readConfig()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	client, err := siriust.NewClient(ctx, siriust.ClientOptions{
		BaseUrl: cfg.BaseUrl,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize site client", err)
	}

	db, err := cfg.Database.OpenDB(snapshotstore.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}

	svc := collector.NewService(client, snapshotstore.NewStore(db))
	return svc, cfg, func() { db.Close() }
}
