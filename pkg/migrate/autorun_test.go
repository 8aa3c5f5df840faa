package migrate

import (
	"context"
	"io"
	"testing"

	"github.com/angelmondragon/showroom-backend/pkg/config"
	"github.com/angelmondragon/showroom-backend/pkg/db"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
)

func TestMaybeRunDevSkipsOutsideDev(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "prod"}, FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true}}
	// nil client would panic if anything ran
	if err := MaybeRunDev(context.Background(), cfg, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMaybeRunDevAutoMigratesSQLite(t *testing.T) {
	ctx := context.Background()
	dbCfg := config.DBConfig{Driver: config.DBDriverSQLite, DSN: "file:autorun?mode=memory&cache=shared"}
	client, err := db.New(ctx, dbCfg, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer client.Close()

	cfg := &config.Config{
		App:          config.AppConfig{Env: "dev"},
		DB:           dbCfg,
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}
	logg := logger.New(logger.Options{ServiceName: "migrate-test", Output: io.Discard})
	if err := MaybeRunDev(ctx, cfg, logg, client); err != nil {
		t.Fatalf("MaybeRunDev: %v", err)
	}

	for _, table := range []string{"users", "products", "cart_items", "wishlist_items", "banners"} {
		if !client.DB().Migrator().HasTable(table) {
			t.Fatalf("expected table %s", table)
		}
	}
}
