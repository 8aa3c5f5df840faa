package product

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/showroom-backend/pkg/config"
	"github.com/angelmondragon/showroom-backend/pkg/db"
	"github.com/angelmondragon/showroom-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/showroom-backend/pkg/db/types"
	"github.com/angelmondragon/showroom-backend/pkg/enums"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
	"github.com/angelmondragon/showroom-backend/pkg/migrate"
)

func newTestDB(t *testing.T) *db.Client {
	t.Helper()
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{
		Driver: config.DBDriverSQLite,
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, migrate.AutoMigrate(ctx, client))
	return client
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "products-test", Output: io.Discard})
}

var seedClock = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func seedProduct(t *testing.T, repo *Repository, mutate func(p *models.Product)) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:            "Toyota Avanza",
		Description:     "Family MPV with seven seats",
		LongDescription: "A practical seven seat MPV for everyday family trips.",
		Price:           decimal.NewFromInt(250_000_000),
		Category:        "MPV",
		Images:          dbtypes.StringArray{"https://cdn.example.com/showroom/products/a.png"},
		Popularity:      80,
		Condition:       enums.ProductConditionNew,
		ReleaseDate:     seedClock,
	}
	if mutate != nil {
		mutate(p)
	}
	_, err := repo.CreateProduct(context.Background(), p)
	require.NoError(t, err)
	return p
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func stringPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }
