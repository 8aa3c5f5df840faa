package cart

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	products "github.com/angelmondragon/showroom-backend/internal/products"
	"github.com/angelmondragon/showroom-backend/pkg/config"
	"github.com/angelmondragon/showroom-backend/pkg/db"
	"github.com/angelmondragon/showroom-backend/pkg/db/models"
	"github.com/angelmondragon/showroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
	"github.com/angelmondragon/showroom-backend/pkg/migrate"
)

type fixture struct {
	svc         Service
	repo        *Repository
	productRepo *products.Repository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{
		Driver: config.DBDriverSQLite,
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, migrate.AutoMigrate(ctx, client))

	f := fixture{
		repo:        NewRepository(client.DB()),
		productRepo: products.NewRepository(client.DB()),
	}
	f.svc, err = NewService(ServiceParams{
		CartRepo:    f.repo,
		ProductRepo: f.productRepo,
		Logger:      logger.New(logger.Options{ServiceName: "cart-test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return f
}

func (f fixture) seedProduct(t *testing.T, name string, price int64, discount *int64) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:            name,
		Description:     "Compact city car",
		LongDescription: "Compact city car with a frugal engine and easy parking.",
		Price:           decimal.NewFromInt(price),
		Category:        "City Car",
		Popularity:      70,
		Condition:       enums.ProductConditionNew,
		ReleaseDate:     time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	if discount != nil {
		d := decimal.NewFromInt(*discount)
		p.DiscountPrice = &d
	}
	_, err := f.productRepo.CreateProduct(context.Background(), p)
	require.NoError(t, err)
	return p
}

func qty(v int) *int { return &v }

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, code), "expected %s, got %v", code, err)
}

func TestAddDefaultsToOne(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Kia Picanto", 100, nil)

	line, err := f.svc.Add(context.Background(), uuid.New(), AddItemInput{ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, p.ID, line.Product.ID)
}

func TestAddIncrementsExistingLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.seedProduct(t, "Kia Picanto", 100, nil)

	_, err := f.svc.Add(ctx, userID, AddItemInput{ProductID: p.ID, Quantity: qty(2)})
	require.NoError(t, err)
	line, err := f.svc.Add(ctx, userID, AddItemInput{ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)

	lines, err := f.svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestAddRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Kia Picanto", 100, nil)

	_, err := f.svc.Add(ctx, uuid.New(), AddItemInput{ProductID: p.ID, Quantity: qty(0)})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.Add(ctx, uuid.New(), AddItemInput{ProductID: uuid.New()})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.seedProduct(t, "Kia Picanto", 100, nil)

	_, err := f.svc.UpdateQuantity(ctx, userID, UpdateQuantityInput{ProductID: p.ID, Quantity: 4})
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = f.svc.Add(ctx, userID, AddItemInput{ProductID: p.ID})
	require.NoError(t, err)

	line, err := f.svc.UpdateQuantity(ctx, userID, UpdateQuantityInput{ProductID: p.ID, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, line.Quantity)

	_, err = f.svc.UpdateQuantity(ctx, userID, UpdateQuantityInput{ProductID: p.ID, Quantity: 0})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.seedProduct(t, "Kia Picanto", 100, nil)

	_, err := f.svc.Add(ctx, userID, AddItemInput{ProductID: p.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.Remove(ctx, userID, RemoveItemInput{ProductID: p.ID}))
	requireCode(t, f.svc.Remove(ctx, userID, RemoveItemInput{ProductID: p.ID}), pkgerrors.CodeNotFound)

	lines, err := f.svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestListCarriesEffectivePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	discount := int64(80)
	a := f.seedProduct(t, "Wuling Air", 100, &discount)
	b := f.seedProduct(t, "Chery Omoda", 50, nil)

	_, err := f.svc.Add(ctx, userID, AddItemInput{ProductID: a.ID, Quantity: qty(2)})
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, userID, AddItemInput{ProductID: b.ID})
	require.NoError(t, err)

	lines, err := f.svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	var total float64
	for _, line := range lines {
		total += line.Product.EffectivePrice * float64(line.Quantity)
	}
	assert.InDelta(t, 210, total, 0.001)
}

func TestDeletingProductDropsLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.seedProduct(t, "Kia Picanto", 100, nil)

	_, err := f.svc.Add(ctx, userID, AddItemInput{ProductID: p.ID})
	require.NoError(t, err)
	_, err = f.productRepo.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)

	lines, err := f.svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
