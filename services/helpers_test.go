package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"outlet-sales/config"
	"outlet-sales/models"
	"outlet-sales/storage"
	"outlet-sales/utils"
)

func newTestLogger() *utils.Logger { return utils.NewDiscardLogger() }

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := sql.Open(config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	s, err := storage.NewStore(db, config.DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

type outlet struct {
	id, tier, kind string
	size           *string
	year           int
	effect         float64
}

var testOutlets = []outlet{
	{"OUT049", "Tier 1", "Supermarket Type1", models.String("Medium"), 1999, 400},
	{"OUT018", "Tier 3", "Supermarket Type2", models.String("Medium"), 2009, 150},
	{"OUT010", "Tier 3", "Grocery Store", nil, 1998, -300},
	{"OUT027", "Tier 3", "Supermarket Type3", models.String("Medium"), 1985, 900},
}

var (
	testFat   = []string{"Low Fat", "LF", "Regular", "reg", "low fat"}
	testTypes = []string{"Dairy", "Snack Foods", "Household"}
)

// syntheticRecords returns n rows whose sales are an exact linear function of
// MRP and the outlet, with some null weights and sizes.
func syntheticRecords(n int) []*models.SalesRecord {
	out := make([]*models.SalesRecord, n)
	for i := range out {
		o := testOutlets[i%len(testOutlets)]
		mrp := 30 + 5.5*float64(i)
		r := &models.SalesRecord{
			ItemIdentifier:          fmt.Sprintf("FD%03d", i),
			ItemFatContent:          testFat[i%len(testFat)],
			ItemVisibility:          models.Float64(0.01 * float64(i%5)),
			ItemType:                testTypes[i%len(testTypes)],
			ItemMRP:                 mrp,
			OutletIdentifier:        o.id,
			OutletEstablishmentYear: o.year,
			OutletSize:              o.size,
			OutletLocationType:      o.tier,
			OutletType:              o.kind,
			ItemOutletSales:         models.Float64(12*mrp + o.effect),
		}
		if i%7 != 3 {
			r.ItemWeight = models.Float64(5 + float64(i%11))
		}
		out[i] = r
	}
	return out
}

func seedStore(t *testing.T, s *storage.Store, records []*models.SalesRecord) {
	t.Helper()
	_, err := s.InsertRecords(context.Background(), records)
	require.NoError(t, err)
}
