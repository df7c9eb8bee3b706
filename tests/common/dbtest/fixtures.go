//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func CreateTestShopper(t *testing.T, db DBLike, balance decimal.Decimal) uuid.UUID {
	t.Helper()

	shopperID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO shoppers (id, balance) VALUES ($1, $2)",
		shopperID, balance)
	require.NoError(t, err)

	return shopperID
}

func CreateTestLot(t *testing.T, db DBLike, name string, price decimal.Decimal, available int) uuid.UUID {
	t.Helper()

	lotID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		`INSERT INTO lots (id, city, district, product_type, size, name, price, available)
		 VALUES ($1, 'Lisbon', 'Alfama', 'widget', 'M', $2, $3, $4)`,
		lotID, name, price, available)
	require.NoError(t, err)

	return lotID
}

func CreateTestDiscount(t *testing.T, db DBLike, code, discountType string, value decimal.Decimal) uuid.UUID {
	t.Helper()

	discountID := uuid.New()
	ctx := context.Background()
	tag, err := db.Exec(ctx,
		`INSERT INTO discount_codes (id, code, discount_type, value, is_active)
		 VALUES ($1, $2, $3, $4, true)
		 ON CONFLICT (code) DO NOTHING`,
		discountID, code, discountType, value)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM discount_codes WHERE code = $1", code).Scan(&discountID)
	}

	return discountID
}

// backdates a shopper's holds so the sweeper treats them as expired.
func AgeHolds(t *testing.T, db DBLike, shopperID uuid.UUID, age time.Duration) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx,
		"UPDATE holds SET created_at = created_at - $1::interval WHERE shopper_id = $2",
		fmt.Sprintf("%d seconds", int(age.Seconds())), shopperID)
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables so each subtest starts from a clean slate
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var tbl string
			if err := rows.Scan(&tbl); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, tbl)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
