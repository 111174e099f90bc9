package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
    id              INTEGER PRIMARY KEY,
    name            TEXT NOT NULL,
    sku             TEXT NOT NULL DEFAULT '',
    category_id     INTEGER NOT NULL DEFAULT 0,
    base_unit_id    INTEGER NOT NULL DEFAULT 0,
    price           TEXT NOT NULL DEFAULT '0',
    stock_quantity  TEXT NOT NULL DEFAULT '0',
    is_active       BOOLEAN NOT NULL DEFAULT 1,
    payload         TEXT NOT NULL,
    synced_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku);

CREATE TABLE IF NOT EXISTS units (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    symbol        TEXT NOT NULL DEFAULT '',
    description   TEXT NOT NULL DEFAULT '',
    is_base_unit  BOOLEAN NOT NULL DEFAULT 0,
    is_active     BOOLEAN NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS unit_conversions (
    id                 INTEGER PRIMARY KEY,
    from_unit_id       INTEGER NOT NULL,
    to_unit_id         INTEGER NOT NULL,
    conversion_factor  TEXT NOT NULL,
    description        TEXT NOT NULL DEFAULT '',
    is_active          BOOLEAN NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS sync_state (
    key    TEXT PRIMARY KEY,
    value  TEXT NOT NULL
);
`

type productRow struct {
	ID            int64           `db:"id"`
	Name          string          `db:"name"`
	SKU           string          `db:"sku"`
	CategoryID    int64           `db:"category_id"`
	BaseUnitID    int64           `db:"base_unit_id"`
	Price         decimal.Decimal `db:"price"`
	StockQuantity decimal.Decimal `db:"stock_quantity"`
	IsActive      bool            `db:"is_active"`
	Payload       string          `db:"payload"`
	SyncedAt      string          `db:"synced_at"`
}

func toRow(p *model.Product, now time.Time) (productRow, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return productRow{}, fmt.Errorf("failed to encode product %d: %w", p.ID, err)
	}
	return productRow{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		CategoryID:    int64(p.CategoryID),
		BaseUnitID:    p.BaseUnit.ID,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		Payload:       string(payload),
		SyncedAt:      now.UTC().Format(time.RFC3339),
	}, nil
}

func (r productRow) product() (model.Product, error) {
	var p model.Product
	if err := json.Unmarshal([]byte(r.Payload), &p); err != nil {
		return model.Product{}, fmt.Errorf("corrupt snapshot for product %d: %w", r.ID, err)
	}
	return p, nil
}

type conversionRow struct {
	ID               int64           `db:"id"`
	FromUnitID       int64           `db:"from_unit_id"`
	ToUnitID         int64           `db:"to_unit_id"`
	ConversionFactor decimal.Decimal `db:"conversion_factor"`
	Description      string          `db:"description"`
	IsActive         bool            `db:"is_active"`
}

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate catalog snapshot: %w", err)
		}
	}
	return nil
}

const upsertProduct = `
    INSERT INTO products (
        id, name, sku, category_id, base_unit_id, price, stock_quantity,
        is_active, payload, synced_at
    )
    VALUES (
        :id, :name, :sku, :category_id, :base_unit_id, :price, :stock_quantity,
        :is_active, :payload, :synced_at
    )
    ON CONFLICT (id) DO UPDATE SET
        name = excluded.name,
        sku = excluded.sku,
        category_id = excluded.category_id,
        base_unit_id = excluded.base_unit_id,
        price = excluded.price,
        stock_quantity = excluded.stock_quantity,
        is_active = excluded.is_active,
        payload = excluded.payload,
        synced_at = excluded.synced_at
`

// ReplaceProducts swaps the whole product snapshot in one transaction.
func (r *SQLiteRepository) ReplaceProducts(ctx context.Context, products []model.Product) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	now := time.Now()
	for i := range products {
		row, err := toRow(&products[i], now)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, upsertProduct, row); err != nil {
			return fmt.Errorf("failed to store product %d: %w", row.ID, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) UpsertProduct(ctx context.Context, p *model.Product) error {
	row, err := toRow(p, time.Now())
	if err != nil {
		return err
	}
	_, err = r.DB.NamedExecContext(ctx, upsertProduct, row)
	return err
}

func (r *SQLiteRepository) DeleteProduct(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var row productRow
	err := r.DB.GetContext(ctx, &row, `SELECT * FROM products WHERE id = ? LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p, err := row.product()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDs returns the snapshot rows for ids in name order. Unknown ids are
// skipped.
func (r *SQLiteRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM products WHERE id IN (?) ORDER BY name`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var rows []productRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return decodeRows(rows)
}

func decodeRows(rows []productRow) ([]model.Product, error) {
	out := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.product()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *SQLiteRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CategoryID != 0 {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if q := strings.TrimSpace(f.SearchQuery); q != "" {
		// LIKE is case-insensitive for ASCII in sqlite
		conditions = append(conditions, "(name LIKE :search OR sku LIKE :search)")
		args["search"] = "%" + q + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	orderBy := "name"
	switch f.SortBy {
	case "price":
		orderBy = "CAST(price AS REAL)"
	case "stock":
		orderBy = "CAST(stock_quantity AS REAL)"
	}
	if strings.ToLower(f.SortOrder) == "desc" {
		orderBy += " DESC"
	} else {
		orderBy += " ASC"
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s, id", whereClause, orderBy)
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	var list []productRow
	if err := nstmt.SelectContext(ctx, &list, args); err != nil {
		return nil, 0, err
	}
	products, err := decodeRows(list)
	return products, count, err
}

func (r *SQLiteRepository) ReplaceUnits(ctx context.Context, units []model.Unit, conversions []model.UnitConversion) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM unit_conversions`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM units`); err != nil {
		return err
	}

	for _, u := range units {
		_, err := tx.NamedExecContext(ctx, `
            INSERT OR REPLACE INTO units (id, name, symbol, description, is_base_unit, is_active)
            VALUES (:id, :name, :symbol, :description, :is_base_unit, :is_active)`, u)
		if err != nil {
			return fmt.Errorf("failed to store unit %d: %w", u.ID, err)
		}
	}
	for _, c := range conversions {
		row := conversionRow{
			ID:               c.ID,
			FromUnitID:       c.FromUnit.ID,
			ToUnitID:         c.ToUnit.ID,
			ConversionFactor: c.ConversionFactor,
			Description:      c.Description,
			IsActive:         c.IsActive,
		}
		_, err := tx.NamedExecContext(ctx, `
            INSERT OR REPLACE INTO unit_conversions (id, from_unit_id, to_unit_id, conversion_factor, description, is_active)
            VALUES (:id, :from_unit_id, :to_unit_id, :conversion_factor, :description, :is_active)`, row)
		if err != nil {
			return fmt.Errorf("failed to store conversion %d: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) Units(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	err := r.DB.SelectContext(ctx, &units, `SELECT id, name, symbol, description, is_base_unit, is_active FROM units ORDER BY id`)
	return units, err
}

// Conversions returns the stored edges in id order. Unit names are filled
// from the units table when it has them.
func (r *SQLiteRepository) Conversions(ctx context.Context) ([]model.UnitConversion, error) {
	var rows []conversionRow
	if err := r.DB.SelectContext(ctx, &rows, `SELECT * FROM unit_conversions ORDER BY id`); err != nil {
		return nil, err
	}
	units, err := r.Units(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.Unit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	ref := func(id int64) model.UnitRef {
		if u, ok := byID[id]; ok {
			return u.Ref()
		}
		return model.UnitRef{ID: id}
	}

	out := make([]model.UnitConversion, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.UnitConversion{
			ID:               row.ID,
			FromUnit:         ref(row.FromUnitID),
			ToUnit:           ref(row.ToUnitID),
			ConversionFactor: row.ConversionFactor,
			Description:      row.Description,
			IsActive:         row.IsActive,
		})
	}
	return out, nil
}

func (r *SQLiteRepository) LastSync(ctx context.Context) (time.Time, error) {
	var value string
	err := r.DB.GetContext(ctx, &value, `SELECT value FROM sync_state WHERE key = 'catalog'`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO sync_state (key, value) VALUES ('catalog', ?)
        ON CONFLICT (key) DO UPDATE SET value = excluded.value`, at.UTC().Format(time.RFC3339))
	return err
}
