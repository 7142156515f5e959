package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
	"restoledger/backend/internal/store"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates any missing tables. It is idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

func (s *Store) ListOutlets(ctx context.Context) ([]domain.Outlet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM outlets
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outlets := make([]domain.Outlet, 0, 4)
	for rows.Next() {
		var outlet domain.Outlet
		if err := rows.Scan(&outlet.ID, &outlet.Name, &outlet.CreatedAt); err != nil {
			return nil, err
		}
		outlet.CreatedAt = outlet.CreatedAt.UTC()
		outlets = append(outlets, outlet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return outlets, nil
}

func (s *Store) CreateOutlet(ctx context.Context, outlet domain.Outlet) (*domain.Outlet, error) {
	if outlet.ID == "" || strings.TrimSpace(outlet.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	if outlet.CreatedAt.IsZero() {
		outlet.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outlets (id, name, created_at)
		VALUES ($1,$2,$3)
	`, outlet.ID, outlet.Name, outlet.CreatedAt)
	if err != nil {
		return nil, mapWriteError(err)
	}
	created := outlet
	return &created, nil
}

func (s *Store) RenameOutlet(ctx context.Context, outletID string, name string) (*domain.Outlet, error) {
	if strings.TrimSpace(name) == "" {
		return nil, store.ErrInvalidInput
	}

	var outlet domain.Outlet
	err := s.db.QueryRowContext(ctx, `
		UPDATE outlets
		SET name = $2
		WHERE id = $1
		RETURNING id, name, created_at
	`, outletID, name).Scan(&outlet.ID, &outlet.Name, &outlet.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	outlet.CreatedAt = outlet.CreatedAt.UTC()
	return &outlet, nil
}

func (s *Store) DeleteOutlet(ctx context.Context, outletID string) error {
	return s.deleteByID(ctx, `DELETE FROM outlets WHERE id = $1`, outletID)
}

const ingredientColumns = `id, outlet_id, name, unit, price, previous_price, stock_level, reorder_point, updated_at`

func scanIngredient(row interface{ Scan(...any) error }) (domain.Ingredient, error) {
	var ingredient domain.Ingredient
	err := row.Scan(
		&ingredient.ID,
		&ingredient.OutletID,
		&ingredient.Name,
		&ingredient.Unit,
		&ingredient.Price,
		&ingredient.PreviousPrice,
		&ingredient.StockLevel,
		&ingredient.ReorderPoint,
		&ingredient.UpdatedAt,
	)
	ingredient.UpdatedAt = ingredient.UpdatedAt.UTC()
	return ingredient, err
}

func (s *Store) ListIngredients(ctx context.Context, outletID string) ([]domain.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ingredientColumns+`
		FROM ingredients
		WHERE ($1 = '' OR outlet_id = $1)
		ORDER BY outlet_id ASC, name ASC, id ASC
	`, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ingredients := make([]domain.Ingredient, 0, 32)
	for rows.Next() {
		ingredient, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ingredient)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *Store) GetIngredient(ctx context.Context, ingredientID string) (*domain.Ingredient, error) {
	ingredient, err := scanIngredient(s.db.QueryRowContext(ctx, `
		SELECT `+ingredientColumns+`
		FROM ingredients
		WHERE id = $1
	`, ingredientID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

func (s *Store) CreateIngredient(ctx context.Context, ingredient domain.Ingredient) (*domain.Ingredient, error) {
	if ingredient.ID == "" || strings.TrimSpace(ingredient.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	if ingredient.UpdatedAt.IsZero() {
		ingredient.UpdatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredients (`+ingredientColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		ingredient.ID,
		ingredient.OutletID,
		ingredient.Name,
		ingredient.Unit,
		ingredient.Price,
		ingredient.PreviousPrice,
		ingredient.StockLevel,
		ingredient.ReorderPoint,
		ingredient.UpdatedAt,
	)
	if err != nil {
		return nil, mapWriteError(err)
	}
	created := ingredient
	return &created, nil
}

// UpdateIngredient writes every mutable column. The outlet never changes.
func (s *Store) UpdateIngredient(ctx context.Context, ingredient domain.Ingredient) (*domain.Ingredient, error) {
	if ingredient.StockLevel.IsNegative() {
		ingredient.StockLevel = decimal.Zero
	}

	updated, err := scanIngredient(s.db.QueryRowContext(ctx, `
		UPDATE ingredients
		SET name = $2, unit = $3, price = $4, previous_price = $5,
			stock_level = $6, reorder_point = $7, updated_at = $8
		WHERE id = $1
		RETURNING `+ingredientColumns,
		ingredient.ID,
		ingredient.Name,
		ingredient.Unit,
		ingredient.Price,
		ingredient.PreviousPrice,
		ingredient.StockLevel,
		ingredient.ReorderPoint,
		ingredient.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeleteIngredient(ctx context.Context, ingredientID string) error {
	return s.deleteByID(ctx, `DELETE FROM ingredients WHERE id = $1`, ingredientID)
}

func (s *Store) AdjustStock(ctx context.Context, adjustments []domain.StockAdjustment) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := applyAdjustments(ctx, tx, adjustments, true); err != nil {
		return err
	}
	return tx.Commit()
}

// applyAdjustments moves stock by each delta, never below zero. With strict
// set an unknown ingredient aborts with ErrNotFound; otherwise it is skipped.
func applyAdjustments(ctx context.Context, tx *sql.Tx, adjustments []domain.StockAdjustment, strict bool) error {
	for _, adj := range adjustments {
		res, err := tx.ExecContext(ctx, `
			UPDATE ingredients
			SET stock_level = GREATEST(stock_level + $2, 0)
			WHERE id = $1
		`, adj.IngredientID, adj.Delta)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 && strict {
			return store.ErrNotFound
		}
	}
	return nil
}

func (s *Store) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, image_url, selling_price, target_margin
		FROM menu_items
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	items := make([]domain.MenuItem, 0, 32)
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.ImageURL, &item.SellingPrice, &item.TargetMargin); err != nil {
			_ = rows.Close()
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	recipes, err := s.recipes(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Recipe = recipes[items[i].ID]
	}
	return items, nil
}

func (s *Store) GetMenuItem(ctx context.Context, menuItemID string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, image_url, selling_price, target_margin
		FROM menu_items
		WHERE id = $1
	`, menuItemID).Scan(&item.ID, &item.Name, &item.ImageURL, &item.SellingPrice, &item.TargetMargin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	recipes, err := s.recipes(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	item.Recipe = recipes[menuItemID]
	return &item, nil
}

func (s *Store) recipes(ctx context.Context, menuItemID string) (map[string][]domain.RecipeComponent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT menu_item_id, ingredient_id, quantity
		FROM recipe_components
		WHERE ($1 = '' OR menu_item_id = $1)
		ORDER BY menu_item_id ASC, position ASC
	`, menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := make(map[string][]domain.RecipeComponent)
	for rows.Next() {
		var component domain.RecipeComponent
		if err := rows.Scan(&component.MenuItemID, &component.IngredientID, &component.Quantity); err != nil {
			return nil, err
		}
		recipes[component.MenuItemID] = append(recipes[component.MenuItemID], component)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *Store) CreateMenuItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	if item.ID == "" || strings.TrimSpace(item.Name) == "" {
		return nil, store.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO menu_items (id, name, image_url, selling_price, target_margin)
		VALUES ($1,$2,$3,$4,$5)
	`, item.ID, item.Name, item.ImageURL, item.SellingPrice, item.TargetMargin)
	if err != nil {
		return nil, mapWriteError(err)
	}
	if err := insertRecipe(ctx, tx, item.ID, item.Recipe); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	for i := range item.Recipe {
		item.Recipe[i].MenuItemID = item.ID
	}
	created := item
	return &created, nil
}

func insertRecipe(ctx context.Context, tx *sql.Tx, menuItemID string, recipe []domain.RecipeComponent) error {
	for idx, component := range recipe {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_components (menu_item_id, ingredient_id, position, quantity)
			VALUES ($1,$2,$3,$4)
		`, menuItemID, component.IngredientID, idx, component.Quantity)
		if err != nil {
			return mapWriteError(err)
		}
	}
	return nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE menu_items
		SET name = $2, image_url = $3, selling_price = $4, target_margin = $5
		WHERE id = $1
	`, item.ID, item.Name, item.ImageURL, item.SellingPrice, item.TargetMargin)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetMenuItem(ctx, item.ID)
}

// ReplaceRecipe deletes every component and inserts the new list.
func (s *Store) ReplaceRecipe(ctx context.Context, menuItemID string, recipe []domain.RecipeComponent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM menu_items WHERE id = $1)`, menuItemID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_components WHERE menu_item_id = $1`, menuItemID); err != nil {
		return err
	}
	if err := insertRecipe(ctx, tx, menuItemID, recipe); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) DeleteMenuItem(ctx context.Context, menuItemID string) error {
	return s.deleteByID(ctx, `DELETE FROM menu_items WHERE id = $1`, menuItemID)
}

func (s *Store) ListSales(ctx context.Context, outletID string) ([]domain.SalesRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, outlet_id, menu_item_id, sale_date, quantity_sold, total_revenue
		FROM sales_records
		WHERE ($1 = '' OR outlet_id = $1)
		ORDER BY sale_date ASC, id ASC
	`, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.SalesRecord, 0, 256)
	for rows.Next() {
		var sale domain.SalesRecord
		if err := rows.Scan(&sale.ID, &sale.OutletID, &sale.MenuItemID, &sale.Date, &sale.QuantitySold, &sale.TotalRevenue); err != nil {
			return nil, err
		}
		sale.Date = dayUTC(sale.Date)
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}

// RecordSale upserts the daily sales line and consumes stock in one
// transaction.
func (s *Store) RecordSale(ctx context.Context, sale domain.SalesRecord, consumption []domain.StockAdjustment) (*domain.SalesRecord, error) {
	if sale.ID == "" || sale.QuantitySold < 0 || sale.TotalRevenue.IsNegative() {
		return nil, store.ErrInvalidInput
	}
	sale.Date = dayUTC(sale.Date)

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM menu_items WHERE id = $1)`, sale.MenuItemID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO sales_records (id, outlet_id, menu_item_id, sale_date, quantity_sold, total_revenue)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (outlet_id, menu_item_id, sale_date)
		DO UPDATE SET
			quantity_sold = sales_records.quantity_sold + EXCLUDED.quantity_sold,
			total_revenue = sales_records.total_revenue + EXCLUDED.total_revenue
		RETURNING id, quantity_sold, total_revenue
	`, sale.ID, sale.OutletID, sale.MenuItemID, sale.Date, sale.QuantitySold, sale.TotalRevenue).Scan(&sale.ID, &sale.QuantitySold, &sale.TotalRevenue)
	if err != nil {
		return nil, mapWriteError(err)
	}
	if err := applyAdjustments(ctx, tx, consumption, true); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *Store) ListOperationalCosts(ctx context.Context, outletID string) ([]domain.OperationalCost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, outlet_id, name, amount, cost_interval
		FROM operational_costs
		WHERE ($1 = '' OR outlet_id = $1)
		ORDER BY name ASC, id ASC
	`, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	costs := make([]domain.OperationalCost, 0, 16)
	for rows.Next() {
		var cost domain.OperationalCost
		if err := rows.Scan(&cost.ID, &cost.OutletID, &cost.Name, &cost.Amount, &cost.Interval); err != nil {
			return nil, err
		}
		costs = append(costs, cost)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return costs, nil
}

func (s *Store) CreateOperationalCost(ctx context.Context, cost domain.OperationalCost) (*domain.OperationalCost, error) {
	if cost.ID == "" || strings.TrimSpace(cost.Name) == "" || cost.Amount.IsNegative() {
		return nil, store.ErrInvalidInput
	}
	if cost.Interval != domain.CostIntervalDaily && cost.Interval != domain.CostIntervalMonthly {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO operational_costs (id, outlet_id, name, amount, cost_interval)
		VALUES ($1,$2,$3,$4,$5)
	`, cost.ID, cost.OutletID, cost.Name, cost.Amount, string(cost.Interval))
	if err != nil {
		return nil, mapWriteError(err)
	}
	created := cost
	return &created, nil
}

func (s *Store) DeleteOperationalCost(ctx context.Context, costID string) error {
	return s.deleteByID(ctx, `DELETE FROM operational_costs WHERE id = $1`, costID)
}

func (s *Store) ListWaste(ctx context.Context, outletID string) ([]domain.WasteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, outlet_id, ingredient_id, waste_date, quantity, reason, cost
		FROM waste_records
		WHERE ($1 = '' OR outlet_id = $1)
		ORDER BY waste_date DESC, id ASC
	`, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.WasteRecord, 0, 32)
	for rows.Next() {
		var record domain.WasteRecord
		if err := rows.Scan(&record.ID, &record.OutletID, &record.IngredientID, &record.Date, &record.Quantity, &record.Reason, &record.Cost); err != nil {
			return nil, err
		}
		record.Date = dayUTC(record.Date)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// RecordWaste inserts the record and decrements stock in one transaction.
func (s *Store) RecordWaste(ctx context.Context, record domain.WasteRecord) (*domain.WasteRecord, error) {
	if record.ID == "" || !record.Quantity.IsPositive() || !record.Reason.Valid() {
		return nil, store.ErrInvalidInput
	}
	record.Date = dayUTC(record.Date)

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO waste_records (id, outlet_id, ingredient_id, waste_date, quantity, reason, cost)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, record.ID, record.OutletID, record.IngredientID, record.Date, record.Quantity, string(record.Reason), record.Cost)
	if err != nil {
		return nil, mapWriteError(err)
	}
	err = applyAdjustments(ctx, tx, []domain.StockAdjustment{{IngredientID: record.IngredientID, Delta: record.Quantity.Neg()}}, true)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := record
	return &created, nil
}

func (s *Store) DeleteWaste(ctx context.Context, wasteID string) error {
	return s.deleteByID(ctx, `DELETE FROM waste_records WHERE id = $1`, wasteID)
}

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, contact_person, phone, email, created_at
		FROM suppliers
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := make([]domain.Supplier, 0, 16)
	for rows.Next() {
		var supplier domain.Supplier
		if err := rows.Scan(&supplier.ID, &supplier.Name, &supplier.ContactPerson, &supplier.Phone, &supplier.Email, &supplier.CreatedAt); err != nil {
			return nil, err
		}
		supplier.CreatedAt = supplier.CreatedAt.UTC()
		suppliers = append(suppliers, supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (s *Store) CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if supplier.ID == "" || strings.TrimSpace(supplier.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, contact_person, phone, email, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, supplier.ID, supplier.Name, supplier.ContactPerson, supplier.Phone, supplier.Email, supplier.CreatedAt)
	if err != nil {
		return nil, mapWriteError(err)
	}
	created := supplier
	return &created, nil
}

func (s *Store) DeleteSupplier(ctx context.Context, supplierID string) error {
	return s.deleteByID(ctx, `DELETE FROM suppliers WHERE id = $1`, supplierID)
}

func (s *Store) ListSupplierPrices(ctx context.Context) ([]domain.SupplierPrice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT supplier_id, ingredient_id, price
		FROM supplier_prices
		ORDER BY supplier_id ASC, ingredient_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make([]domain.SupplierPrice, 0, 32)
	for rows.Next() {
		var price domain.SupplierPrice
		if err := rows.Scan(&price.SupplierID, &price.IngredientID, &price.Price); err != nil {
			return nil, err
		}
		prices = append(prices, price)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return prices, nil
}

func (s *Store) UpsertSupplierPrice(ctx context.Context, price domain.SupplierPrice) error {
	if price.Price.IsNegative() {
		return store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO supplier_prices (supplier_id, ingredient_id, price)
		VALUES ($1,$2,$3)
		ON CONFLICT (supplier_id, ingredient_id)
		DO UPDATE SET price = EXCLUDED.price
	`, price.SupplierID, price.IngredientID, price.Price)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *Store) DeleteSupplierPrice(ctx context.Context, supplierID string, ingredientID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM supplier_prices
		WHERE supplier_id = $1 AND ingredient_id = $2
	`, supplierID, ingredientID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListPendingOrders(ctx context.Context, outletID string) ([]domain.PendingOrder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, po_number, supplier_id, outlet_id, order_date, total_amount
		FROM pending_orders
		WHERE ($1 = '' OR outlet_id = $1)
		ORDER BY order_date DESC, id ASC
	`, outletID)
	if err != nil {
		return nil, err
	}
	orders := make([]domain.PendingOrder, 0, 16)
	index := make(map[string]int)
	for rows.Next() {
		var order domain.PendingOrder
		if err := rows.Scan(&order.ID, &order.PONumber, &order.SupplierID, &order.OutletID, &order.OrderDate, &order.TotalAmount); err != nil {
			_ = rows.Close()
			return nil, err
		}
		order.OrderDate = order.OrderDate.UTC()
		index[order.ID] = len(orders)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	itemRows, err := s.db.QueryContext(ctx, `
		SELECT i.order_id, i.ingredient_id, i.quantity, i.unit_price
		FROM pending_order_items i
		JOIN pending_orders o ON o.id = i.order_id
		WHERE ($1 = '' OR o.outlet_id = $1)
		ORDER BY i.order_id ASC, i.position ASC
	`, outletID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var orderID string
		var item domain.PendingOrderItem
		if err := itemRows.Scan(&orderID, &item.IngredientID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		if idx, ok := index[orderID]; ok {
			orders[idx].Items = append(orders[idx].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) CreatePendingOrder(ctx context.Context, order domain.PendingOrder) (*domain.PendingOrder, error) {
	if order.ID == "" || order.PONumber == "" || len(order.Items) == 0 {
		return nil, store.ErrInvalidInput
	}
	for _, item := range order.Items {
		if !item.Quantity.IsPositive() || item.UnitPrice.IsNegative() {
			return nil, store.ErrInvalidInput
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pending_orders (id, po_number, supplier_id, outlet_id, order_date, total_amount)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, order.ID, order.PONumber, order.SupplierID, order.OutletID, order.OrderDate, order.TotalAmount)
	if err != nil {
		return nil, mapWriteError(err)
	}
	for idx, item := range order.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pending_order_items (order_id, position, ingredient_id, quantity, unit_price)
			VALUES ($1,$2,$3,$4,$5)
		`, order.ID, idx, item.IngredientID, item.Quantity, item.UnitPrice)
		if err != nil {
			return nil, mapWriteError(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := order
	return &created, nil
}

// ReceivePendingOrder restocks every line and deletes the order in one
// transaction. Lines for ingredients deleted since ordering are skipped.
func (s *Store) ReceivePendingOrder(ctx context.Context, orderID string) (*domain.PendingOrder, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var order domain.PendingOrder
	err = tx.QueryRowContext(ctx, `
		SELECT id, po_number, supplier_id, outlet_id, order_date, total_amount
		FROM pending_orders
		WHERE id = $1
		FOR UPDATE
	`, orderID).Scan(&order.ID, &order.PONumber, &order.SupplierID, &order.OutletID, &order.OrderDate, &order.TotalAmount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	order.OrderDate = order.OrderDate.UTC()

	itemRows, err := tx.QueryContext(ctx, `
		SELECT ingredient_id, quantity, unit_price
		FROM pending_order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	for itemRows.Next() {
		var item domain.PendingOrderItem
		if err := itemRows.Scan(&item.IngredientID, &item.Quantity, &item.UnitPrice); err != nil {
			_ = itemRows.Close()
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		_ = itemRows.Close()
		return nil, err
	}
	_ = itemRows.Close()

	adjustments := make([]domain.StockAdjustment, 0, len(order.Items))
	for _, item := range order.Items {
		adjustments = append(adjustments, domain.StockAdjustment{IngredientID: item.IngredientID, Delta: item.Quantity})
	}
	if err := applyAdjustments(ctx, tx, adjustments, false); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pending_orders WHERE id = $1`, orderID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Store) DeletePendingOrder(ctx context.Context, orderID string) error {
	return s.deleteByID(ctx, `DELETE FROM pending_orders WHERE id = $1`, orderID)
}

func (s *Store) GetActiveCampaign(ctx context.Context) (*domain.Campaign, error) {
	var campaign domain.Campaign
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, primary_item_name, secondary_item_name, discount_percent, start_date
		FROM active_campaign
	`).Scan(
		&campaign.ID,
		&campaign.Title,
		&campaign.Description,
		&campaign.PrimaryItemName,
		&campaign.SecondaryItemName,
		&campaign.DiscountPercent,
		&campaign.StartDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	campaign.StartDate = campaign.StartDate.UTC()
	return &campaign, nil
}

// ReplaceActiveCampaign deletes any active campaign and inserts the new one
// in one transaction.
func (s *Store) ReplaceActiveCampaign(ctx context.Context, campaign domain.Campaign) (*domain.Campaign, error) {
	if campaign.ID == "" || strings.TrimSpace(campaign.Title) == "" {
		return nil, store.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM active_campaign`); err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO active_campaign (id, title, description, primary_item_name, secondary_item_name, discount_percent, start_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		campaign.ID,
		campaign.Title,
		campaign.Description,
		campaign.PrimaryItemName,
		campaign.SecondaryItemName,
		campaign.DiscountPercent,
		campaign.StartDate,
	)
	if err != nil {
		return nil, mapWriteError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	active := campaign
	return &active, nil
}

func (s *Store) ClearActiveCampaign(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM active_campaign`)
	return err
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidInput
	}
	if user.Role == "" {
		user.Role = domain.RoleStaff
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_users (username, password, role, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now())
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM app_users
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE app_users
		SET password = $2, updated_at = now()
		WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// deleteByID runs a single-row delete. A foreign key still pointing at the
// row surfaces as ErrConflict.
func (s *Store) deleteByID(ctx context.Context, query string, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrConflict
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// mapWriteError translates constraint violations on insert: duplicates are
// conflicts and dangling references are missing parents.
func mapWriteError(err error) error {
	switch {
	case isUniqueViolation(err):
		return store.ErrConflict
	case isForeignKeyViolation(err):
		return store.ErrNotFound
	case isCheckViolation(err):
		return store.ErrInvalidInput
	default:
		return err
	}
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

func isCheckViolation(err error) bool {
	return pgCode(err) == "23514"
}

func dayUTC(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
}
