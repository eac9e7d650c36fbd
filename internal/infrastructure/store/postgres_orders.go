package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/pagdiwala/internal/model"
	"github.com/lib/pq"
)

const orderColumns = `id, customer_id, total_amount, shipping_address, mobile_number, status,
	delivery_date, payment_method, payment_status, created_at, updated_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var o model.Order
	var status string
	var delivery sql.NullTime
	err := row.Scan(&o.ID, &o.CustomerID, &o.TotalAmount, &o.ShippingAddress, &o.MobileNumber, &status,
		&delivery, &o.PaymentMethod, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	o.DeliveryDate = timePtr(delivery)
	return &o, nil
}

func insertOrder(ctx context.Context, db execer, o *model.Order) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, total_amount, shipping_address, mobile_number, status,
			delivery_date, payment_method, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, o.ID, o.CustomerID, o.TotalAmount, o.ShippingAddress, o.MobileNumber, string(o.Status),
		nullTime(o.DeliveryDate), o.PaymentMethod, o.PaymentStatus, o.CreatedAt, o.UpdatedAt)
	return err
}

// insertOrderItems writes all items with one multi-row INSERT so the batch lands or fails as a whole
func insertOrderItems(ctx context.Context, db execer, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO order_items (id, order_id, product_id, quantity, price) VALUES `)
	args := make([]any, 0, len(items)*5)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price)
	}
	_, err := db.ExecContext(ctx, sb.String(), args...)
	return err
}

func (s *PostgresStore) InsertOrder(ctx context.Context, o *model.Order) error {
	return mapError(insertOrder(ctx, s.db, o))
}

func (s *PostgresStore) InsertOrderItems(ctx context.Context, items []model.OrderItem) error {
	return mapError(insertOrderItems(ctx, s.db, items))
}

// InsertOrderWithItems writes the order row and its items in one transaction
func (s *PostgresStore) InsertOrderWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	return mapError(s.execTx(ctx, func(tx *sql.Tx) error {
		if err := insertOrder(ctx, tx, o); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if err := insertOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	}))
}

func (s *PostgresStore) DeleteOrder(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateOrderStatus(ctx context.Context, id string, upd model.StatusUpdate) (*model.Order, error) {
	var row *sql.Row
	if upd.SetDeliveryDate {
		row = s.db.QueryRowContext(ctx, `
			UPDATE orders SET status = $2, delivery_date = $3, updated_at = $4
			WHERE id = $1 RETURNING `+orderColumns,
			id, string(upd.Status), nullTime(upd.DeliveryDate), upd.UpdatedAt)
	} else {
		row = s.db.QueryRowContext(ctx, `
			UPDATE orders SET status = $2, updated_at = $3
			WHERE id = $1 RETURNING `+orderColumns,
			id, string(upd.Status), upd.UpdatedAt)
	}
	o, err := scanOrder(row)
	if err != nil {
		return nil, mapError(err)
	}
	return o, nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	items, err := s.itemsForOrders(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (s *PostgresStore) ListOrders(ctx context.Context, customerID string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if customerID != "" {
		query += ` WHERE customer_id = $1`
		args = append(args, customerID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := s.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (s *PostgresStore) ListOrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	items, err := s.itemsForOrders(ctx, []string{orderID})
	if err != nil {
		return nil, err
	}
	return items[orderID], nil
}

// itemsForOrders loads order items joined with their products, grouped by order id
func (s *PostgresStore) itemsForOrders(ctx context.Context, orderIDs []string) (map[string][]model.OrderItem, error) {
	grouped := make(map[string][]model.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return grouped, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
			p.id, p.name, p.description, p.price, COALESCE(p.image_url, ''), p.stock_quantity, p.created_at, p.updated_at
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		var p model.Product
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.Product = &p
		grouped[item.OrderID] = append(grouped[item.OrderID], item)
	}
	return grouped, rows.Err()
}
