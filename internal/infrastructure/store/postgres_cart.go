package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/pagdiwala/internal/model"
	"github.com/lib/pq"
)

func (s *PostgresStore) CartLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, product_id, quantity FROM cart_items
		WHERE user_id = $1 ORDER BY created_at, product_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.UserID, &l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *PostgresStore) DeleteCartLines(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return mapError(err)
}

// InsertCartLines bulk-loads the lines with COPY in one transaction
func (s *PostgresStore) InsertCartLines(ctx context.Context, lines []model.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	return mapError(s.execTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, pq.CopyIn("cart_items", "user_id", "product_id", "quantity"))
		if err != nil {
			return fmt.Errorf("prepare copy: %w", err)
		}
		for _, l := range lines {
			if _, err := stmt.ExecContext(ctx, l.UserID, l.ProductID, l.Quantity); err != nil {
				stmt.Close()
				return fmt.Errorf("copy cart item: %w", err)
			}
		}
		if _, err := stmt.ExecContext(ctx); err != nil {
			stmt.Close()
			return fmt.Errorf("flush copy: %w", err)
		}
		return stmt.Close()
	}))
}
