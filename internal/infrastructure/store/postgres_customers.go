package store

import (
	"context"
	"time"

	"github.com/example/pagdiwala/internal/model"
)

const customerColumns = `id, email, password_hash, first_name, COALESCE(middle_name, ''), last_name,
	mobile_number, address, created_at, updated_at`

func scanCustomer(row rowScanner) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.FirstName, &c.MiddleName, &c.LastName,
		&c.MobileNumber, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	c, err := scanCustomer(s.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (s *PostgresStore) GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	c, err := scanCustomer(s.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (s *PostgresStore) CreateCustomer(ctx context.Context, c *model.Customer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, email, password_hash, first_name, middle_name, last_name,
			mobile_number, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.ID, c.Email, c.PasswordHash, c.FirstName, nullString(c.MiddleName), c.LastName,
		c.MobileNumber, c.Address, c.CreatedAt, c.UpdatedAt)
	return mapError(err)
}

// UpdateCustomerProfile overwrites the profile fields of customer id
func (s *PostgresStore) UpdateCustomerProfile(ctx context.Context, id string, p model.Profile, updatedAt time.Time) (*model.Customer, error) {
	c, err := scanCustomer(s.db.QueryRowContext(ctx, `
		UPDATE customers
		SET first_name = $2, middle_name = $3, last_name = $4, mobile_number = $5, address = $6, updated_at = $7
		WHERE id = $1
		RETURNING `+customerColumns,
		id, p.FirstName, nullString(p.MiddleName), p.LastName, p.MobileNumber, p.Address, updatedAt))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

const adminColumns = `id, email, password_hash, first_name, COALESCE(middle_name, ''), last_name,
	mobile_number, address, created_at, updated_at`

func scanAdmin(row rowScanner) (*model.AdminUser, error) {
	var a model.AdminUser
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FirstName, &a.MiddleName, &a.LastName,
		&a.MobileNumber, &a.Address, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) GetAdminByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (s *PostgresStore) UpdateAdminProfile(ctx context.Context, id string, p model.Profile, updatedAt time.Time) (*model.AdminUser, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx, `
		UPDATE admin_users
		SET first_name = $2, middle_name = $3, last_name = $4, mobile_number = $5, address = $6, updated_at = $7
		WHERE id = $1
		RETURNING `+adminColumns,
		id, p.FirstName, nullString(p.MiddleName), p.LastName, p.MobileNumber, p.Address, updatedAt))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}
