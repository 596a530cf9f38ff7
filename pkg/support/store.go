/*
support implements a customer-support order database for TechNova, stored
in SQLite, and the tools which let a model look up users and orders and
cancel orders which have not shipped
*/
package support

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	// Packages
	_ "github.com/mattn/go-sqlite3"
	tooluse "github.com/mutablelogic/go-tooluse"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Store is the order database
type Store struct {
	db *sql.DB
}

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Username string `json:"username"`
}

type Order struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id"`
	Product    string  `json:"product"`
	Quantity   uint    `json:"quantity"`
	Price      float64 `json:"price"`
	Status     string  `json:"status"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Memory is the path for a database which is not saved
	Memory = ":memory:"

	dbOpenOptions = "?_busy_timeout=5000&_foreign_keys=on"
)

const (
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	email    TEXT NOT NULL UNIQUE,
	phone    TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS orders (
	id          TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL REFERENCES users(id),
	product     TEXT NOT NULL,
	quantity    INTEGER NOT NULL,
	price       REAL NOT NULL,
	status      TEXT NOT NULL
);`

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Open opens or creates the database at path and adds the seed users and
// orders when they are missing
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = Memory
	}
	db, err := sql.Open("sqlite3", path+dbOpenOptions)
	if err != nil {
		return nil, err
	}

	// An in-memory database exists only for its connection
	if path == Memory {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	store := &Store{db: db}
	if err := store.seed(ctx); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return store, nil
}

// Close the database
func (s *Store) Close() error {
	return s.db.Close()
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetUser returns the user where key (email, phone or username) matches value
func (s *Store) GetUser(ctx context.Context, key, value string) (*User, error) {
	switch key {
	case "email", "phone", "username":
	default:
		return nil, tooluse.ErrBadParameter.Withf("cannot look up a user by %q", key)
	}

	var user User
	row := s.db.QueryRowContext(ctx, `SELECT id, name, email, phone, username FROM users WHERE `+key+` = ? COLLATE NOCASE`, strings.TrimSpace(value))
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.Username); errors.Is(err, sql.ErrNoRows) {
		return nil, tooluse.ErrNotFound.Withf("no user with %s %q", key, value)
	} else if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrder returns an order by id
func (s *Store) GetOrder(ctx context.Context, id string) (*Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, customer_id, product, quantity, price, status FROM orders WHERE id = ?`, strings.TrimSpace(id))
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tooluse.ErrNotFound.Withf("no order with id %q", id)
	} else if err != nil {
		return nil, err
	}
	return order, nil
}

// GetCustomerOrders returns the orders for a customer, ordered by id
func (s *Store) GetCustomerOrders(ctx context.Context, customerID string) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, customer_id, product, quantity, price, status FROM orders WHERE customer_id = ? ORDER BY id`, strings.TrimSpace(customerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	return result, rows.Err()
}

// CancelOrder cancels an order which is still processing. Returns an error
// wrapping ErrConflict when the order has progressed beyond processing.
func (s *Store) CancelOrder(ctx context.Context, id string) (*Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	order, err := scanOrder(tx.QueryRowContext(ctx, `SELECT id, customer_id, product, quantity, price, status FROM orders WHERE id = ?`, strings.TrimSpace(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tooluse.ErrNotFound.Withf("no order with id %q", id)
	} else if err != nil {
		return nil, err
	}
	if order.Status != StatusProcessing {
		return nil, tooluse.ErrConflict.Withf("order %q is %s and cannot be cancelled", order.ID, order.Status)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, StatusCancelled, order.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	order.Status = StatusCancelled
	return order, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*Order, error) {
	var order Order
	if err := row.Scan(&order.ID, &order.CustomerID, &order.Product, &order.Quantity, &order.Price, &order.Status); err != nil {
		return nil, err
	}
	return &order, nil
}
