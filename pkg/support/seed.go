package support

import (
	"context"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var seedUsers = []User{
	{ID: "1", Name: "John Doe", Email: "john@gmail.com", Phone: "123-456-7890", Username: "johndoe"},
	{ID: "2", Name: "Jane Smith", Email: "jane@gmail.com", Phone: "987-654-3210", Username: "janesmith"},
	{ID: "3", Name: "Bob Johnson", Email: "bob@gmail.com", Phone: "555-555-5555", Username: "bobjohnson"},
	{ID: "4", Name: "Sarah Brown", Email: "sarah@gmail.com", Phone: "555-123-4567", Username: "sarahbrown"},
	{ID: "5", Name: "David Lee", Email: "david@gmail.com", Phone: "555-987-6543", Username: "davidlee"},
}

var seedOrders = []Order{
	{ID: "24601", CustomerID: "1", Product: "Wireless Headphones", Quantity: 1, Price: 79.99, Status: StatusShipped},
	{ID: "13579", CustomerID: "1", Product: "Smartphone Case", Quantity: 2, Price: 19.99, Status: StatusProcessing},
	{ID: "97531", CustomerID: "2", Product: "Bluetooth Speaker", Quantity: 1, Price: 49.99, Status: StatusShipped},
	{ID: "86420", CustomerID: "3", Product: "Fitness Tracker", Quantity: 1, Price: 129.99, Status: StatusDelivered},
	{ID: "54321", CustomerID: "4", Product: "Laptop Sleeve", Quantity: 3, Price: 24.99, Status: StatusShipped},
	{ID: "19283", CustomerID: "5", Product: "Wireless Mouse", Quantity: 1, Price: 34.99, Status: StatusProcessing},
	{ID: "74651", CustomerID: "2", Product: "Gaming Keyboard", Quantity: 1, Price: 89.99, Status: StatusDelivered},
	{ID: "30298", CustomerID: "5", Product: "Portable Charger", Quantity: 2, Price: 29.99, Status: StatusShipped},
	{ID: "47652", CustomerID: "3", Product: "Smartwatch", Quantity: 1, Price: 199.99, Status: StatusProcessing},
	{ID: "61984", CustomerID: "4", Product: "Noise-Cancelling Headphones", Quantity: 1, Price: 149.99, Status: StatusShipped},
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// seed inserts users and orders which are not already present, so orders
// which were cancelled stay cancelled
func (s *Store) seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for _, user := range seedUsers {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO users (id, name, email, phone, username) VALUES (?, ?, ?, ?, ?)`,
			user.ID, user.Name, user.Email, user.Phone, user.Username); err != nil {
			return err
		}
	}
	for _, order := range seedOrders {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO orders (id, customer_id, product, quantity, price, status) VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, order.CustomerID, order.Product, order.Quantity, order.Price, order.Status); err != nil {
			return err
		}
	}
	return tx.Commit()
}
