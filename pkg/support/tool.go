package support

import (
	"context"

	// Packages
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type GetUserRequest struct {
	Key   string `json:"key" jsonschema:"The attribute to search for a user by (email, phone, or username)."`
	Value string `json:"value" jsonschema:"The value to match for the specified attribute."`
}

type OrderRequest struct {
	OrderID string `json:"order_id" jsonschema:"The unique identifier for the order."`
}

type CustomerOrdersRequest struct {
	CustomerID string `json:"customer_id" jsonschema:"The customer_id belonging to the user"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const SystemPrompt = "You are a customer support agent for TechNova."

const Greeting = "TechNova Support: What would you like help with?"

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTools returns the tools which operate on the store, in the order they
// are advertised to the model
func NewTools(store *Store) []tool.Tool {
	return []tool.Tool{
		tool.NewFunc("get_order_by_id", "Retrieves the details of a specific order based on the order ID. Returns the order ID, product name, quantity, price, and order status.", func(ctx context.Context, req OrderRequest) (any, error) {
			return store.GetOrder(ctx, req.OrderID)
		}),
		tool.NewFunc("get_user", "Looks up a user by email, phone, or username.", func(ctx context.Context, req GetUserRequest) (any, error) {
			return store.GetUser(ctx, req.Key, req.Value)
		}).WithEnum("key", "email", "phone", "username"),
		tool.NewFunc("get_customer_orders", "Retrieves the list of orders belonging to a user based on a user's customer id.", func(ctx context.Context, req CustomerOrdersRequest) (any, error) {
			return store.GetCustomerOrders(ctx, req.CustomerID)
		}),
		tool.NewFunc("cancel_order", "Cancels an order based on a provided order_id. Only orders that are 'processing' can be cancelled", func(ctx context.Context, req OrderRequest) (any, error) {
			return store.CancelOrder(ctx, req.OrderID)
		}),
	}
}
