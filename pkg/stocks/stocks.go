/*
stocks implements a tool which returns the price of a stock. The price is
fixed, so the tool is useful for demonstrations and tests.
*/
package stocks

import (
	"context"
	"encoding/json"
	"strings"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	tooluse "github.com/mutablelogic/go-tooluse"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Request struct {
	Ticker string `json:"ticker" jsonschema:"The stock ticker symbol, for example AAPL"`
}

type Price struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
}

type stocks struct {
	price float64
}

var _ tool.Tool = (*stocks)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	Name         = "get_stock_price"
	DefaultPrice = 100
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a tool which reports the same price for every ticker
func New(price float64) tool.Tool {
	return &stocks{price: price}
}

///////////////////////////////////////////////////////////////////////////////
// TOOL INTERFACE

func (*stocks) Name() string {
	return Name
}

func (*stocks) Description() string {
	return "Retrieves the current stock price for a given ticker symbol"
}

func (*stocks) Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[Request](nil)
}

func (s *stocks) Run(_ context.Context, input json.RawMessage) (any, error) {
	var req Request
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, tooluse.ErrBadParameter.Withf("failed to unmarshal input: %v", err)
		}
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		return nil, tooluse.ErrBadParameter.With("missing ticker")
	}
	return Price{Ticker: ticker, Price: s.price}, nil
}
