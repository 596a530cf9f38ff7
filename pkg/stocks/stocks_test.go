package stocks_test

import (
	"context"
	"encoding/json"
	"testing"

	// Packages
	stocks "github.com/mutablelogic/go-tooluse/pkg/stocks"
	assert "github.com/stretchr/testify/assert"
)

func Test_stocks_001(t *testing.T) {
	assert := assert.New(t)
	tool := stocks.New(stocks.DefaultPrice)
	assert.Equal("get_stock_price", tool.Name())

	result, err := tool.Run(context.Background(), json.RawMessage(`{"ticker":" aapl "}`))
	assert.NoError(err)
	assert.Equal(stocks.Price{Ticker: "AAPL", Price: 100}, result)

	_, err = tool.Run(context.Background(), json.RawMessage(`{"ticker":""}`))
	assert.Error(err)
}
