package oracle

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/trigg3rX/triggerx-performer/pkg/types"
)

// MockOracle is a mock implementation of Oracle
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) GetPrice(ctx context.Context, symbol string) (*types.PriceQuote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PriceQuote), args.Error(1)
}

// StaticOracle always answers with the same quote.
type StaticOracle struct {
	Quote types.PriceQuote
}

func (o StaticOracle) GetPrice(ctx context.Context, symbol string) (*types.PriceQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	quote := o.Quote
	return &quote, nil
}
