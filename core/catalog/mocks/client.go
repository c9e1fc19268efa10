package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stocksync/core/catalog"
)

// Client is a mock implementation of catalog.Client
type Client struct {
	mock.Mock
}

func (m *Client) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Client) ListItems(ctx context.Context) ([]catalog.Item, error) {
	args := m.Called(ctx)
	if items, ok := args.Get(0).([]catalog.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) UpdateQuantity(ctx context.Context, locationID, itemID string, quantity int) error {
	args := m.Called(ctx, locationID, itemID, quantity)
	return args.Error(0)
}
