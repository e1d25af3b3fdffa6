package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/remy/cryptofolio-ledger/pkg/models"
	"github.com/remy/cryptofolio-ledger/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func connectRequest(connectionID, userID string) events.APIGatewayWebsocketProxyRequest {
	req := events.APIGatewayWebsocketProxyRequest{}
	req.RequestContext.ConnectionID = connectionID
	if userID != "" {
		req.QueryStringParameters = map[string]string{"userId": userID}
	}
	return req
}

func TestHandleConnect(t *testing.T) {
	t.Run("registers the connection under its user", func(t *testing.T) {
		connections := new(mocks.ConnectionStore)
		connections.On("AddConnection", mock.Anything, &models.Connection{
			ConnectionId: "conn-1", IdUser: 1,
		}).Return(nil).Once()

		h := NewConnectionsHandler(connections, nil)
		resp, err := h.HandleConnect(context.Background(), connectRequest("conn-1", "1"))

		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		connections.AssertExpectations(t)
	})

	t.Run("connection without a user id is rejected", func(t *testing.T) {
		connections := new(mocks.ConnectionStore)

		h := NewConnectionsHandler(connections, nil)
		resp, err := h.HandleConnect(context.Background(), connectRequest("conn-1", ""))

		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		connections.AssertNotCalled(t, "AddConnection", mock.Anything, mock.Anything)
	})

	t.Run("store failure maps to 500", func(t *testing.T) {
		connections := new(mocks.ConnectionStore)
		connections.On("AddConnection", mock.Anything, mock.Anything).Return(errors.New("throttled")).Once()

		h := NewConnectionsHandler(connections, nil)
		resp, err := h.HandleConnect(context.Background(), connectRequest("conn-1", "1"))

		assert.Error(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}

func TestHandleDisconnect(t *testing.T) {
	t.Run("deregisters the connection", func(t *testing.T) {
		connections := new(mocks.ConnectionStore)
		connections.On("RemoveConnection", mock.Anything, "conn-1").Return(nil).Once()

		h := NewConnectionsHandler(connections, nil)
		resp, err := h.HandleDisconnect(context.Background(), connectRequest("conn-1", ""))

		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		connections.AssertExpectations(t)
	})

	t.Run("store failure maps to 500", func(t *testing.T) {
		connections := new(mocks.ConnectionStore)
		connections.On("RemoveConnection", mock.Anything, "conn-1").Return(errors.New("throttled")).Once()

		h := NewConnectionsHandler(connections, nil)
		resp, err := h.HandleDisconnect(context.Background(), connectRequest("conn-1", ""))

		assert.Error(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}
