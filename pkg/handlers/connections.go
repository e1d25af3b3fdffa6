package handlers

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/remy/cryptofolio-ledger/pkg/models"
	"github.com/remy/cryptofolio-ledger/pkg/storage"
)

// ConnectionsHandler serves the websocket API's $connect and $disconnect
// routes, keeping the per-user push endpoint registry current. The connection
// ids it stores are the ones the push publisher later fans out to.
type ConnectionsHandler struct {
	Connections storage.ConnectionStore
	Logger      *slog.Logger
}

// NewConnectionsHandler creates a new ConnectionsHandler.
func NewConnectionsHandler(connections storage.ConnectionStore, logger *slog.Logger) *ConnectionsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConnectionsHandler{Connections: connections, Logger: logger}
}

// HandleConnect registers a new client connection under its user. The user id
// arrives as a query string parameter on the websocket upgrade request.
func (h *ConnectionsHandler) HandleConnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID, err := strconv.ParseInt(request.QueryStringParameters["userId"], 10, 64)
	if err != nil || userID <= 0 {
		h.Logger.Warn("rejecting connection without a user id",
			"connection_id", request.RequestContext.ConnectionID)
		return events.APIGatewayProxyResponse{StatusCode: 400}, nil
	}

	conn := &models.Connection{
		ConnectionId: request.RequestContext.ConnectionID,
		IdUser:       userID,
	}
	if err := h.Connections.AddConnection(ctx, conn); err != nil {
		h.Logger.Error("failed to register connection",
			"connection_id", conn.ConnectionId, "id_user", userID, "error", err)
		return events.APIGatewayProxyResponse{StatusCode: 500}, err
	}

	h.Logger.Info("client connected", "connection_id", conn.ConnectionId, "id_user", userID)
	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

// HandleDisconnect deregisters a closed connection.
func (h *ConnectionsHandler) HandleDisconnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID
	if err := h.Connections.RemoveConnection(ctx, connectionID); err != nil {
		h.Logger.Error("failed to deregister connection", "connection_id", connectionID, "error", err)
		return events.APIGatewayProxyResponse{StatusCode: 500}, err
	}

	h.Logger.Info("client disconnected", "connection_id", connectionID)
	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

// HandleDefault logs unexpected client messages; clients are not expected to
// send anything over the socket.
func (h *ConnectionsHandler) HandleDefault(_ context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.Logger.Info("received unexpected client message",
		"connection_id", request.RequestContext.ConnectionID, "body", request.Body)
	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}
