// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	"quinto-service/internal/domain/interest"
	wstypes "quinto-service/internal/domain/websocket"
	"quinto-service/internal/pkg/jwt"
	"quinto-service/internal/pkg/session"

	"go.uber.org/zap"
)

// Hub fans real-time events out to connected clients. Brokers keep a socket
// open while the pipeline board is on screen; the hub pushes new leads and
// fresh board snapshots at them.
type Hub struct {
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	Register   chan *Client
	unregister chan *Client

	broadcast chan *BroadcastMessage

	jwtManager     *jwt.Manager
	sessionManager *session.Manager
	logger         *zap.Logger
}

type BroadcastMessage struct {
	IdentityIDs []int64
	Channel     wstypes.ChannelType
	Message     *wstypes.WSMessage
}

func NewHub(jwtManager *jwt.Manager, sessionManager *session.Manager, logger *zap.Logger) *Hub {
	return &Hub{
		clients:        make(map[int64]map[*Client]bool),
		Register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan *BroadcastMessage, 256),
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		logger:         logger,
	}
}

// AuthenticateClient validates the token and the Redis session behind it.
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	claims, err := h.jwtManager.Verify(token)
	if err != nil {
		return nil, err
	}

	if _, err := h.sessionManager.GetSession(ctx, claims.IdentityID, claims.ID); err != nil {
		return nil, err
	}

	return &ClientAuth{
		IdentityID: claims.IdentityID,
		SessionID:  claims.ID,
		Roles:      claims.Roles,
	}, nil
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.identityID] == nil {
		h.clients[client.identityID] = make(map[*Client]bool)
	}
	h.clients[client.identityID][client] = true

	h.logger.Info("websocket client connected",
		zap.Int64("identity_id", client.identityID),
		zap.Int("total", h.totalClientsLocked()))

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"identity_id": client.identityID,
		"session_id":  client.sessionID,
		"roles":       client.roles,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.identityID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.identityID)
			}

			h.logger.Info("websocket client disconnected",
				zap.Int64("identity_id", client.identityID),
				zap.Int("total", h.totalClientsLocked()))
		}
	}
}

func (h *Hub) deliver(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.IdentityIDs == nil {
		for _, clients := range h.clients {
			for client := range clients {
				if client.IsSubscribed(msg.Channel) {
					client.SendMessage(msg.Message)
				}
			}
		}
		return
	}

	for _, identityID := range msg.IdentityIDs {
		for client := range h.clients[identityID] {
			if client.IsSubscribed(msg.Channel) {
				client.SendMessage(msg.Message)
			}
		}
	}
}

// BroadcastLeadCreated tells the listing's broker a new lead just landed on
// the board.
func (h *Hub) BroadcastLeadCreated(brokerID int64, lead *interest.Interest) {
	h.broadcast <- &BroadcastMessage{
		IdentityIDs: []int64{brokerID},
		Channel:     wstypes.ChannelLeads,
		Message:     wstypes.NewMessage(wstypes.EventTypeLeadCreated, lead),
	}
}

// BroadcastBoard pushes a fresh board snapshot to the broker's open sockets.
func (h *Hub) BroadcastBoard(brokerID int64, board *interest.Board) {
	h.broadcast <- &BroadcastMessage{
		IdentityIDs: []int64{brokerID},
		Channel:     wstypes.ChannelPipeline,
		Message:     wstypes.NewMessage(wstypes.EventTypeBoardUpdate, board),
	}
}

// NotifySessionExpired pushes a session-expired event before the connection
// is dropped on the next auth check.
func (h *Hub) NotifySessionExpired(identityID int64, sessionID string) {
	h.broadcast <- &BroadcastMessage{
		IdentityIDs: []int64{identityID},
		Channel:     wstypes.ChannelLeads,
		Message: wstypes.NewMessage(wstypes.EventTypeSessionExpired, map[string]interface{}{
			"session_id": sessionID,
		}),
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClientsLocked()
}

func (h *Hub) totalClientsLocked() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
}
