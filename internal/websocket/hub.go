package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"notekeeper-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SyncChannel is the Redis pub/sub channel shared by every instance.
const SyncChannel = "note_sync"

type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	// UserID -> connected clients (multi-device)
	clients map[uuid.UUID]map[*Client]struct{}

	// Sends happen under the read lock and closes under the write lock, so a
	// client's Send channel is never written after it is closed.
	mu sync.RWMutex

	// Optional; nil means single-instance delivery only.
	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	set, ok := h.clients[client.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[client.UserID] = set
	}
	set[client] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})
}

// Unregister is idempotent.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
	}
}

func (h *Hub) ClientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendToUser delivers frame to the user's local clients and, when Redis is
// configured, to clients connected to peer instances.
func (h *Hub) SendToUser(ctx context.Context, userID uuid.UUID, frame Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	h.deliverLocal(userID, data)

	if h.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(clusterMessage{
		Origin:       h.instanceID,
		TargetUserID: userID.String(),
		Message:      data,
	})
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, SyncChannel, payload).Err()
}

func (h *Hub) deliverLocal(userID uuid.UUID, data []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients[userID] {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}

	h.mu.Lock()
	for _, client := range slow {
		h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"user_id": userID})
		h.removeLocked(client)
	}
	h.mu.Unlock()
}

// Run relays messages published by peer instances until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		<-ctx.Done()
		return
	}

	pubsub := h.rdb.Subscribe(ctx, SyncChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleClusterMessage(msg.Payload)
		}
	}
}

func (h *Hub) handleClusterMessage(raw string) {
	var payload clusterMessage
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err})
		return
	}
	if payload.Origin == h.instanceID {
		return
	}

	userID, err := uuid.Parse(payload.TargetUserID)
	if err != nil {
		return
	}
	h.deliverLocal(userID, payload.Message)
}
