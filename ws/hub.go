package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	Clients       map[string]map[*websocket.Conn]*Client // keyed by materialID
	GlobalClients map[*websocket.Conn]*Client            // list pages
	Mutex         sync.RWMutex
}

var H = Hub{
	Clients:       make(map[string]map[*websocket.Conn]*Client),
	GlobalClients: make(map[*websocket.Conn]*Client),
}

// MaterialStatusUpdate is pushed while an upload walks through the
// extraction pipeline.
type MaterialStatusUpdate struct {
	MaterialID string `json:"material_id"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

func (h *Hub) Register(materialID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.Clients[materialID]; !ok {
		h.Clients[materialID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.Clients[materialID][conn] = client

	go h.writePump(materialID, conn)
}

func (h *Hub) RegisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.GlobalClients[conn] = client

	go h.writeGlobalPump(conn)
}

func (h *Hub) Broadcast(materialID string, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.Clients[materialID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

func (h *Hub) BroadcastGlobal(data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.GlobalClients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// SendMaterialStatus pushes a processing status to watchers of one material.
func SendMaterialStatus(materialID, status, errorMsg string) {
	update := MaterialStatusUpdate{
		MaterialID: materialID,
		Status:     status,
		Error:      errorMsg,
	}
	data, err := json.Marshal(update)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.Broadcast(materialID, data)
}

// BroadcastMaterialListChanged tells list pages to refetch.
func BroadcastMaterialListChanged() {
	H.BroadcastGlobal([]byte(`{"type": "material_list_changed"}`))
}

// BroadcastQuizListChanged tells the published-quiz catalog pages to refetch.
func BroadcastQuizListChanged() {
	H.BroadcastGlobal([]byte(`{"type": "quiz_list_changed"}`))
}

func (h *Hub) Unregister(materialID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Clients[materialID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.Clients, materialID)
		}
	}
}

func (h *Hub) UnregisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.GlobalClients[conn]; ok {
		close(client.Send)
		delete(h.GlobalClients, conn)
	}
}

func (h *Hub) writePump(materialID string, conn *websocket.Conn) {
	h.Mutex.RLock()
	client := h.Clients[materialID][conn]
	h.Mutex.RUnlock()
	if client == nil {
		return
	}
	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func (h *Hub) writeGlobalPump(conn *websocket.Conn) {
	h.Mutex.RLock()
	client := h.GlobalClients[conn]
	h.Mutex.RUnlock()
	if client == nil {
		return
	}
	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
