package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// JobEvent is pushed to both parties of an assignment when its state changes.
type JobEvent struct {
	Event        string    `json:"event"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	OccurredAt   time.Time `json:"occurred_at"`

	recipients []uuid.UUID
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var events = make(chan *JobEvent, 64)

// NotifyJobEvent queues a job lifecycle event for delivery to the customer
// and the fundi. Delivery is best effort; offline parties are skipped.
func NotifyJobEvent(customerID, fundiID uuid.UUID, event string, assignmentID uuid.UUID) {
	events <- &JobEvent{
		Event:        event,
		AssignmentID: assignmentID,
		OccurredAt:   time.Now().UTC(),
		recipients:   []uuid.UUID{customerID, fundiID},
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-events:
			clientsMu.RLock()
			for _, recipientID := range event.recipients {
				if conn, ok := clients[recipientID]; ok {
					if err := conn.WriteJSON(event); err != nil {
						log.Printf("Error sending event to client %s: %v", recipientID, err)
						conn.Close()
						clientsMu.RUnlock()
						clientsMu.Lock()
						delete(clients, recipientID)
						clientsMu.Unlock()
						clientsMu.RLock()
					}
				}
			}
			clientsMu.RUnlock()
		}
	}
}
