// Package sse keeps one Server-Sent Events subscriber per request ID.
package sse

import (
	"sync"

	"intechdl/models"
)

const bufferSize = 20

type Client struct {
	Channel chan models.DownloadProgress
}

var (
	clients = make(map[string]*Client)
	mu      sync.RWMutex
)

// Register subscribes requestID, replacing (and closing) any earlier
// subscriber for the same ID.
func Register(requestID string) *Client {
	mu.Lock()
	defer mu.Unlock()

	if old, ok := clients[requestID]; ok {
		close(old.Channel)
	}
	client := &Client{
		Channel: make(chan models.DownloadProgress, bufferSize),
	}
	clients[requestID] = client
	return client
}

func Get(requestID string) *Client {
	mu.RLock()
	defer mu.RUnlock()
	return clients[requestID]
}

// Unregister closes the subscriber's channel, but only if client is still
// the registered one.
func Unregister(requestID string, client *Client) {
	mu.Lock()
	defer mu.Unlock()

	if current, ok := clients[requestID]; ok && current == client {
		close(current.Channel)
		delete(clients, requestID)
	}
}

// Send delivers progress without blocking; updates are dropped when nobody
// listens or the buffer is full.
func Send(progress models.DownloadProgress) {
	mu.RLock()
	defer mu.RUnlock()

	client := clients[progress.RequestID]
	if client == nil {
		return
	}
	select {
	case client.Channel <- progress:
	default:
	}
}
