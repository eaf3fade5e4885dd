package server

import (
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketClient wraps a WebSocket connection for browser-based sessions.
// A message may carry a whole board; its lines are handed out one at a time.
type WebSocketClient struct {
	conn    *websocket.Conn
	readBuf []string
	mu      sync.Mutex // protects readBuf and serializes writes
}

// NewWebSocketClient creates a new WebSocketClient from a WebSocket connection.
func NewWebSocketClient(conn *websocket.Conn) *WebSocketClient {
	return &WebSocketClient{conn: conn}
}

// ReadLine returns the next line, reading a new message when the buffer is
// empty. Lines keep their leading whitespace. A message ending in a newline
// does not produce an extra blank line.
func (c *WebSocketClient) ReadLine() (string, error) {
	c.mu.Lock()
	if len(c.readBuf) > 0 {
		line := c.readBuf[0]
		c.readBuf = c.readBuf[1:]
		c.mu.Unlock()
		return line, nil
	}
	c.mu.Unlock()

	_, message, err := c.conn.ReadMessage()
	if err != nil {
		return "", err
	}

	text := strings.TrimSuffix(string(message), "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}

	c.mu.Lock()
	c.readBuf = append(c.readBuf, lines[1:]...)
	c.mu.Unlock()

	return lines[0], nil
}

// WriteLine sends message as a single text frame.
func (c *WebSocketClient) WriteLine(message string) error {
	return c.Write([]byte(message))
}

// Write sends data as a single text frame.
func (c *WebSocketClient) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close closes the WebSocket connection.
func (c *WebSocketClient) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the remote address as a string.
func (c *WebSocketClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
