// Package testclient drives a burrowd telnet session the way a person at a
// terminal would.
package testclient

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// Welcome is a fragment of the greeting every new session receives.
const Welcome = "Amphipod burrow solver"

// TestClient represents a test client connection to the burrowd server
type TestClient struct {
	Name     string
	conn     net.Conn
	reader   *bufio.Reader
	writer   *bufio.Writer
	messages []string
	mu       sync.Mutex
	done     chan struct{}
	closed   chan struct{}
}

// newClientConnection creates a basic client connection
func newClientConnection(address string) (*TestClient, error) {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	client := &TestClient{
		conn:     conn,
		reader:   bufio.NewReader(conn),
		writer:   bufio.NewWriter(conn),
		messages: make([]string, 0),
		done:     make(chan struct{}),
		closed:   make(chan struct{}),
	}

	// Start reading messages in background
	go client.readMessages()

	return client, nil
}

// NewTestClient connects to address and waits for the welcome line.
func NewTestClient(name string, address string) (*TestClient, error) {
	client, err := newClientConnection(address)
	if err != nil {
		return nil, err
	}
	client.Name = name

	if !client.WaitForMessage(Welcome, 2*time.Second) {
		messages := client.GetMessages()
		client.Close()
		return nil, fmt.Errorf("no welcome from server, messages: %v", messages)
	}
	client.ClearMessages()

	return client, nil
}

// NewTestClientRaw creates a raw client connection without waiting for the
// welcome line. Use this for testing the connection limits themselves.
func NewTestClientRaw(address string) (*TestClient, error) {
	client, err := newClientConnection(address)
	if err != nil {
		return nil, err
	}
	client.Name = "RawClient"
	return client, nil
}

// readMessages continuously reads messages from the server
func (c *TestClient) readMessages() {
	defer close(c.closed)
	for {
		select {
		case <-c.done:
			return
		default:
			line, err := c.reader.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimRight(line, "\r\n")
			if line != "" {
				c.mu.Lock()
				c.messages = append(c.messages, line)
				c.mu.Unlock()
			}
		}
	}
}

// SendCommand sends a command to the server
func (c *TestClient) SendCommand(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.writer.WriteString(cmd + "\n")
	if err != nil {
		return err
	}
	return c.writer.Flush()
}

// SendBoard sends each line of a board diagram followed by the blank line
// that submits it.
func (c *TestClient) SendBoard(diagram string) error {
	diagram = strings.TrimRight(diagram, "\n")

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.writer.WriteString(diagram + "\n\n"); err != nil {
		return err
	}
	return c.writer.Flush()
}

// GetMessages returns all messages received so far
func (c *TestClient) GetMessages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Return a copy
	result := make([]string, len(c.messages))
	copy(result, c.messages)
	return result
}

// GetLastMessages returns the last N messages
func (c *TestClient) GetLastMessages(n int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n > len(c.messages) {
		n = len(c.messages)
	}

	start := len(c.messages) - n
	result := make([]string, n)
	copy(result, c.messages[start:])
	return result
}

// ClearMessages clears the message buffer
func (c *TestClient) ClearMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = make([]string, 0)
}

// WaitForMessage waits for a message containing the specified text (with timeout)
func (c *TestClient) WaitForMessage(text string, timeout time.Duration) bool {
	_, ok := c.WaitForAnyMessage([]string{text}, timeout)
	return ok
}

// WaitForAnyMessage waits for any of the specified texts (with timeout)
func (c *TestClient) WaitForAnyMessage(texts []string, timeout time.Duration) (string, bool) {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		messages := c.GetMessages()
		for _, msg := range messages {
			for _, text := range texts {
				if strings.Contains(msg, text) {
					return text, true
				}
			}
		}
		time.Sleep(20 * time.Millisecond)
	}

	return "", false
}

// WaitForClose reports whether the server hung up within timeout.
func (c *TestClient) WaitForClose(timeout time.Duration) bool {
	select {
	case <-c.closed:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Cost returns the value of the last "cost: N" line, or -1 if none arrived.
func (c *TestClient) Cost() int {
	messages := c.GetMessages()
	for i := len(messages) - 1; i >= 0; i-- {
		var cost int
		if _, err := fmt.Sscanf(messages[i], "cost: %d", &cost); err == nil {
			return cost
		}
	}
	return -1
}

// HasMessage checks if any message contains the specified text
func (c *TestClient) HasMessage(text string) bool {
	messages := c.GetMessages()
	for _, msg := range messages {
		if strings.Contains(msg, text) {
			return true
		}
	}
	return false
}

// Close closes the client connection
func (c *TestClient) Close() error {
	select {
	case <-c.done:
		return nil
	default:
	}
	close(c.done)
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
