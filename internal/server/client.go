package server

// Client hides whether a session arrived over telnet or WebSocket.
type Client interface {
	// ReadLine blocks until a line is received. Indentation and blank lines
	// are preserved because board columns are positional.
	ReadLine() (string, error)

	// WriteLine sends one line of text.
	WriteLine(message string) error

	// Write sends a block of text as-is, e.g. a rendered report.
	Write(data []byte) error

	Close() error

	// RemoteAddr returns the client's address for logging.
	RemoteAddr() string
}
