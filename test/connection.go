package test

import (
	"fmt"
	"time"

	"github.com/lawnchairsociety/amphipod/internal/testclient"
)

// =============================================================================
// Group 1: Connection & Commands
// =============================================================================

// TestBasicConnection tests that clients can connect and receive welcome
func TestBasicConnection(serverAddr string) TestResult {
	const testName = "Basic Connection"

	logAction(testName, "Connecting...")
	client, err := testclient.NewTestClientRaw(serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	found := client.WaitForMessage(testclient.Welcome, 2*time.Second)
	logResult(testName, found, fmt.Sprintf("Received %d messages", len(client.GetMessages())))
	if !found {
		return fail(testName, "No welcome received, messages: %v", client.GetMessages())
	}

	return pass(testName, "Connected and welcomed")
}

// TestHelpCommand tests that help lists the session commands
func TestHelpCommand(serverAddr string) TestResult {
	const testName = "Help Command"

	client, err := testclient.NewTestClient(uniqueName("help"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	logAction(testName, "Sending 'help'")
	client.SendCommand("help")

	for _, want := range []string{"solve", "unfold on|off", "history on|off", "quit"} {
		if !client.WaitForMessage(want, time.Second) {
			return fail(testName, "Help text is missing %q", want)
		}
	}

	return pass(testName, "Help lists every command")
}

// TestToggleCommands tests the unfold and history switches
func TestToggleCommands(serverAddr string) TestResult {
	const testName = "Toggle Commands"

	client, err := testclient.NewTestClient(uniqueName("toggle"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	steps := []struct{ send, want string }{
		{"unfold on", "unfold is on."},
		{"UNFOLD OFF", "unfold is off."},
		{"history on", "history is on."},
		{"history", "history is on."},
		{"history maybe", "Usage: history on|off"},
	}
	for _, step := range steps {
		logAction(testName, fmt.Sprintf("Sending %q", step.send))
		client.ClearMessages()
		client.SendCommand(step.send)
		if !client.WaitForMessage(step.want, time.Second) {
			return fail(testName, "%q did not answer %q, messages: %v", step.send, step.want, client.GetMessages())
		}
	}

	return pass(testName, "Switches answer on, off, state and usage")
}

// TestClearCommand tests that clear discards a partly entered board
func TestClearCommand(serverAddr string) TestResult {
	const testName = "Clear Command"

	client, err := testclient.NewTestClient(uniqueName("clear"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	client.SendCommand("#######")
	client.SendCommand("clear")
	if !client.WaitForMessage("Board cleared.", time.Second) {
		return fail(testName, "clear was not acknowledged")
	}

	// With nothing pending a blank line is ignored.
	client.ClearMessages()
	client.SendCommand("")
	client.SendCommand("help")
	if !client.WaitForMessage("Commands:", time.Second) {
		return fail(testName, "session stopped answering after clear")
	}
	if client.HasMessage("Cannot read board") {
		return fail(testName, "cleared lines were still submitted")
	}

	return pass(testName, "Pending board discarded")
}

// TestQuitCommand tests that quit says goodbye and hangs up
func TestQuitCommand(serverAddr string) TestResult {
	const testName = "Quit Command"

	client, err := testclient.NewTestClient(uniqueName("quit"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	client.SendCommand("quit")
	if !client.WaitForMessage("Bye.", time.Second) {
		return fail(testName, "No goodbye, messages: %v", client.GetMessages())
	}
	if !client.WaitForClose(2 * time.Second) {
		return fail(testName, "Server kept the connection open after quit")
	}

	return pass(testName, "Disconnected after quit")
}
