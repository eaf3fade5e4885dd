package test

import (
	"fmt"
	"time"

	"github.com/lawnchairsociety/amphipod/internal/testclient"
)

const (
	swapBoard = `#######
#.....#
##B#A##
 #####`

	exampleBoard = `#############
#...........#
###B#C#B#D###
  #A#D#C#A#
  #########`

	// A lone room whose B can never leave the hallway for a B room.
	unsolvableBoard = `#.....#
###A###
  #B#
  ###`

	solveTimeout = 30 * time.Second
)

// solveAndCheck submits diagram on a fresh session and compares the cost.
func solveAndCheck(testName, serverAddr, diagram string, want int, commands ...string) TestResult {
	client, err := testclient.NewTestClient(uniqueName("solve"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	for _, cmd := range commands {
		client.SendCommand(cmd)
	}

	logAction(testName, "Submitting board")
	start := time.Now()
	client.SendBoard(diagram)

	if !client.WaitForMessage("cost: ", solveTimeout) {
		return fail(testName, "No cost within %s, messages: %v", solveTimeout, client.GetLastMessages(5))
	}
	got := client.Cost()
	logResult(testName, got == want, fmt.Sprintf("cost %d in %s", got, time.Since(start).Round(time.Millisecond)))
	if got != want {
		return fail(testName, "cost = %d, want %d", got, want)
	}

	return pass(testName, "Solved with cost %d", got)
}

// =============================================================================
// Group 2: Rejected Boards
// =============================================================================

// TestMalformedBoard tests that an unreadable diagram is rejected
func TestMalformedBoard(serverAddr string) TestResult {
	const testName = "Malformed Board"

	client, err := testclient.NewTestClient(uniqueName("malformed"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	client.SendBoard("#..X..#")
	if !client.WaitForMessage("Cannot read board", time.Second) {
		return fail(testName, "Board was not rejected, messages: %v", client.GetMessages())
	}

	return pass(testName, "Rejected with a parse error")
}

// TestUnsolvableBoard tests that a board with no solution is reported
func TestUnsolvableBoard(serverAddr string) TestResult {
	const testName = "Unsolvable Board"

	client, err := testclient.NewTestClient(uniqueName("unsolvable"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	client.SendBoard(unsolvableBoard)
	if !client.WaitForMessage("No solution", solveTimeout) {
		return fail(testName, "Board was not reported unsolvable, messages: %v", client.GetMessages())
	}

	return pass(testName, "Reported as unsolvable")
}

// =============================================================================
// Group 3: Solving
// =============================================================================

// TestSolveSwap tests the two-amphipod swap
func TestSolveSwap(serverAddr string) TestResult {
	return solveAndCheck("Solve Swap", serverAddr, swapBoard, 46)
}

// TestSolveExample tests the four-room example burrow
func TestSolveExample(serverAddr string) TestResult {
	return solveAndCheck("Solve Example", serverAddr, exampleBoard, 12521)
}

// TestSolveUnfolded tests the example with the hidden rows inserted
func TestSolveUnfolded(serverAddr string) TestResult {
	return solveAndCheck("Solve Unfolded", serverAddr, exampleBoard, 44169, "unfold on")
}

// TestSolveCommand tests submitting with "solve" instead of a blank line
func TestSolveCommand(serverAddr string) TestResult {
	const testName = "Solve Command"

	client, err := testclient.NewTestClient(uniqueName("solvecmd"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	client.SendCommand(swapBoard)
	client.SendCommand("solve")
	if !client.WaitForMessage("cost: 46", solveTimeout) {
		return fail(testName, "No cost after solve, messages: %v", client.GetMessages())
	}

	return pass(testName, "solve submitted the pending board")
}

// TestSolveHistory tests that history prints every configuration
func TestSolveHistory(serverAddr string) TestResult {
	const testName = "Solve History"

	client, err := testclient.NewTestClient(uniqueName("history"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	client.SendCommand("history on")
	client.SendBoard(swapBoard)
	if !client.WaitForMessage("cost: 46", solveTimeout) {
		return fail(testName, "No cost, messages: %v", client.GetMessages())
	}

	// Three moves: the start and two intermediate configurations.
	for i := 0; i < 3; i++ {
		if !client.HasMessage(fmt.Sprintf("state %d:", i)) {
			return fail(testName, "state %d missing from history", i)
		}
	}

	return pass(testName, "History shows every configuration")
}

// TestRepeatedBoard tests that resubmitting the same board at once is refused
func TestRepeatedBoard(serverAddr string) TestResult {
	const testName = "Repeated Board"

	client, err := testclient.NewTestClient(uniqueName("repeat"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	client.SendBoard(swapBoard)
	if !client.WaitForMessage("cost: 46", solveTimeout) {
		return fail(testName, "No cost, messages: %v", client.GetMessages())
	}

	client.SendBoard(swapBoard)
	if !client.WaitForMessage("That board was just submitted.", time.Second) {
		return fail(testName, "Repeat was not refused, messages: %v", client.GetLastMessages(3))
	}

	return pass(testName, "Repeat refused")
}
