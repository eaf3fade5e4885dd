// Package test holds end-to-end scenarios that drive a running burrowd over
// telnet. cmd/testrunner runs them against a live server.
package test

import (
	"fmt"
	"sync/atomic"
)

// uniqueCounter provides unique client names within a single run
var uniqueCounter uint64

func uniqueName(base string) string {
	return fmt.Sprintf("%s-%d", base, atomic.AddUint64(&uniqueCounter, 1))
}

// Verbose controls whether detailed logging is shown during tests
var Verbose = false

// TestResult represents the result of a test
type TestResult struct {
	Name    string
	Passed  bool
	Message string
}

func pass(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: true, Message: fmt.Sprintf(format, args...)}
}

func fail(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: false, Message: fmt.Sprintf(format, args...)}
}

// logAction logs a test action when verbose mode is enabled
func logAction(testName, action string) {
	if Verbose {
		fmt.Printf("  [%s] %s\n", testName, action)
	}
}

// logResult logs an expected vs actual result when verbose mode is enabled
func logResult(testName string, success bool, detail string) {
	if Verbose {
		status := "OK"
		if !success {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s: %s\n", testName, status, detail)
	}
}

// Scenario is one end-to-end check against the server at an address.
type Scenario func(serverAddr string) TestResult

// AllScenarios lists every scenario in the order RunAllTests runs them.
// Rejection scenarios come before a successful solve so the server's
// per-address lockout counter is reset before the run ends.
var AllScenarios = []Scenario{
	// Group 1: Connection & Commands
	TestBasicConnection,
	TestHelpCommand,
	TestToggleCommands,
	TestClearCommand,
	TestQuitCommand,

	// Group 2: Rejected Boards
	TestMalformedBoard,
	TestUnsolvableBoard,

	// Group 3: Solving
	TestSolveSwap,
	TestSolveExample,
	TestSolveHistory,
	TestSolveUnfolded,
	TestSolveCommand,
	TestRepeatedBoard,
}

// RunAllTests runs every scenario against serverAddr.
func RunAllTests(serverAddr string) []TestResult {
	results := make([]TestResult, 0, len(AllScenarios))
	for _, scenario := range AllScenarios {
		results = append(results, scenario(serverAddr))
	}
	return results
}

// PrintResults prints a summary of results to stdout.
func PrintResults(results []TestResult) {
	passed := 0
	failed := 0

	fmt.Println("============================================================")
	fmt.Println("Integration Test Results")
	fmt.Println("============================================================")
	fmt.Println()

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Printf("[%s] %s: %s\n", status, r.Name, r.Message)
	}

	fmt.Println()
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %d | Passed: %d | Failed: %d\n", len(results), passed, failed)
	fmt.Println("------------------------------------------------------------")
}
