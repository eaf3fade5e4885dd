package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const smallBoard = "#######\n#.....#\n##B#A##\n #####\n"

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()

	dir := t.TempDir()
	// A missing config file means defaults; keep the run away from data/.
	base := []string{"-config", filepath.Join(dir, "none.yaml")}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append(base, args...), strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writePuzzles(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "puzzles.yaml")
	content := `puzzles:
  - name: swap
    expected_cost: 46
    board: |
      #######
      #.....#
      ##B#A##
       #####
  - name: wrong
    expected_cost: 45
    board: |
      #######
      #.....#
      ##B#A##
       #####
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunStdin(t *testing.T) {
	code, out, errOut := runCLI(t, smallBoard)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	if !strings.HasPrefix(out, "state 0:\n"+smallBoard) {
		t.Errorf("output should start with the initial board, got %q", out)
	}
	if !strings.HasSuffix(out, "cost: 46\n") {
		t.Errorf("output should end with the cost, got %q", out)
	}
}

func TestRunNoHistory(t *testing.T) {
	code, out, _ := runCLI(t, smallBoard, "-history=false")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	want := "solution:\n#######\n#.....#\n##A#B##\n #####\n\ncost: 46\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRunInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.txt")
	if err := os.WriteFile(path, []byte(smallBoard), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	code, out, _ := runCLI(t, "", "-input", path, "-history=false", "-stats")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "configurations expanded") {
		t.Errorf("-stats output missing, got %q", out)
	}
}

func TestRunMalformedBoard(t *testing.T) {
	code, _, errOut := runCLI(t, "#..X..#\n")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "Error:") {
		t.Errorf("stderr = %q, want an error", errOut)
	}
}

func TestRunUnsolvable(t *testing.T) {
	code, _, errOut := runCLI(t, "#.....#\n###A###\n  #B#\n  ###\n")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "no solution") {
		t.Errorf("stderr = %q, want no solution", errOut)
	}
}

func TestRunNamedPuzzle(t *testing.T) {
	puzzles := writePuzzles(t)

	code, out, _ := runCLI(t, "", "-puzzles", puzzles, "-name", "swap", "-history=false")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasSuffix(out, "cost: 46\n") {
		t.Errorf("output = %q", out)
	}

	code, _, errOut := runCLI(t, "", "-puzzles", puzzles, "-name", "wrong")
	if code != 1 || !strings.Contains(errOut, "expected cost 45") {
		t.Errorf("cost mismatch: exit code = %d, stderr = %q", code, errOut)
	}

	code, _, _ = runCLI(t, "", "-puzzles", puzzles, "-name", "missing")
	if code != 1 {
		t.Errorf("missing puzzle: exit code = %d, want 1", code)
	}
}

func TestRunList(t *testing.T) {
	code, out, _ := runCLI(t, "", "-puzzles", writePuzzles(t), "-list")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if out != "swap: 46\nwrong: 45\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRunCache(t *testing.T) {
	db := filepath.Join(t.TempDir(), "solutions.db")

	code, _, _ := runCLI(t, smallBoard, "-db", db)
	if code != 0 {
		t.Fatalf("first run exit code = %d", code)
	}

	code, out, _ := runCLI(t, smallBoard, "-db", db, "-history=false", "-stats")
	if code != 0 {
		t.Fatalf("second run exit code = %d", code)
	}
	if !strings.Contains(out, "replayed from a solution stored") {
		t.Errorf("second run should replay the cached solution, got %q", out)
	}
}

func TestRunDump(t *testing.T) {
	code, _, errOut := runCLI(t, smallBoard, "-dump", "-history=false")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(errOut, "HallwayLength") || !strings.Contains(errOut, "Expanded") {
		t.Errorf("dump missing fields, got %q", errOut)
	}
}

func TestRunBadFlag(t *testing.T) {
	code, _, _ := runCLI(t, "", "-nope")
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}
