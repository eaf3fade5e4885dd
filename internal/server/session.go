package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lawnchairsociety/amphipod/internal/antispam"
	"github.com/lawnchairsociety/amphipod/internal/board"
	"github.com/lawnchairsociety/amphipod/internal/logger"
	"github.com/lawnchairsociety/amphipod/internal/report"
	"github.com/lawnchairsociety/amphipod/internal/search"
)

const welcome = "Amphipod burrow solver. Paste a board, then send a blank line or \"solve\". Type \"help\" for commands."

const helpText = `Commands:
  solve            solve the board entered so far (a blank line does the same)
  clear            discard the board entered so far
  unfold on|off    insert the two hidden rows before solving
  history on|off   print every configuration of the solution
  help             show this text
  quit             disconnect
Any other line is read as part of a board diagram.`

// Session is one connected client's conversation: it accumulates board lines
// and answers each submitted board with a report.
type Session struct {
	server  *Server
	client  Client
	ip      string
	lines   []string
	unfold  bool
	history bool
	solved  int
	flood   *antispam.Tracker

	mu           sync.Mutex
	lastActivity time.Time
	solving      bool
}

func newSession(s *Server, client Client, ip string) *Session {
	fc := s.serverConfig.Flood
	return &Session{
		flood:        antispam.NewTracker(antispam.ConfigFromYAML(fc.Enabled, fc.MaxSubmissions, fc.TimeWindowSeconds, fc.RepeatCooldownSeconds)),
		server:       s,
		client:       client,
		ip:           ip,
		unfold:       s.searchConfig.Unfold,
		history:      s.searchConfig.History,
		lastActivity: time.Now(),
	}
}

// Run reads and handles lines until the client quits or the connection fails.
func (ss *Session) Run() {
	ss.client.WriteLine(welcome)

	for {
		line, err := ss.client.ReadLine()
		if err != nil {
			return
		}
		ss.touch()

		if !ss.handleLine(line) {
			return
		}
	}
}

// handleLine processes one input line. It returns false when the session
// should end.
func (ss *Session) handleLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		if len(ss.lines) > 0 {
			ss.submit()
		}
		return true
	}

	switch strings.ToLower(fields[0]) {
	case "solve":
		if len(ss.lines) == 0 {
			ss.client.WriteLine("No board entered yet.")
			return true
		}
		ss.submit()
	case "clear":
		ss.lines = nil
		ss.client.WriteLine("Board cleared.")
	case "unfold":
		ss.toggle("unfold", &ss.unfold, fields[1:])
	case "history":
		ss.toggle("history", &ss.history, fields[1:])
	case "help":
		ss.client.WriteLine(helpText)
	case "quit", "exit":
		ss.client.WriteLine("Bye.")
		return false
	default:
		ss.addBoardLine(line)
	}
	return true
}

func (ss *Session) toggle(name string, flag *bool, args []string) {
	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "on":
			*flag = true
		case "off":
			*flag = false
		default:
			ss.client.WriteLine(fmt.Sprintf("Usage: %s on|off", name))
			return
		}
	}
	state := "off"
	if *flag {
		state = "on"
	}
	ss.client.WriteLine(fmt.Sprintf("%s is %s.", name, state))
}

func (ss *Session) addBoardLine(line string) {
	limit := ss.server.serverConfig.MaxBoardLines
	if limit > 0 && len(ss.lines) >= limit {
		ss.lines = nil
		ss.reject(fmt.Sprintf("Board too long (more than %d lines). Board cleared.", limit))
		return
	}
	ss.lines = append(ss.lines, line)
}

// submit parses and solves the pending board, then clears it.
func (ss *Session) submit() {
	text := strings.Join(ss.lines, "\n")
	ss.lines = nil

	if locked, remaining := ss.server.submissionLimiter.IsLocked(ss.ip); locked {
		ss.client.WriteLine(fmt.Sprintf("Too many rejected boards. Try again in %s.", remaining.Round(time.Second)))
		return
	}

	if result := ss.flood.Check(text); !result.Allowed {
		ss.client.WriteLine(fmt.Sprintf("%s Try again in %d seconds.", result.Reason, result.WaitSeconds))
		return
	}

	var opts []board.ParseOption
	if ss.unfold {
		opts = append(opts, board.WithUnfold())
	}
	start, err := board.ParseString(text, opts...)
	if err != nil {
		ss.reject(fmt.Sprintf("Cannot read board: %v", err))
		return
	}

	ss.setSolving(true)
	defer ss.setSolving(false)

	ctx := ss.server.ctx
	if err := ss.server.solveSlots.acquire(ctx); err != nil {
		ss.client.WriteLine("Server shutting down.")
		return
	}
	defer ss.server.solveSlots.release()

	var searchOpts []search.Option
	if limit := ss.server.serverConfig.MaxExpanded; limit > 0 {
		searchOpts = append(searchOpts, search.WithMaxExpanded(limit))
	}

	out, err := ss.server.service.Solve(ctx, start, searchOpts...)
	switch {
	case errors.Is(err, search.ErrUnsolvable):
		ss.reject("No solution: these amphipods can never all reach their rooms.")
		return
	case errors.Is(err, search.ErrLimitExceeded):
		ss.reject("Search limit reached before a solution was found.")
		return
	case err != nil:
		logger.Error("Solve failed", "remote_addr", ss.client.RemoteAddr(), "error", err)
		ss.client.WriteLine("Solve failed.")
		return
	}

	ss.server.submissionLimiter.RecordSuccess(ss.ip)
	ss.solved++

	var sb strings.Builder
	err = report.Write(&sb, out.Result, report.Options{
		History:  ss.history,
		Stats:    true,
		CachedAt: out.SolvedAt,
	})
	if err != nil {
		logger.Error("Failed to render report", "error", err)
		return
	}
	ss.client.Write([]byte(sb.String()))

	logger.Info("Board solved",
		"remote_addr", ss.client.RemoteAddr(),
		"cost", out.Cost,
		"moves", len(out.Moves),
		"cached", out.Cached)
}

// reject reports a bad submission and counts it against the client's address.
func (ss *Session) reject(message string) {
	ss.client.WriteLine(message)
	if locked, lockout := ss.server.submissionLimiter.RecordRejection(ss.ip); locked {
		logger.Warning("Client locked out after rejected boards", "ip", ss.ip, "lockout", lockout)
		ss.client.WriteLine(fmt.Sprintf("Too many rejected boards. Locked out for %s.", lockout))
	}
}

func (ss *Session) touch() {
	ss.mu.Lock()
	ss.lastActivity = time.Now()
	ss.mu.Unlock()
}

func (ss *Session) setSolving(v bool) {
	ss.mu.Lock()
	ss.solving = v
	ss.lastActivity = time.Now()
	ss.mu.Unlock()
}

// idleFor returns how long the client has been silent, zero while a search
// is running on its behalf.
func (ss *Session) idleFor() time.Duration {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.solving {
		return 0
	}
	return time.Since(ss.lastActivity)
}
