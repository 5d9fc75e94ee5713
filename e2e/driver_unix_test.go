//go:build e2e && unix

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

// keep at most this much terminal output per session
const maxOutput = 1 << 20

var binPath = "articlegrip_e2e"

const (
	KeyEnter = "\r"
	KeyCtrlC = "\x03"
	KeyDown  = "j"
	KeyNext  = "l"
	KeyPrev  = "h"
	KeyRetry = "r"
	KeyQuit  = "q"
)

// escapes strips CSI, OSC, charset and keypad sequences plus carriage returns
var escapes = regexp.MustCompile(
	`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07]*\x07|\x1b[()][A-Za-z]|\x1b[=>]|\r`,
)

// session runs the binary on a pseudo terminal and records what it prints
type session struct {
	t    *testing.T
	home string
	cmd  *exec.Cmd
	ptmx *os.File

	mu     sync.Mutex
	output bytes.Buffer
	exited chan struct{}
}

func newSession(t *testing.T) *session {
	return &session{t: t, home: t.TempDir(), exited: make(chan struct{})}
}

// Start launches the app with a 120x40 terminal and an isolated HOME
func (s *session) Start(args ...string) error {
	s.cmd = exec.Command(binPath, args...)
	s.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+s.home,
		"XDG_CONFIG_HOME="+filepath.Join(s.home, ".config"),
		"ARTICLEGRIP_E2E_TEST=1",
	)

	ptmx, err := pty.StartWithSize(s.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("start on pty: %w", err)
	}
	s.ptmx = ptmx

	go s.record()
	go func() {
		_ = s.cmd.Wait()
		close(s.exited)
	}()
	return nil
}

func (s *session) record() {
	chunk := make([]byte, 8192)
	for {
		n, err := s.ptmx.Read(chunk)
		if n > 0 {
			s.mu.Lock()
			s.output.Write(chunk[:n])
			if over := s.output.Len() - maxOutput; over > 0 {
				s.output.Next(over)
			}
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Send writes raw keys to the terminal
func (s *session) Send(keys string) error {
	_, err := s.ptmx.Write([]byte(keys))
	return err
}

// Type sends text one rune at a time so each rune is its own key message
func (s *session) Type(text string) error {
	for _, r := range text {
		if err := s.Send(string(r)); err != nil {
			return err
		}
		time.Sleep(50 * time.Millisecond)
	}
	return nil
}

func (s *session) Next() error  { return s.Send(KeyNext) }
func (s *session) Prev() error  { return s.Send(KeyPrev) }
func (s *session) Retry() error { return s.Send(KeyRetry) }
func (s *session) Quit() error  { return s.Send(KeyQuit) }

// Raw returns everything recorded so far
func (s *session) Raw() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output.String()
}

// Plain returns the recorded output without escape sequences
func (s *session) Plain() string {
	return escapes.ReplaceAllString(s.Raw(), "")
}

// Ready waits for the marker printed before the program starts
func (s *session) Ready() bool {
	return s.eventually(func() bool { return strings.Contains(s.Raw(), "__READY__") }, 5*time.Second)
}

// See waits for text to show up in the plain output
func (s *session) See(text string) bool {
	return s.eventually(func() bool { return strings.Contains(s.Plain(), text) }, 3*time.Second)
}

// Exited waits for the process to end
func (s *session) Exited(timeout time.Duration) bool {
	select {
	case <-s.exited:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (s *session) eventually(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
	return true
}

// Fail logs the tail of the output and stops the test
func (s *session) Fail(format string, args ...any) {
	s.t.Helper()
	out := s.Plain()
	if len(out) > 4000 {
		out = out[len(out)-4000:]
	}
	s.t.Logf("terminal tail:\n%s", out)
	s.t.Fatalf(format, args...)
}

// Close hangs up the terminal and makes sure the process is gone
func (s *session) Close() {
	if s.ptmx != nil {
		_ = s.ptmx.Close()
	}
	if s.cmd != nil && s.cmd.Process != nil && !s.Exited(time.Second) {
		_ = s.cmd.Process.Kill()
		<-s.exited
	}
}
