package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/term"
)

// dispatchTimeout bounds how long a notification tool may run.
const dispatchTimeout = 5 * time.Second

// Handler notifies when the verdict for a watched directory flips between
// acceptable and not acceptable. The first verdict seen only sets the
// baseline.
type Handler struct {
	enabled bool
	sender  Sender

	// interactive reports whether a user is at the terminal.
	interactive func() bool

	mu   sync.Mutex
	last map[string]bool
}

// NewHandler creates a handler using the platform sender. A disabled
// handler never sends anything.
func NewHandler(enabled bool) *Handler {
	return NewHandlerWithSender(enabled, NewSender())
}

// NewHandlerWithSender creates a handler with a custom sender.
func NewHandlerWithSender(enabled bool, sender Sender) *Handler {
	return &Handler{
		enabled:     enabled,
		sender:      sender,
		interactive: isInteractive,
		last:        make(map[string]bool),
	}
}

// isEnabled is false when disabled, in CI, or without a terminal.
func (h *Handler) isEnabled() bool {
	return h.enabled && !isCI() && h.interactive()
}

// isCI checks for common CI environment variables.
func isCI() bool {
	ciVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"JENKINS_URL",
		"BUILDKITE",
		"TF_BUILD",
		"CODEBUILD_BUILD_ID",
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// isInteractive checks stdout then stderr for a TTY.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) || term.IsTerminal(int(os.Stderr.Fd()))
}

// OnVerdict records the verdict for dir and sends a notification if it
// differs from the previous one. It reports whether a notification was
// dispatched.
func (h *Handler) OnVerdict(dir string, acceptable bool, summary string) bool {
	h.mu.Lock()
	prev, seen := h.last[dir]
	h.last[dir] = acceptable
	h.mu.Unlock()

	if !seen || prev == acceptable || !h.isEnabled() {
		return false
	}

	n := NewNotification(
		"ednavalidate: "+filepath.Base(dir),
		fmt.Sprintf("Submission is now %s", summary),
		TypeSuccess,
	)
	if !acceptable {
		n.NotificationType = TypeFailure
	}
	h.dispatch(n)
	return true
}

// dispatch sends n and waits at most dispatchTimeout. Failures are
// dropped; a notification never affects a validation run.
func (h *Handler) dispatch(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.sender.SendVisual(n)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
}
