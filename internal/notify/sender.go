package notify

import (
	"os/exec"
	"runtime"
)

// Sender delivers a notification to the OS notification system.
type Sender interface {
	SendVisual(n Notification) error
	VisualAvailable() bool
}

// NewSender creates a platform-specific notification sender based on the current OS.
// For unsupported platforms, it returns a no-op sender.
func NewSender() Sender {
	switch runtime.GOOS {
	case "darwin":
		return newDarwinSender()
	case "linux":
		return newLinuxSender()
	case "windows":
		return newWindowsSender()
	default:
		return &noopSender{}
	}
}

// toolAvailable checks if a command-line tool is available in PATH
func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

type noopSender struct{}

func (s *noopSender) SendVisual(_ Notification) error { return nil }
func (s *noopSender) VisualAvailable() bool           { return false }
