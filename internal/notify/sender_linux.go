//go:build linux

package notify

import (
	"os"
	"os/exec"
)

// linuxSender implements Sender for Linux using notify-send
type linuxSender struct {
	visualAvailable bool
}

func newLinuxSender() Sender {
	return &linuxSender{
		visualAvailable: toolAvailable("notify-send") && hasDisplay(),
	}
}

func newDarwinSender() Sender {
	return &noopSender{}
}

func newWindowsSender() Sender {
	return &noopSender{}
}

// hasDisplay checks for an X11 or Wayland display
func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// SendVisual sends a visual notification using notify-send
func (s *linuxSender) SendVisual(n Notification) error {
	if !s.visualAvailable {
		return nil
	}

	urgency := "normal"
	if n.NotificationType == TypeFailure {
		urgency = "critical"
	}

	cmd := exec.Command("notify-send", "-u", urgency, n.Title, n.Message)
	return cmd.Run()
}

func (s *linuxSender) VisualAvailable() bool {
	return s.visualAvailable
}
