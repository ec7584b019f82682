//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
)

// darwinSender implements Sender for macOS using osascript
type darwinSender struct {
	visualAvailable bool
}

func newDarwinSender() Sender {
	return &darwinSender{visualAvailable: toolAvailable("osascript")}
}

func newLinuxSender() Sender {
	return &noopSender{}
}

func newWindowsSender() Sender {
	return &noopSender{}
}

// SendVisual sends a visual notification using osascript
func (s *darwinSender) SendVisual(n Notification) error {
	if !s.visualAvailable {
		return nil
	}

	script := fmt.Sprintf(`display notification %q with title %q`, n.Message, n.Title)
	return exec.Command("osascript", "-e", script).Run()
}

func (s *darwinSender) VisualAvailable() bool {
	return s.visualAvailable
}
