// Package notify sends desktop notifications when a watched submission
// changes verdict. It shells out to the native OS tool (osascript,
// notify-send, PowerShell) and degrades to a no-op when none is available.
package notify

// NotificationType represents the type of notification event
type NotificationType string

const (
	// TypeSuccess marks a submission that became acceptable
	TypeSuccess NotificationType = "success"
	// TypeFailure marks a submission that became unacceptable
	TypeFailure NotificationType = "failure"
)

// Notification represents a single notification event to dispatch
type Notification struct {
	Title            string
	Message          string
	NotificationType NotificationType
}

// NewNotification creates a new Notification with the given parameters
func NewNotification(title, message string, notificationType NotificationType) Notification {
	return Notification{
		Title:            title,
		Message:          message,
		NotificationType: notificationType,
	}
}
