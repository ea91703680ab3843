package ports

// Notifier sends desktop notifications.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// Notify shows a notification with the given title and message.
	Notify(title, message string) error
}
