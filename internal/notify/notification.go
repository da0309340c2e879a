// Package notify carries user-visible notifications across the
// post/redirect/get boundary and sends enrollment notices.
package notify

import "time"

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one toast shown on the next rendered page.
type Notification struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func newNotification(level Level, message string) Notification {
	return Notification{Level: level, Message: message, CreatedAt: time.Now().UTC()}
}

func Success(message string) Notification { return newNotification(LevelSuccess, message) }
func Info(message string) Notification    { return newNotification(LevelInfo, message) }
func Warning(message string) Notification { return newNotification(LevelWarning, message) }
func Error(message string) Notification   { return newNotification(LevelError, message) }
