package services

import (
	"fmt"
	"html"
	"time"

	"github.com/avalue/ci-relay/models"
)

// Notification carries everything the formatter needs to assemble a chat
// message. Empty strings mean "not supplied". Elapsed is nil for creation
// events; update events pass the computed duration.
type Notification struct {
	RepoName    string
	Status      models.Status
	Previous    models.Status
	Description string
	URL         string
	By          string
	ByName      string
	Elapsed     *time.Duration
}

// FormatNotification assembles the chat message text for a status change.
// This is the only place message English is produced. The function is
// total and deterministic.
//
// Precedence: a supplied description replaces the generated headline
// verbatim; the attribution, link, and elapsed lines are appended after
// the body in that order.
func FormatNotification(n Notification) string {
	text := n.Description
	if text == "" {
		text = headline(n)
	}

	if n.By != "" && n.ByName != "" {
		text += fmt.Sprintf("\ntriggered by: <a href=\"%s\">%s</a>", html.EscapeString(n.By), n.ByName)
	}
	if n.URL != "" {
		text += fmt.Sprintf("\nlink: <a href=\"%s\">%s</a>", html.EscapeString(n.URL), n.RepoName)
	}
	if n.Elapsed != nil {
		text += "\nelapsed: " + FormatDuration(*n.Elapsed)
	}
	return text
}

func headline(n Notification) string {
	switch n.Status {
	case models.StatusIdle:
		// Idle without having transitioned through Running means the
		// repo never started anything, which is a different message
		// from a cancelled run.
		if n.Previous != models.StatusRunning {
			return fmt.Sprintf("repo: %s is doing nothing 💤", n.RepoName)
		}
		return fmt.Sprintf("repo: %s deployment was cancelled ⛔️", n.RepoName)
	case models.StatusRunning:
		return fmt.Sprintf("🚧 %s's job is running...", n.RepoName)
	case models.StatusSuccess:
		return fmt.Sprintf("✅ %s's job has completed", n.RepoName)
	case models.StatusFailure:
		return fmt.Sprintf("🚨 %s's job encountered failure", n.RepoName)
	case models.StatusCancelled:
		return fmt.Sprintf("⛔️ %s's job was cancelled", n.RepoName)
	}
	return fmt.Sprintf("repo: %s is doing nothing 💤", n.RepoName)
}

// FormatDuration renders a duration in its largest whole unit below the
// next rollover: seconds under a minute, minutes under an hour, hours
// under a day, days beyond that.
func FormatDuration(elapsed time.Duration) string {
	seconds := int64(elapsed.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%d second(s)", seconds)
	}
	if minutes := seconds / 60; minutes < 60 {
		return fmt.Sprintf("%d minute(s)", minutes)
	}
	if hours := seconds / 3600; hours < 24 {
		return fmt.Sprintf("%d hour(s)", hours)
	}
	return fmt.Sprintf("%d day(s)", seconds/86400)
}
