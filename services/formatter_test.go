package services

import (
	"strings"
	"testing"
	"time"

	"github.com/avalue/ci-relay/models"
)

func TestFormatNotificationHeadlines(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		n    Notification
		want string
	}{
		{
			name: "running",
			n:    Notification{RepoName: "Turbo", Status: models.StatusRunning, Previous: models.StatusIdle},
			want: "🚧 Turbo's job is running...",
		},
		{
			name: "success",
			n:    Notification{RepoName: "Turbo", Status: models.StatusSuccess, Previous: models.StatusRunning},
			want: "✅ Turbo's job has completed",
		},
		{
			name: "failure",
			n:    Notification{RepoName: "Turbo", Status: models.StatusFailure, Previous: models.StatusRunning},
			want: "🚨 Turbo's job encountered failure",
		},
		{
			name: "cancelled",
			n:    Notification{RepoName: "Turbo", Status: models.StatusCancelled, Previous: models.StatusRunning},
			want: "⛔️ Turbo's job was cancelled",
		},
		{
			name: "idle after running means cancelled",
			n:    Notification{RepoName: "Turbo", Status: models.StatusIdle, Previous: models.StatusRunning},
			want: "repo: Turbo deployment was cancelled ⛔️",
		},
		{
			name: "idle without running means doing nothing",
			n:    Notification{RepoName: "Turbo", Status: models.StatusIdle, Previous: models.StatusSuccess},
			want: "repo: Turbo is doing nothing 💤",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatNotification(tt.n); got != tt.want {
				t.Errorf("FormatNotification: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatNotificationAppendedLines(t *testing.T) {
	t.Parallel()
	elapsed := 75 * time.Second
	n := Notification{
		RepoName: "Turbo",
		Status:   models.StatusSuccess,
		Previous: models.StatusRunning,
		URL:      "https://ci.example.com/build/42",
		By:       "https://example.com/alice",
		ByName:   "alice",
		Elapsed:  &elapsed,
	}
	want := "✅ Turbo's job has completed" +
		"\ntriggered by: <a href=\"https://example.com/alice\">alice</a>" +
		"\nlink: <a href=\"https://ci.example.com/build/42\">Turbo</a>" +
		"\nelapsed: 1 minute(s)"
	if got := FormatNotification(n); got != want {
		t.Errorf("FormatNotification: got %q, want %q", got, want)
	}
}

// Link URLs go into an HTML attribute, so quotes and ampersands must be
// HTML-escaped, not Go-escaped; Telegram rejects \"-style escapes.
func TestFormatNotificationEscapesLinkAttributes(t *testing.T) {
	t.Parallel()
	n := Notification{
		RepoName: "Turbo",
		Status:   models.StatusSuccess,
		Previous: models.StatusRunning,
		URL:      `https://ci.example.com/build?id=42&tag="v1"`,
	}
	want := "✅ Turbo's job has completed" +
		"\nlink: <a href=\"https://ci.example.com/build?id=42&amp;tag=&#34;v1&#34;\">Turbo</a>"
	if got := FormatNotification(n); got != want {
		t.Errorf("FormatNotification: got %q, want %q", got, want)
	}
}

func TestFormatNotificationAttributionNeedsBothParts(t *testing.T) {
	t.Parallel()
	n := Notification{
		RepoName: "Turbo",
		Status:   models.StatusSuccess,
		Previous: models.StatusRunning,
		By:       "https://example.com/alice",
	}
	if got := FormatNotification(n); strings.Contains(got, "triggered by") {
		t.Errorf("attribution line rendered with only a URL: %q", got)
	}
}

// A supplied description replaces the generated headline verbatim; the
// extra lines still follow.
func TestFormatNotificationDescriptionPrecedence(t *testing.T) {
	t.Parallel()
	for _, status := range []models.Status{
		models.StatusIdle, models.StatusRunning, models.StatusCancelled,
		models.StatusSuccess, models.StatusFailure,
	} {
		n := Notification{
			RepoName:    "Turbo",
			Status:      status,
			Previous:    models.StatusRunning,
			Description: "custom body",
			URL:         "https://ci.example.com/build/42",
		}
		got := FormatNotification(n)
		if !strings.HasPrefix(got, "custom body\n") {
			t.Errorf("status %s: body is not the supplied description: %q", status, got)
		}
		if strings.Contains(got, "job") || strings.Contains(got, "doing nothing") {
			t.Errorf("status %s: generated headline leaked into %q", status, got)
		}
	}
}

func TestFormatNotificationDeterministic(t *testing.T) {
	t.Parallel()
	elapsed := 90 * time.Second
	n := Notification{
		RepoName:    "Turbo",
		Status:      models.StatusFailure,
		Previous:    models.StatusRunning,
		Description: "broke the build",
		URL:         "https://ci.example.com",
		By:          "https://example.com/bob",
		ByName:      "bob",
		Elapsed:     &elapsed,
	}
	first := FormatNotification(n)
	second := FormatNotification(n)
	if first != second {
		t.Errorf("not deterministic: %q vs %q", first, second)
	}
}

func TestFormatDurationBoundaries(t *testing.T) {
	t.Parallel()
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0 second(s)"},
		{59, "59 second(s)"},
		{60, "1 minute(s)"},
		{3599, "59 minute(s)"},
		{3600, "1 hour(s)"},
		{86399, "23 hour(s)"},
		{86400, "1 day(s)"},
		{200000, "2 day(s)"},
	}
	for _, tt := range tests {
		got := FormatDuration(time.Duration(tt.seconds) * time.Second)
		if got != tt.want {
			t.Errorf("FormatDuration(%ds): got %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
