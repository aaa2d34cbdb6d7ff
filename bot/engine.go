package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/avalue/ci-relay/models"
	"github.com/avalue/ci-relay/repositories"
	"github.com/avalue/ci-relay/services"
)

// Engine is the dialogue state machine. One logical instance exists per
// chat (keyed through Storage); the struct itself is shared and
// stateless between calls.
//
// State transitions happen only after the store mutation they depend on
// has succeeded, so a failed command never leaves the chat pointing at
// rows that don't exist.
type Engine struct {
	repos         *repositories.RepoRepository
	jobs          *repositories.JobRepository
	storage       Storage
	sender        services.Sender
	defaultStatus models.Status
	now           func() time.Time
	newToken      func() string
}

// NewEngine creates a dialogue engine over the shared store handle.
func NewEngine(db *gorm.DB, storage Storage, sender services.Sender, defaultStatus models.Status) *Engine {
	return &Engine{
		repos:         repositories.NewRepoRepository(db),
		jobs:          repositories.NewJobRepository(db),
		storage:       storage,
		sender:        sender,
		defaultStatus: defaultStatus,
		now:           time.Now,
		newToken:      models.NewRepoToken,
	}
}

// HandleMessage runs one dialogue turn for a chat.
func (e *Engine) HandleMessage(ctx context.Context, chatID int64, text string) error {
	state, err := e.storage.Get(ctx, chatID)
	if err != nil {
		return fmt.Errorf("dialogue state for chat %d: %w", chatID, err)
	}

	switch state.Phase {
	case PhaseStart:
		return e.handleStart(ctx, chatID)
	case PhaseConfiguring:
		return e.handleConfiguring(ctx, chatID, state, text)
	case PhaseSelected:
		return e.handleSelected(ctx, chatID, state, text)
	}
	// Unknown phase in storage: treat like a fresh chat.
	return e.handleStart(ctx, chatID)
}

// handleStart greets the chat on its first message and moves it to the
// configuring phase with an empty repo set.
func (e *Engine) handleStart(ctx context.Context, chatID int64) error {
	if err := e.storage.Set(ctx, chatID, State{Phase: PhaseConfiguring, Repos: []string{}}); err != nil {
		return err
	}
	return e.sender.Send(ctx, chatID,
		"Let's start by configuring your first repo. Type /help for more info")
}

func (e *Engine) handleConfiguring(ctx context.Context, chatID int64, state State, text string) error {
	cmd, ok := parseCommand(text)
	if !ok {
		return e.sender.Send(ctx, chatID, invalidReply)
	}

	switch cmd.name {
	case "help":
		return e.sender.Send(ctx, chatID, generalHelp)

	case "list":
		repos, err := e.repos.FindByIDs(state.Repos)
		if err != nil {
			return err
		}
		if len(repos) == 0 {
			return e.sender.Send(ctx, chatID, "No repo configured. Type /help to get started.")
		}
		byID := make(map[string]models.Repo, len(repos))
		for _, repo := range repos {
			byID[repo.ID] = repo
		}
		var lines []string
		for i, id := range state.Repos {
			if repo, ok := byID[id]; ok {
				lines = append(lines, fmt.Sprintf("%d. %s", i+1, repo.Name))
			}
		}
		return e.sender.Send(ctx, chatID, strings.Join(lines, "\n"))

	case "today":
		jobs, err := e.jobs.FindByReposSince(state.Repos, e.startOfToday())
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			return e.sender.Send(ctx, chatID, "No running job today. Start running job to see them here.")
		}
		return e.sender.Send(ctx, chatID, renderJobs(jobs))

	case "create":
		if cmd.arg == "" {
			return e.sender.Send(ctx, chatID, invalidReply)
		}
		token := e.newToken()
		_, err := e.repos.Create(models.Repo{
			ID:          token,
			Name:        cmd.arg,
			Status:      e.defaultStatus,
			ChatBinding: chatID,
		})
		if err != nil {
			return err
		}
		state.Repos = append(state.Repos, token)
		if err := e.storage.Set(ctx, chatID, state); err != nil {
			return err
		}
		if err := e.sender.Send(ctx, chatID, fmt.Sprintf("Successfully added repo: %s", cmd.arg)); err != nil {
			return err
		}
		return e.sender.Send(ctx, chatID, fmt.Sprintf("key: %s", token))

	case "select_repo":
		index, err := strconv.Atoi(cmd.arg)
		if err != nil {
			return e.sender.Send(ctx, chatID, invalidReply)
		}
		if index < 1 || index > len(state.Repos) {
			return e.sender.Send(ctx, chatID, "Requested repo does not exist.")
		}
		repo, err := e.repos.FindByID(state.Repos[index-1])
		if err != nil {
			return err
		}
		state.Phase = PhaseSelected
		state.Selected = repo.ID
		if err := e.storage.Set(ctx, chatID, state); err != nil {
			return err
		}
		return e.sender.Send(ctx, chatID, fmt.Sprintf("Selecting repo name: %s", repo.Name))

	case "reset":
		if err := e.repos.DeleteByChatBinding(chatID); err != nil {
			return err
		}
		if err := e.storage.Reset(ctx, chatID); err != nil {
			return err
		}
		return e.sender.Send(ctx, chatID, "Successfully reset all state")
	}

	return e.sender.Send(ctx, chatID, invalidReply)
}

func (e *Engine) handleSelected(ctx context.Context, chatID int64, state State, text string) error {
	cmd, ok := parseCommand(text)
	if !ok {
		return e.sender.Send(ctx, chatID, invalidReply)
	}

	switch cmd.name {
	case "help":
		return e.sender.Send(ctx, chatID, repoHelp)

	case "get_info":
		repo, err := e.repos.FindByID(state.Selected)
		if err != nil {
			return err
		}
		if err := e.sender.Send(ctx, chatID, fmt.Sprintf("name: %s", repo.Name)); err != nil {
			return err
		}
		return e.sender.Send(ctx, chatID, fmt.Sprintf("key: ||%s||", repo.ID))

	case "today":
		jobs, err := e.jobs.FindByRepoSince(state.Selected, e.startOfToday())
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			return e.sender.Send(ctx, chatID, "No running job today. Start running job to see them here.")
		}
		return e.sender.Send(ctx, chatID, renderJobs(jobs))

	case "running":
		jobs, err := e.jobs.FindRunningByRepo(state.Selected)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			return e.sender.Send(ctx, chatID, "No running job configured. Start running job to see them here.")
		}
		return e.sender.Send(ctx, chatID, renderJobs(jobs))

	case "latest":
		job, err := e.jobs.FindLatest(state.Selected)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return e.sender.Send(ctx, chatID, "No latest running job. Start running job to see them here.")
		}
		if err != nil {
			return err
		}
		return e.sender.Send(ctx, chatID, renderJob(job))

	case "rename":
		if cmd.arg == "" {
			return e.sender.Send(ctx, chatID, invalidReply)
		}
		if err := e.repos.UpdateName(state.Selected, cmd.arg); err != nil {
			return err
		}
		return e.sender.Send(ctx, chatID, "Successfully updated repo name")

	case "delete":
		if err := e.repos.Delete(state.Selected); err != nil {
			return err
		}
		kept := state.Repos[:0:0]
		for _, id := range state.Repos {
			if id != state.Selected {
				kept = append(kept, id)
			}
		}
		state = State{Phase: PhaseConfiguring, Repos: kept}
		if err := e.storage.Set(ctx, chatID, state); err != nil {
			return err
		}
		return e.sender.Send(ctx, chatID, "Successfully deleted repo.")

	case "cancel":
		state = State{Phase: PhaseConfiguring, Repos: state.Repos}
		if err := e.storage.Set(ctx, chatID, state); err != nil {
			return err
		}
		return e.sender.Send(ctx, chatID, "Deselected repo.")
	}

	return e.sender.Send(ctx, chatID, invalidReply)
}

// startOfToday is the /today cutoff: UTC midnight.
func (e *Engine) startOfToday() time.Time {
	now := e.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func renderJob(job models.Job) string {
	line := fmt.Sprintf("#%d %s: started %s",
		job.ID, job.Status, job.StartedAt.UTC().Format("2006-01-02 15:04:05"))
	if job.Status != models.StatusRunning {
		line += ", elapsed: " + services.FormatDuration(job.ElapsedDuration())
	}
	return line
}

func renderJobs(jobs []models.Job) string {
	lines := make([]string, 0, len(jobs))
	for _, job := range jobs {
		lines = append(lines, renderJob(job))
	}
	return strings.Join(lines, "\n")
}
