// Package bot implements the chat dialogue: a per-chat finite-state
// machine that registers repos, hands out their tokens, and answers job
// history queries.
package bot

// Phase names a dialogue state. The set is closed; storage round-trips
// the value as JSON.
type Phase string

const (
	// PhaseStart is the initial state of a chat that has never interacted.
	PhaseStart Phase = "start"
	// PhaseConfiguring accepts the general command vocabulary.
	PhaseConfiguring Phase = "configuring"
	// PhaseSelected additionally carries a selected repo and accepts the
	// repo-scoped vocabulary.
	PhaseSelected Phase = "selected"
)

// State is one chat's conversational state: the phase plus the data the
// phase carries. Repos is the ordered set of repo ids this chat has
// configured; Selected is the repo the repo-scoped commands act on.
type State struct {
	Phase    Phase    `json:"phase"`
	Repos    []string `json:"repos,omitempty"`
	Selected string   `json:"selected,omitempty"`
}

// StartState is the state of a chat before its first interaction.
func StartState() State {
	return State{Phase: PhaseStart}
}
