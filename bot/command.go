package bot

import "strings"

// command is a parsed chat message of the form "/name arg...". The bot
// username suffix Telegram appends in groups ("/help@SomeBot") is
// stripped.
type command struct {
	name string
	arg  string
}

// parseCommand splits a message into command and argument. ok is false
// when the text is not a command at all.
func parseCommand(text string) (command, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return command{}, false
	}
	name, arg, _ := strings.Cut(text[1:], " ")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return command{}, false
	}
	return command{name: name, arg: strings.TrimSpace(arg)}, true
}

const generalHelp = `These commands are supported:
/help - display this text.
/list - display all configured repos.
/today - display all jobs that was created today.
/create <repo_name> - create new repo. i.e. /create Turbo Incubator Prototype
/select_repo <index> - select repo for manipulation by index. i.e. /select_repo 1
/reset - delete every repo for this chat and start over.`

const repoHelp = `These commands are supported:
/help - display this text.
/get_info - display current repo info.
/today - display all jobs that was created today for current repo.
/running - display all running jobs for current repo.
/latest - get latest job created for this repo.
/rename <name> - rename current repo.
/delete - delete selected repo.
/cancel - deselect current repo for manipulation.`

const invalidReply = "Invalid command. see /help for more info."
