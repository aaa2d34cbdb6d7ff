package models

import "fmt"

// Status is the deployment status enum shared by repos and jobs.
// Stored in the database as the SCREAMING_CASE value, parsed from the
// lowercase wire form used by the webhook API and chat commands.
type Status string

const (
	StatusIdle      Status = "IDLE"
	StatusRunning   Status = "RUNNING"
	StatusCancelled Status = "CANCELLED"
	StatusSuccess   Status = "SUCCESS"
	StatusFailure   Status = "FAILURE"
)

// ParseStatus converts a lowercase wire value into a Status.
func ParseStatus(value string) (Status, error) {
	switch value {
	case "idle":
		return StatusIdle, nil
	case "running":
		return StatusRunning, nil
	case "cancelled":
		return StatusCancelled, nil
	case "success":
		return StatusSuccess, nil
	case "failure":
		return StatusFailure, nil
	}
	return "", fmt.Errorf("unknown status %q: expected idle, running, cancelled, success, or failure", value)
}

// ParseJobStatus is ParseStatus restricted to the job lifecycle variants.
// Jobs are never idle; that variant belongs to the repo-level enum only.
func ParseJobStatus(value string) (Status, error) {
	status, err := ParseStatus(value)
	if err != nil {
		return "", err
	}
	if status == StatusIdle {
		return "", fmt.Errorf("status %q is not a job status: expected running, cancelled, success, or failure", value)
	}
	return status, nil
}
