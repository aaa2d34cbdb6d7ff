package dto

// CreateJobRequest is the POST /job body. JobID is required and a pointer
// so that an absent field is distinguishable from a literal 0; the other
// fields arrive as empty strings when absent. Unknown fields are rejected
// at decode time.
type CreateJobRequest struct {
	JobID       *int   `json:"job_id"`
	URL         string `json:"url"`
	Description string `json:"description"`
	By          string `json:"by"`
	ByName      string `json:"by_name"`
}

// UpdateJobRequest is the PUT /job body. JobID is required; Status is the
// lowercase wire value of the target job status.
type UpdateJobRequest struct {
	JobID       *int   `json:"job_id"`
	Status      string `json:"status"`
	Description string `json:"description"`
	By          string `json:"by"`
}
