package dto

// StatusQuery is the PUT /status query string. Status is the lowercase
// wire value of the repo status enum.
type StatusQuery struct {
	Status      string `form:"status" binding:"required"`
	URL         string `form:"url"`
	Description string `form:"description"`
	By          string `form:"by"`
	ByName      string `form:"by_name"`
}
