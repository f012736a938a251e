package models

// College defines the college model based on the 'colleges' table
type College struct {
	ID        int64  `json:"id" db:"id" example:"1"`
	CollegeID string `json:"collegeId" db:"college_id" example:"ACME"`            // External identifier for the college
	Name      string `json:"name" db:"name" example:"Acme University"`           // Unique display name, used in API paths
	BaseURL   string `json:"baseUrl" db:"base_url" example:"https://api.acme.edu"` // Root URL of the college's course catalog API
}

// CollegeUser links a panel operator account to exactly one college.
// It defines which students an operator may view.
type CollegeUser struct {
	ID        int64  `json:"id" db:"id"`
	CollegeID int64  `json:"-" db:"college_id"`
	Username  string `json:"username" db:"username"` // Account name of the operator, unique per college

	// Relations (populated when needed)
	College *College `json:"college,omitempty"`
}
