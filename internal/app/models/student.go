package models

import "time"

// ResponseMap holds a student's raw survey answers keyed by question_id.
// Values are option value tokens, not display text.
type ResponseMap map[string]string

// Recommendation is a single course suggestion produced by the recommendation
// engine. The JSON field names follow the external catalog contract and are
// persisted (and returned to clients) verbatim.
type Recommendation struct {
	SubjectName      string `json:"SubjectName" example:"Physics"`
	PaperName        string `json:"PaperName" example:"Classical Mechanics I"`
	SubjectGroupName string `json:"SubjectGroupName" example:"Science"`
}

// Student defines the student model based on the 'students' table.
// StudentID is only unique together with the college.
type Student struct {
	ID         int64  `json:"id" db:"id" example:"1"`
	CollegeID  int64  `json:"-" db:"college_id"`
	StudentID  string `json:"studentId" db:"student_id" example:"S1001"` // Student's number within the college
	Name       string `json:"name" db:"name" example:"Jane Doe"`
	Department string `json:"department" db:"department" example:"Physics"`
	Semester   string `json:"semester" db:"semester" example:"Third"`

	// Responses is nil until the student submits answers.
	Responses ResponseMap `json:"responses,omitempty" db:"responses"`
	// Recommendations is nil until a submission produced a result. It is only
	// ever written by the recommendation engine, never accepted from clients.
	Recommendations []Recommendation `json:"recommendations,omitempty" db:"recommendations"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	College *College `json:"college,omitempty"`
}
