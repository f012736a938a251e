package models

// Question defines a survey question owned by a college.
// The questionId is only unique together with the college; the same
// identifier may exist in other colleges with a different meaning.
type Question struct {
	ID         int64  `json:"id" db:"id"`
	CollegeID  int64  `json:"-" db:"college_id"`
	QuestionID string `json:"questionId" db:"question_id" example:"Q1"`
	Text       string `json:"text" db:"text" example:"Which time of day do you prefer for classes?"`

	// Relations (populated when needed)
	Options []Option `json:"options,omitempty"`
}

// Option is a selectable answer for a question. The value is the wire-level
// answer token stored in student responses; the text is what humans see.
type Option struct {
	ID         int64  `json:"id" db:"id"`
	QuestionID int64  `json:"-" db:"question_id"`
	Text       string `json:"text" db:"text" example:"Morning"`
	Value      string `json:"value" db:"value" example:"a"`
}

// RecommendationSetting configures how many course recommendations to request
// from the model for one subject group of one college. Groups without a
// setting are skipped by the recommendation engine.
type RecommendationSetting struct {
	ID                 int64  `json:"id" db:"id"`
	CollegeID          int64  `json:"-" db:"college_id"`
	SubjectGroupName   string `json:"subjectGroupName" db:"subject_group_name" example:"Science"`
	NumRecommendations int    `json:"numRecommendations" db:"num_recommendations" example:"3"`
}
