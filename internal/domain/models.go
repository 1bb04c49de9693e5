package domain

import "time"

// Question is one multiple-choice question with a single correct answer,
// matched against picks by exact string equality.
type Question struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct string   `json:"correct"`
}

// QuestionDraft is admin input for a new question. The bank trusts it as-is:
// no check that Correct is one of Options or that any field is filled.
type QuestionDraft struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct string   `json:"correct"`
}

// AnswerSet maps question IDs to the option text the participant picked.
// Unanswered questions are simply absent and score as incorrect.
type AnswerSet map[int]string

// SubmissionRecord is one participant's completed attempt. Created once at
// submission time and never mutated afterwards.
type SubmissionRecord struct {
	Name        string    `json:"name"`
	Twitter     string    `json:"twitter"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Leaderboard is the ranked board for one week, the shape sent to clients.
type Leaderboard struct {
	WeekKey   string             `json:"weekKey"`
	Entries   []SubmissionRecord `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
