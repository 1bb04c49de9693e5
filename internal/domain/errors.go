package domain

import "errors"

var (
	// ErrNoData is returned when exporting a week with no submissions.
	ErrNoData = errors.New("no leaderboard data to export")
	// ErrInvalidAdminKey is returned on a failed admin gate check.
	ErrInvalidAdminKey = errors.New("invalid admin key")
	// ErrQuestionBankUnavailable indicates the question seed could not be loaded.
	ErrQuestionBankUnavailable = errors.New("question bank unavailable")
)
