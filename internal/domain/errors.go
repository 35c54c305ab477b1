package domain

import "errors"

var (
	// ErrUnknownCategory is returned for a category outside the fixed set.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidQuestion indicates a malformed question write.
	ErrInvalidQuestion = errors.New("invalid question data")
	// ErrInvalidSubmission indicates a malformed quiz result submission.
	ErrInvalidSubmission = errors.New("invalid submission data")
	// ErrDocumentNotFound is returned when updating a document that does not exist.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrSessionNotFound is returned when a live quiz session cannot be restored.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionFinished is returned for any change to a session whose results are saved.
	ErrSessionFinished = errors.New("quiz session already finished")
)
