package services

import "errors"

// Domain failures raised by the service layer. Controllers translate these
// into HTTP statuses; anything else is a 500.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")
	ErrAlreadyAttempted  = errors.New("quiz already attempted")
	ErrSessionClosed     = errors.New("session already submitted")
	ErrSessionExpired    = errors.New("session time is over")
	ErrQuizNotPublished  = errors.New("quiz is not published")
	ErrQuestionNotInQuiz = errors.New("question does not belong to this quiz")
	ErrQuizHasResults    = errors.New("quiz has submitted attempts")
	ErrMaterialNoContent = errors.New("material has no extracted content")
	ErrDuplicateVideo    = errors.New("session already has a video submission")
)
