package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("a user with that username already exists")
	ErrInvalidCredentials  = errors.New("please enter a correct username and password")
	ErrNotEnoughQuestions  = errors.New("not enough questions to start a quiz")
	ErrNoActiveQuiz        = errors.New("no active quiz for this session")
	ErrUnansweredQuestions = errors.New("please answer all questions")
	ErrResultNotFound      = errors.New("result not found")
	ErrInvalidQuestion     = errors.New("invalid question")
	ErrSessionNotFound     = errors.New("session not found")
)
