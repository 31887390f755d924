package services

import (
	"errors"
	"fmt"
	"time"
)

var ErrQuestionNotFound = errors.New("question not found")
var ErrUserNotFound = errors.New("user not found")

const (
	CACHE_TTL_1_MIN   = 1 * time.Minute
	CACHE_TTL_5_MINS  = 5 * time.Minute
	CACHE_TTL_15_MINS = 15 * time.Minute

	TOKEN_TTL = 24 * time.Hour

	ATTACHMENT_LOCK_TTL = 8 * time.Second
)

func DBKeyQuestions() string {
	return "questions:all"
}

func DBKeyQuestion(id string) string {
	return fmt.Sprintf("questions:%s", id)
}

func DBKeyQuestionLock(id string) string {
	return fmt.Sprintf("questions:%s:attachments", id)
}
