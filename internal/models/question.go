package models

import (
	"errors"
	"strings"

	"github.com/uptrace/bun"
)

var ErrQuestionRequired = errors.New("question is required")
var ErrAnswerRequired = errors.New("answer is required")
var ErrStatusUnknown = errors.New("status must be draft or published")

type QuestionStatus string

const (
	QuestionDraft     = "draft"
	QuestionPublished = "published"
)

func (v QuestionStatus) Valid() bool {
	switch v {
	case QuestionDraft, QuestionPublished:
		return true
	default:
		return false
	}
}

// db
type QuestionRecord struct {
	bun.BaseModel `bun:"table:question"`
	QuestionID    string   `bun:"question_id,pk" json:"questionId"`
	Question      string   `bun:"question" json:"question"`
	Answer        string   `bun:"answer" json:"answer"`
	QA            string   `bun:"qa" json:"qa"`
	Status        string   `bun:"status" json:"status"`
	Secondary     string   `bun:"secondary" json:"secondary"`
	CreatedBy     string   `bun:"created_by" json:"createdBy"`
	AuthorRole    string   `bun:"author_role" json:"authorRole"`
	DateLog       string   `bun:"date_log" json:"dateLog"`
	ImageLocation []string `bun:"image_location,type:jsonb" json:"imageLocation"`
	S3Keys        []string `bun:"s3_keys,type:jsonb" json:"s3Keys"`
}

// DeriveQA builds the search substrate from the current question/answer pair.
func DeriveQA(question, answer string) string {
	return strings.ToLower(question) + " " + strings.ToLower(answer)
}

// QuestionPayload is the decoded multipart "data" field of a create/update
// request. Pointer fields distinguish "absent" from "empty" on update.
type QuestionPayload struct {
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Status     *string `json:"status"`
	Secondary  *string `json:"secondary"`
	CreatedBy  *string `json:"createdBy"`
	AuthorRole *string `json:"authorRole"`
	DateLog    *string `json:"dateLog"`
}

// Validate checks the fields a create and an update share. Status, when
// supplied, must be one of the known tags.
func (p *QuestionPayload) Validate() error {
	if p.Status != nil && !QuestionStatus(*p.Status).Valid() {
		return ErrStatusUnknown
	}
	return nil
}

func (p *QuestionPayload) ValidateCreate() error {
	if p.Question == nil || *p.Question == "" {
		return ErrQuestionRequired
	}
	if p.Answer == nil || *p.Answer == "" {
		return ErrAnswerRequired
	}
	return p.Validate()
}

// ApplyTo merges the supplied scalar fields into record and recomputes qa.
func (p *QuestionPayload) ApplyTo(record *QuestionRecord) {
	if p.Question != nil {
		record.Question = *p.Question
	}
	if p.Answer != nil {
		record.Answer = *p.Answer
	}
	if p.Status != nil {
		record.Status = *p.Status
	}
	if p.Secondary != nil {
		record.Secondary = *p.Secondary
	}
	if p.CreatedBy != nil {
		record.CreatedBy = *p.CreatedBy
	}
	if p.AuthorRole != nil {
		record.AuthorRole = *p.AuthorRole
	}
	if p.DateLog != nil {
		record.DateLog = *p.DateLog
	}
	record.QA = DeriveQA(record.Question, record.Answer)
}
