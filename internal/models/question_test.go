package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestDeriveQA(t *testing.T) {
	assert.Equal(t, "what is 2+2? 4", DeriveQA("What is 2+2?", "4"))
	assert.Equal(t, " ", DeriveQA("", ""))
}

func TestValidateCreate(t *testing.T) {
	payload := &QuestionPayload{Answer: strPtr("4")}
	assert.ErrorIs(t, payload.ValidateCreate(), ErrQuestionRequired)

	payload = &QuestionPayload{Question: strPtr("What is 2+2?"), Answer: strPtr("")}
	assert.ErrorIs(t, payload.ValidateCreate(), ErrAnswerRequired)

	payload = &QuestionPayload{Question: strPtr("What is 2+2?"), Answer: strPtr("4")}
	assert.NoError(t, payload.ValidateCreate())

	payload = &QuestionPayload{Question: strPtr("What is 2+2?"), Answer: strPtr("4"), Status: strPtr("archived")}
	assert.ErrorIs(t, payload.ValidateCreate(), ErrStatusUnknown)
}

func TestValidateStatus(t *testing.T) {
	assert.NoError(t, (&QuestionPayload{}).Validate(), "absent status is fine")
	assert.NoError(t, (&QuestionPayload{Status: strPtr(QuestionDraft)}).Validate())
	assert.NoError(t, (&QuestionPayload{Status: strPtr(QuestionPublished)}).Validate())
	assert.ErrorIs(t, (&QuestionPayload{Status: strPtr("archived")}).Validate(), ErrStatusUnknown)
	assert.ErrorIs(t, (&QuestionPayload{Status: strPtr("")}).Validate(), ErrStatusUnknown)
}

func TestApplyToMergesAndRecomputesQA(t *testing.T) {
	record := &QuestionRecord{
		QuestionID: "q-1",
		Question:   "What is 2+2?",
		Answer:     "4",
		QA:         DeriveQA("What is 2+2?", "4"),
		Status:     QuestionDraft,
		CreatedBy:  "alice",
	}

	payload := &QuestionPayload{
		Answer: strPtr("Four"),
		Status: strPtr(QuestionPublished),
	}
	payload.ApplyTo(record)

	assert.Equal(t, "What is 2+2?", record.Question, "absent fields stay untouched")
	assert.Equal(t, "Four", record.Answer)
	assert.Equal(t, QuestionPublished, record.Status)
	assert.Equal(t, "alice", record.CreatedBy)
	assert.Equal(t, "what is 2+2? four", record.QA, "qa tracks the merged pair")
}

func TestFailedFiltersOutcomes(t *testing.T) {
	outcomes := []AttachmentOutcome{
		{Filename: "a.png", OK: true},
		{Filename: "b.png", Error: "boom"},
	}

	failed := Failed(outcomes)
	assert.Len(t, failed, 1)
	assert.Equal(t, "b.png", failed[0].Filename)

	assert.Empty(t, Failed(nil))
}
