package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"qnabank/internal/models"

	"github.com/go-redis/cache/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockQuestionStore is a mock type for the interfaces.QuestionStore interface
type MockQuestionStore struct {
	mock.Mock
}

func (m *MockQuestionStore) Upsert(ctx context.Context, record *models.QuestionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockQuestionStore) List(ctx context.Context) ([]*models.QuestionRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.QuestionRecord), args.Error(1)
}

func (m *MockQuestionStore) Find(ctx context.Context, id string) (*models.QuestionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuestionRecord), args.Error(1)
}

func (m *MockQuestionStore) Update(ctx context.Context, record *models.QuestionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockQuestionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionStore) AppendAttachment(ctx context.Context, id string, location string, key string) error {
	args := m.Called(ctx, id, location, key)
	return args.Error(0)
}

func (m *MockQuestionStore) Search(ctx context.Context, needle string) ([]*models.QuestionRecord, error) {
	args := m.Called(ctx, needle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.QuestionRecord), args.Error(1)
}

// nopCache always misses; writes and invalidations are accepted silently.
type nopCache struct{}

func (nopCache) Get(ctx context.Context, key string, target any) error { return cache.ErrCacheMiss }
func (nopCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}
func (nopCache) Delete(ctx context.Context, key string) error { return nil }

func strPtr(s string) *string { return &s }

func createPayload() *models.QuestionPayload {
	return &models.QuestionPayload{
		Question:   strPtr("What is 2+2?"),
		Answer:     strPtr("4"),
		Status:     strPtr("published"),
		Secondary:  strPtr("math"),
		CreatedBy:  strPtr("alice"),
		AuthorRole: strPtr("editor"),
		DateLog:    strPtr("2024-01-01"),
	}
}

func TestCreateDerivesQAAndFreshID(t *testing.T) {
	store := new(MockQuestionStore)
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	service := &ServiceQuestion{store: store, cache: nopCache{}}

	first, err := service.Create(context.Background(), createPayload(), 123456)
	assert.NoError(t, err)
	assert.Equal(t, "what is 2+2? 4", first.QA)
	assert.NotEmpty(t, first.QuestionID)
	assert.Empty(t, first.ImageLocation)
	assert.Empty(t, first.S3Keys)

	second, err := service.Create(context.Background(), createPayload(), 123457)
	assert.NoError(t, err)
	assert.NotEqual(t, first.QuestionID, second.QuestionID)

	store.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	store := new(MockQuestionStore)
	service := &ServiceQuestion{store: store, cache: nopCache{}}

	_, err := service.Create(context.Background(), &models.QuestionPayload{}, 123456)
	assert.Error(t, err)
	store.AssertNotCalled(t, "Upsert")
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	store := new(MockQuestionStore)
	service := &ServiceQuestion{store: store, cache: nopCache{}}

	payload := createPayload()
	payload.Status = strPtr("archived")

	_, err := service.Create(context.Background(), payload, 123456)
	assert.ErrorIs(t, err, models.ErrStatusUnknown)
	store.AssertNotCalled(t, "Upsert")
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	store := new(MockQuestionStore)
	service := &ServiceQuestion{store: store, cache: nopCache{}}

	payload := &models.QuestionPayload{Status: strPtr("archived")}

	_, err := service.Update(context.Background(), "q-1", payload, 123456)
	assert.ErrorIs(t, err, models.ErrStatusUnknown)
	store.AssertNotCalled(t, "Find")
	store.AssertNotCalled(t, "Update")
}

func TestUpdateRecomputesQA(t *testing.T) {
	existing := &models.QuestionRecord{
		QuestionID:    "q-1",
		Question:      "What is 2+2?",
		Answer:        "4",
		QA:            models.DeriveQA("What is 2+2?", "4"),
		ImageLocation: []string{"/profile/q-1/0-a.png"},
		S3Keys:        []string{"q-1/0-a.png"},
	}

	store := new(MockQuestionStore)
	store.On("Find", mock.Anything, "q-1").Return(existing, nil)
	store.On("Update", mock.Anything, mock.Anything).Return(nil)

	service := &ServiceQuestion{store: store, cache: nopCache{}}

	updated, err := service.Update(context.Background(), "q-1", &models.QuestionPayload{Answer: strPtr("Four")}, 123456)
	assert.NoError(t, err)
	assert.Equal(t, "what is 2+2? four", updated.QA)
	assert.Equal(t, "q-1", updated.QuestionID)
	assert.Equal(t, []string{"q-1/0-a.png"}, updated.S3Keys, "attachments survive scalar updates")
}

func TestUpdateNotFound(t *testing.T) {
	store := new(MockQuestionStore)
	store.On("Find", mock.Anything, "missing").Return(nil, sql.ErrNoRows)

	service := &ServiceQuestion{store: store, cache: nopCache{}}

	_, err := service.Update(context.Background(), "missing", &models.QuestionPayload{}, 123456)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	store.AssertNotCalled(t, "Update")
}

func TestGetQuestionNotFound(t *testing.T) {
	store := new(MockQuestionStore)
	store.On("Find", mock.Anything, "missing").Return(nil, sql.ErrNoRows)

	service := &ServiceQuestion{store: store, cache: nopCache{}}

	_, err := service.GetQuestion(context.Background(), "missing", 123456)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestDeleteNotFound(t *testing.T) {
	store := new(MockQuestionStore)
	store.On("Find", mock.Anything, "missing").Return(nil, sql.ErrNoRows)

	service := &ServiceQuestion{store: store, cache: nopCache{}}

	err := service.Delete(context.Background(), "missing", 123456)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	store.AssertNotCalled(t, "Delete")
}

func TestSearchLowercasesQuery(t *testing.T) {
	matches := []*models.QuestionRecord{{QuestionID: "q-1"}}

	store := new(MockQuestionStore)
	store.On("Search", mock.Anything, "cat").Return(matches, nil)

	service := &ServiceQuestion{store: store, cache: nopCache{}}

	upper, err := service.Search(context.Background(), "CAT", 123456)
	assert.NoError(t, err)

	lower, err := service.Search(context.Background(), "cat", 123457)
	assert.NoError(t, err)

	assert.Equal(t, upper, lower)
	store.AssertNumberOfCalls(t, "Search", 2)
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	store := new(MockQuestionStore)
	store.On("Search", mock.Anything, "nothing").Return(nil, nil)

	service := &ServiceQuestion{store: store, cache: nopCache{}}

	matches, err := service.Search(context.Background(), "nothing", 123456)
	assert.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}
