package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"qnabank/internal/interfaces"
	"qnabank/internal/models"
	"qnabank/internal/pkg/caching"

	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
)

type ServiceQuestion struct {
	container *do.Injector
	store     interfaces.QuestionStore
	cache     caching.Cache
}

func NewServiceQuestion(container *do.Injector) (*ServiceQuestion, error) {
	store, err := do.Invoke[interfaces.QuestionStore](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceQuestion{container, store, cache}, nil
}

// Create inserts a new record with a fresh id and a derived qa field. The
// attachment sequences start empty; uploads are associated afterwards by
// ServiceAttachment.
func (service *ServiceQuestion) Create(ctx context.Context, payload *models.QuestionPayload, traceID int) (*models.QuestionRecord, error) {
	if err := payload.ValidateCreate(); err != nil {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}

	record := &models.QuestionRecord{
		QuestionID:    uuid.NewString(),
		ImageLocation: []string{},
		S3Keys:        []string{},
	}
	payload.ApplyTo(record)

	if err := service.store.Upsert(ctx, record); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	service.invalidate(ctx, record.QuestionID)
	slog.Info("question created", "traceId", traceID, "questionId", record.QuestionID)
	return record, nil
}

func (service *ServiceQuestion) GetQuestions(ctx context.Context, traceID int) ([]*models.QuestionRecord, error) {
	callback := func() ([]*models.QuestionRecord, error) {
		return service.store.List(ctx)
	}

	records, err := caching.UseCache(ctx, service.cache, DBKeyQuestions(), CACHE_TTL_1_MIN, callback)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	slog.Info("questions listed", "traceId", traceID, "count", len(records))
	return records, nil
}

func (service *ServiceQuestion) GetQuestion(ctx context.Context, id string, traceID int) (*models.QuestionRecord, error) {
	callback := func() (*models.QuestionRecord, error) {
		return service.store.Find(ctx, id)
	}

	record, err := caching.UseCache(ctx, service.cache, DBKeyQuestion(id), CACHE_TTL_5_MINS, callback)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(ErrQuestionNotFound, errorx.NotExist)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return record, nil
}

// Update merges the supplied scalar fields into the existing record and
// recomputes qa from the merged question/answer pair; the search field never
// goes stale relative to an applied edit.
func (service *ServiceQuestion) Update(ctx context.Context, id string, payload *models.QuestionPayload, traceID int) (*models.QuestionRecord, error) {
	if err := payload.Validate(); err != nil {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}

	record, err := service.store.Find(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(ErrQuestionNotFound, errorx.NotExist)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	payload.ApplyTo(record)

	if err := service.store.Update(ctx, record); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	service.invalidate(ctx, id)
	slog.Info("question updated", "traceId", traceID, "questionId", id)
	return record, nil
}

// Delete removes the record only. Blob deletion is the caller's concern and
// runs through ServiceAttachment before or alongside this call.
func (service *ServiceQuestion) Delete(ctx context.Context, id string, traceID int) error {
	if _, err := service.store.Find(ctx, id); errors.Is(err, sql.ErrNoRows) {
		return errorx.Wrap(ErrQuestionNotFound, errorx.NotExist)
	} else if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	if err := service.store.Delete(ctx, id); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	service.invalidate(ctx, id)
	slog.Info("question deleted", "traceId", traceID, "questionId", id)
	return nil
}

// Search matches the lowercased query against the derived qa field. An empty
// result is a success, never an error.
func (service *ServiceQuestion) Search(ctx context.Context, query string, traceID int) ([]*models.QuestionRecord, error) {
	records, err := service.store.Search(ctx, strings.ToLower(query))
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	if records == nil {
		records = []*models.QuestionRecord{}
	}

	slog.Info("questions searched", "traceId", traceID, "matches", len(records))
	return records, nil
}

func (service *ServiceQuestion) invalidate(ctx context.Context, id string) {
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyQuestions())
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyQuestion(id))
}
