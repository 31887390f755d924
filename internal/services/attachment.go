package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"qnabank/internal/interfaces"
	"qnabank/internal/models"

	"github.com/go-redsync/redsync/v4"
	"github.com/samber/do"
)

type ServiceAttachment struct {
	container *do.Injector
	blob      interfaces.BlobStore
	store     interfaces.QuestionStore
	rs        *redsync.Redsync
}

func NewServiceAttachment(container *do.Injector) (*ServiceAttachment, error) {
	blob, err := do.Invoke[interfaces.BlobStore](container)
	if err != nil {
		return nil, err
	}

	store, err := do.Invoke[interfaces.QuestionStore](container)
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	return &ServiceAttachment{container, blob, store, rs}, nil
}

// ObjectKey derives the blob key for one file of a record. The index keeps
// same-named files of one batch from colliding.
func ObjectKey(questionID string, index int, filename string) string {
	return fmt.Sprintf("%s/%d-%s", questionID, index, filepath.Base(filename))
}

// UploadImage stores one file and appends its (location, key) pair to the
// owning record under the per-record mutex, keeping the two sequences
// positionally aligned.
func (service *ServiceAttachment) UploadImage(ctx context.Context, file *models.AttachmentUpload, questionID string, index int, traceID int) (string, string, error) {
	key := ObjectKey(questionID, index, file.Filename)

	location, err := service.blob.Put(ctx, key, file.Body, file.Size, file.ContentType)
	if err != nil {
		return "", "", err
	}

	if err := service.appendLocked(ctx, questionID, location, key); err != nil {
		return "", "", err
	}

	slog.Info("attachment uploaded", "traceId", traceID, "questionId", questionID, "key", key)
	return location, key, nil
}

// UploadBatch dispatches every file concurrently and waits for the whole
// batch to settle. A failed file is logged and reported in its outcome; it
// never aborts the siblings or the request.
func (service *ServiceAttachment) UploadBatch(ctx context.Context, files []*models.AttachmentUpload, questionID string, traceID int) []models.AttachmentOutcome {
	outcomes := make([]models.AttachmentOutcome, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file *models.AttachmentUpload) {
			defer wg.Done()

			location, key, err := service.UploadImage(ctx, file, questionID, i, traceID)
			if err != nil {
				slog.Error("attachment upload failed", "traceId", traceID, "questionId", questionID, "filename", file.Filename, "error", err)
				outcomes[i] = models.AttachmentOutcome{Filename: file.Filename, Error: err.Error()}
				return
			}

			outcomes[i] = models.AttachmentOutcome{Filename: file.Filename, Key: key, Location: location, OK: true}
		}(i, file)
	}
	wg.Wait()

	return outcomes
}

// DeleteObjects removes one blob per key. A missing or failing key is logged
// and reported; the remaining deletions still run.
func (service *ServiceAttachment) DeleteObjects(ctx context.Context, keys []string, traceID int) []models.AttachmentOutcome {
	outcomes := make([]models.AttachmentOutcome, len(keys))

	for i, key := range keys {
		if err := service.blob.Remove(ctx, key); err != nil {
			slog.Error("attachment delete failed", "traceId", traceID, "key", key, "error", err)
			outcomes[i] = models.AttachmentOutcome{Key: key, Error: err.Error()}
			continue
		}

		slog.Info("attachment deleted", "traceId", traceID, "key", key)
		outcomes[i] = models.AttachmentOutcome{Key: key, OK: true}
	}

	return outcomes
}

// ReapOrphans deletes blobs no record references. The record write and the
// attachment writes are separate steps, so a failed request can strand
// uploaded blobs; the janitor closes that gap.
func (service *ServiceAttachment) ReapOrphans(ctx context.Context, traceID int) ([]string, error) {
	keys, err := service.blob.Keys(ctx)
	if err != nil {
		return nil, err
	}

	records, err := service.store.List(ctx)
	if err != nil {
		return nil, err
	}

	referenced := make(map[string]bool)
	for _, record := range records {
		for _, key := range record.S3Keys {
			referenced[key] = true
		}
	}

	var reaped []string
	for _, key := range keys {
		if referenced[key] {
			continue
		}
		if err := service.blob.Remove(ctx, key); err != nil {
			slog.Error("orphan delete failed", "traceId", traceID, "key", key, "error", err)
			continue
		}
		reaped = append(reaped, key)
	}

	slog.Info("orphans reaped", "traceId", traceID, "count", len(reaped))
	return reaped, nil
}

func (service *ServiceAttachment) appendLocked(ctx context.Context, questionID string, location string, key string) error {
	if service.rs == nil {
		return service.store.AppendAttachment(ctx, questionID, location, key)
	}

	mutex := service.rs.NewMutex(DBKeyQuestionLock(questionID), redsync.WithExpiry(ATTACHMENT_LOCK_TTL))
	if err := mutex.LockContext(ctx); err != nil {
		return err
	}
	defer func() {
		//nolint:errcheck
		mutex.UnlockContext(ctx)
	}()

	return service.store.AppendAttachment(ctx, questionID, location, key)
}
