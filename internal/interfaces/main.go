package interfaces

import (
	"context"
	"io"

	"qnabank/internal/models"
)

// QuestionStore is the persistence boundary for question records.
type QuestionStore interface {
	Upsert(ctx context.Context, record *models.QuestionRecord) error
	List(ctx context.Context) ([]*models.QuestionRecord, error)
	Find(ctx context.Context, id string) (*models.QuestionRecord, error)
	Update(ctx context.Context, record *models.QuestionRecord) error
	Delete(ctx context.Context, id string) error
	AppendAttachment(ctx context.Context, id string, location string, key string) error
	Search(ctx context.Context, needle string) ([]*models.QuestionRecord, error)
}

// UserStore is the persistence boundary for user records.
type UserStore interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

// BlobStore is the key-addressed binary storage boundary.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (location string, err error)
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
