package datastore

import (
	"context"

	"qnabank/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUser(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx)
	return err
}

// UserStore runs user queries against postgres.
type UserStore struct {
	db *bun.DB
}

func NewUserStore(db *bun.DB) *UserStore {
	return &UserStore{db}
}

func (store *UserStore) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := store.db.NewSelect().Model(&user).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (store *UserStore) Upsert(ctx context.Context, user *models.User) error {
	_, err := store.db.NewInsert().
		Model(user).
		On("CONFLICT (id) DO UPDATE").
		Set("full_name = EXCLUDED.full_name").
		Set("password = EXCLUDED.password").
		Set("role_position = EXCLUDED.role_position").
		Exec(ctx)
	return err
}
