package datastore

import (
	"context"
	"strings"

	"qnabank/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableQuestion(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.QuestionRecord)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewRaw(`
		alter table question
			alter column image_location set default '[]'::jsonb;

		alter table question
			alter column s3_keys set default '[]'::jsonb;

		create index if not exists question_qa_idx on question (qa);`).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// QuestionStore runs question queries against postgres.
type QuestionStore struct {
	db *bun.DB
}

func NewQuestionStore(db *bun.DB) *QuestionStore {
	return &QuestionStore{db}
}

func (store *QuestionStore) Upsert(ctx context.Context, record *models.QuestionRecord) error {
	_, err := store.db.NewInsert().
		Model(record).
		On("CONFLICT (question_id) DO UPDATE").
		Set("question = EXCLUDED.question").
		Set("answer = EXCLUDED.answer").
		Set("qa = EXCLUDED.qa").
		Set("status = EXCLUDED.status").
		Set("secondary = EXCLUDED.secondary").
		Set("created_by = EXCLUDED.created_by").
		Set("author_role = EXCLUDED.author_role").
		Set("date_log = EXCLUDED.date_log").
		Exec(ctx)
	return err
}

func (store *QuestionStore) List(ctx context.Context) ([]*models.QuestionRecord, error) {
	var records []*models.QuestionRecord
	err := store.db.NewSelect().Model(&records).Order("question_id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (store *QuestionStore) Find(ctx context.Context, id string) (*models.QuestionRecord, error) {
	var record models.QuestionRecord
	err := store.db.NewSelect().Model(&record).Where("question_id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (store *QuestionStore) Update(ctx context.Context, record *models.QuestionRecord) error {
	_, err := store.db.NewUpdate().
		Model(record).
		Column("question", "answer", "qa", "status", "secondary", "created_by", "author_role", "date_log").
		WherePK().
		Exec(ctx)
	return err
}

func (store *QuestionStore) Delete(ctx context.Context, id string) error {
	_, err := store.db.NewDelete().
		Model((*models.QuestionRecord)(nil)).
		Where("question_id = ?", id).
		Exec(ctx)
	return err
}

// AppendAttachment extends both attachment sequences by one entry. Callers
// hold the per-record mutex so the read-modify-write cannot interleave.
func (store *QuestionStore) AppendAttachment(ctx context.Context, id string, location string, key string) error {
	record, err := store.Find(ctx, id)
	if err != nil {
		return err
	}

	record.ImageLocation = append(record.ImageLocation, location)
	record.S3Keys = append(record.S3Keys, key)

	_, err = store.db.NewUpdate().
		Model(record).
		Column("image_location", "s3_keys").
		WherePK().
		Exec(ctx)
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so the needle only ever matches
// as a literal substring.
func escapeLike(needle string) string {
	return likeEscaper.Replace(needle)
}

// Search matches records whose qa field contains the already-lowercased
// needle.
func (store *QuestionStore) Search(ctx context.Context, needle string) ([]*models.QuestionRecord, error) {
	var records []*models.QuestionRecord
	err := store.db.NewSelect().
		Model(&records).
		Where(`qa LIKE ? ESCAPE '\'`, "%"+escapeLike(needle)+"%").
		Order("question_id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}
