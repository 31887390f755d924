package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"qnabank/internal/datastore"
	"qnabank/internal/interfaces"
	"qnabank/internal/models"
	"qnabank/internal/services"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandSeed(),
			commandToken(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableQuestion(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUser(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// insert sample records for local development
func commandSeed() *cli.Command {
	return &cli.Command{
		Name:        "seed",
		Description: "Insert sample question records",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			store := datastore.NewQuestionStore(db)

			samples := []struct {
				question string
				answer   string
			}{
				{"What is 2+2?", "4"},
				{"What color is the sky?", "Blue"},
			}

			for _, sample := range samples {
				record := &models.QuestionRecord{
					QuestionID:    uuid.NewString(),
					Question:      sample.question,
					Answer:        sample.answer,
					QA:            models.DeriveQA(sample.question, sample.answer),
					Status:        models.QuestionPublished,
					Secondary:     "general",
					CreatedBy:     "seed",
					AuthorRole:    "editor",
					DateLog:       "2024-01-01",
					ImageLocation: []string{},
					S3Keys:        []string{},
				}

				if err := store.Upsert(ctx, record); err != nil {
					log.Println(err)
				}
			}

			users := datastore.NewUserStore(db)
			admin := &models.User{
				ID:           "admin",
				FullName:     "Administrator",
				Password:     os.Getenv("SEED_ADMIN_PASSWORD"),
				RolePosition: "admin",
			}
			if err := users.Upsert(ctx, admin); err != nil {
				log.Println(err)
			}

			fmt.Println("Seed success")

			return nil
		},
	}
}

// mint a token for an existing user, for local development and smoke tests
func commandToken() *cli.Command {
	return &cli.Command{
		Name:        "token",
		Description: "Sign a token for an existing user",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "user",
				Value: "admin",
				Usage: "user id",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			injector := do.New()
			do.Provide(injector, func(i *do.Injector) (interfaces.UserStore, error) {
				return datastore.NewUserStore(db), nil
			})
			do.Provide(injector, func(i *do.Injector) (*services.Authentication, error) {
				return services.NewAuthentication(os.Getenv("JWT_SECRET"))
			})

			serviceUser, err := services.NewServiceUser(injector)
			if err != nil {
				log.Fatal(err)
			}

			token, user, err := serviceUser.IssueToken(ctx, c.String("user"))
			if err != nil {
				log.Fatal(err)
			}

			fmt.Printf("%s (%s)\n%s\n", user.ID, user.RolePosition, token)

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
