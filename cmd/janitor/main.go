package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"qnabank/internal/datastore"
	"qnabank/internal/interfaces"
	"qnabank/internal/pkg"
	"qnabank/internal/pkg/blob"
	"qnabank/internal/services"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
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
		Name: "janitor",
		Commands: []*cli.Command{
			commandJanitor(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandJanitor() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "reap blobs no question record references",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "schedule",
				Value: "@every 6h",
				Usage: "cron schedule",
			},
		},
		Action: func(c *cli.Context) error {
			container, err := newContainer()
			if err != nil {
				return err
			}

			serviceAttachment, err := do.Invoke[*services.ServiceAttachment](container)
			if err != nil {
				return err
			}

			job := func() {
				traceID := pkg.NewTraceID()
				if _, err := serviceAttachment.ReapOrphans(context.Background(), traceID); err != nil {
					log.Println("reap failed:", err)
				}
			}

			cronRunner := cron.New()
			if _, err := cronRunner.AddFunc(c.String("schedule"), job); err != nil {
				return err
			}

			job() // one pass up front, then on schedule
			log.Println("Start janitor")
			cronRunner.Run()
			return nil
		},
	}
}

func newContainer() (*do.Injector, error) {
	injector := do.New()

	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(os.Getenv("DB_DSN")),
			pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
		))

		return bun.NewDB(sqldb, pgdialect.New()), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.QuestionStore, error) {
		bunDB, err := do.Invoke[*bun.DB](i)
		if err != nil {
			return nil, err
		}
		return datastore.NewQuestionStore(bunDB), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.BlobStore, error) {
		endpoint := os.Getenv("S3_ENDPOINT")
		if endpoint == "" {
			dir := os.Getenv("UPLOAD_DIR")
			if dir == "" {
				dir = "upload"
			}
			return blob.NewLocalStore(dir, "/profile")
		}

		return blob.NewS3Store(&blob.S3Config{
			Endpoint:  endpoint,
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    os.Getenv("S3_BUCKET"),
			UseSSL:    os.Getenv("S3_USE_SSL") != "false",
			PublicURL: os.Getenv("S3_PUBLIC_URL"),
		})
	})

	do.Provide(injector, func(i *do.Injector) (*redsync.Redsync, error) {
		url := os.Getenv("REDIS_MUTEX")
		if url == "" {
			url = os.Getenv("REDIS_CACHE")
		}
		dbRedis, err := db.InitRedis(&db.RedisConfig{URL: url})
		if err != nil {
			return nil, err
		}
		return redsync.New(goredis.NewPool(dbRedis)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceAttachment, error) {
		return services.NewServiceAttachment(injector)
	})

	return injector, nil
}
