package handler

import (
	"net/http"

	"qnabank/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
	// UploadDir is the local blob root served read-only at /profile.
	UploadDir string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())
	r.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Origins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           60 * 60,
	}))

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "API working")
	})

	if cfg.UploadDir != "" {
		r.Static("/profile", cfg.UploadDir)
	}

	authentication, err := do.Invoke[*services.Authentication](cfg.Container)
	if err != nil {
		return nil, err
	}
	r.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated requests.

	q := groupQuestion{cfg.Container}
	r.GET("/questions", q.List)
	r.GET("/questions/:id", q.Show)
	r.GET("/questionsans/:data", q.Search)
	r.POST("/questions", q.Create)
	r.PUT("/questions/:id", q.Update)
	r.DELETE("/questions/:id", q.Delete)

	return r, nil
}
