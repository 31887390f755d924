package handler

import (
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"

	"qnabank/internal/models"
	"qnabank/internal/pkg"
	"qnabank/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupQuestion struct {
	container *do.Injector
}

type questionsResponse struct {
	TraceID   int                      `json:"traceId"`
	Questions []*models.QuestionRecord `json:"questions"`
}

type questionResponse struct {
	TraceID  int                    `json:"traceId"`
	Question *models.QuestionRecord `json:"question"`
}

type searchResponse struct {
	TraceID  int                      `json:"traceId"`
	Question []*models.QuestionRecord `json:"question"`
}

type mutationResponse struct {
	TraceID          int                        `json:"traceId"`
	QuestionID       string                     `json:"questionId"`
	AttachmentErrors []models.AttachmentOutcome `json:"attachmentErrors"`
}

type deleteResponse struct {
	Message string `json:"message"`
	TraceID int    `json:"traceId"`
}

type deleteRequest struct {
	S3Keys []string `json:"s3keys"`
}

// logStart records the request-start line, with the authenticated identity
// when one is present.
func logStart(c echo.Context, op string, traceID int) {
	attrs := []any{"traceId", traceID, "op", op}
	if user := AuthUser(c.Request().Context()); user != nil {
		attrs = append(attrs, "userId", user.ID)
	}
	slog.Info("request started", attrs...)
}

func (gr *groupQuestion) List(c echo.Context) error {
	traceID := pkg.NewTraceID()
	logStart(c, "list", traceID)

	serviceQuestion, err := do.Invoke[*services.ServiceQuestion](gr.container)
	if err != nil {
		return abortTraced(c, errorx.Wrap(err, errorx.Service), traceID)
	}

	ctx := c.Request().Context()
	questions, err := serviceQuestion.GetQuestions(ctx, traceID)
	if err != nil {
		slog.Error("request failed", "traceId", traceID, "error", err)
		return abortTraced(c, err, traceID)
	}

	slog.Info("request finished", "traceId", traceID, "op", "list")
	return c.JSON(http.StatusOK, questionsResponse{traceID, questions})
}

func (gr *groupQuestion) Show(c echo.Context) error {
	traceID := pkg.NewTraceID()
	logStart(c, "show", traceID)

	serviceQuestion, err := do.Invoke[*services.ServiceQuestion](gr.container)
	if err != nil {
		return abortTraced(c, errorx.Wrap(err, errorx.Service), traceID)
	}

	ctx := c.Request().Context()
	question, err := serviceQuestion.GetQuestion(ctx, c.Param("id"), traceID)
	if err != nil {
		slog.Error("request failed", "traceId", traceID, "error", err)
		return abortTraced(c, err, traceID)
	}

	slog.Info("request finished", "traceId", traceID, "op", "show")
	return c.JSON(http.StatusOK, questionResponse{traceID, question})
}

func (gr *groupQuestion) Search(c echo.Context) error {
	traceID := pkg.NewTraceID()
	logStart(c, "search", traceID)

	serviceQuestion, err := do.Invoke[*services.ServiceQuestion](gr.container)
	if err != nil {
		return abortTraced(c, errorx.Wrap(err, errorx.Service), traceID)
	}

	ctx := c.Request().Context()
	matches, err := serviceQuestion.Search(ctx, c.Param("data"), traceID)
	if err != nil {
		slog.Error("request failed", "traceId", traceID, "error", err)
		return abortTraced(c, err, traceID)
	}

	slog.Info("request finished", "traceId", traceID, "op", "search")
	return c.JSON(http.StatusOK, searchResponse{traceID, matches})
}

// Create writes the record first, then settles the attachment batch, and
// always responds; a files-less submission gets an empty error list.
func (gr *groupQuestion) Create(c echo.Context) error {
	traceID := pkg.NewTraceID()
	logStart(c, "create", traceID)

	serviceQuestion, err := do.Invoke[*services.ServiceQuestion](gr.container)
	if err != nil {
		return abortTraced(c, errorx.Wrap(err, errorx.Service), traceID)
	}

	serviceAttachment, err := do.Invoke[*services.ServiceAttachment](gr.container)
	if err != nil {
		return abortTraced(c, errorx.Wrap(err, errorx.Service), traceID)
	}

	var payload models.QuestionPayload
	if err := json.Unmarshal([]byte(c.FormValue("data")), &payload); err != nil {
		slog.Error("request failed", "traceId", traceID, "error", err)
		return abortTraced(c, errorx.Wrap(err, errorx.Invalid), traceID)
	}

	ctx := c.Request().Context()
	record, err := serviceQuestion.Create(ctx, &payload, traceID)
	if err != nil {
		slog.Error("request failed", "traceId", traceID, "error", err)
		return abortTraced(c, err, traceID)
	}

	outcomes, cleanup := uploadRequestFiles(c, serviceAttachment, record.QuestionID, traceID)
	defer cleanup()

	slog.Info("request finished", "traceId", traceID, "op", "create")
	return c.JSON(http.StatusOK, mutationResponse{traceID, record.QuestionID, models.Failed(outcomes)})
}

func (gr *groupQuestion) Update(c echo.Context) error {
	traceID := pkg.NewTraceID()
	logStart(c, "update", traceID)

	serviceQuestion, err := do.Invoke[*services.ServiceQuestion](gr.container)
	if err != nil {
		return abortTraced(c, errorx.Wrap(err, errorx.Service), traceID)
	}

	serviceAttachment, err := do.Invoke[*services.ServiceAttachment](gr.container)
	if err != nil {
		return abortTraced(c, errorx.Wrap(err, errorx.Service), traceID)
	}

	var payload models.QuestionPayload
	if err := json.Unmarshal([]byte(c.FormValue("data")), &payload); err != nil {
		slog.Error("request failed", "traceId", traceID, "error", err)
		return abortTraced(c, errorx.Wrap(err, errorx.Invalid), traceID)
	}

	id := c.Param("id")
	ctx := c.Request().Context()
	record, err := serviceQuestion.Update(ctx, id, &payload, traceID)
	if err != nil {
		slog.Error("request failed", "traceId", traceID, "error", err)
		return abortTraced(c, err, traceID)
	}

	outcomes, cleanup := uploadRequestFiles(c, serviceAttachment, record.QuestionID, traceID)
	defer cleanup()

	slog.Info("request finished", "traceId", traceID, "op", "update")
	return c.JSON(http.StatusOK, mutationResponse{traceID, record.QuestionID, models.Failed(outcomes)})
}

// Delete attempts every supplied blob key before removing the record; a
// failing key never stops the others or the record removal.
func (gr *groupQuestion) Delete(c echo.Context) error {
	traceID := pkg.NewTraceID()
	logStart(c, "delete", traceID)

	serviceQuestion, err := do.Invoke[*services.ServiceQuestion](gr.container)
	if err != nil {
		return abortTraced(c, errorx.Wrap(err, errorx.Service), traceID)
	}

	serviceAttachment, err := do.Invoke[*services.ServiceAttachment](gr.container)
	if err != nil {
		return abortTraced(c, errorx.Wrap(err, errorx.Service), traceID)
	}

	var payload deleteRequest
	if err := c.Bind(&payload); err != nil {
		slog.Error("request failed", "traceId", traceID, "error", err)
		return abortTraced(c, errorx.Wrap(err, errorx.Invalid), traceID)
	}

	ctx := c.Request().Context()
	serviceAttachment.DeleteObjects(ctx, payload.S3Keys, traceID)

	if err := serviceQuestion.Delete(ctx, c.Param("id"), traceID); err != nil {
		slog.Error("request failed", "traceId", traceID, "error", err)
		return abortTraced(c, err, traceID)
	}

	slog.Info("request finished", "traceId", traceID, "op", "delete")
	return c.JSON(http.StatusOK, deleteResponse{"Question deleted successfully", traceID})
}

// uploadRequestFiles settles the multipart attachment batch, if any. The
// returned cleanup closes the opened file parts.
func uploadRequestFiles(c echo.Context, serviceAttachment *services.ServiceAttachment, questionID string, traceID int) ([]models.AttachmentOutcome, func()) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return []models.AttachmentOutcome{}, func() {}
	}

	var headers []*multipart.FileHeader
	for _, fieldFiles := range form.File {
		headers = append(headers, fieldFiles...)
	}

	var uploads []*models.AttachmentUpload
	var opened []multipart.File
	var unreadable []models.AttachmentOutcome
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			slog.Error("attachment open failed", "traceId", traceID, "filename", header.Filename, "error", err)
			unreadable = append(unreadable, models.AttachmentOutcome{Filename: header.Filename, Error: err.Error()})
			continue
		}
		opened = append(opened, f)
		uploads = append(uploads, &models.AttachmentUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        f,
		})
	}

	cleanup := func() {
		for _, f := range opened {
			//nolint:errcheck
			f.Close()
		}
	}

	outcomes := serviceAttachment.UploadBatch(c.Request().Context(), uploads, questionID, traceID)
	return append(outcomes, unreadable...), cleanup
}
