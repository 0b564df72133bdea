package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"kioskdesk/internal/http/middleware"
	"kioskdesk/internal/service"
)

type exportFunc func(ctx context.Context, workspaceID string, w io.Writer) error

func exportCSV(entity string, export exportFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		if err := export(c.UserContext(), workspaceID(c), &buf); err != nil {
			return fail(c, err)
		}
		name := fmt.Sprintf("%s-%s.csv", entity, time.Now().UTC().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
		return c.Send(buf.Bytes())
	}
}

// ExportKiosks downloads the workspace's kiosks as CSV.
//
// @Summary  Export kiosks
// @Tags     csv
// @Produce  text/csv
// @Security BearerAuth
// @Param    workspaceID  path  string  true  "workspace id"
// @Success  200
// @Router   /workspaces/{workspaceID}/kiosks/export [get]
func ExportKiosks(svc service.TransferService) fiber.Handler {
	return exportCSV("kiosks", svc.ExportKiosks)
}

func ExportTickets(svc service.TransferService) fiber.Handler {
	return exportCSV("tickets", svc.ExportTickets)
}

// csvUpload returns the "file" form field, or the raw body for text/csv requests.
func csvUpload(c *fiber.Ctx) (io.Reader, func(), error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), "text/csv") {
		return bytes.NewReader(c.Body()), func() {}, nil
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, nil, err
	}
	var f multipart.File
	if f, err = fh.Open(); err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// ImportKiosks validates every row and stores all of them or none.
//
// @Summary  Import kiosks
// @Tags     csv
// @Accept   multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param    workspaceID  path      string  true  "workspace id"
// @Param    file         formData  file    true  "kiosk CSV"
// @Success  201  {object}  service.ImportResult
// @Failure  422  {object}  errorPayload
// @Router   /workspaces/{workspaceID}/kiosks/import [post]
func ImportKiosks(svc service.TransferService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, done, err := csvUpload(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		defer done()
		res, err := svc.ImportKiosks(c.UserContext(), workspaceID(c), r)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

func ImportTickets(svc service.TransferService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, done, err := csvUpload(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		defer done()
		res, err := svc.ImportTickets(c.UserContext(), workspaceID(c), middleware.GetUserID(c), r)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
