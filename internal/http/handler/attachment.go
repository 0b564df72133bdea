package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"kioskdesk/internal/http/middleware"
	"kioskdesk/internal/service"
)

func ListAttachments(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticketID, ok := pathID(c, "ticketID")
		if !ok {
			return invalidID(c)
		}
		as, err := svc.List(c.UserContext(), workspaceID(c), ticketID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": as, "total": len(as)})
	}
}

// UploadAttachment stores a file sent as multipart/form-data under field "file".
//
// @Summary  Upload an attachment
// @Tags     attachments
// @Accept   multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param    workspaceID  path      string  true  "workspace id"
// @Param    ticketID     path      string  true  "ticket id"
// @Param    file         formData  file    true  "file"
// @Success  201  {object}  model.Attachment
// @Failure  400  {object}  errorPayload
// @Failure  413  {object}  errorPayload
// @Router   /workspaces/{workspaceID}/tickets/{ticketID}/attachments [post]
func UploadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticketID, ok := pathID(c, "ticketID")
		if !ok {
			return invalidID(c)
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		a, err := svc.Upload(c.UserContext(), workspaceID(c), ticketID, middleware.GetUserID(c), service.Upload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// DownloadAttachment streams the stored object.
func DownloadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticketID, ok := pathID(c, "ticketID")
		if !ok {
			return invalidID(c)
		}
		id, ok := pathID(c, "attachmentID")
		if !ok {
			return invalidID(c)
		}
		rc, a, err := svc.Download(c.UserContext(), workspaceID(c), ticketID, id)
		if err != nil {
			return fail(c, err)
		}
		c.Set(fiber.HeaderContentType, a.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", a.Filename))
		// fasthttp closes rc once the body is written.
		return c.SendStream(rc, int(a.Size))
	}
}

// AttachmentURL returns a presigned, expiring download URL.
func AttachmentURL(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticketID, ok := pathID(c, "ticketID")
		if !ok {
			return invalidID(c)
		}
		id, ok := pathID(c, "attachmentID")
		if !ok {
			return invalidID(c)
		}
		u, err := svc.URL(c.UserContext(), workspaceID(c), ticketID, id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(u)
	}
}

func DeleteAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticketID, ok := pathID(c, "ticketID")
		if !ok {
			return invalidID(c)
		}
		id, ok := pathID(c, "attachmentID")
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), workspaceID(c), ticketID, id, actor(c)); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
