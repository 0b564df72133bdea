package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"kioskdesk/internal/http/middleware"
	"kioskdesk/internal/model"
	"kioskdesk/internal/service"
)

// Services bundles what the routes call into.
type Services struct {
	Auth        service.AuthService
	Workspaces  service.WorkspaceService
	Kiosks      service.KioskService
	Tickets     service.TicketService
	Comments    service.CommentService
	Attachments service.AttachmentService
	Transfer    service.TransferService
	Tokens      middleware.TokenParser
	Cookie      CookieOptions
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, s Services) {
	app.Get("/swagger/*", SwaggerUI())

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", Liveness())

	app.Post("/auth/register", Register(s.Auth))
	app.Post("/auth/login", Login(s.Auth, s.Cookie))
	app.Post("/auth/logout", Logout(s.Cookie))

	requireAuth := middleware.RequireAuth(s.Tokens)
	app.Get("/auth/me", requireAuth, Me(s.Auth))

	workspaces := app.Group("/workspaces", requireAuth)
	workspaces.Get("/", ListWorkspaces(s.Workspaces))
	workspaces.Post("/", CreateWorkspace(s.Workspaces))

	// Every member passes the group guard; routes raise the bar where needed.
	ws := workspaces.Group("/:"+middleware.WorkspaceIDParam, middleware.RequireWorkspaceRole(s.Workspaces, model.RoleViewer))
	member := middleware.RequireRole(model.RoleMember)
	admin := middleware.RequireRole(model.RoleAdmin)

	ws.Get("/", GetWorkspace(s.Workspaces))
	ws.Patch("/", admin, RenameWorkspace(s.Workspaces))
	ws.Delete("/", admin, DeleteWorkspace(s.Workspaces))

	ws.Get("/members", ListMembers(s.Workspaces))
	ws.Post("/members", admin, AddMember(s.Workspaces))
	ws.Patch("/members/:userID", admin, UpdateMember(s.Workspaces))
	ws.Delete("/members/:userID", admin, RemoveMember(s.Workspaces))
	ws.Post("/leave", LeaveWorkspace(s.Workspaces))

	ws.Get("/kiosks", ListKiosks(s.Kiosks))
	ws.Post("/kiosks", member, CreateKiosk(s.Kiosks))
	ws.Get("/kiosks/export", ExportKiosks(s.Transfer))
	ws.Post("/kiosks/import", admin, ImportKiosks(s.Transfer))
	ws.Get("/kiosks/:kioskID", GetKiosk(s.Kiosks))
	ws.Patch("/kiosks/:kioskID", member, UpdateKiosk(s.Kiosks))
	ws.Delete("/kiosks/:kioskID", admin, DeleteKiosk(s.Kiosks))
	ws.Get("/kiosks/:kioskID/tickets", ListKioskTickets(s.Kiosks, s.Tickets))

	ws.Get("/tickets", ListTickets(s.Tickets))
	ws.Post("/tickets", member, CreateTicket(s.Tickets))
	ws.Get("/tickets/export", ExportTickets(s.Transfer))
	ws.Post("/tickets/import", admin, ImportTickets(s.Transfer))
	ws.Get("/tickets/:ticketID", GetTicket(s.Tickets))
	ws.Patch("/tickets/:ticketID", member, UpdateTicket(s.Tickets))
	ws.Delete("/tickets/:ticketID", admin, DeleteTicket(s.Tickets))
	ws.Patch("/tickets/:ticketID/status", member, MoveTicket(s.Tickets))
	ws.Get("/board", GetBoard(s.Tickets))

	ws.Get("/tickets/:ticketID/comments", ListComments(s.Comments))
	ws.Post("/tickets/:ticketID/comments", member, CreateComment(s.Comments))
	ws.Delete("/tickets/:ticketID/comments/:commentID", member, DeleteComment(s.Comments))

	ws.Get("/tickets/:ticketID/attachments", ListAttachments(s.Attachments))
	ws.Post("/tickets/:ticketID/attachments", member, UploadAttachment(s.Attachments))
	ws.Get("/tickets/:ticketID/attachments/:attachmentID/download", DownloadAttachment(s.Attachments))
	ws.Get("/tickets/:ticketID/attachments/:attachmentID/url", AttachmentURL(s.Attachments))
	ws.Delete("/tickets/:ticketID/attachments/:attachmentID", member, DeleteAttachment(s.Attachments))
}
