package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kioskdesk/internal/auth"
	"kioskdesk/internal/csvio"
	"kioskdesk/internal/http/middleware"
	"kioskdesk/internal/model"
	"kioskdesk/internal/service"
	serviceMocks "kioskdesk/internal/service/mocks"
)

const (
	wsID         = "6f1c2a4e-8d0b-4c3a-9e57-1b2d3c4e5f60"
	userID       = "0a9b8c7d-6e5f-4a3b-8c2d-1e0f9a8b7c6d"
	kioskID      = "9d8e7f60-5a4b-4c3d-8e2f-1a0b9c8d7e6f"
	ticketID     = "1b2c3d4e-5f60-4a7b-9c8d-0e1f2a3b4c5d"
	commentID    = "2c3d4e5f-6071-4b8c-9d0e-1f2a3b4c5d6e"
	attachmentID = "3d4e5f60-7182-4c9d-8e0f-2a3b4c5d6e7f"
)

// newApp returns an app whose requests already carry the signed-in user and role.
func newApp(role model.Role) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDLocalKey, userID)
		c.Locals(middleware.WorkspaceRoleLocalKey, role)
		return c.Next()
	})
	return app
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLiveness(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", Liveness())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFail(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"kiosk not found", service.ErrKioskNotFound, 404, "KIOSK_NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("ctx: %w", service.ErrTicketNotFound), 404, "TICKET_NOT_FOUND"},
		{"validation", &service.ValidationError{Field: "title", Message: "is required"}, 400, "VALIDATION_ERROR"},
		{"conflict", fmt.Errorf("%w: serial number already exists", service.ErrConflict), 409, "CONFLICT"},
		{"last admin", service.ErrLastAdmin, 409, "LAST_ADMIN"},
		{"credentials", service.ErrInvalidCredentials, 401, "INVALID_CREDENTIALS"},
		{"forbidden", service.ErrForbidden, 403, "FORBIDDEN"},
		{"too large", service.ErrTooLarge, 413, "PAYLOAD_TOO_LARGE"},
		{"csv empty", csvio.ErrEmpty, 400, "CSV_EMPTY"},
		{"csv invalid", csvio.Errors{{Line: 2, Column: "status", Message: "bad"}}, 422, "CSV_INVALID"},
		{"id required", service.ErrIDRequired, 400, "INVALID_ID"},
		{"unknown", errors.New("pq: connection reset"), 500, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(model.RoleAdmin)
			app.Get("/x", func(c *fiber.Ctx) error { return fail(c, tt.err) })

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.status, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.RequestID)
			assert.NotContains(t, body.Error.Message, "pq:")
		})
	}
}

func TestFail_Details(t *testing.T) {
	app := newApp(model.RoleAdmin)
	app.Get("/csv", func(c *fiber.Ctx) error {
		return fail(c, csvio.Errors{
			{Line: 3, Column: "serial_number", Message: "duplicates line 2"},
			{Line: 5, Message: "expected 5 fields, got 4"},
		})
	})
	app.Get("/field", func(c *fiber.Ctx) error {
		return fail(c, &service.ValidationError{Field: "name", Message: "is required"})
	})

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/csv", nil))
	var csvBody struct {
		Error struct {
			Details []csvio.RowError `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&csvBody))
	assert.Equal(t, []csvio.RowError{
		{Line: 3, Column: "serial_number", Message: "duplicates line 2"},
		{Line: 5, Message: "expected 5 fields, got 4"},
	}, csvBody.Error.Details)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/field", nil))
	var fieldBody struct {
		Error struct {
			Message string                    `json:"message"`
			Details []service.ValidationError `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fieldBody))
	assert.Equal(t, "name is required", fieldBody.Error.Message)
	assert.Equal(t, []service.ValidationError{{Field: "name", Message: "is required"}}, fieldBody.Error.Details)
}

type routedApp struct {
	app        *fiber.App
	token      string
	workspaces *serviceMocks.MockWorkspaceService
	kiosks     *serviceMocks.MockKioskService
	tickets    *serviceMocks.MockTicketService
	transfer   *serviceMocks.MockTransferService
}

func newRoutedApp(t *testing.T) *routedApp {
	t.Helper()
	issuer := auth.NewTokenIssuer(strings.Repeat("s", 32), time.Hour)
	token, _, err := issuer.Issue(&model.User{ID: userID, Email: "a@example.com"})
	require.NoError(t, err)

	r := &routedApp{
		app:        fiber.New(fiber.Config{ErrorHandler: ErrorHandler()}),
		token:      token,
		workspaces: new(serviceMocks.MockWorkspaceService),
		kiosks:     new(serviceMocks.MockKioskService),
		tickets:    new(serviceMocks.MockTicketService),
		transfer:   new(serviceMocks.MockTransferService),
	}
	RegisterRoutes(r.app, nil, Services{
		Auth:        new(serviceMocks.MockAuthService),
		Workspaces:  r.workspaces,
		Kiosks:      r.kiosks,
		Tickets:     r.tickets,
		Comments:    new(serviceMocks.MockCommentService),
		Attachments: new(serviceMocks.MockAttachmentService),
		Transfer:    r.transfer,
		Tokens:      issuer,
	})
	return r
}

func (r *routedApp) do(req *http.Request) *http.Response {
	req.Header.Set("Authorization", "Bearer "+r.token)
	resp, _ := r.app.Test(req)
	return resp
}

func TestRouting(t *testing.T) {
	r := newRoutedApp(t)

	t.Run("not found route", func(t *testing.T) {
		resp, _ := r.app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := r.app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("workspace routes need a session", func(t *testing.T) {
		resp, _ := r.app.Test(httptest.NewRequest(http.MethodGet, "/workspaces", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHENTICATED", decodeError(t, resp).Error.Code)
	})
}

func TestRouting_RoleMatrix(t *testing.T) {
	r := newRoutedApp(t)
	r.workspaces.On("Membership", mock.Anything, wsID, userID).Return(model.RoleViewer, nil)
	base := "/workspaces/" + wsID

	t.Run("viewer reads kiosks", func(t *testing.T) {
		r.kiosks.On("List", mock.Anything, wsID, service.KioskQuery{Limit: 10}).
			Return(&service.ListResult[model.Kiosk]{Items: []model.Kiosk{{ID: kioskID}}, Total: 1}, nil).Once()

		resp := r.do(httptest.NewRequest(http.MethodGet, base+"/kiosks", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("viewer exports", func(t *testing.T) {
		r.transfer.On("ExportKiosks", mock.Anything, wsID, mock.Anything).Return("serial_number,name,location,status,notes\n", nil).Once()

		resp := r.do(httptest.NewRequest(http.MethodGet, base+"/kiosks/export", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		r.kiosks.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	denied := []struct {
		method, path string
	}{
		{http.MethodPost, "/kiosks"},
		{http.MethodPatch, "/tickets/" + ticketID + "/status"},
		{http.MethodPost, "/tickets/" + ticketID + "/comments"},
		{http.MethodDelete, "/kiosks/" + kioskID},
		{http.MethodPost, "/kiosks/import"},
		{http.MethodPost, "/members"},
		{http.MethodDelete, "/"},
	}
	for _, tt := range denied {
		t.Run("viewer cannot "+tt.method+" "+tt.path, func(t *testing.T) {
			resp := r.do(jsonRequest(tt.method, base+tt.path, "{}"))

			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Error.Code)
		})
	}
	r.kiosks.AssertExpectations(t)
}

func TestRouting_NonMember(t *testing.T) {
	r := newRoutedApp(t)
	r.workspaces.On("Membership", mock.Anything, wsID, userID).Return(model.Role(""), service.ErrWorkspaceNotFound)

	resp := r.do(httptest.NewRequest(http.MethodGet, "/workspaces/"+wsID+"/board", nil))

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "WORKSPACE_NOT_FOUND", decodeError(t, resp).Error.Code)
	r.tickets.AssertNotCalled(t, "Board", mock.Anything, mock.Anything)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestSwaggerUI(t *testing.T) {
	app := fiber.New()
	app.Get("/swagger/*", SwaggerUI())

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	req.Host = "desk.example.com"
	req.Header.Set("X-Forwarded-Proto", "https, http")
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `"host": "desk.example.com"`)
	assert.Contains(t, body, `"https"`)
	assert.Contains(t, body, "/workspaces/{workspaceID}/board")
}

func TestSwaggerUI_ConcurrentHosts(t *testing.T) {
	app := fiber.New()
	app.Get("/swagger/*", SwaggerUI())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			host := fmt.Sprintf("desk-%d.example.com", i)
			req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
			req.Host = host
			resp, err := app.Test(req, -1)
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			b, err := io.ReadAll(resp.Body)
			assert.NoError(t, err)
			assert.Contains(t, string(b), `"host": "`+host+`"`)
		}(i)
	}
	wg.Wait()
}
