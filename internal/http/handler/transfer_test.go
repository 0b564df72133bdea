package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kioskdesk/internal/csvio"
	"kioskdesk/internal/model"
	"kioskdesk/internal/service"
	serviceMocks "kioskdesk/internal/service/mocks"
)

func TestExportCSV(t *testing.T) {
	mockSvc := new(serviceMocks.MockTransferService)
	app := newApp(model.RoleViewer)
	app.Get("/workspaces/:workspaceID/kiosks/export", ExportKiosks(mockSvc))
	app.Get("/workspaces/:workspaceID/tickets/export", ExportTickets(mockSvc))

	t.Run("kiosks", func(t *testing.T) {
		csv := "serial_number,name,location,status,notes\nSN-1,Lobby,,ACTIVE,\n"
		mockSvc.On("ExportKiosks", mock.Anything, wsID, mock.Anything).Return(csv, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, kiosksPath+"/export", nil))

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Regexp(t, regexp.MustCompile(`^attachment; filename="kiosks-\d{4}-\d{2}-\d{2}\.csv"$`), resp.Header.Get("Content-Disposition"))
		assert.Equal(t, csv, readBody(t, resp))
	})

	t.Run("tickets failure returns json error", func(t *testing.T) {
		mockSvc.On("ExportTickets", mock.Anything, wsID, mock.Anything).Return("partial", assert.AnError).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, ticketsPath+"/export", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestImportCSV(t *testing.T) {
	mockSvc := new(serviceMocks.MockTransferService)
	app := newApp(model.RoleAdmin)
	app.Post("/workspaces/:workspaceID/kiosks/import", ImportKiosks(mockSvc))
	app.Post("/workspaces/:workspaceID/tickets/import", ImportTickets(mockSvc))

	t.Run("multipart kiosks", func(t *testing.T) {
		body, ct := multipartFile(t, "file", "kiosks.csv", "text/csv", "serial_number,name,location,status,notes\nSN-1,A,,,\n")
		mockSvc.On("ImportKiosks", mock.Anything, wsID, mock.Anything).Return(&service.ImportResult{Imported: 1}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, kiosksPath+"/import", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.JSONEq(t, `{"imported":1}`, readBody(t, resp))
	})

	t.Run("raw csv body for tickets", func(t *testing.T) {
		mockSvc.On("ImportTickets", mock.Anything, wsID, userID, mock.Anything).Return(nil, csvio.Errors{
			{Line: 2, Column: "kiosk_serial", Message: "no kiosk with this serial number"},
		}).Once()

		req := httptest.NewRequest(http.MethodPost, ticketsPath+"/import",
			strings.NewReader("kiosk_serial,title,description,status,priority\nSN-9,x,,,\n"))
		req.Header.Set("Content-Type", "text/csv")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, `"code":"CSV_INVALID"`)
		assert.Contains(t, body, `"line":2`)
		assert.Contains(t, body, `"column":"kiosk_serial"`)
	})

	t.Run("empty file", func(t *testing.T) {
		mockSvc.On("ImportKiosks", mock.Anything, wsID, mock.Anything).Return(nil, csvio.ErrEmpty).Once()

		req := httptest.NewRequest(http.MethodPost, kiosksPath+"/import", strings.NewReader(""))
		req.Header.Set("Content-Type", "text/csv")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "CSV_EMPTY", decodeError(t, resp).Error.Code)
	})

	t.Run("no file", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, kiosksPath+"/import", "{}"))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}
