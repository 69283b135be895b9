// internal/app/features/importusers/handler_test.go
package importusers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/testutil"
)

func uploadRequest(t *testing.T, filename, content, strategy string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if strategy != "" {
		if err := mw.WriteField("strategy", strategy); err != nil {
			t.Fatalf("writing strategy field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testutil.WithUser(req, testutil.AdminUser())
}

func TestHandleUploadCSV(t *testing.T) {
	r := testutil.NewRepo(t)
	h := NewHandler(r, zap.NewNop(), 100)

	csv := "Name,Email,Phone,Employee ID,Location,Is Admin\n" +
		"Jane Doe,jane@test.com,555-0100,E1,Springfield,false\n" +
		"No Email,,,,,\n"
	rec := testutil.NewRecorder()
	h.HandleUpload(rec, uploadRequest(t, "users.csv", csv, "simple"))

	rec.AssertStatus(t, http.StatusOK)
	var report Report
	rec.DecodeJSON(t, &report)
	if len(report.Created) != 1 || report.Created[0].Email != "jane@test.com" {
		t.Errorf("created: %+v", report.Created)
	}
	if len(report.Errors) != 1 || report.Errors[0].Line != 3 {
		t.Errorf("errors: %+v", report.Errors)
	}
	if len(report.Passwords) != 1 || report.Passwords[0].Email != "jane@test.com" {
		t.Errorf("passwords: %+v", report.Passwords)
	}
	if report.Created[0].PasswordHash != "" {
		t.Error("report leaks password hashes")
	}
}

func TestHandleUploadUnsupportedType(t *testing.T) {
	r := testutil.NewRepo(t)
	h := NewHandler(r, zap.NewNop(), 100)

	rec := testutil.NewRecorder()
	h.HandleUpload(rec, uploadRequest(t, "users.txt", "whatever", ""))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleUploadTooManyRows(t *testing.T) {
	r := testutil.NewRepo(t)
	h := NewHandler(r, zap.NewNop(), 1)

	csv := "Name,Email,Phone,Employee ID,Location,Is Admin\n" +
		"A,a@test.com,,,,\n" +
		"B,b@test.com,,,,\n"
	rec := testutil.NewRecorder()
	h.HandleUpload(rec, uploadRequest(t, "users.csv", csv, ""))
	rec.AssertStatus(t, http.StatusRequestEntityTooLarge)
}

func TestHandleTemplateRoundTrips(t *testing.T) {
	r := testutil.NewRepo(t)
	h := NewHandler(r, zap.NewNop(), 100)

	rec := testutil.NewRecorder()
	h.HandleTemplate(rec, testutil.NewRequest(http.MethodGet, "/template"))
	rec.AssertStatus(t, http.StatusOK)
	if rec.Body.Len() == 0 {
		t.Error("empty template body")
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="user_import_template.xlsx"` {
		t.Errorf("content disposition: %q", cd)
	}
}
