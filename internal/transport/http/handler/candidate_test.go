package handler_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	"github.com/ErlanBelekov/learning-management-system/internal/transport/http/handler"
	"github.com/ErlanBelekov/learning-management-system/internal/usecase"
	"github.com/gin-gonic/gin"
)

type fakeCandidateUsecase struct {
	save            func(ctx context.Context, in usecase.SaveCandidateInput) (*domain.HiredCandidate, error)
	list            func(ctx context.Context) ([]*domain.HiredCandidate, error)
	findByFirstName func(ctx context.Context, firstName string) (*domain.HiredCandidate, error)
	importCSV       func(ctx context.Context, r io.Reader) ([]*domain.HiredCandidate, error)
}

func (f *fakeCandidateUsecase) Save(ctx context.Context, in usecase.SaveCandidateInput) (*domain.HiredCandidate, error) {
	return f.save(ctx, in)
}

func (f *fakeCandidateUsecase) List(ctx context.Context) ([]*domain.HiredCandidate, error) {
	return f.list(ctx)
}

func (f *fakeCandidateUsecase) FindByFirstName(ctx context.Context, firstName string) (*domain.HiredCandidate, error) {
	return f.findByFirstName(ctx, firstName)
}

func (f *fakeCandidateUsecase) Import(ctx context.Context, r io.Reader) ([]*domain.HiredCandidate, error) {
	return f.importCSV(ctx, r)
}

func newCandidateEngine(uc *fakeCandidateUsecase) *gin.Engine {
	h := handler.NewCandidateHandler(uc, discardLogger())

	r := gin.New()
	r.GET("/candidates", h.List)
	r.POST("/candidates", h.Save)
	r.POST("/candidates/import", h.Import)
	r.GET("/candidates/:firstName", h.GetByFirstName)
	return r
}

var annCandidate = &domain.HiredCandidate{
	ID:        1,
	FirstName: "Ann",
	Email:     "ann@x.com",
	HiredDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	Status:    "hired",
}

func TestCandidateSave_Returns201(t *testing.T) {
	uc := &fakeCandidateUsecase{
		save: func(_ context.Context, in usecase.SaveCandidateInput) (*domain.HiredCandidate, error) {
			if in.HiredDate != "2024-03-01" {
				t.Errorf("hired date = %q", in.HiredDate)
			}
			return annCandidate, nil
		},
	}

	w := postJSON(newCandidateEngine(uc), "/candidates",
		`{"first_name":"Ann","email":"ann@x.com","hired_date":"2024-03-01"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if body := decode(t, w); body["hired_date"] != "2024-03-01" {
		t.Errorf("hired_date = %v", body["hired_date"])
	}
}

func TestCandidateSave_BadDate_Returns400(t *testing.T) {
	w := postJSON(newCandidateEngine(&fakeCandidateUsecase{}), "/candidates",
		`{"first_name":"Ann","email":"ann@x.com","hired_date":"03/01/2024"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCandidateSave_InvalidCandidate_Returns400(t *testing.T) {
	uc := &fakeCandidateUsecase{
		save: func(context.Context, usecase.SaveCandidateInput) (*domain.HiredCandidate, error) {
			return nil, domain.ErrInvalidCandidate.WithMessage("email is required")
		},
	}

	w := postJSON(newCandidateEngine(uc), "/candidates",
		`{"first_name":"Ann","email":"ann@x.com","hired_date":"2024-03-01"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	msg, _ := decode(t, w)["error"].(string)
	if msg != "email is required" {
		t.Errorf("error = %q, want %q", msg, "email is required")
	}
}

func TestCandidateList_Returns200(t *testing.T) {
	uc := &fakeCandidateUsecase{
		list: func(context.Context) ([]*domain.HiredCandidate, error) {
			return []*domain.HiredCandidate{annCandidate}, nil
		},
	}

	w := httptest.NewRecorder()
	newCandidateEngine(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/candidates", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if items, _ := decode(t, w)["candidates"].([]any); len(items) != 1 {
		t.Errorf("candidates = %v, want 1 item", items)
	}
}

func TestCandidateGetByFirstName(t *testing.T) {
	uc := &fakeCandidateUsecase{
		findByFirstName: func(_ context.Context, name string) (*domain.HiredCandidate, error) {
			if name == "Ann" {
				return annCandidate, nil
			}
			return nil, domain.ErrCandidateNotFound
		},
	}
	r := newCandidateEngine(uc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/candidates/Ann", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Ann: status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/candidates/Zed", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Zed: status = %d, want 404", w.Code)
	}
}

func multipartUpload(t *testing.T, field, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "hired.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/candidates/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCandidateImport_Returns200WithCount(t *testing.T) {
	uc := &fakeCandidateUsecase{
		importCSV: func(_ context.Context, r io.Reader) ([]*domain.HiredCandidate, error) {
			b, _ := io.ReadAll(r)
			if string(b) != "csv-body" {
				t.Errorf("uploaded body = %q", b)
			}
			return []*domain.HiredCandidate{annCandidate, annCandidate}, nil
		},
	}

	w := httptest.NewRecorder()
	newCandidateEngine(uc).ServeHTTP(w, multipartUpload(t, "file", "csv-body"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := decode(t, w); body["imported"] != float64(2) {
		t.Errorf("imported = %v, want 2", body["imported"])
	}
}

func TestCandidateImport_Errors(t *testing.T) {
	uc := &fakeCandidateUsecase{
		importCSV: func(context.Context, io.Reader) ([]*domain.HiredCandidate, error) {
			return nil, domain.ErrInvalidCandidateFile.WithMessage("row 2: hired_date must be YYYY-MM-DD")
		},
	}
	r := newCandidateEngine(uc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "file", "bad"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid file: status = %d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "other", "bad"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing field: status = %d, want 400", w.Code)
	}
}
