package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/core/ports"
	"github.com/cedarcrest-hospital/portal/internal/infrastructure/backend"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

// --- blog -------------------------------------------------------------------

type stubBlogService struct {
	listFn   func(ctx context.Context, page, perPage int) (*ports.BlogPage, error)
	createFn func(ctx context.Context, in ports.BlogPostInput) (*domain.BlogPost, error)
}

func (s *stubBlogService) List(ctx context.Context, page, perPage int) (*ports.BlogPage, error) {
	return s.listFn(ctx, page, perPage)
}

func (s *stubBlogService) Get(context.Context, string) (*domain.BlogPost, error) {
	return nil, domain.ErrPostNotFound
}

func (s *stubBlogService) Create(ctx context.Context, in ports.BlogPostInput) (*domain.BlogPost, error) {
	return s.createFn(ctx, in)
}

func (s *stubBlogService) Update(context.Context, string, ports.BlogPostInput) (*domain.BlogPost, error) {
	return nil, domain.ErrPostNotFound
}

func (s *stubBlogService) Delete(context.Context, string) error { return domain.ErrPostNotFound }

func TestBlogHandler_List_QueryDefaults(t *testing.T) {
	tests := []struct {
		query       string
		page, perPg int
	}{
		{"", 1, defaultPerPage},
		{"?page=3&per_page=10", 3, 10},
		{"?page=-1&per_page=abc", 1, defaultPerPage},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			stub := &stubBlogService{listFn: func(_ context.Context, page, perPage int) (*ports.BlogPage, error) {
				if page != tt.page || perPage != tt.perPg {
					t.Fatalf("expected page=%d per_page=%d, got %d %d", tt.page, tt.perPg, page, perPage)
				}
				return &ports.BlogPage{Items: []*domain.BlogPost{}, Page: page, PerPage: perPage}, nil
			}}
			c, rec := newContext(http.MethodGet, "/api/blog"+tt.query, "")
			if err := NewBlogHandler(stub, zerolog.Nop()).List(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
		})
	}
}

func TestBlogHandler_Create_ValidationFailure(t *testing.T) {
	stub := &stubBlogService{createFn: func(context.Context, ports.BlogPostInput) (*domain.BlogPost, error) {
		t.Fatal("service must not be called for an invalid form")
		return nil, nil
	}}
	c, _ := newContext(http.MethodPost, "/api/admin/blog", `{"title":"","description":"d","content":"c"}`)

	err := NewBlogHandler(stub, zerolog.Nop()).Create(c)
	if code := httpStatus(t, err); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if !strings.Contains(err.Error(), "title is required") {
		t.Fatalf("expected field message, got %v", err)
	}
}

func TestBlogHandler_Create_KeepsExplicitAuthor(t *testing.T) {
	stub := &stubBlogService{createFn: func(_ context.Context, in ports.BlogPostInput) (*domain.BlogPost, error) {
		if in.Author != "Guest Writer" {
			t.Fatalf("unexpected author %q", in.Author)
		}
		return &domain.BlogPost{ID: "p1", Title: in.Title, Author: in.Author}, nil
	}}
	c, rec := newContext(http.MethodPost, "/api/admin/blog",
		`{"title":"T","description":"D","content":"<p>C</p>","author":"Guest Writer"}`)

	if err := NewBlogHandler(stub, zerolog.Nop()).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

// --- appointments -----------------------------------------------------------

type stubAppointmentService struct {
	bookFn   func(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	updateFn func(ctx context.Context, id string, current, next domain.AppointmentStatus) (*domain.Appointment, error)
}

func (s *stubAppointmentService) Book(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	return s.bookFn(ctx, a)
}

func (s *stubAppointmentService) List(context.Context) ([]domain.Appointment, error) {
	return nil, nil
}

func (s *stubAppointmentService) UpdateStatus(ctx context.Context, id string, current, next domain.AppointmentStatus) (*domain.Appointment, error) {
	return s.updateFn(ctx, id, current, next)
}

func newAppointmentHandler(t *testing.T, svc ports.AppointmentService) *AppointmentHandler {
	t.Helper()
	client, err := backend.New("http://backend.invalid/api")
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	h := NewAppointmentHandler(client, zerolog.Nop())
	h.newService = func(ports.AppointmentBackend, zerolog.Logger) ports.AppointmentService { return svc }
	return h
}

func TestAppointmentHandler_Book_Success(t *testing.T) {
	h := newAppointmentHandler(t, &stubAppointmentService{
		bookFn: func(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
			if a.FullName != "Jane Roe" || a.HMOProvider != "Acme Health" || !a.HasHMO {
				t.Fatalf("unexpected booking %+v", a)
			}
			booked := *a
			booked.ID = "a1"
			booked.Status = domain.AppointmentPending
			return &booked, nil
		},
	})
	c, rec := newContext(http.MethodPost, "/api/appointments",
		`{"fullName":"Jane Roe","email":"jane@example.com","phone":"555","hasHMO":true,"hmoProvider":"Acme Health","date":"2099-01-02","time":"09:30"}`)

	if err := h.Book(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp struct {
		Message string             `json:"message"`
		Data    domain.Appointment `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Data.ID != "a1" || resp.Message == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAppointmentHandler_Book_ServiceErrorPassesThrough(t *testing.T) {
	h := newAppointmentHandler(t, &stubAppointmentService{
		bookFn: func(context.Context, *domain.Appointment) (*domain.Appointment, error) {
			return nil, domain.ErrDateInPast
		},
	})
	c, _ := newContext(http.MethodPost, "/api/appointments",
		`{"fullName":"Jane","email":"jane@example.com","phone":"555","date":"2000-01-02","time":"09:30"}`)

	if err := h.Book(c); !errors.Is(err, domain.ErrDateInPast) {
		t.Fatalf("expected ErrDateInPast, got %v", err)
	}
}

func TestAppointmentHandler_UpdateStatus(t *testing.T) {
	h := newAppointmentHandler(t, &stubAppointmentService{
		updateFn: func(_ context.Context, id string, current, next domain.AppointmentStatus) (*domain.Appointment, error) {
			if id != "a7" || current != domain.AppointmentPending || next != domain.AppointmentCancelled {
				t.Fatalf("unexpected args %s %s %s", id, current, next)
			}
			return &domain.Appointment{ID: id, Status: next}, nil
		},
	})
	c, rec := newContext(http.MethodPatch, "/api/admin/appointments/a7/status", `{"status":"cancelled","current":"pending"}`)
	c.SetParamNames("id")
	c.SetParamValues("a7")

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAppointmentHandler_UpdateStatus_UnknownStatus(t *testing.T) {
	h := newAppointmentHandler(t, &stubAppointmentService{})
	c, _ := newContext(http.MethodPatch, "/api/admin/appointments/a7/status", `{"status":"archived"}`)

	if code := httpStatus(t, h.UpdateStatus(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

// --- doctor -----------------------------------------------------------------

func TestDoctorHandler_ReplaceAvailability_RejectsDuplicates(t *testing.T) {
	client, _ := backend.New("http://backend.invalid/api")
	h := NewDoctorHandler(client, zerolog.Nop())
	c, _ := newContext(http.MethodPut, "/api/doctor/availability",
		`{"date":"2099-05-01","timeSlots":[{"time":"09:00","isAvailable":true},{"time":"09:00","isAvailable":false}]}`)

	if err := h.ReplaceAvailability(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDoctorHandler_Availability_BadDate(t *testing.T) {
	client, _ := backend.New("http://backend.invalid/api")
	h := NewDoctorHandler(client, zerolog.Nop())
	c, _ := newContext(http.MethodGet, "/api/doctor/availability?date=tomorrow", "")

	if code := httpStatus(t, h.Availability(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

// --- push -------------------------------------------------------------------

func TestPushHandler_Subscribe(t *testing.T) {
	var got domain.PushSubscription
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/notifications/subscribe" {
			t.Fatalf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client, err := backend.New(srv.URL + "/api")
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	h := NewPushHandler(client, zerolog.Nop())
	c, rec := newContext(http.MethodPost, "/api/push/subscription",
		`{"endpoint":"https://push.example.com/abc","expirationTime":null,"keys":{"p256dh":"BP","auth":"AU"}}`)

	if err := h.Subscribe(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Endpoint != "https://push.example.com/abc" || got.Keys.P256dh != "BP" || got.Keys.Auth != "AU" {
		t.Fatalf("backend received %+v", got)
	}
}

func TestPushHandler_Subscribe_MissingKeys(t *testing.T) {
	client, _ := backend.New("http://backend.invalid/api")
	h := NewPushHandler(client, zerolog.Nop())
	c, _ := newContext(http.MethodPost, "/api/push/subscription", `{"endpoint":"https://push.example.com/abc","keys":{}}`)

	if code := httpStatus(t, h.Subscribe(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

// --- health -----------------------------------------------------------------

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_ReadinessOK(t *testing.T) {
	h := NewHealthHandler(Check{Name: "redis", Pinger: pingerFunc(func(context.Context) error { return nil })})
	c, rec := newContext(http.MethodGet, "/health/ready", "")

	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}
