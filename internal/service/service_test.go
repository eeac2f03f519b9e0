package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/internal/pricing"
)

func newAPI(t *testing.T, h http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return backend.NewClient(srv.URL, time.Second, nil)
}

type fakeSessions struct {
	token   string
	user    *models.User
	cleared bool
}

func (f *fakeSessions) SignIn(_ context.Context, token string, user *models.User) error {
	f.token, f.user = token, user
	return nil
}

func (f *fakeSessions) Clear(context.Context) error {
	f.cleared = true
	f.token, f.user = "", nil
	return nil
}

func TestCarService_ListQuery(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/api/cars" || q.Get("type") != "SUV" || q.Get("page") != "2" || q.Get("limit") != "9" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if q.Has("fuel") {
			t.Error("empty filter sent")
		}
		_, _ = w.Write([]byte(`{"cars":[{"id":1,"name":"Creta","pricePerDay":"2500"}],"total":20}`))
	})

	page, err := NewCarService(api).List(context.Background(), models.CarFilter{Type: "SUV", Page: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Cars) != 1 || page.Cars[0].Name != "Creta" {
		t.Errorf("cars = %+v", page.Cars)
	}
	if page.Page != 2 || page.TotalPages != 3 {
		t.Errorf("page = %d totalPages = %d", page.Page, page.TotalPages)
	}
}

func TestCarService_GetNotFound(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Car not found"}`))
	})

	_, err := NewCarService(api).Get(context.Background(), 99)
	if !backend.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("err = %v, want 404 RequestError", err)
	}
}

func TestCarService_Availability(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cars/3/availability" || r.URL.Query().Get("startDate") != "2025-06-12" {
			t.Errorf("unexpected request %s", r.URL)
		}
		_, _ = w.Write([]byte(`{"available":false,"message":"Already booked"}`))
	})

	start, _ := pricing.ParseDate("2025-06-12")
	end, _ := pricing.ParseDate("2025-06-14")
	a, err := NewCarService(api).Availability(context.Background(), 3, start, end)
	if err != nil {
		t.Fatal(err)
	}
	if a.Available || a.Message != "Already booked" {
		t.Errorf("got %+v", a)
	}
}

func TestAuthService_Login(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if r.URL.Path != "/api/auth/login" || req.Email != "asha@example.com" {
			t.Errorf("unexpected request %s %+v", r.URL, req)
		}
		_, _ = w.Write([]byte(`{"token":"tok","user":{"id":5,"name":"Asha","email":"asha@example.com"}}`))
	})

	sessions := &fakeSessions{}
	user, err := NewAuthService(api, sessions, zap.NewNop()).Login(context.Background(),
		&models.LoginRequest{Email: "asha@example.com", Password: "Secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sessions.token != "tok" || user.Role != models.RoleUser || sessions.user.ID != 5 {
		t.Errorf("session = %+v user = %+v", sessions, user)
	}
}

func TestAuthService_LoginRejected(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	})

	sessions := &fakeSessions{}
	_, err := NewAuthService(api, sessions, zap.NewNop()).Login(context.Background(), &models.LoginRequest{})
	if backend.Message(err, "") != "Invalid credentials" {
		t.Errorf("err = %v", err)
	}
	if sessions.token != "" {
		t.Error("session written on failed login")
	}
}

func TestAuthService_LogoutClearsEvenOnBackendFailure(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	sessions := &fakeSessions{token: "tok", user: &models.User{ID: 1}}
	if err := NewAuthService(api, sessions, zap.NewNop()).Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if !sessions.cleared {
		t.Error("session not cleared")
	}
}

func TestBookingService_Cancel(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.Method != http.MethodDelete || r.URL.Path != "/api/bookings/12" || body["reason"] != "Plans changed" {
			t.Errorf("unexpected %s %s %v", r.Method, r.URL, body)
		}
		_, _ = w.Write([]byte(`{}`))
	})

	if err := NewBookingService(api).Cancel(context.Background(), 12, "Plans changed"); err != nil {
		t.Fatal(err)
	}
}

func TestHostService_AddCarRejectsBadRate(t *testing.T) {
	called := false
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := NewHostService(api).AddCar(context.Background(), &models.CarRequest{Name: "Swift", PricePerDay: "0"})
	if !errors.Is(err, pricing.ErrInvalidRate) {
		t.Errorf("err = %v, want ErrInvalidRate", err)
	}
	if called {
		t.Error("invalid car forwarded to backend")
	}
}

func TestUserService_ProfileAndPayments(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /api/user/profile":
			_, _ = w.Write([]byte(`{"id":5,"name":"Asha Rao","email":"asha@example.com","address":"Pune"}`))
		case "PUT /api/user/profile":
			var req models.ProfileRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name != "Meera Rao" {
				t.Errorf("PUT body = %+v, %v", req, err)
			}
			_, _ = w.Write([]byte(`{"id":5,"name":"Meera Rao"}`))
		case "GET /api/user/payments":
			_, _ = w.Write([]byte(`[{"id":1,"bookingId":42,"amount":"10500.50","status":"SUCCESS"}]`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	svc := NewUserService(api)
	ctx := context.Background()

	profile, err := svc.Profile(ctx)
	if err != nil || profile.Address != "Pune" {
		t.Fatalf("Profile = %+v, %v", profile, err)
	}
	updated, err := svc.UpdateProfile(ctx, &models.ProfileRequest{Name: "Meera Rao", Phone: "9123456789"})
	if err != nil || updated.Name != "Meera Rao" {
		t.Fatalf("UpdateProfile = %+v, %v", updated, err)
	}
	payments, err := svc.Payments(ctx)
	if err != nil || len(payments) != 1 || payments[0].Amount.String() != "10500.5" {
		t.Fatalf("Payments = %+v, %v", payments, err)
	}
}

func TestHostService_Earnings(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/host/earnings" || r.URL.Query().Get("period") != "week" {
			t.Errorf("unexpected request %s", r.URL)
		}
		_, _ = w.Write([]byte(`{"total":"1200","pending":"200","available":"1000"}`))
	})

	e, err := NewHostService(api).Earnings(context.Background(), "week")
	if err != nil {
		t.Fatalf("Earnings: %v", err)
	}
	if e.Available.String() != "1000" {
		t.Errorf("available = %s", e.Available)
	}
}

func TestHostService_RequestPayoutRejectsNonPositive(t *testing.T) {
	called := false
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		if _, err := NewHostService(api).RequestPayout(context.Background(), amount); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("RequestPayout(%s) err = %v", amount, err)
		}
	}
	if called {
		t.Error("invalid payout forwarded to backend")
	}
}

func TestContactService_Newsletter(t *testing.T) {
	var paths []string
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.NewsletterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "asha@example.com" {
			t.Errorf("email = %q", req.Email)
		}
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	svc := NewContactService(api)
	ctx := context.Background()

	if err := svc.Subscribe(ctx, "asha@example.com"); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := svc.Unsubscribe(ctx, "asha@example.com"); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/api/newsletter/subscribe" || paths[1] != "/api/newsletter/unsubscribe" {
		t.Errorf("paths = %v", paths)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/change-password" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Current password is incorrect"}`))
	})
	sessions := &fakeSessions{token: "t"}

	err := NewAuthService(api, sessions, zap.NewNop()).ChangePassword(context.Background(), &models.PasswordChangeRequest{
		CurrentPassword: "WrongPass1",
		NewPassword:     "NewPass123",
	})
	if !backend.IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("err = %v, want 400", err)
	}
	if sessions.cleared {
		t.Error("session cleared on rejected password change")
	}
}
