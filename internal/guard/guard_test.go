package guard

import (
	"testing"

	"github.com/langchou/autoprime/internal/models"
)

func session(role models.Role) *models.Session {
	return &models.Session{Token: "tok", User: &models.User{ID: 1, Name: "Asha Rao", Role: role}}
}

func TestCheck_NoSessionAlwaysRedirects(t *testing.T) {
	unauth := []*models.Session{
		nil,
		{},
		{Token: "tok"},
		{User: &models.User{Role: models.RoleAdmin}},
	}
	for _, s := range unauth {
		for _, role := range []models.Role{"", models.RoleUser, models.RoleHost, models.RoleAdmin} {
			d := Check(s, role)
			if d.Allow || d.Redirect != LoginURL || d.Reason != ReasonNoSession {
				t.Errorf("Check(%+v, %q) = %+v", s, role, d)
			}
		}
	}
}

func TestCheck_RoleMismatch(t *testing.T) {
	d := Check(session(models.RoleUser), models.RoleHost)
	if d.Allow || d.Redirect != LoginURL || d.Reason != ReasonRoleMismatch {
		t.Errorf("got %+v", d)
	}
}

func TestCheck_Allow(t *testing.T) {
	tests := []struct {
		role     models.Role
		required models.Role
	}{
		{models.RoleUser, ""},
		{models.RoleHost, ""},
		{models.RoleHost, models.RoleHost},
		{models.RoleAdmin, models.RoleAdmin},
	}
	for _, tt := range tests {
		if d := Check(session(tt.role), tt.required); !d.Allow || d.Redirect != "" {
			t.Errorf("role %s required %q: %+v", tt.role, tt.required, d)
		}
	}
}

func TestGuestOnly(t *testing.T) {
	if _, redirect := GuestOnly(nil); redirect {
		t.Error("anonymous visitor redirected away from login")
	}
	if to, redirect := GuestOnly(session(models.RoleHost)); !redirect || to != "/host/dashboard.html" {
		t.Errorf("got %q %v", to, redirect)
	}
}

func TestAfterLogin(t *testing.T) {
	tests := []struct {
		remembered string
		want       string
	}{
		{"/booking.html?carId=3", "/booking.html?carId=3"},
		{"", "/user/dashboard.html"},
		{"//evil.example", "/user/dashboard.html"},
		{"https://evil.example", "/user/dashboard.html"},
		{"/login.html", "/user/dashboard.html"},
	}
	for _, tt := range tests {
		if got := AfterLogin(models.RoleUser, tt.remembered); got != tt.want {
			t.Errorf("AfterLogin(%q) = %q, want %q", tt.remembered, got, tt.want)
		}
	}
	if got := AfterLogin(models.RoleAdmin, ""); got != "/admin/dashboard.html" {
		t.Errorf("admin default = %q", got)
	}
}

func TestSafeRedirect(t *testing.T) {
	if got := SafeRedirect("/user/my-bookings.html", "/"); got != "/user/my-bookings.html" {
		t.Errorf("got %q", got)
	}
	if got := SafeRedirect("http://evil.example/x", "/index.html"); got != "/index.html" {
		t.Errorf("got %q", got)
	}
}
