package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestHealthCheck_WithoutHub(t *testing.T) {
	b, _ := newTestServerWithHub(t, Options{}, nil)
	w := b.get("/health")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ws_clients":0`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}

	b.login(t)
	if w := b.get("/ws"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("ws without hub = %d", w.Code)
	}
}

func TestGuard_UserPagesRejectHost(t *testing.T) {
	b, fb := newTestServer(t, Options{})
	fb.loginBody = hostLogin
	b.login(t)

	for _, path := range []string{
		"/user/my-bookings.html",
		"/user/wishlist.html",
		"/user/profile.html",
		"/user/payments.html",
	} {
		w := b.get(path)
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/login.html" {
			t.Errorf("HOST %s = %d %s", path, w.Code, w.Header().Get("Location"))
		}
	}
	if fb.seen("GET /api/user/payments") || fb.seen("GET /api/user/wishlist") {
		t.Error("rejected page still loaded data")
	}

	w := b.get("/login.html")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/host/dashboard.html" {
		t.Errorf("login page as host = %d %s", w.Code, w.Header().Get("Location"))
	}
}

func TestGuard_HostPagesRejectUser(t *testing.T) {
	b, fb := newTestServer(t, Options{})
	b.login(t)

	w := b.get("/host/earnings.html")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login.html" {
		t.Fatalf("USER earnings = %d %s", w.Code, w.Header().Get("Location"))
	}
	if fb.seen("GET /api/host/earnings") {
		t.Error("rejected page still loaded earnings")
	}
}

func TestProfilePage(t *testing.T) {
	b, _ := newTestServer(t, Options{})
	b.login(t)

	w := b.get("/user/profile.html")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"12 MG Road, Pune", "9876543210", `action="/actions/password"`} {
		if !strings.Contains(body, want) {
			t.Errorf("profile page missing %q", want)
		}
	}
}

func TestUpdateProfile(t *testing.T) {
	b, fb := newTestServer(t, Options{})
	b.login(t)

	w := b.post("/actions/profile", url.Values{"name": {"Meera Rao"}, "phone": {"123"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/user/profile.html" {
		t.Fatalf("invalid = %d %s", w.Code, w.Header().Get("Location"))
	}
	if fb.seen("PUT /api/user/profile") {
		t.Fatal("invalid phone reached backend")
	}
	if !strings.Contains(b.get("/user/profile.html").Body.String(), "valid 10-digit") {
		t.Error("missing phone message")
	}

	w = b.post("/actions/profile", url.Values{"name": {"Meera Rao"}, "phone": {"9123456789"}, "address": {"Baner, Pune"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/user/profile.html" {
		t.Fatalf("update = %d %s", w.Code, w.Header().Get("Location"))
	}
	sent := fb.body("PUT /api/user/profile")
	for _, want := range []string{`"name":"Meera Rao"`, `"phone":"9123456789"`, `"address":"Baner, Pune"`} {
		if !strings.Contains(sent, want) {
			t.Errorf("PUT body %s missing %s", sent, want)
		}
	}

	body := b.get("/user/dashboard.html").Body.String()
	if !strings.Contains(body, "Hi, Meera") || !strings.Contains(body, "Profile updated successfully") {
		t.Error("session user not refreshed after update")
	}
}

func TestUpdateProfile_RequiresUser(t *testing.T) {
	b, fb := newTestServer(t, Options{})
	fb.loginBody = hostLogin
	b.login(t)

	w := b.post("/actions/profile", url.Values{"name": {"Vikram Shah"}, "phone": {"9123456789"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login.html" {
		t.Fatalf("status = %d %s", w.Code, w.Header().Get("Location"))
	}
	if fb.seen("PUT /api/user/profile") {
		t.Error("host reached profile endpoint")
	}
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		wantSent bool
		wantMsg  string
	}{
		{
			name:    "mismatch",
			form:    url.Values{"currentPassword": {"OldPass1"}, "newPassword": {"NewPass123"}, "confirmNewPassword": {"NewPass124"}},
			wantMsg: "Passwords do not match",
		},
		{
			name:    "weak",
			form:    url.Values{"currentPassword": {"OldPass1"}, "newPassword": {"weakpass"}, "confirmNewPassword": {"weakpass"}},
			wantMsg: "uppercase",
		},
		{
			name:    "missing current",
			form:    url.Values{"newPassword": {"NewPass123"}, "confirmNewPassword": {"NewPass123"}},
			wantMsg: "Current password is required",
		},
		{
			name:     "rejected by backend",
			form:     url.Values{"currentPassword": {"WrongPass1"}, "newPassword": {"NewPass123"}, "confirmNewPassword": {"NewPass123"}},
			wantSent: true,
			wantMsg:  "Current password is incorrect",
		},
		{
			name:     "changed",
			form:     url.Values{"currentPassword": {"OldPass1"}, "newPassword": {"NewPass123"}, "confirmNewPassword": {"NewPass123"}},
			wantSent: true,
			wantMsg:  "Password changed successfully",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, fb := newTestServer(t, Options{})
			b.login(t)

			w := b.post("/actions/password", tt.form)
			if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/user/profile.html" {
				t.Fatalf("status = %d %s", w.Code, w.Header().Get("Location"))
			}
			if got := fb.seen("POST /api/auth/change-password"); got != tt.wantSent {
				t.Errorf("sent = %v, want %v", got, tt.wantSent)
			}
			if tt.wantSent && strings.Contains(fb.body("POST /api/auth/change-password"), "confirm") {
				t.Error("confirmation forwarded to backend")
			}
			if !strings.Contains(b.get("/user/profile.html").Body.String(), tt.wantMsg) {
				t.Errorf("profile page missing %q", tt.wantMsg)
			}
		})
	}
}

func TestPaymentsPage(t *testing.T) {
	b, _ := newTestServer(t, Options{})
	b.login(t)

	w := b.get("/user/payments.html")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"#7001", "01 Jun 2025", "card", "REFUNDED", "status-success", "Total paid: <strong>₹10500.00</strong>"} {
		if !strings.Contains(body, want) {
			t.Errorf("payments page missing %q", want)
		}
	}
}

func TestEarningsPage(t *testing.T) {
	b, fb := newTestServer(t, Options{})
	fb.loginBody = hostLogin
	b.login(t)

	tests := []struct {
		query  string
		period string
	}{
		{"?period=year", "period=year"},
		{"?period=decade", "period=month"},
		{"", "period=month"},
	}
	for _, tt := range tests {
		w := b.get("/host/earnings.html" + tt.query)
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", tt.query, w.Code)
		}
		if got := fb.query("GET /api/host/earnings"); got != tt.period {
			t.Errorf("%s backend query = %q, want %q", tt.query, got, tt.period)
		}
		body := w.Body.String()
		for _, want := range []string{"25000.00", "21000.00", "8000.00", "PROCESSED", "04 May 2025"} {
			if !strings.Contains(body, want) {
				t.Errorf("%s earnings page missing %q", tt.query, want)
			}
		}
	}
}

func TestRequestPayout(t *testing.T) {
	b, fb := newTestServer(t, Options{})
	fb.loginBody = hostLogin
	b.login(t)

	for _, amount := range []string{"", "abc", "-5", "0"} {
		w := b.post("/actions/host/payouts", url.Values{"amount": {amount}})
		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/host/earnings.html" {
			t.Fatalf("amount %q = %d %s", amount, w.Code, w.Header().Get("Location"))
		}
	}
	if fb.seen("POST /api/host/payouts/request") {
		t.Fatal("invalid amount reached backend")
	}
	if !strings.Contains(b.get("/host/earnings.html").Body.String(), "Please enter a valid amount") {
		t.Error("missing amount message")
	}

	w := b.post("/actions/host/payouts", url.Values{"amount": {"5000"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/host/earnings.html" {
		t.Fatalf("payout = %d %s", w.Code, w.Header().Get("Location"))
	}
	if !strings.Contains(fb.body("POST /api/host/payouts/request"), `"amount":"5000"`) {
		t.Errorf("payout body = %s", fb.body("POST /api/host/payouts/request"))
	}
}

func TestRequestPayout_HostOnly(t *testing.T) {
	b, fb := newTestServer(t, Options{})
	b.login(t)

	w := b.post("/actions/host/payouts", url.Values{"amount": {"5000"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login.html" {
		t.Fatalf("status = %d %s", w.Code, w.Header().Get("Location"))
	}
	if fb.seen("POST /api/host/payouts/request") {
		t.Error("user reached payout endpoint")
	}
}

func TestNewsletter(t *testing.T) {
	b, fb := newTestServer(t, Options{})

	w := b.post("/actions/newsletter", url.Values{"email": {"not-an-email"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/newsletter.html" {
		t.Fatalf("invalid = %d %s", w.Code, w.Header().Get("Location"))
	}
	if fb.seen("POST /api/newsletter/subscribe") {
		t.Fatal("invalid email reached backend")
	}
	if !strings.Contains(b.get("/newsletter.html").Body.String(), "Please enter a valid email address") {
		t.Error("missing email message")
	}

	w = b.post("/actions/newsletter", url.Values{"email": {"asha@example.com"}, "next": {"/about.html"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/about.html" {
		t.Fatalf("subscribe = %d %s", w.Code, w.Header().Get("Location"))
	}
	if !strings.Contains(fb.body("POST /api/newsletter/subscribe"), `"email":"asha@example.com"`) {
		t.Errorf("subscribe body = %s", fb.body("POST /api/newsletter/subscribe"))
	}

	w = b.post("/actions/newsletter", url.Values{"email": {"asha@example.com"}, "op": {"unsubscribe"}, "next": {"//evil.example"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/newsletter.html" {
		t.Fatalf("unsubscribe = %d %s", w.Code, w.Header().Get("Location"))
	}
	if !fb.seen("POST /api/newsletter/unsubscribe") {
		t.Error("unsubscribe not sent")
	}
	if !strings.Contains(b.get("/newsletter.html").Body.String(), "Successfully unsubscribed") {
		t.Error("missing unsubscribe notice")
	}
}

func TestNewsletterPage_PrefillsEmail(t *testing.T) {
	b, _ := newTestServer(t, Options{})
	b.login(t)

	w := b.get("/newsletter.html")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `value="asha@example.com"`) {
		t.Fatalf("newsletter = %d", w.Code)
	}
}
