package handlers

import (
	"bytes"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/guard"
	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/internal/pages"
	"github.com/langchou/autoprime/internal/view"
)

// pageTitles 页面标题
var pageTitles = map[string]string{
	"index.html":            "Self-drive car rentals",
	"cars.html":             "Browse cars",
	"car-details.html":      "Car details",
	"booking.html":          "Book your car",
	"booking-confirm.html":  "Booking confirmed",
	"login.html":            "Login",
	"register.html":         "Create account",
	"contact.html":          "Contact us",
	"about.html":            "About us",
	"faq.html":              "FAQ",
	"terms.html":            "Terms & Conditions",
	"privacy.html":          "Privacy Policy",
	"newsletter.html":       "Newsletter",
	"user/dashboard.html":   "My dashboard",
	"user/my-bookings.html": "My bookings",
	"user/wishlist.html":    "Wishlist",
	"user/profile.html":     "My profile",
	"user/payments.html":    "Payments",
	"host/dashboard.html":   "Host dashboard",
	"host/manage-cars.html": "Manage cars",
	"host/add-car.html":     "Add a car",
	"host/earnings.html":    "Earnings",
	"admin/dashboard.html":  "Admin dashboard",
	"admin/users.html":      "Users",
}

// routes 页面路由表
func (h *Handler) routes() []pages.Route {
	return []pages.Route{
		{Key: "index.html", Page: pages.Func("index", h.initIndex)},
		{Key: "cars.html", Page: pages.Func("cars", h.initCars)},
		{Key: "car-details.html", Page: pages.Func("car-details", h.initCarDetails)},
		{Key: "booking.html", Page: pages.Func("booking", h.initBooking), RequireAuth: true},
		{Key: "booking-confirm.html", Page: pages.Func("booking-confirm", h.initBookingConfirm), RequireAuth: true},
		{Key: "login.html", Page: pages.Func("login", h.initLogin)},
		{Key: "register.html", Page: pages.Func("register", h.initRegister)},
		{Key: "contact.html", Page: pages.Func("contact", h.initContact)},
		{Key: "about.html", Page: pages.Static("about")},
		{Key: "faq.html", Page: pages.Static("faq")},
		{Key: "terms.html", Page: pages.Static("terms")},
		{Key: "privacy.html", Page: pages.Static("privacy")},
		{Key: "newsletter.html", Page: pages.Func("newsletter", h.initNewsletter)},

		{Key: "user/dashboard.html", Page: pages.Func("user-dashboard", h.initUserDashboard), RequireAuth: true},
		{Key: "user/my-bookings.html", Page: pages.Func("user-my-bookings", h.initMyBookings), Role: models.RoleUser},
		{Key: "user/wishlist.html", Page: pages.Func("user-wishlist", h.initWishlist), Role: models.RoleUser},
		{Key: "user/profile.html", Page: pages.Func("user-profile", h.initProfile), Role: models.RoleUser},
		{Key: "user/payments.html", Page: pages.Func("user-payments", h.initPayments), Role: models.RoleUser},

		{Key: "host/dashboard.html", Page: pages.Func("host-dashboard", h.initHostDashboard), Role: models.RoleHost},
		{Key: "host/manage-cars.html", Page: pages.Func("host-manage-cars", h.initManageCars), Role: models.RoleHost},
		{Key: "host/add-car.html", Page: pages.Func("host-add-car", h.initAddCar), Role: models.RoleHost},
		{Key: "host/earnings.html", Page: pages.Func("host-earnings", h.initEarnings), Role: models.RoleHost},

		{Key: "admin/dashboard.html", Page: pages.Func("admin-dashboard", h.initAdminDashboard), Role: models.RoleAdmin},
		{Key: "admin/users.html", Page: pages.Func("admin-users", h.initAdminUsers), Role: models.RoleAdmin},
	}
}

// ServePage 页面入口：分发到页面控制器并渲染
func (h *Handler) ServePage(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Status(http.StatusMethodNotAllowed)
		return
	}

	ctx := c.Request.Context()
	sess := h.loadSession(c)

	frame := h.boot.Run(ctx, &pages.Request{
		Key:     c.Request.URL.Path,
		Path:    c.Request.URL.Path,
		Query:   c.Request.URL.Query(),
		Session: sess,
	})

	switch {
	case !frame.Mapped:
		h.serveFallback(c, frame, sess)
		return

	case frame.Blocked():
		if frame.Decision.Reason == guard.ReasonNoSession {
			h.sessions.RememberDestination(ctx, sess, c.Request.URL.RequestURI())
			h.sessions.PushFlash(ctx, models.NoticeInfo, "Please login to continue")
		} else {
			h.sessions.PushFlash(ctx, models.NoticeWarning, "You don't have access to that page")
		}
		c.Redirect(http.StatusFound, frame.Decision.Redirect)
		return

	case frame.Redirect != "":
		c.Redirect(http.StatusFound, frame.Redirect)
		return

	case backend.IsStatus(frame.Err, http.StatusUnauthorized):
		h.expireSession(c)
		return
	}

	layout := h.layout(c, frame, sess)
	status := http.StatusOK
	if frame.NotFound != nil {
		status = http.StatusNotFound
	}
	if frame.Err != nil {
		layout.Error = "We couldn't load everything on this page. Please try again."
	}
	h.render(c, status, frame.Template(), layout)
}

// serveFallback 未映射的路径：先找静态文件，再返回 404 页面
func (h *Handler) serveFallback(c *gin.Context, frame *pages.Frame, sess *models.Session) {
	if h.opts.AssetsDir != "" {
		file := filepath.Join(h.opts.AssetsDir, filepath.FromSlash(path.Clean("/"+frame.Key)))
		if info, err := os.Stat(file); err == nil && info.Mode().IsRegular() {
			c.File(file)
			return
		}
	}

	layout := h.layout(c, frame, sess)
	layout.Title = "Page not found"
	h.render(c, http.StatusNotFound, view.TemplateNotFound, layout)
}

// layout 组装外层数据，取出待显示的提示
func (h *Handler) layout(c *gin.Context, frame *pages.Frame, sess *models.Session) *view.Layout {
	l := &view.Layout{
		Title:    pageTitles[frame.Key],
		Key:      frame.Key,
		Header:   frame.Header,
		Footer:   frame.Footer,
		NotFound: frame.NotFound,
		Data:     frame.Data,
	}
	if sess.Authenticated() {
		l.User = sess.User
	}
	l.Notices = h.sessions.PopFlash(c.Request.Context(), sess)
	if frame.NotFound != nil {
		l.Title = frame.NotFound.Title
	}
	return l
}

func (h *Handler) render(c *gin.Context, status int, name string, layout *view.Layout) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, layout); err != nil {
		h.logger.Error("Failed to render page", zap.String("template", name), zap.Error(err))
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// loadSession 读取会话，失败时按未登录处理
func (h *Handler) loadSession(c *gin.Context) *models.Session {
	sess, err := h.sessions.Load(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load session", zap.Error(err))
		return &models.Session{}
	}
	return sess
}

// expireSession 后端返回 401：清除会话并回到登录页
func (h *Handler) expireSession(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.sessions.Clear(ctx); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
	}
	h.sessions.PushFlash(ctx, models.NoticeWarning, "Your session has expired. Please login again.")
	c.Redirect(http.StatusFound, guard.LoginURL)
}
