package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/guard"
	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/internal/pages"
	"github.com/langchou/autoprime/internal/validate"
)

// ContactView 联系页，已登录时预填姓名和邮箱
type ContactView struct {
	Name  string
	Email string
	Phone string
}

func (h *Handler) initContact(ctx context.Context, req *pages.Request) (any, error) {
	v := &ContactView{}
	if req.Session.Authenticated() {
		v.Name = req.Session.User.Name
		v.Email = req.Session.User.Email
		v.Phone = req.Session.User.Phone
	}
	return v, nil
}

// Contact 提交联系表单
// POST /actions/contact
func (h *Handler) Contact(c *gin.Context) {
	ctx := c.Request.Context()
	const back = "/contact.html"

	var msg models.ContactMessage
	if err := c.ShouldBind(&msg); err != nil {
		h.failBack(c, validate.Message(err), back)
		return
	}

	if err := h.svc.Contact.Submit(ctx, &msg); err != nil {
		h.logger.Error("Failed to submit contact form", zap.String("email", msg.Email), zap.Error(err))
		h.failBack(c, backend.Message(err, "Unable to send your message. Please try again."), back)
		return
	}

	h.sessions.PushFlash(ctx, models.NoticeSuccess, "Thanks! We'll get back to you soon.")
	c.Redirect(http.StatusSeeOther, back)
}

// NewsletterView 订阅页，已登录时预填邮箱
type NewsletterView struct {
	Email string
}

func (h *Handler) initNewsletter(ctx context.Context, req *pages.Request) (any, error) {
	v := &NewsletterView{}
	if req.Session.Authenticated() {
		v.Email = req.Session.User.Email
	}
	return v, nil
}

// Newsletter 订阅或退订邮件
// POST /actions/newsletter  op=subscribe|unsubscribe
func (h *Handler) Newsletter(c *gin.Context) {
	ctx := c.Request.Context()
	back := guard.SafeRedirect(c.PostForm("next"), "/newsletter.html")

	var req models.NewsletterRequest
	if err := c.ShouldBind(&req); err != nil {
		msg := validate.Message(err)
		if r := validate.CheckEmail(req.Email); !r.Valid {
			msg = r.Message
		}
		h.failBack(c, msg, back)
		return
	}

	var (
		err  error
		done string
	)
	switch c.PostForm("op") {
	case "unsubscribe":
		err = h.svc.Contact.Unsubscribe(ctx, req.Email)
		done = "Successfully unsubscribed from newsletter"
	default:
		err = h.svc.Contact.Subscribe(ctx, req.Email)
		done = "Successfully subscribed to newsletter!"
	}
	if err != nil {
		h.logger.Error("Newsletter request failed", zap.String("op", c.PostForm("op")), zap.Error(err))
		h.failBack(c, backend.Message(err, "Something went wrong. Please try again."), back)
		return
	}

	h.sessions.PushFlash(ctx, models.NoticeSuccess, done)
	c.Redirect(http.StatusSeeOther, back)
}
