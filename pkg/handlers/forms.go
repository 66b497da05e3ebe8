package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"content-site/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type submissionForm struct {
	Name    string `form:"name" binding:"required,max=200"`
	Email   string `form:"email" binding:"required,email"`
	Message string `form:"message" binding:"required,max=5000"`
	Page    string `form:"page"`
}

// SubmitForm stores a form post and redirects back to the page it came from, so the
// browser performs a full reload.
func (h *Handler) SubmitForm(c *gin.Context) {
	name := c.Param("form")
	if !h.Registry.Site().HasForm(name) {
		h.NotFound(c)
		return
	}

	var in submissionForm
	bindErr := c.ShouldBind(&in)
	back := returnPath(in.Page)

	if bindErr != nil {
		h.Logger.Info("form rejected", zap.String("form", name), zap.Error(bindErr))
		c.Redirect(http.StatusSeeOther, withQuery(back, "error", name)+"#form-"+name)
		return
	}

	sub := &models.Submission{
		Form:    name,
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Message: strings.TrimSpace(in.Message),
		Page:    back,
	}
	if err := h.Store.Save(c.Request.Context(), sub); err != nil {
		h.Logger.Error("save submission", zap.String("form", name), zap.Error(err))
		c.Redirect(http.StatusSeeOther, withQuery(back, "error", name)+"#form-"+name)
		return
	}

	h.Logger.Info("form submitted", zap.String("form", name), zap.String("id", sub.ID), zap.String("page", back))
	c.Redirect(http.StatusSeeOther, withQuery(back, "submitted", name)+"#form-"+name)
}

// returnPath accepts only local absolute paths.
func returnPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return "/"
	}
	u, err := url.Parse(p)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return u.Path
}

func withQuery(p, key, value string) string {
	return p + "?" + url.Values{key: {value}}.Encode()
}
