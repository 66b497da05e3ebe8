package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"content-site/pkg/views"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	token := session.Get("access_token")
	if token == nil {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		} else {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}
		return
	}
	c.Next()
}

func (h *Handler) LoginPage(c *gin.Context) {
	page := views.LoginPage{Layout: views.NewLayout(h.Registry.Site(), "Sign in", "", "")}
	if c.Query("error") != "" {
		page.Error = "Sign in failed. Please try again."
	}
	c.HTML(http.StatusOK, "login.gohtml", page)
}

func (h *Handler) GithubLogin(c *gin.Context) {
	state := uuid.NewString()
	session := sessions.Default(c)
	session.Set("oauth_state", state)
	if err := session.Save(); err != nil {
		h.serverError(c, "save session", err)
		return
	}
	url := h.OAuth.AuthCodeURL(state, oauth2.AccessTypeOnline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *Handler) AuthCallback(c *gin.Context) {
	session := sessions.Default(c)
	expected, _ := session.Get("oauth_state").(string)
	if expected == "" || c.Query("state") != expected {
		c.String(http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	session.Delete("oauth_state")

	ctx := c.Request.Context()
	token, err := h.OAuth.Exchange(ctx, c.Query("code"))
	if err != nil {
		h.Logger.Warn("oauth exchange failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "OAuth Exchange Failed")
		return
	}

	user, err := h.fetchGitHubLogin(ctx, token)
	if err != nil {
		h.Logger.Warn("fetch github user", zap.Error(err))
		user = "GitHub user"
	}

	session.Set("access_token", token.AccessToken)
	session.Set("user", user)
	if err := session.Save(); err != nil {
		h.serverError(c, "save session", err)
		return
	}
	h.Logger.Info("signed in", zap.String("user", user))
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) fetchGitHubLogin(ctx context.Context, token *oauth2.Token) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.GitHubUserURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := h.OAuth.Client(ctx, token).Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Login == "" {
		return "", fmt.Errorf("empty login")
	}
	return body.Login, nil
}

func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	user, _ := session.Get("user").(string)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		h.serverError(c, "clear session", err)
		return
	}
	h.Logger.Info("signed out", zap.String("user", user))
	c.Redirect(http.StatusFound, "/")
}
