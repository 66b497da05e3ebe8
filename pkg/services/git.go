package services

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

// ContentRepo runs git against the checkout that holds the content directory.
type ContentRepo struct {
	dir    string
	remote string
	branch string
}

func NewContentRepo(dir, remote, branch string) *ContentRepo {
	if remote == "" {
		remote = "origin"
	}
	if branch == "" {
		branch = "main"
	}
	return &ContentRepo{dir: dir, remote: remote, branch: branch}
}

func (r *ContentRepo) git(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	return cmd
}

// authenticatedRemote returns the remote URL with the token as credentials. Only http(s)
// remotes take a token; others are returned as the remote name.
func (r *ContentRepo) authenticatedRemote(ctx context.Context, token string) (remote, plain string, err error) {
	out, err := r.git(ctx, "remote", "get-url", r.remote).Output()
	if err != nil {
		return "", "", fmt.Errorf("get remote url: %w", err)
	}
	plain = strings.TrimSpace(string(out))
	u, err := url.Parse(plain)
	if err != nil || token == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return r.remote, plain, nil
	}
	u.User = url.UserPassword("oauth2", token)
	return u.String(), plain, nil
}

// Pull fast-forwards the checkout. The returned log never contains the token.
func (r *ContentRepo) Pull(ctx context.Context, token string) (string, error) {
	remote, plain, err := r.authenticatedRemote(ctx, token)
	if err != nil {
		return "", err
	}
	output, err := r.git(ctx, "pull", "--ff-only", remote, r.branch).CombinedOutput()

	safeLog := string(output)
	if token != "" {
		safeLog = strings.ReplaceAll(safeLog, remote, plain)
		safeLog = strings.ReplaceAll(safeLog, token, "***")
	}
	if err != nil {
		return safeLog, fmt.Errorf("git pull: %w", err)
	}
	return safeLog, nil
}

// DirtyFiles lists uncommitted files under the content directory, relative to it and
// slash-separated.
func (r *ContentRepo) DirtyFiles(ctx context.Context) (map[string]bool, error) {
	prefixOut, err := r.git(ctx, "rev-parse", "--show-prefix").Output()
	if err != nil {
		return nil, fmt.Errorf("git rev-parse: %w", err)
	}
	prefix := strings.TrimSpace(string(prefixOut))

	out, err := r.git(ctx, "status", "--porcelain", "--untracked-files=all", "--", ".").Output()
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}

	dirty := make(map[string]bool)
	for _, line := range strings.Split(string(out), "\n") {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		if _, to, ok := strings.Cut(path, " -> "); ok {
			path = to
		}
		path = strings.Trim(path, "\"")
		dirty[strings.TrimPrefix(path, prefix)] = true
	}
	return dirty, nil
}
