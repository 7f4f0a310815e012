// Package gitops versions the data directory with git.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// ignored lists paths that never belong in the data repo.
var ignored = []string{".env", "*.tmp", "*.db-journal", "charts/"}

// Init initializes a new git repository at dir and writes its .gitignore.
func Init(dir string) error {
	if out, err := git(dir, "init"); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	ignore := strings.Join(ignored, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(ignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// HasChanges reports whether the work tree differs from HEAD.
func HasChanges(dir string) (bool, error) {
	out, err := git(dir, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status: %s: %w", out, err)
	}
	return strings.TrimSpace(out) != "", nil
}

// CommitAll stages all files and creates a commit. Returns the short commit hash.
func CommitAll(dir, message, authorName, authorEmail string) (string, error) {
	if out, err := git(dir, "add", "-A"); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)
	commit := exec.Command("git", "commit", "-m", message, "--author", author)
	commit.Dir = dir
	commit.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+authorName,
		"GIT_COMMITTER_EMAIL="+authorEmail,
	)
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := git(dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// Committer snapshots the data directory after each change when enabled.
type Committer struct {
	Dir         string
	Enabled     bool
	AuthorName  string
	AuthorEmail string
	Log         zerolog.Logger
}

// Commit records the current data directory as "<action>: <summary>".
// Failures are logged, never returned.
func (c *Committer) Commit(action, summary string) {
	if c == nil || !c.Enabled || !IsRepo(c.Dir) {
		return
	}
	changed, err := HasChanges(c.Dir)
	if err != nil {
		c.Log.Warn().Err(err).Msg("git status failed")
		return
	}
	if !changed {
		return
	}
	msg := action + ": " + summary
	hash, err := CommitAll(c.Dir, msg, c.AuthorName, c.AuthorEmail)
	if err != nil {
		c.Log.Warn().Err(err).Str("message", msg).Msg("auto-commit failed")
		return
	}
	c.Log.Debug().Str("commit", hash).Str("message", msg).Msg("data dir committed")
}
