package fileio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/codemetric/vibe-coding-tracker/models"
)

// SessionRoots holds the per-provider session directories plus the
// application directory used for the pricing cache. The roots are returned
// whether or not they exist; scans treat missing directories as empty.
type SessionRoots struct {
	Home            string
	AppDir          string
	ClaudeSessions  string
	CodexSessions   string
	CopilotSessions string
	GeminiRoot      string
}

// ResolvePaths locates the four session roots under the user home directory.
// It fails only when the home directory cannot be determined.
func ResolvePaths() (*SessionRoots, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrNoHomeDir, err)
	}
	return ResolvePathsIn(home), nil
}

// ResolvePathsIn builds the session roots under an explicit home directory.
func ResolvePathsIn(home string) *SessionRoots {
	return &SessionRoots{
		Home:            home,
		AppDir:          filepath.Join(home, ".vibe_coding_tracker"),
		ClaudeSessions:  filepath.Join(home, ".claude", "projects"),
		CodexSessions:   filepath.Join(home, ".codex", "sessions"),
		CopilotSessions: filepath.Join(home, ".copilot", "history-session-state"),
		GeminiRoot:      filepath.Join(home, ".gemini", "tmp"),
	}
}

// EnsureAppDir creates the application directory if needed.
func (r *SessionRoots) EnsureAppDir() error {
	return os.MkdirAll(r.AppDir, 0755)
}
