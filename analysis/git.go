package analysis

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Remote URLs are memoized per directory: sessions in the same workspace
// would otherwise re-read .git/config once per file.
var (
	gitURLMu    sync.RWMutex
	gitURLCache = make(map[string]string)
)

// gitRemoteURL reads the origin remote URL from <cwd>/.git/config. A missing
// repository or remote yields the empty string.
func gitRemoteURL(cwd string) string {
	if cwd == "" {
		return ""
	}

	key := cwd
	if canonical, err := filepath.EvalSymlinks(cwd); err == nil {
		key = canonical
	}

	gitURLMu.RLock()
	if url, ok := gitURLCache[key]; ok {
		gitURLMu.RUnlock()
		return url
	}
	gitURLMu.RUnlock()

	url := readGitRemoteURL(cwd)

	gitURLMu.Lock()
	gitURLCache[key] = url
	gitURLMu.Unlock()

	return url
}

func readGitRemoteURL(cwd string) string {
	file, err := os.Open(filepath.Join(cwd, ".git", "config"))
	if err != nil {
		return ""
	}
	defer file.Close()

	inOriginSection := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			inOriginSection = strings.HasPrefix(trimmed, `[remote "origin"`)
			continue
		}

		if inOriginSection && strings.HasPrefix(trimmed, "url = ") {
			url := strings.TrimSpace(strings.TrimPrefix(trimmed, "url = "))
			return strings.TrimSuffix(url, ".git")
		}
	}
	return ""
}
