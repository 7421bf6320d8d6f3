package lint

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultDocsBaseURL hosts the documentation of the golang.org/x/tools passes.
const DefaultDocsBaseURL = "https://pkg.go.dev/golang.org/x/tools/go/analysis/passes"

var (
	docsBaseURL   = DefaultDocsBaseURL
	docsBaseURLMu sync.RWMutex
)

// BuildDocURL constructs a documentation URL for an analyzer that does not
// carry its own.
func BuildDocURL(analyzerID string) string {
	docsBaseURLMu.RLock()
	defer docsBaseURLMu.RUnlock()
	return fmt.Sprintf("%s/%s", docsBaseURL, strings.ToLower(analyzerID))
}

// SetDocsBaseURL overrides the default documentation base URL.
// Useful for offline mode or custom documentation sites.
func SetDocsBaseURL(url string) {
	docsBaseURLMu.Lock()
	defer docsBaseURLMu.Unlock()
	docsBaseURL = strings.TrimSuffix(url, "/")
}

// ResetDocsBaseURL resets to the default documentation URL.
func ResetDocsBaseURL() {
	SetDocsBaseURL(DefaultDocsBaseURL)
}
