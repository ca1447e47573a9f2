// Package env looks up CRIBDRAG_ environment variables that have been renamed.
package env

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	warnMu     sync.Mutex
	warnLogger = func(oldKey, newKey string) {
		slog.Warn("deprecated environment variable", "key", oldKey, "use", newKey)
	}
	warnedKeys sync.Map
)

// Lookup returns the trimmed value of the first key that is set and not
// blank. keys[0] is the current name; any later key is a legacy alias and
// triggers a one-time deprecation warning when used.
func Lookup(keys ...string) (string, bool) {
	for i, key := range keys {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if i > 0 {
			logDeprecated(key, keys[0])
		}
		return v, true
	}
	return "", false
}

func logDeprecated(oldKey, newKey string) {
	onceIface, _ := warnedKeys.LoadOrStore(oldKey, &sync.Once{})
	once := onceIface.(*sync.Once)
	once.Do(func() {
		warnMu.Lock()
		logger := warnLogger
		warnMu.Unlock()
		logger(oldKey, newKey)
	})
}

// ResetWarningsForTesting clears the once guards.
func ResetWarningsForTesting() {
	warnMu.Lock()
	warnedKeys = sync.Map{}
	warnMu.Unlock()
}

// SetWarnLoggerForTesting swaps the warning sink and returns a restore func.
func SetWarnLoggerForTesting(fn func(oldKey, newKey string)) (restore func()) {
	warnMu.Lock()
	previous := warnLogger
	warnLogger = fn
	warnMu.Unlock()
	return func() {
		warnMu.Lock()
		warnLogger = previous
		warnMu.Unlock()
	}
}
