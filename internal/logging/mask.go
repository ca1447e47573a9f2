package logging

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// plaintextKeys hold guessed or recovered plaintext.
var plaintextKeys = map[string]struct{}{
	"crib":        {},
	"cribs":       {},
	"result_text": {},
	"readable":    {},
	"plaintext":   {},
	"decoded":     {},
}

// secretKeys are masked regardless of configuration.
var secretKeys = map[string]struct{}{
	"auth_token":    {},
	"authorization": {},
	"token":         {},
}

var bearerRe = regexp.MustCompile(`(?i)\b(bearer)\s+([A-Za-z0-9._\-]{4,})`)

func maskTokens(in string) string {
	if strings.TrimSpace(in) == "" {
		return in
	}
	return bearerRe.ReplaceAllString(in, `$1 `+redacted)
}

func maskMetadata(in map[string]any, keepPlaintext bool) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		key := strings.ToLower(k)
		if _, ok := secretKeys[key]; ok {
			out[k] = redacted
			continue
		}
		if _, ok := plaintextKeys[key]; ok && !keepPlaintext {
			out[k] = redacted
			continue
		}
		if s, ok := v.(string); ok {
			out[k] = maskTokens(s)
			continue
		}
		out[k] = v
	}
	return out
}
