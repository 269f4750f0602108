package logging

import (
	"net/url"
	"strings"
)

// secretKeyHints are upper-case substrings of env and attribute names
// whose values are never printed.
var secretKeyHints = []string{
	"TOKEN", "KEY", "SECRET", "PASSWORD", "PASSWD",
	"AUTH", "CREDENTIAL", "PRIVATE", "COOKIE",
}

// tokenPrefixes identify provider credentials by value alone.
var tokenPrefixes = []string{
	"ghp_", "gho_", "ghu_", "ghs_", "ghr_", "github_pat_", // GitHub
	"glpat-",                                              // GitLab
	"sk-", "pk-",                                          // OpenAI, Anthropic, Stripe
	"AKIA",                                                // AWS
	"xoxb-", "xoxp-", "xoxa-", "xoxr-",                    // Slack
	"AIza",                                                // Google API
}

const maskedShort = "********"

// IsSecret reports whether a value stored under key must be masked, either
// because the key names a credential or because the value carries a known
// token prefix. An empty key checks the value only.
func IsSecret(key, value string) bool {
	return secretKey(key) || hasTokenPrefix(value)
}

// Mask hides value, keeping its last four characters when it is long
// enough that they give nothing away.
func Mask(value string) string {
	if len(value) <= 4 {
		return maskedShort
	}
	return "****" + value[len(value)-4:]
}

// MaskEnv returns a copy of env with secret values masked. A nil env
// yields nil.
func MaskEnv(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		if IsSecret(k, v) {
			v = Mask(v)
		}
		out[k] = v
	}
	return out
}

// Redact returns value as it may appear in logs: masked when secret, with
// URL passwords hidden, otherwise unchanged.
func Redact(key, value string) string {
	if IsSecret(key, value) {
		return Mask(value)
	}
	if strings.Contains(value, "://") {
		return maskURL(value)
	}
	return value
}

func secretKey(key string) bool {
	if key == "" {
		return false
	}
	upper := strings.ToUpper(key)
	for _, hint := range secretKeyHints {
		if strings.Contains(upper, hint) {
			return true
		}
	}
	return false
}

func hasTokenPrefix(value string) bool {
	for _, p := range tokenPrefixes {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	return false
}

// maskURL hides the password of user:pass@host URLs. Unparsable input is
// returned as is.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	pass, ok := u.User.Password()
	if !ok || pass == "" {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), Mask(pass))
	return u.String()
}
