package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// Attribute keys whose values are always masked.
var sensitiveKeys = []string{
	"value",
	"password",
}

// Attribute key suffixes whose values are always masked.
var sensitiveKeySuffixes = []string{
	"_secret",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive masks string attributes with sensitive keys, descending
// into groups.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	if IsSensitiveKey(a.Key) && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, RedactString(a.Value.String()))
	}
	return a
}

// RedactString masks value, keeping only its length.
func RedactString(value string) string {
	if value == "" {
		return ""
	}
	return redactedValue + "(" + strconv.Itoa(len(value)) + " bytes)"
}

// IsSensitiveKey reports whether an attribute with this key is masked.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, k := range sensitiveKeys {
		if keyLower == k {
			return true
		}
	}
	for _, suffix := range sensitiveKeySuffixes {
		if strings.HasSuffix(keyLower, suffix) {
			return true
		}
	}
	return false
}
