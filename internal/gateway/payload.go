package gateway

import (
	"strconv"
	"time"
)

// Webhook payloads arrive as decoded JSON, so field access goes
// through these converters rather than type assertions scattered
// across the adapters.

func payloadString(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func payloadFloat(payload map[string]any, key string) float64 {
	switch v := payload[key].(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

func payloadBool(payload map[string]any, key string) bool {
	switch v := payload[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

func payloadMap(payload map[string]any, key string) map[string]any {
	if m, ok := payload[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// payloadTime parses a provider timestamp, falling back to now. Used
// only for paid_at on successful callbacks.
func payloadTime(payload map[string]any, key string) time.Time {
	if s := payloadString(payload, key); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
