package redact

import "strings"

// Username маскирует имя пользователя для логов: первые два символа + "***".
func Username(s string) string {
	if len(s) > 2 {
		return s[:2] + "***"
	}

	return "***"
}

// Email маскирует локальную часть адреса.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := parts[0], parts[1]
	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

func Token() string    { return "[REDACTED_TOKEN]" }
func Password() string { return "[REDACTED_PASSWORD]" }
