package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Пакет unit-тестов для internal/pkg/redact.
//
// Покрытие (табличные тесты):
//   - Username: длинное имя (первые два символа + "***"), короткое (<= 2) и пустое;
//   - Email: happy-path, короткая локальная часть (≤2), отсутствие/множество '@',
//     сохранение домена, пустые строки/части;
//   - Литералы Token/Password.

// TestUsername_Table — табличные тесты на редактирование username.
func TestUsername_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		s    string
		want string
	}{
		{name: "long_username", s: "alice", want: "al***"},
		{name: "len_3", s: "bob", want: "bo***"},
		{name: "len_2_fully_masked", s: "ab", want: "***"},
		{name: "len_1_fully_masked", s: "a", want: "***"},
		{name: "empty", s: "", want: "***"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, Username(tt.s))
		})
	}
}

// TestEmail_Table — табличные тесты на редактирование e-mail.
// Проверяем все ветки: валидный адрес, короткая локальная часть,
// невалидный формат и граничные случаи с пустыми частями.
func TestEmail_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		s    string
		want string
	}{
		{name: "local_gt_2", s: "foobar@example.com", want: "fo***@example.com"},
		{name: "local_len_1", s: "a@ex.com", want: "***@ex.com"},
		{name: "local_len_2", s: "ab@ex.com", want: "***@ex.com"},
		{name: "invalid_no_at", s: "no-at-here", want: "***"},
		{name: "invalid_multiple_at", s: "a@b@c", want: "***"},
		{name: "preserve_domain_case_and_content", s: "abc.def+tag@EXAMPLE.org", want: "ab***@EXAMPLE.org"},
		{name: "empty_string", s: "", want: "***"},
		{name: "empty_domain_allowed_by_impl", s: "user@", want: "us***@"},
		{name: "empty_local_allowed_by_impl", s: "@domain", want: "***@domain"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, Email(tt.s))
		})
	}
}

// TestLiterals_TokenAndPassword — литералы для токенов/паролей неизменны.
func TestLiterals_TokenAndPassword(t *testing.T) {
	t.Parallel()

	require.Equal(t, "[REDACTED_TOKEN]", Token())
	require.Equal(t, "[REDACTED_PASSWORD]", Password())
}
