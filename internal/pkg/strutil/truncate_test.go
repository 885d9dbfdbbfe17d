package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"未超出", "olá", 3, "olá"},
		{"按字符截断", "Automação", 6, "Automa..."},
		{"去掉末尾空白", "Olá mundo", 4, "Olá..."},
		{"非正长度", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.max))
		})
	}
}

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "linha um linha dois", SingleLine("linha um\r\n\n  linha\tdois "))
}
