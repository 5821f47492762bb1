package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       identifierKind
	}{
		{"plain email", "farmer@example.com", identifierEmail},
		{"email with plus tag", "farmer+test@example.co.tz", identifierEmail},
		{"at sign without domain", "not-an-email@", identifierInvalid},
		{"at sign without tld", "a@b", identifierInvalid},
		{"double at", "a@@example.com", identifierInvalid},
		{"local number", "0712345678", identifierPhone},
		{"bare number", "712345678", identifierPhone},
		{"international number", "+255712345678", identifierPhone},
		{"letters in number", "07abc45678", identifierInvalid},
		{"bare word", "not-an-email", identifierInvalid},
		{"lone plus", "+", identifierInvalid},
		{"empty", "", identifierInvalid},
		{"whitespace only", "   ", identifierInvalid},
		{"surrounding whitespace", " farmer@example.com ", identifierEmail},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, classifyIdentifier(tc.identifier))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"leading zero replaced", "0712345678", "+255712345678"},
		{"bare number prefixed", "712345678", "+255712345678"},
		{"plus form untouched", "+255712345678", "+255712345678"},
		{"foreign plus form untouched", "+441234567890", "+441234567890"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, normalizePhone(tc.phone, "+255"))
		})
	}
}
