package token

import "testing"

func TestLookupIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"let", Let},
		{"const", Const},
		{"func", Function},
		{"foreach", ForEach},
		{"import", Import},
		{"and", LogicalOperator},
		{"xor", LogicalOperator},
		{"not", LogicalOperator},
		{"Let", Identifier},
		{"letter", Identifier},
		{"function", Identifier},
	}
	for _, tt := range tests {
		if got := LookupIdentifier(tt.input); got != tt.expected {
			t.Errorf("LookupIdentifier(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestTokenTypeString(t *testing.T) {
	for tt := Illegal; tt <= Whitespace; tt++ {
		if tt.String() == "UNKNOWN" {
			t.Errorf("token type %d has no name", int(tt))
		}
	}
	if CloseBrace.String() != "}" || BinaryOperator.String() != "BINARY_OPERATOR" {
		t.Errorf("unexpected names %q %q", CloseBrace, BinaryOperator)
	}
}
