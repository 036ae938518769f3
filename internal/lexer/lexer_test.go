package lexer

import (
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `let x = 5;
	x = x + 10;
	`

	tests := []struct {
		expectedLiteral string
		expectedType    TokenType
	}{
		{"let", LET},
		{"x", IDENT},
		{"=", ASSIGN},
		{"5", NUMBER},
		{";", SEMICOLON},
		{"x", IDENT},
		{"=", ASSIGN},
		{"x", IDENT},
		{"+", PLUS},
		{"10", NUMBER},
		{";", SEMICOLON},
		{"", EOF},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal=%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `let const func class if else while for switch case default
		break continue return try catch finally throw defer
		use true false null this super extends in is typeof`

	tests := []TokenType{
		LET, CONST, FUNC, CLASS, IF, ELSE, WHILE, FOR, SWITCH, CASE, DEFAULT,
		BREAK, CONTINUE, RETURN, TRY, CATCH, FINALLY, THROW, DEFER,
		USE, TRUE, FALSE, NULL, THIS, SUPER, EXTENDS, IN, IS, TYPEOF,
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - expected %q, got %q (literal=%q)", i, expected, tok.Type, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / % ** == != < > <= >= && || ! & | ^ ~ << >>
		= += -= *= /= %= **= &= |= ^= <<= >>=
		. ?. => .. ?? ? : ++ --`

	tests := []TokenType{
		PLUS, MINUS, STAR, SLASH, PERCENT, POWER,
		EQ, NEQ, LT, GT, LTE, GTE,
		AND, OR, BANG,
		BIT_AND, BIT_OR, BIT_XOR, BIT_NOT, LSHIFT, RSHIFT,
		ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN,
		PERCENT_ASSIGN, POWER_ASSIGN, AND_ASSIGN, OR_ASSIGN, XOR_ASSIGN,
		LSHIFT_ASSIGN, RSHIFT_ASSIGN,
		DOT, QUESTION_DOT, ARROW, RANGE,
		QUESTION_QUESTION, QUESTION, COLON,
		INC, DEC,
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - expected %q, got %q (literal=%q)", i, expected, tok.Type, tok.Literal)
		}
	}
	if tok := l.NextToken(); tok.Type != EOF {
		t.Fatalf("expected EOF, got %q", tok.Type)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"42", []string{"42"}},
		{"3.14", []string{"3.14"}},
		{"0xFF", []string{"0xFF"}},
		{"0x1a2b", []string{"0x1a2b"}},
		{"1..5", []string{"1", "..", "5"}},
		{"1.5.2", []string{"1.5", ".", "2"}},
	}

	for _, tt := range tests {
		l := New(tt.input)
		for i, want := range tt.expected {
			tok := l.NextToken()
			if tok.Literal != want {
				t.Errorf("input %q token[%d]: expected literal %q, got %q", tt.input, i, want, tok.Literal)
			}
		}
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`'hello'`, "hello"},
		{`"world"`, "world"},
		{`'a\nb'`, "a\nb"},
		{`'tab\there'`, "tab\there"},
		{`"quote\"inside"`, `quote"inside`},
		{`'back\\slash'`, `back\slash`},
		{`'unknown\qescape'`, "unknownqescape"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != STRING {
			t.Errorf("input %q: expected STRING, got %q", tt.input, tok.Type)
			continue
		}
		if tok.Literal != tt.expected {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.expected, tok.Literal)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`'never closed`)
	l.NextToken()
	if l.Err() == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	l := New("let x = 5; @")
	if _, err := l.Tokenize(); err == nil {
		t.Fatal("expected lexer error for unexpected character")
	}
}

func TestComments(t *testing.T) {
	input := `// line comment
	let a = 1; /* block
	comment */ let b = 2;
	/* unterminated at EOF is tolerated`

	tests := []struct {
		expectedLiteral string
		expectedType    TokenType
	}{
		{"let", LET},
		{"a", IDENT},
		{"=", ASSIGN},
		{"1", NUMBER},
		{";", SEMICOLON},
		{"let", LET},
		{"b", IDENT},
		{"=", ASSIGN},
		{"2", NUMBER},
		{";", SEMICOLON},
		{"", EOF},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType || tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - expected (%q, %q), got (%q, %q)",
				i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}
	}
}

func TestPositions(t *testing.T) {
	input := "let x = 1;\nlet y = 2;"

	l := New(input)
	tokens, err := l.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second `let` starts line 2, column 1.
	var second *Token
	for i := range tokens {
		if tokens[i].Type == LET && tokens[i].Pos.Line == 2 {
			second = &tokens[i]
			break
		}
	}
	if second == nil {
		t.Fatal("did not find `let` on line 2")
	}
	if second.Pos.Column != 1 {
		t.Errorf("expected column 1, got %d", second.Pos.Column)
	}
}

// Re-lexing the same source must produce an identical token sequence.
func TestRelexingIsStable(t *testing.T) {
	input := `func add(a, b) { return a + b; } // trailing
	print(add(2, 3));`

	first, err := New(input).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := New(input).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("token count mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token[%d] mismatch: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestNormativeCounts(t *testing.T) {
	if got := len(Keywords()); got != 45 {
		t.Errorf("keyword set has %d entries, want 45", got)
	}
	if got := len(Operators()); got != 42 {
		t.Errorf("operator set has %d entries, want 42", got)
	}
}
