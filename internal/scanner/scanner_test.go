package scanner

import "testing"

func TestNextToken(t *testing.T) {
	input := `const x: number = 5 + 10;
function add(a: number, b: number): number {
  return a + b;
}

interface Point { x: number; y: number }

if (x > 10) { "big" } else { "small" }

const arr = [1, 2, 3];
const obj = { name: "Alice", age: 30 };

// line comment
true && false || !true
`

	tests := []struct {
		kind Kind
		text string
	}{
		{KEYWORD_CONST, "const"}, {IDENT, "x"}, {COLON, ":"}, {KEYWORD_NUMBER_TYPE, "number"},
		{ASSIGN, "="}, {NUMBER, "5"}, {PLUS, "+"}, {NUMBER, "10"}, {SEMICOLON, ";"},

		{KEYWORD_FUNCTION, "function"}, {IDENT, "add"}, {LPAREN, "("},
		{IDENT, "a"}, {COLON, ":"}, {KEYWORD_NUMBER_TYPE, "number"}, {COMMA, ","},
		{IDENT, "b"}, {COLON, ":"}, {KEYWORD_NUMBER_TYPE, "number"}, {RPAREN, ")"},
		{COLON, ":"}, {KEYWORD_NUMBER_TYPE, "number"}, {LBRACE, "{"},
		{KEYWORD_RETURN, "return"}, {IDENT, "a"}, {PLUS, "+"}, {IDENT, "b"}, {SEMICOLON, ";"},
		{RBRACE, "}"},

		{KEYWORD_INTERFACE, "interface"}, {IDENT, "Point"}, {LBRACE, "{"},
		{IDENT, "x"}, {COLON, ":"}, {KEYWORD_NUMBER_TYPE, "number"}, {SEMICOLON, ";"},
		{IDENT, "y"}, {COLON, ":"}, {KEYWORD_NUMBER_TYPE, "number"}, {RBRACE, "}"},

		{KEYWORD_IF, "if"}, {LPAREN, "("}, {IDENT, "x"}, {GT, ">"}, {NUMBER, "10"}, {RPAREN, ")"},
		{LBRACE, "{"}, {STRING, `"big"`}, {RBRACE, "}"},
		{KEYWORD_ELSE, "else"}, {LBRACE, "{"}, {STRING, `"small"`}, {RBRACE, "}"},

		{KEYWORD_CONST, "const"}, {IDENT, "arr"}, {ASSIGN, "="}, {LBRACKET, "["},
		{NUMBER, "1"}, {COMMA, ","}, {NUMBER, "2"}, {COMMA, ","}, {NUMBER, "3"}, {RBRACKET, "]"}, {SEMICOLON, ";"},

		{KEYWORD_CONST, "const"}, {IDENT, "obj"}, {ASSIGN, "="}, {LBRACE, "{"},
		{IDENT, "name"}, {COLON, ":"}, {STRING, `"Alice"`}, {COMMA, ","},
		{IDENT, "age"}, {COLON, ":"}, {NUMBER, "30"}, {RBRACE, "}"}, {SEMICOLON, ";"},

		{KEYWORD_TRUE, "true"}, {AMPAMP, "&&"}, {KEYWORD_FALSE, "false"}, {BARBAR, "||"}, {BANG, "!"}, {KEYWORD_TRUE, "true"},
		{EOF, ""},
	}

	s := New(input)
	for i, tt := range tests {
		tok := s.NextToken()
		if tok.Kind != tt.kind {
			t.Fatalf("test[%d] - kind wrong. expected=%s, got=%s (text=%q)", i, tt.kind, tok.Kind, tok.Text)
		}
		if tt.kind != EOF && tok.Text != tt.text {
			t.Fatalf("test[%d] - text wrong. expected=%q, got=%q", i, tt.text, tok.Text)
		}
	}
}

func TestRescanGT(t *testing.T) {
	// Foo<Bar<Baz>> should rescan the trailing ">>" into two ">" tokens.
	s := New("Array<Array<number>>")
	var last Token
	for {
		tok := s.NextToken()
		if tok.Kind == EOF {
			break
		}
		last = tok
	}
	if last.Kind != GTGT {
		t.Fatalf("expected final token to be >> before rescan, got %s", last.Kind)
	}
	first, rest := RescanGT(last)
	if first.Kind != GT || rest == nil || rest.Kind != GT {
		t.Fatalf("RescanGT did not split >> into two > tokens")
	}
}

func TestUnterminatedString(t *testing.T) {
	s := New(`"abc`)
	_ = s.NextToken()
	if len(s.Errors()) == 0 {
		t.Fatalf("expected an unterminated string literal error")
	}
}

func TestDirectiveTrivia(t *testing.T) {
	s := New("// @ts-expect-error\nconst x: string = 1;")
	tok := s.NextToken()
	if len(tok.Trivia) == 0 || tok.Trivia[0].Directive != "ts-expect-error" {
		t.Fatalf("expected ts-expect-error directive trivia, got %+v", tok.Trivia)
	}
}

func TestUtf16SurrogatePairSpan(t *testing.T) {
	// U+1F600 (😀) is one rune but two UTF-16 code units.
	s := New(`"😀" + 1`)
	str := s.NextToken()
	if str.End-str.Start != Utf16Len(`"😀"`) {
		t.Fatalf("expected string span to account for surrogate pair, got %d units", str.End-str.Start)
	}
}
