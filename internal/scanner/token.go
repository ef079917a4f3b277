// Package scanner turns UTF-8 source text (already decoded from whatever
// original encoding by internal/common) into a token stream, following the
// structure of AILANG's internal/lexer package: a single NextToken
// state machine plus a TokenType enum and display-name table.
package scanner

import "fmt"

// Kind is a token kind. Generalizes AILANG's lexer.TokenType to cover
// TypeScript's token set (spec.md §4.2): identifiers, context-sensitive
// keywords, literals, punctuation/operators, JSX, and trivia.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	IDENT
	NUMBER
	STRING
	TEMPLATE_HEAD
	TEMPLATE_MIDDLE
	TEMPLATE_TAIL
	NO_SUBST_TEMPLATE
	BIGINT
	REGEX

	// Keywords. Most are context-sensitive in TypeScript (e.g. "type",
	// "as", "infer" are identifiers outside of type positions) -- the
	// Parser, not the Scanner, decides when a KEYWORD_* token is treated
	// as an identifier, matching the reference compiler's approach.
	KEYWORD_VAR
	KEYWORD_LET
	KEYWORD_CONST
	KEYWORD_FUNCTION
	KEYWORD_RETURN
	KEYWORD_IF
	KEYWORD_ELSE
	KEYWORD_WHILE
	KEYWORD_FOR
	KEYWORD_CLASS
	KEYWORD_EXTENDS
	KEYWORD_IMPLEMENTS
	KEYWORD_INTERFACE
	KEYWORD_TYPE
	KEYWORD_ENUM
	KEYWORD_NAMESPACE
	KEYWORD_MODULE
	KEYWORD_DECLARE
	KEYWORD_IMPORT
	KEYWORD_EXPORT
	KEYWORD_NEW
	KEYWORD_THIS
	KEYWORD_SUPER
	KEYWORD_TYPEOF
	KEYWORD_INSTANCEOF
	KEYWORD_IN
	KEYWORD_AS
	KEYWORD_IS
	KEYWORD_INFER
	KEYWORD_KEYOF
	KEYWORD_READONLY
	KEYWORD_STATIC
	KEYWORD_PUBLIC
	KEYWORD_PRIVATE
	KEYWORD_PROTECTED
	KEYWORD_ABSTRACT
	KEYWORD_ASYNC
	KEYWORD_AWAIT
	KEYWORD_YIELD
	KEYWORD_TRUE
	KEYWORD_FALSE
	KEYWORD_NULL
	KEYWORD_UNDEFINED
	KEYWORD_VOID
	KEYWORD_ANY
	KEYWORD_UNKNOWN
	KEYWORD_NEVER
	KEYWORD_OBJECT
	KEYWORD_STRING_TYPE
	KEYWORD_NUMBER_TYPE
	KEYWORD_BOOLEAN_TYPE
	KEYWORD_SYMBOL_TYPE
	KEYWORD_BIGINT_TYPE
	KEYWORD_TRY
	KEYWORD_CATCH
	KEYWORD_FINALLY
	KEYWORD_THROW
	KEYWORD_SWITCH
	KEYWORD_CASE
	KEYWORD_DEFAULT
	KEYWORD_BREAK
	KEYWORD_CONTINUE
	KEYWORD_DO
	KEYWORD_DELETE
	KEYWORD_GET
	KEYWORD_SET
	KEYWORD_OF

	// Punctuation / operators
	LBRACE
	RBRACE
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	SEMICOLON
	COMMA
	DOT
	DOTDOTDOT
	QUESTION
	QUESTIONDOT
	QUESTIONQUESTION
	COLON
	ARROW // =>
	PLUS
	MINUS
	STAR
	STARSTAR
	SLASH
	PERCENT
	PLUSPLUS
	MINUSMINUS
	LT
	GT
	LTE
	GTE
	EQ
	NEQ
	EQEQEQ
	NEQEQ
	AMPAMP
	BARBAR
	BANG
	TILDE
	AMP
	BAR
	CARET
	LTLT
	GTGT
	GTGTGT
	ASSIGN
	PLUSASSIGN
	MINUSASSIGN
	STARASSIGN
	SLASHASSIGN
	PERCENTASSIGN
	AMPAMPASSIGN
	BARBARASSIGN
	QUESTIONQUESTIONASSIGN
	AT // decorator sigil
	HASH // private-name sigil

	// Trivia (passed through, not emitted to the parser's main stream)
	WHITESPACE
	LINE_COMMENT
	BLOCK_COMMENT
	TRIPLE_SLASH_REFERENCE
	TS_EXPECT_ERROR
	TS_IGNORE
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", IDENT: "IDENT", NUMBER: "NUMBER",
	STRING: "STRING", REGEX: "REGEX", BIGINT: "BIGINT",
	LBRACE: "{", RBRACE: "}", LPAREN: "(", RPAREN: ")",
	LBRACKET: "[", RBRACKET: "]", SEMICOLON: ";", COMMA: ",",
	DOT: ".", DOTDOTDOT: "...", QUESTION: "?", QUESTIONDOT: "?.",
	QUESTIONQUESTION: "??", COLON: ":", ARROW: "=>",
	PLUS: "+", MINUS: "-", STAR: "*", STARSTAR: "**", SLASH: "/", PERCENT: "%",
	PLUSPLUS: "++", MINUSMINUS: "--",
	LT: "<", GT: ">", LTE: "<=", GTE: ">=", EQ: "==", NEQ: "!=",
	EQEQEQ: "===", NEQEQ: "!==", AMPAMP: "&&", BARBAR: "||", BANG: "!",
	TILDE: "~", AMP: "&", BAR: "|", CARET: "^", LTLT: "<<", GTGT: ">>",
	GTGTGT: ">>>", ASSIGN: "=", AT: "@", HASH: "#",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps the literal spelling of every context-sensitive keyword to
// its Kind. The Parser decides, based on position, whether to treat a
// keyword token as an identifier (TypeScript allows "type", "as", "from",
// etc. as ordinary identifiers outside their special syntactic positions).
var Keywords = map[string]Kind{
	"var": KEYWORD_VAR, "let": KEYWORD_LET, "const": KEYWORD_CONST,
	"function": KEYWORD_FUNCTION, "return": KEYWORD_RETURN,
	"if": KEYWORD_IF, "else": KEYWORD_ELSE, "while": KEYWORD_WHILE, "for": KEYWORD_FOR,
	"class": KEYWORD_CLASS, "extends": KEYWORD_EXTENDS, "implements": KEYWORD_IMPLEMENTS,
	"interface": KEYWORD_INTERFACE, "type": KEYWORD_TYPE, "enum": KEYWORD_ENUM,
	"namespace": KEYWORD_NAMESPACE, "module": KEYWORD_MODULE, "declare": KEYWORD_DECLARE,
	"import": KEYWORD_IMPORT, "export": KEYWORD_EXPORT, "new": KEYWORD_NEW,
	"this": KEYWORD_THIS, "super": KEYWORD_SUPER, "typeof": KEYWORD_TYPEOF,
	"instanceof": KEYWORD_INSTANCEOF, "in": KEYWORD_IN, "as": KEYWORD_AS,
	"is": KEYWORD_IS, "infer": KEYWORD_INFER, "keyof": KEYWORD_KEYOF,
	"readonly": KEYWORD_READONLY, "static": KEYWORD_STATIC, "public": KEYWORD_PUBLIC,
	"private": KEYWORD_PRIVATE, "protected": KEYWORD_PROTECTED, "abstract": KEYWORD_ABSTRACT,
	"async": KEYWORD_ASYNC, "await": KEYWORD_AWAIT, "yield": KEYWORD_YIELD,
	"true": KEYWORD_TRUE, "false": KEYWORD_FALSE, "null": KEYWORD_NULL,
	"undefined": KEYWORD_UNDEFINED, "void": KEYWORD_VOID,
	"any": KEYWORD_ANY, "unknown": KEYWORD_UNKNOWN, "never": KEYWORD_NEVER,
	"object": KEYWORD_OBJECT, "string": KEYWORD_STRING_TYPE, "number": KEYWORD_NUMBER_TYPE,
	"boolean": KEYWORD_BOOLEAN_TYPE, "symbol": KEYWORD_SYMBOL_TYPE, "bigint": KEYWORD_BIGINT_TYPE,
	"try": KEYWORD_TRY, "catch": KEYWORD_CATCH, "finally": KEYWORD_FINALLY, "throw": KEYWORD_THROW,
	"switch": KEYWORD_SWITCH, "case": KEYWORD_CASE, "default": KEYWORD_DEFAULT,
	"break": KEYWORD_BREAK, "continue": KEYWORD_CONTINUE, "do": KEYWORD_DO,
	"delete": KEYWORD_DELETE, "get": KEYWORD_GET, "set": KEYWORD_SET, "of": KEYWORD_OF,
}

// Token is one lexed unit: kind, span (UTF-16 code units), literal text,
// and any attached trivia metadata (comment directives, per spec.md §4.2).
type Token struct {
	Kind    Kind
	Start   uint32
	End     uint32
	Text    string
	Trivia  []Trivia
}

// Trivia records a piece of leading trivia (whitespace/comments/directives)
// attached to the token that follows it, per spec.md §4.2's directive
// pass-through requirement.
type Trivia struct {
	Kind Kind
	Text string
	// Directive is set for recognized conditional-comment directives:
	// "ts-expect-error", "ts-ignore", "reference".
	Directive string
	// ReferencePath is populated for `/// <reference path="..."/>` /
	// `lib="..."` directives.
	ReferencePath string
	ReferenceLib  string
}
