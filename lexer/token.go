package lexer

// Tag enumerates the lexical categories a token can carry.
type Tag int

const (
	// TagNone marks a rule whose matches are skipped, such as whitespace.
	TagNone Tag = iota

	TagInt
	TagSign
	TagString
	TagFloat
	TagWord
	TagName
)

func (t Tag) String() string {
	switch t {
	case TagNone:
		return "none"
	case TagInt:
		return "INT"
	case TagSign:
		return "SIGN"
	case TagString:
		return "STRING"
	case TagFloat:
		return "FLOAT"
	case TagWord:
		return "WORD"
	case TagName:
		return "NAME"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	text string
	tag  Tag
}

// NewToken returns a token with the given text and tag.
func NewToken(text string, tag Tag) Token {
	return Token{text: text, tag: tag}
}

// Text returns the raw lexeme.
func (t Token) Text() string { return t.text }

// Tag returns the lexical category.
func (t Token) Tag() Tag { return t.tag }

func (t Token) String() string {
	return t.tag.String() + "(" + t.text + ")"
}
