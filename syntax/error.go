package syntax

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is an Oniguruma-compatible error number. ErrorCode implements
// error so codes work directly as errors.Is targets:
//
//	if errors.Is(err, syntax.ErrInvalidBackref) { ... }
type ErrorCode int

const (
	ErrNoSupportConfig ErrorCode = -2

	ErrMemory                              ErrorCode = -5
	ErrTypeBug                             ErrorCode = -6
	ErrParserBug                           ErrorCode = -11
	ErrStackBug                            ErrorCode = -12
	ErrUndefinedBytecode                   ErrorCode = -13
	ErrUnexpectedBytecode                  ErrorCode = -14
	ErrMatchStackLimitOver                 ErrorCode = -15
	ErrParseDepthLimitOver                 ErrorCode = -16
	ErrRetryLimitInMatchOver               ErrorCode = -17
	ErrDefaultEncodingIsNotSet             ErrorCode = -21
	ErrSpecifiedEncodingCantConvertToWide  ErrorCode = -22
	ErrInvalidArgument                     ErrorCode = -30
	ErrEndPatternAtLeftBrace               ErrorCode = -100
	ErrEndPatternAtLeftBracket             ErrorCode = -101
	ErrEmptyCharClass                      ErrorCode = -102
	ErrPrematureEndOfCharClass             ErrorCode = -103
	ErrEndPatternAtEscape                  ErrorCode = -104
	ErrEndPatternAtMeta                    ErrorCode = -105
	ErrEndPatternAtControl                 ErrorCode = -106
	ErrMetaCodeSyntax                      ErrorCode = -108
	ErrControlCodeSyntax                   ErrorCode = -109
	ErrCharClassValueAtEndOfRange          ErrorCode = -110
	ErrCharClassValueAtStartOfRange        ErrorCode = -111
	ErrUnmatchedRangeSpecifierInCharClass  ErrorCode = -112
	ErrTargetOfRepeatOperatorNotSpecified  ErrorCode = -113
	ErrTargetOfRepeatOperatorInvalid       ErrorCode = -114
	ErrNestedRepeatOperator                ErrorCode = -115
	ErrUnmatchedCloseParenthesis           ErrorCode = -116
	ErrEndPatternWithUnmatchedParenthesis  ErrorCode = -117
	ErrEndPatternInGroup                   ErrorCode = -118
	ErrUndefinedGroupOption                ErrorCode = -119
	ErrInvalidPosixBracketType             ErrorCode = -121
	ErrInvalidLookBehindPattern            ErrorCode = -122
	ErrInvalidRepeatRangePattern           ErrorCode = -123
	ErrInvalidConditionPattern             ErrorCode = -124
	ErrTooBigNumber                        ErrorCode = -200
	ErrTooBigNumberForRepeatRange          ErrorCode = -201
	ErrUpperSmallerThanLowerInRepeatRange  ErrorCode = -202
	ErrEmptyRangeInCharClass               ErrorCode = -203
	ErrMismatchCodeLengthInClassRange      ErrorCode = -204
	ErrTooManyMultiByteRanges              ErrorCode = -205
	ErrTooShortMultiByteString             ErrorCode = -206
	ErrTooBigBackrefNumber                 ErrorCode = -207
	ErrInvalidBackref                      ErrorCode = -208
	ErrNumberedBackrefOrCallNotAllowed     ErrorCode = -209
	ErrTooLongWideCharValue                ErrorCode = -212
	ErrEmptyGroupName                      ErrorCode = -214
	ErrInvalidGroupName                    ErrorCode = -215
	ErrInvalidCharInGroupName              ErrorCode = -216
	ErrUndefinedNameReference              ErrorCode = -217
	ErrUndefinedGroupReference             ErrorCode = -218
	ErrMultiplexDefinedName                ErrorCode = -219
	ErrMultiplexDefinitionNameCall         ErrorCode = -220
	ErrNeverEndingRecursion                ErrorCode = -221
	ErrGroupNumberOverForCaptureHistory    ErrorCode = -222
	ErrInvalidCharPropertyName             ErrorCode = -223
	ErrUnsupportedConstruct                ErrorCode = -230
	ErrInvalidCodePointValue               ErrorCode = -400
	ErrTooBigWideCharValue                 ErrorCode = -401
	ErrNotSupportedEncodingCombination     ErrorCode = -402
	ErrInvalidCombinationOfOptions         ErrorCode = -403
	ErrOverThreadPassLimitCount            ErrorCode = -1001
)

var errorMessages = map[ErrorCode]string{
	ErrNoSupportConfig:                    "no support in this configuration",
	ErrMemory:                             "fail to memory allocation",
	ErrTypeBug:                            "undefined type (bug)",
	ErrParserBug:                          "internal parser error (bug)",
	ErrStackBug:                           "stack error (bug)",
	ErrUndefinedBytecode:                  "undefined bytecode (bug)",
	ErrUnexpectedBytecode:                 "unexpected bytecode (bug)",
	ErrMatchStackLimitOver:                "match-stack limit over",
	ErrParseDepthLimitOver:                "parse depth limit over",
	ErrRetryLimitInMatchOver:              "retry-limit-in-match over",
	ErrDefaultEncodingIsNotSet:            "default multibyte-encoding is not setted",
	ErrSpecifiedEncodingCantConvertToWide: "can't convert to wide-char on specified multibyte-encoding",
	ErrInvalidArgument:                    "invalid argument",
	ErrEndPatternAtLeftBrace:              "end pattern at left brace",
	ErrEndPatternAtLeftBracket:            "end pattern at left bracket",
	ErrEmptyCharClass:                     "empty char-class",
	ErrPrematureEndOfCharClass:            "premature end of char-class",
	ErrEndPatternAtEscape:                 "end pattern at escape",
	ErrEndPatternAtMeta:                   "end pattern at meta",
	ErrEndPatternAtControl:                "end pattern at control",
	ErrMetaCodeSyntax:                     "invalid meta-code syntax",
	ErrControlCodeSyntax:                  "invalid control-code syntax",
	ErrCharClassValueAtEndOfRange:         "char-class value at end of range",
	ErrCharClassValueAtStartOfRange:       "char-class value at start of range",
	ErrUnmatchedRangeSpecifierInCharClass: "unmatched range specifier in char-class",
	ErrTargetOfRepeatOperatorNotSpecified: "target of repeat operator is not specified",
	ErrTargetOfRepeatOperatorInvalid:      "target of repeat operator is invalid",
	ErrNestedRepeatOperator:               "nested repeat operator",
	ErrUnmatchedCloseParenthesis:          "unmatched close parenthesis",
	ErrEndPatternWithUnmatchedParenthesis: "end pattern with unmatched parenthesis",
	ErrEndPatternInGroup:                  "end pattern in group",
	ErrUndefinedGroupOption:               "undefined group option",
	ErrInvalidPosixBracketType:            "invalid POSIX bracket type",
	ErrInvalidLookBehindPattern:           "invalid pattern in look-behind",
	ErrInvalidRepeatRangePattern:          "invalid repeat range {lower,upper}",
	ErrInvalidConditionPattern:            "invalid conditional pattern",
	ErrTooBigNumber:                       "too big number",
	ErrTooBigNumberForRepeatRange:         "too big number for repeat range",
	ErrUpperSmallerThanLowerInRepeatRange: "upper is smaller than lower in repeat range",
	ErrEmptyRangeInCharClass:              "empty range in char class",
	ErrMismatchCodeLengthInClassRange:     "mismatch multibyte code length in char-class range",
	ErrTooManyMultiByteRanges:             "too many multibyte code ranges are specified",
	ErrTooShortMultiByteString:            "too short multibyte code string",
	ErrTooBigBackrefNumber:                "too big backref number",
	ErrInvalidBackref:                     "invalid backref number/name",
	ErrNumberedBackrefOrCallNotAllowed:    "numbered backref/call is not allowed. (use name)",
	ErrTooLongWideCharValue:               "too long wide-char value",
	ErrEmptyGroupName:                     "group name is empty",
	ErrInvalidGroupName:                   "invalid group name <%n>",
	ErrInvalidCharInGroupName:             "invalid char in group name <%n>",
	ErrUndefinedNameReference:             "undefined name <%n> reference",
	ErrUndefinedGroupReference:            "undefined group <%n> reference",
	ErrMultiplexDefinedName:               "multiplex defined name <%n>",
	ErrMultiplexDefinitionNameCall:        "multiplex definition name <%n> call",
	ErrNeverEndingRecursion:               "never ending recursion",
	ErrGroupNumberOverForCaptureHistory:   "group number is too big for capture history",
	ErrInvalidCharPropertyName:            "invalid character property name {%n}",
	ErrUnsupportedConstruct:               "operator %n is not enabled in this syntax",
	ErrInvalidCodePointValue:              "invalid code point value",
	ErrTooBigWideCharValue:                "too big wide-char value",
	ErrNotSupportedEncodingCombination:    "not supported encoding combination",
	ErrInvalidCombinationOfOptions:        "invalid combination of options",
	ErrOverThreadPassLimitCount:           "over thread pass limit count",
}

// Message returns the message template for the code, with %n standing for
// the error context.
func (c ErrorCode) Message() string {
	if m, ok := errorMessages[c]; ok {
		return m
	}
	return fmt.Sprintf("undefined error code (%d)", int(c))
}

// Format renders the message, substituting ctx for %n. Non-printable bytes
// of ctx are shown as \ooo octal escapes.
func (c ErrorCode) Format(ctx []byte) string {
	msg := c.Message()
	i := strings.Index(msg, "%n")
	if i < 0 {
		return msg
	}
	var sb strings.Builder
	sb.WriteString(msg[:i])
	for _, b := range ctx {
		if b < 0x20 || b == 0x7f {
			fmt.Fprintf(&sb, "\\%03o", b)
			continue
		}
		sb.WriteByte(b)
	}
	sb.WriteString(msg[i+2:])
	return sb.String()
}

// Error implements the error interface.
func (c ErrorCode) Error() string {
	return "onig: " + c.Format(nil)
}

// Kind classifies the code.
func (c ErrorCode) Kind() ErrorKind {
	switch c {
	case ErrNoSupportConfig, ErrUnsupportedConstruct:
		return KindUnsupported
	case ErrMemory, ErrMatchStackLimitOver, ErrParseDepthLimitOver,
		ErrRetryLimitInMatchOver, ErrOverThreadPassLimitCount:
		return KindResourceExhausted
	case ErrTypeBug, ErrParserBug, ErrStackBug, ErrUndefinedBytecode, ErrUnexpectedBytecode:
		return KindInternal
	case ErrInvalidArgument, ErrInvalidCombinationOfOptions,
		ErrDefaultEncodingIsNotSet, ErrSpecifiedEncodingCantConvertToWide:
		return KindInvalidArgument
	case ErrTooShortMultiByteString, ErrMismatchCodeLengthInClassRange,
		ErrInvalidCodePointValue, ErrTooBigWideCharValue, ErrTooLongWideCharValue,
		ErrNotSupportedEncodingCombination:
		return KindEncoding
	}
	return KindSyntax
}

// ErrorKind is the coarse error taxonomy.
type ErrorKind uint8

const (
	// KindSyntax: the pattern is malformed under the active syntax.
	KindSyntax ErrorKind = iota
	// KindUnsupported: the construct is disabled by the active syntax.
	KindUnsupported
	// KindEncoding: malformed bytes for the declared encoding.
	KindEncoding
	// KindResourceExhausted: a stack, retry or depth budget was exceeded.
	KindResourceExhausted
	// KindInvalidArgument: bad arguments or option combinations.
	KindInvalidArgument
	// KindInternal: an engine bug.
	KindInternal
)

// String returns a human-readable kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "Syntax"
	case KindUnsupported:
		return "Unsupported"
	case KindEncoding:
		return "Encoding"
	case KindResourceExhausted:
		return "ResourceExhausted"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindInternal:
		return "Internal"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Error is a compile or match error. Context holds a copy of the pattern
// fragment the message refers to, so formatting never needs the pattern.
type Error struct {
	Code ErrorCode
	// Offset is the byte offset into the pattern, or -1 when unknown.
	Offset  int
	Context []byte
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Code.Format(e.Context)
	if e.Offset >= 0 {
		return fmt.Sprintf("onig: %s (at offset %d)", msg, e.Offset)
	}
	return "onig: " + msg
}

// Unwrap returns the error code.
func (e *Error) Unwrap() error {
	return e.Code
}

// Is matches another *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Kind classifies the error.
func (e *Error) Kind() ErrorKind {
	return e.Code.Kind()
}

// NewError returns an *Error with a copied context.
func NewError(code ErrorCode, offset int, ctx []byte) *Error {
	var c []byte
	if len(ctx) > 0 {
		c = append([]byte(nil), ctx...)
	}
	return &Error{Code: code, Offset: offset, Context: c}
}

// KindOf returns the kind of err if it carries an ErrorCode.
func KindOf(err error) (ErrorKind, bool) {
	var code ErrorCode
	if errors.As(err, &code) {
		return code.Kind(), true
	}
	return 0, false
}

// ErrFrozenSyntax is the panic value raised when a built-in syntax is
// mutated. Clone it first.
var ErrFrozenSyntax = errors.New("onig: built-in syntax is read-only")
