package onig

import (
	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/syntax"
)

// Config holds the compile and match settings that Oniguruma keeps as
// process-wide defaults.
//
// Example:
//
//	cfg := onig.DefaultConfig()
//	cfg.Syntax = syntax.Python()
//	cfg.MatchStackLimit = 100_000
//	re, err := onig.NewWithConfig(pattern, onig.OptionNone, cfg)
type Config struct {
	// Syntax is the pattern dialect.
	// Default: syntax.Default() (Ruby)
	Syntax *syntax.Syntax

	// Encoding is the encoding of patterns and subjects.
	// Default: encoding.UTF8
	Encoding encoding.Encoding

	// MatchStackLimit caps the backtrack stack of one match attempt.
	// Exceeding it fails the call with syntax.ErrMatchStackLimitOver.
	// Default: 0 (unlimited)
	MatchStackLimit int

	// RetryLimitInMatch caps the number of backtracks of one match
	// attempt. Exceeding it fails the call with
	// syntax.ErrRetryLimitInMatchOver.
	// Default: 0 (unlimited)
	RetryLimitInMatch int

	// ParseDepthLimit bounds nesting in patterns.
	// Default: syntax.DefaultParseDepthLimit
	ParseDepthLimit int

	// DisablePrefilter turns off literal and first-byte candidate
	// scanning. Results are identical either way.
	DisablePrefilter bool

	// Warn and VerboseWarn receive compile warnings. Either may be nil.
	Warn        func(msg string)
	VerboseWarn func(msg string)
}

// DefaultConfig returns the default configuration: Ruby syntax, UTF-8 and
// no match budgets.
func DefaultConfig() Config {
	return Config{
		Syntax:          syntax.Default(),
		Encoding:        encoding.UTF8,
		ParseDepthLimit: syntax.DefaultParseDepthLimit,
	}
}

// Validate checks the configuration.
//
// Valid ranges:
//   - MatchStackLimit, RetryLimitInMatch: >= 0
//   - ParseDepthLimit: 0 to 1,000,000 (0 selects the default)
func (c Config) Validate() error {
	if c.MatchStackLimit < 0 {
		return &ConfigError{Field: "MatchStackLimit", Message: "must not be negative"}
	}
	if c.RetryLimitInMatch < 0 {
		return &ConfigError{Field: "RetryLimitInMatch", Message: "must not be negative"}
	}
	if c.ParseDepthLimit < 0 || c.ParseDepthLimit > 1_000_000 {
		return &ConfigError{Field: "ParseDepthLimit", Message: "must be between 0 and 1,000,000"}
	}
	return nil
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return "onig: invalid config: " + e.Field + ": " + e.Message
}
