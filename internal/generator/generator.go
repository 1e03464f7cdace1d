// Package generator builds character sets from character classes and samples
// random passwords from them.
//
// Generation is deliberately non-cryptographic: the default source is
// math/rand/v2 and no entropy guarantees are made.
package generator

import (
	"errors"
	"math/rand/v2"
	"strings"
)

const (
	UppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	LowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	DigitChars     = "0123456789"
	SymbolChars    = "!@#$%^&*()_+-=[]{}|;:',.<>?/`~"

	// SimilarChars are removed when ExcludeSimilar is set.
	SimilarChars = "iIlL1oO0"

	MinLength     = 6
	MaxLength     = 100
	DefaultLength = 10

	MinCount     = 1
	MaxCount     = 10
	DefaultCount = 1
)

var ErrEmptyCharset = errors.New("at least one character type must be selected")

// Source yields uniform integers in [0, n).
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource returns the process-wide math/rand/v2 source.
func DefaultSource() Source {
	return globalSource{}
}

// NewSeededSource returns a deterministic source, mainly for tests.
func NewSeededSource(seed1, seed2 uint64) Source {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// Options configures the generator.
type Options struct {
	Length         int
	Count          int
	Uppercase      bool
	Lowercase      bool
	Digits         bool
	Symbols        bool
	ExcludeSimilar bool
}

// DefaultOptions mirrors the widget's initial state: 10 letters, one password.
func DefaultOptions() Options {
	return Options{
		Length:    DefaultLength,
		Count:     DefaultCount,
		Uppercase: true,
		Lowercase: true,
	}
}

// Normalize clamps Length and Count into their allowed ranges.
// A non-positive count is treated as 1.
func (o Options) Normalize() Options {
	o.Length = clamp(o.Length, MinLength, MaxLength)
	o.Count = clamp(o.Count, MinCount, MaxCount)
	return o
}

// Charset returns the characters enabled by opts, in class order
// uppercase, lowercase, digits, symbols, minus similar ones when requested.
func Charset(opts Options) string {
	var sb strings.Builder
	if opts.Uppercase {
		sb.WriteString(UppercaseChars)
	}
	if opts.Lowercase {
		sb.WriteString(LowercaseChars)
	}
	if opts.Digits {
		sb.WriteString(DigitChars)
	}
	if opts.Symbols {
		sb.WriteString(SymbolChars)
	}

	pool := sb.String()
	if !opts.ExcludeSimilar {
		return pool
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(SimilarChars, r) {
			return -1
		}
		return r
	}, pool)
}

// Generate produces opts.Count passwords of opts.Length characters each.
// Options are normalized first. Each character is an independent uniform draw
// from the character set.
func Generate(src Source, opts Options) ([]string, error) {
	if src == nil {
		src = DefaultSource()
	}
	opts = opts.Normalize()

	pool := Charset(opts)
	if pool == "" {
		return nil, ErrEmptyCharset
	}

	passwords := make([]string, opts.Count)
	for i := range passwords {
		passwords[i] = sample(src, pool, opts.Length)
	}
	return passwords, nil
}

// sample draws length characters from pool. The index is always in [0, len(pool)).
func sample(src Source, pool string, length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = pool[src.IntN(len(pool))]
	}
	return string(buf)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
