package service

import (
	"github.com/vaultpass/passgen-go/internal/generator"
	"github.com/vaultpass/passgen-go/internal/model"
)

// GeneratorService handles one-shot password generation.
type GeneratorService struct {
	src      generator.Source
	defaults generator.Options
}

// NewGeneratorService creates a new GeneratorService. Missing request fields
// fall back to defaults.
func NewGeneratorService(src generator.Source, defaults generator.Options) *GeneratorService {
	if src == nil {
		src = generator.DefaultSource()
	}
	return &GeneratorService{src: src, defaults: defaults}
}

// Generate produces passwords based on the given request. Length and count
// are clamped; an empty character set yields generator.ErrEmptyCharset.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	opts := generator.Options{
		Length:         req.Length,
		Count:          req.Count,
		Uppercase:      boolOrDefault(req.Uppercase, s.defaults.Uppercase),
		Lowercase:      boolOrDefault(req.Lowercase, s.defaults.Lowercase),
		Digits:         boolOrDefault(req.Numbers, s.defaults.Digits),
		Symbols:        boolOrDefault(req.Symbols, s.defaults.Symbols),
		ExcludeSimilar: boolOrDefault(req.ExcludeSimilar, s.defaults.ExcludeSimilar),
	}

	if opts.Length == 0 {
		opts.Length = s.defaults.Length
	}
	if opts.Count == 0 {
		opts.Count = s.defaults.Count
	}
	opts = opts.Normalize()

	passwords, err := generator.Generate(s.src, opts)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	return model.GenerateResponse{
		Passwords:   passwords,
		Length:      opts.Length,
		Count:       len(passwords),
		CharsetSize: len(generator.Charset(opts)),
	}, nil
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
