package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/lwostrut/pkg/clips"
	"github.com/Faultbox/lwostrut/pkg/encoding"
	"github.com/Faultbox/lwostrut/pkg/lwo"
)

// Validate checks values that flags and files cannot constrain.
func (c *Config) Validate() error {
	if _, err := encoding.Lookup(c.Import.Charset); err != nil {
		return fmt.Errorf("import.charset: %w", err)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1, got %d", c.Batch.Workers)
	}
	if c.Batch.Timeout < 0 {
		return fmt.Errorf("batch.timeout must not be negative, got %v", c.Batch.Timeout)
	}
	return nil
}

// ParserOptions returns the parse options selected by the import section.
func (c *Config) ParserOptions(log *zap.Logger) ([]lwo.Option, error) {
	dec, err := encoding.Lookup(c.Import.Charset)
	if err != nil {
		return nil, err
	}
	return []lwo.Option{
		lwo.WithLogger(log),
		lwo.WithStrict(c.Import.Strict),
		lwo.WithCharset(dec),
	}, nil
}

// Resolver returns a clip resolver configured by the clips section.
func (c *Config) Resolver(log *zap.Logger) *clips.Resolver {
	return &clips.Resolver{
		SearchPaths:   c.Clips.SearchPaths,
		AllowMissing:  c.Clips.AllowMissing,
		AbsolutePaths: c.Clips.AbsolutePaths,
		Probe:         c.Clips.Probe,
		Logger:        log,
	}
}
