package serializer

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arloliu/telepack/errs"
	"github.com/arloliu/telepack/internal/options"
	"github.com/arloliu/telepack/sanitizer"
)

// SerializerConfig holds the settings shared by every payload a Serializer packs.
type SerializerConfig struct {
	limits           SizeLimits
	sanitizer        sanitizer.Sanitizer
	stringifyObjects bool
	compoundKeys     bool
	excludeMetadata  bool
	logger           zerolog.Logger
}

// NewSerializerConfig returns the default configuration: builtin size limits,
// no sanitizer, metadata enabled, compound keys disabled and a no-op logger.
func NewSerializerConfig() *SerializerConfig {
	return &SerializerConfig{
		limits: DefaultSizeLimits(),
		logger: zerolog.Nop(),
	}
}

// Limits returns the effective size limits.
func (c *SerializerConfig) Limits() SizeLimits {
	return c.limits
}

// Option is a functional option for configuring a Serializer.
type Option = options.Option[*SerializerConfig]

// WithRequestLimit overrides the maximum payload size for normal and beacon
// payloads. Values outside (0, builtin] keep the builtin limit.
func WithRequestLimit(normal, beacon int) Option {
	return options.NoError(func(c *SerializerConfig) {
		c.limits.Request = limitOrDefault(normal, DefaultRequestLimit)
		c.limits.BeaconRequest = limitOrDefault(beacon, DefaultBeaconRequestLimit)
	})
}

// WithRecordLimit overrides the maximum encoded record size for normal and
// beacon payloads. Values outside (0, builtin] keep the builtin limit.
func WithRecordLimit(normal, beacon int) Option {
	return options.NoError(func(c *SerializerConfig) {
		c.limits.Record = limitOrDefault(normal, DefaultRecordLimit)
		c.limits.BeaconRecord = limitOrDefault(beacon, DefaultBeaconRecordLimit)
	})
}

// WithSizeLimits overrides all four limits at once, with the same bounds as
// WithRequestLimit and WithRecordLimit.
func WithSizeLimits(limits SizeLimits) Option {
	return options.NoError(func(c *SerializerConfig) {
		c.limits = limits.validated()
	})
}

// WithSanitizer sets the sanitizer consulted for every field. Fields it does
// not handle are converted with sanitizer.SanitizeProperty.
func WithSanitizer(s sanitizer.Sanitizer) Option {
	return options.New(func(c *SerializerConfig) error {
		if s == nil {
			return errs.ErrNilSanitizer
		}
		c.sanitizer = s

		return nil
	})
}

// WithStringifyObjects encodes object-valued fields as JSON strings instead of
// nested objects. Default is false.
func WithStringifyObjects(enabled bool) Option {
	return options.NoError(func(c *SerializerConfig) {
		c.stringifyObjects = enabled
	})
}

// WithCompoundKeys splits dotted Part B and Part C keys such as "a.b" into
// nested objects. Default is false.
func WithCompoundKeys(enabled bool) Option {
	return options.NoError(func(c *SerializerConfig) {
		c.compoundKeys = enabled
	})
}

// WithMetadata enables or disables the ext.metadata field type tree. Default
// is enabled.
func WithMetadata(enabled bool) Option {
	return options.NoError(func(c *SerializerConfig) {
		c.excludeMetadata = !enabled
	})
}

// WithoutMetadata disables the ext.metadata field type tree.
func WithoutMetadata() Option {
	return WithMetadata(false)
}

// WithLogger sets the logger used for diagnostics about rejected events.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *SerializerConfig) {
		c.logger = logger
	})
}

// WithConfig applies a parsed Config.
func WithConfig(cfg Config) Option {
	return options.New(func(c *SerializerConfig) error {
		limits, err := cfg.SizeLimits()
		if err != nil {
			return fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
		}

		c.limits = limits
		c.stringifyObjects = cfg.StringifyObjects
		c.compoundKeys = cfg.CompoundKeys
		c.excludeMetadata = cfg.ExcludeMetadata

		return nil
	})
}
