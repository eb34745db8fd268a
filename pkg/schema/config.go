// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"net/url"
	"sync"

	"github.com/altshiftab/schemer/pkg/format"
	"github.com/altshiftab/schemer/pkg/jsonvalue"
	"github.com/altshiftab/schemer/pkg/regexes"
)

// RefResolver fetches the document identified by a fragmentless
// absolute URI. Returning (nil, nil) means the resolver does not know
// the URI; the compiler then falls back to the built-in meta-schema
// registry before failing.
type RefResolver func(uri *url.URL) (*jsonvalue.Value, error)

// ContentDecoder decodes a contentEncoding-encoded string.
type ContentDecoder func(s string) (ok bool, decoded string)

// MediaTypeParser parses a decoded content string into a value.
type MediaTypeParser func(s string) (ok bool, parsed *jsonvalue.Value)

// PropertyHook observes property validation. Hooks are invoked but
// carry no validation semantics and must not assume they may mutate
// the instance.
type PropertyHook func(instance *jsonvalue.Value, property string, propertySchema *jsonvalue.Value)

// AccessMode selects read or write validation semantics for the
// required keyword.
type AccessMode string

const (
	AccessModeNone  AccessMode = ""
	AccessModeRead  AccessMode = "read"
	AccessModeWrite AccessMode = "write"
)

// config is the effective option set of a compiled schema.
// The zero value is not usable; use newConfig.
type config struct {
	baseURI            *url.URL
	metaSchemaURI      string
	vocabularies       map[string]bool
	formatAssertion    bool
	formats            format.Registry
	contentEncodings   map[string]ContentDecoder
	contentMediaTypes  map[string]MediaTypeParser
	refResolver        RefResolver
	regexpResolver     regexes.Resolver
	outputFormat       string
	accessMode         AccessMode
	beforeProperty     []PropertyHook
	afterProperty      []PropertyHook
	insertDefaults     bool
}

// Option adjusts the configuration of a single Compile call or,
// through [SetDefaultOptions], the package defaults.
type Option func(*config)

// WithBaseURI sets the base URI used for a schema without an $id.
func WithBaseURI(uri string) Option {
	return func(c *config) {
		if u, err := url.Parse(uri); err == nil {
			c.baseURI = u
		}
	}
}

// WithMetaSchema sets the meta-schema URI used when the schema has
// no $schema keyword.
func WithMetaSchema(uri string) Option {
	return func(c *config) { c.metaSchemaURI = uri }
}

// WithVocabularies overrides individual $vocabulary entries.
// Mapping a vocabulary URI to true forces it active, false inactive.
func WithVocabularies(v map[string]bool) Option {
	return func(c *config) {
		if c.vocabularies == nil {
			c.vocabularies = make(map[string]bool, len(v))
		}
		for k, b := range v {
			c.vocabularies[k] = b
		}
	}
}

// WithFormatAssertion makes the format keyword an assertion instead
// of an annotation.
func WithFormatAssertion(on bool) Option {
	return func(c *config) { c.formatAssertion = on }
}

// WithFormat registers a custom format predicate.
// Registering a format does not by itself turn assertion on.
func WithFormat(name string, f format.Func) Option {
	return func(c *config) {
		c.formats = cloneMap(c.formats)
		c.formats[name] = f
	}
}

// WithFormats merges a format registry over the built-ins.
func WithFormats(r format.Registry) Option {
	return func(c *config) {
		c.formats = cloneMap(c.formats)
		for name, f := range r {
			c.formats[name] = f
		}
	}
}

// WithContentEncoding registers a contentEncoding decoder.
// Registered encodings are asserted; unregistered ones only annotate.
func WithContentEncoding(name string, d ContentDecoder) Option {
	return func(c *config) {
		c.contentEncodings = cloneMap(c.contentEncodings)
		c.contentEncodings[name] = d
	}
}

// WithContentMediaType registers a contentMediaType parser.
// Registered media types are asserted; unregistered ones only annotate.
func WithContentMediaType(name string, p MediaTypeParser) Option {
	return func(c *config) {
		c.contentMediaTypes = cloneMap(c.contentMediaTypes)
		c.contentMediaTypes[name] = p
	}
}

// WithRefResolver sets the resolver used for external references.
func WithRefResolver(r RefResolver) Option {
	return func(c *config) { c.refResolver = r }
}

// WithRefResolverName selects a bundled resolver: "net/http" or "file".
func WithRefResolverName(name string) Option {
	return func(c *config) {
		switch name {
		case "net/http":
			c.refResolver = HTTPResolver()
		case "file":
			c.refResolver = FileResolver()
		}
	}
}

// WithRegexpResolver sets the resolver used to compile patterns.
func WithRegexpResolver(r regexes.Resolver) Option {
	return func(c *config) { c.regexpResolver = regexes.Cached(r) }
}

// WithRegexpResolverName selects a regexp dialect: "native" or "ecma".
func WithRegexpResolverName(name string) Option {
	return func(c *config) {
		switch name {
		case "native":
			c.regexpResolver = regexes.Cached(regexes.Native)
		case "ecma":
			c.regexpResolver = regexes.Cached(regexes.Ecma)
		}
	}
}

// WithOutputFormat sets the default output format:
// "classic", "flag", "basic", "detailed" or "verbose".
func WithOutputFormat(name string) Option {
	return func(c *config) { c.outputFormat = name }
}

// WithAccessMode sets read or write validation semantics.
func WithAccessMode(mode AccessMode) Option {
	return func(c *config) { c.accessMode = mode }
}

// WithBeforePropertyValidation adds a hook invoked before each
// property subschema is applied.
func WithBeforePropertyValidation(h PropertyHook) Option {
	return func(c *config) { c.beforeProperty = append(c.beforeProperty, h) }
}

// WithAfterPropertyValidation adds a hook invoked after each
// property subschema is applied.
func WithAfterPropertyValidation(h PropertyHook) Option {
	return func(c *config) { c.afterProperty = append(c.afterProperty, h) }
}

// WithInsertPropertyDefaults is accepted for API compatibility.
// Defaults are reported through annotations only; the instance is
// never mutated.
func WithInsertPropertyDefaults(on bool) Option {
	return func(c *config) { c.insertDefaults = on }
}

// defaultMu guards the package default configuration.
var defaultMu sync.Mutex

// defaultOptions are applied before per-call options.
var defaultOptions []Option

// SetDefaultOptions records options applied to every subsequent
// Compile call before its own options. It replaces any previously
// recorded defaults.
func SetDefaultOptions(opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultOptions = opts
}

// newConfig builds the effective configuration for one compile.
func newConfig(opts []Option) *config {
	c := &config{
		metaSchemaURI:  DraftID,
		formats:        format.Default(),
		regexpResolver: regexes.Cached(regexes.Native),
		outputFormat:   OutputClassic,
	}
	defaultMu.Lock()
	def := defaultOptions
	defaultMu.Unlock()
	for _, o := range def {
		o(c)
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// cloneMap copies a map so option application never mutates a
// registry shared with another configuration.
func cloneMap[M ~map[K]V, K comparable, V any](m M) M {
	out := make(M, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
