// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"sync"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// Keyword is a compiled keyword evaluator. Evaluating a keyword may
// recurse into subschemas and may read the results of earlier
// sibling keywords through the context.
//
// Evaluate returns nil when the keyword does not apply to the
// instance at all (for example "then" when "if" failed); a nil
// result is not recorded.
type Keyword interface {
	Name() string
	Value() *jsonvalue.Value
	Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result

	// projection exposes the subschemas the keyword compiled, for
	// reference pointer navigation and the resolve walk.
	projection() projection
}

// projection is the parsed shape of a keyword value.
// At most one field group is set.
type projection struct {
	schema  *Schema
	schemas []*Schema
	named   []namedSchema
	// raw marks an unknown keyword whose value is retained
	// unparsed; pointer navigation compiles into it on demand.
	raw bool
}

// namedSchema is one entry of a map-shaped keyword such as
// properties or $defs, in document order.
type namedSchema struct {
	key    string
	schema *Schema
}

// lookup returns the schema for a key of a map-shaped projection.
func (p projection) lookup(key string) (*Schema, bool) {
	for _, ns := range p.named {
		if ns.key == key {
			return ns.schema, true
		}
	}
	return nil, false
}

// each calls f for every subschema of the projection.
func (p projection) each(f func(*Schema)) {
	if p.schema != nil {
		f(p.schema)
	}
	for _, s := range p.schemas {
		f(s)
	}
	for _, ns := range p.named {
		f(ns.schema)
	}
}

// keywordBase carries the fields shared by every keyword.
type keywordBase struct {
	name   string
	value  *jsonvalue.Value
	schema *Schema
}

func (k *keywordBase) Name() string            { return k.name }
func (k *keywordBase) Value() *jsonvalue.Value { return k.value }
func (k *keywordBase) projection() projection  { return projection{} }

// result builds a keyword-level result node.
func (k *keywordBase) result(x *jsonvalue.Value, iloc, kloc *Location, valid bool) *Result {
	return &Result{
		SourceSchema:     k.schema,
		SourceKeyword:    k.name,
		Instance:         x,
		InstanceLocation: iloc,
		KeywordLocation:  kloc,
		Valid:            valid,
	}
}

// fail builds an invalid keyword result with a tag and message.
func (k *keywordBase) fail(x *jsonvalue.Value, iloc, kloc *Location, tag, message string) *Result {
	r := k.result(x, iloc, kloc, false)
	r.tag = tag
	r.message = message
	return r
}

// keywordCompiler constructs a keyword for a schema being compiled.
type keywordCompiler func(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error)

// keywordDef pairs a keyword name with its compiler.
type keywordDef struct {
	name    string
	compile keywordCompiler
}

// vocabulary is a named ordered set of keywords.
type vocabulary struct {
	uri      string
	keywords []keywordDef
}

// Vocabulary URIs of the supported dialects.
const (
	vocabCore             = "https://json-schema.org/draft/2020-12/vocab/core"
	vocabApplicator       = "https://json-schema.org/draft/2020-12/vocab/applicator"
	vocabUnevaluated      = "https://json-schema.org/draft/2020-12/vocab/unevaluated"
	vocabValidation       = "https://json-schema.org/draft/2020-12/vocab/validation"
	vocabMetaData         = "https://json-schema.org/draft/2020-12/vocab/meta-data"
	vocabFormatAnnotation = "https://json-schema.org/draft/2020-12/vocab/format-annotation"
	vocabFormatAssertion  = "https://json-schema.org/draft/2020-12/vocab/format-assertion"
	vocabContent          = "https://json-schema.org/draft/2020-12/vocab/content"
	vocabOASBase          = "https://spec.openapis.org/oas/3.1/vocab/base"
)

// dialect is the keyword table of a meta-schema: the active
// vocabularies in declaration order, flattened into a name-indexed
// compiler table and an evaluation order.
type dialect struct {
	id        string
	compilers map[string]keywordCompiler
	order     map[string]int
}

// newDialect flattens a vocabulary list.
func newDialect(id string, vocabs []*vocabulary) *dialect {
	d := &dialect{
		id:        id,
		compilers: make(map[string]keywordCompiler),
		order:     make(map[string]int),
	}
	n := 0
	for _, v := range vocabs {
		for _, kd := range v.keywords {
			// A later vocabulary may override a keyword, as the
			// OpenAPI base vocabulary does for the combinators;
			// the evaluation position of the first definition is
			// kept so ordering dependencies hold.
			if _, seen := d.order[kd.name]; !seen {
				d.order[kd.name] = n
				n++
			}
			d.compilers[kd.name] = kd.compile
		}
	}
	return d
}

// coreVocabulary defines the core keywords. Identity keywords are
// parsed by the compiler itself; they appear here so they are
// recognized and so $defs is navigable.
func coreVocabulary() *vocabulary {
	return &vocabulary{
		uri: vocabCore,
		keywords: []keywordDef{
			{"$schema", compileAnnotationKeyword},
			{"$vocabulary", compileAnnotationKeyword},
			{"$id", compileAnnotationKeyword},
			{"$anchor", compileAnnotationKeyword},
			{"$dynamicAnchor", compileAnnotationKeyword},
			{"$comment", compileAnnotationKeyword},
			{"$defs", compileDefs},
			{"$ref", compileRef},
			{"$dynamicRef", compileDynamicRef},
		},
	}
}

// applicatorVocabulary defines the applicator keywords. The order
// encodes the annotation dependencies: items after prefixItems, the
// property applicators before additionalProperties.
func applicatorVocabulary() *vocabulary {
	return &vocabulary{
		uri: vocabApplicator,
		keywords: []keywordDef{
			{"allOf", compileAllOf},
			{"anyOf", compileAnyOf},
			{"oneOf", compileOneOf},
			{"not", compileNot},
			{"if", compileIf},
			{"then", compileThen},
			{"else", compileElse},
			{"dependentSchemas", compileDependentSchemas},
			{"prefixItems", compilePrefixItems},
			{"items", compileItems},
			{"contains", compileContains},
			{"properties", compileProperties},
			{"patternProperties", compilePatternProperties},
			{"additionalProperties", compileAdditionalProperties},
			{"propertyNames", compilePropertyNames},
		},
	}
}

func unevaluatedVocabulary() *vocabulary {
	return &vocabulary{
		uri: vocabUnevaluated,
		keywords: []keywordDef{
			{"unevaluatedItems", compileUnevaluatedItems},
			{"unevaluatedProperties", compileUnevaluatedProperties},
		},
	}
}

func validationVocabulary() *vocabulary {
	return &vocabulary{
		uri: vocabValidation,
		keywords: []keywordDef{
			{"type", compileType},
			{"enum", compileEnum},
			{"const", compileConst},
			{"multipleOf", compileMultipleOf},
			{"maximum", compileMaximum},
			{"exclusiveMaximum", compileExclusiveMaximum},
			{"minimum", compileMinimum},
			{"exclusiveMinimum", compileExclusiveMinimum},
			{"maxLength", compileMaxLength},
			{"minLength", compileMinLength},
			{"pattern", compilePattern},
			{"maxItems", compileMaxItems},
			{"minItems", compileMinItems},
			{"uniqueItems", compileUniqueItems},
			{"maxContains", compileMaxContains},
			{"minContains", compileMinContains},
			{"maxProperties", compileMaxProperties},
			{"minProperties", compileMinProperties},
			{"required", compileRequired},
			{"dependentRequired", compileDependentRequired},
		},
	}
}

func metaDataVocabulary() *vocabulary {
	return &vocabulary{
		uri: vocabMetaData,
		keywords: []keywordDef{
			{"title", compileAnnotationKeyword},
			{"description", compileAnnotationKeyword},
			{"default", compileAnnotationKeyword},
			{"deprecated", compileAnnotationKeyword},
			{"readOnly", compileAnnotationKeyword},
			{"writeOnly", compileAnnotationKeyword},
			{"examples", compileAnnotationKeyword},
		},
	}
}

func formatAnnotationVocabulary() *vocabulary {
	return &vocabulary{
		uri:      vocabFormatAnnotation,
		keywords: []keywordDef{{"format", compileFormatAnnotation}},
	}
}

func formatAssertionVocabulary() *vocabulary {
	return &vocabulary{
		uri:      vocabFormatAssertion,
		keywords: []keywordDef{{"format", compileFormatAssertion}},
	}
}

func contentVocabulary() *vocabulary {
	return &vocabulary{
		uri: vocabContent,
		keywords: []keywordDef{
			{"contentEncoding", compileContentEncoding},
			{"contentMediaType", compileContentMediaType},
			{"contentSchema", compileContentSchema},
		},
	}
}

// oasBaseVocabulary defines the OpenAPI 3.1 base keywords along
// with the discriminator-aware overrides of the combinators.
func oasBaseVocabulary() *vocabulary {
	return &vocabulary{
		uri: vocabOASBase,
		keywords: []keywordDef{
			{"discriminator", compileDiscriminator},
			{"allOf", compileOASAllOf},
			{"anyOf", compileOASAnyOf},
			{"oneOf", compileOASOneOf},
			{"example", compileAnnotationKeyword},
			{"externalDocs", compileAnnotationKeyword},
			{"xml", compileAnnotationKeyword},
		},
	}
}

// knownVocabulariesOnce and knownVocabulariesMap back knownVocabularies.
//
// The map is built lazily behind a function rather than as a plain
// package-level variable because its contents transitively reference
// functions that themselves read knownVocabularies, which would
// otherwise form an initialization cycle.
var (
	knownVocabulariesOnce sync.Once
	knownVocabulariesMap  map[string]func() *vocabulary
)

// knownVocabularies maps vocabulary URIs to definitions.
func knownVocabularies() map[string]func() *vocabulary {
	knownVocabulariesOnce.Do(func() {
		knownVocabulariesMap = map[string]func() *vocabulary{
			vocabCore:             coreVocabulary,
			vocabApplicator:       applicatorVocabulary,
			vocabUnevaluated:      unevaluatedVocabulary,
			vocabValidation:       validationVocabulary,
			vocabMetaData:         metaDataVocabulary,
			vocabFormatAnnotation: formatAnnotationVocabulary,
			vocabFormatAssertion:  formatAssertionVocabulary,
			vocabContent:          contentVocabulary,
			vocabOASBase:          oasBaseVocabulary,
		}
	})
	return knownVocabulariesMap
}

// draftVocabularyOrder is the declaration order of the 2020-12
// meta-schema.
var draftVocabularyOrder = []string{
	vocabCore,
	vocabApplicator,
	vocabUnevaluated,
	vocabValidation,
	vocabMetaData,
	vocabFormatAnnotation,
	vocabContent,
}

// oasVocabularyOrder is the declaration order of the OpenAPI 3.1
// base dialect.
var oasVocabularyOrder = append(append([]string{}, draftVocabularyOrder...), vocabOASBase)

// buildDialect assembles a dialect from an ordered vocabulary
// selection, honoring the format-assertion switch and any
// per-config overrides.
func buildDialect(id string, uris []string, cfg *config) (*dialect, error) {
	selected := make([]string, 0, len(uris))
	for _, uri := range uris {
		if on, overridden := cfg.vocabularies[uri]; overridden && !on {
			continue
		}
		selected = append(selected, uri)
	}
	for uri, on := range cfg.vocabularies {
		if on && !contains(selected, uri) {
			if _, known := knownVocabularies()[uri]; !known {
				return nil, fmt.Errorf("%w: %s", ErrUnknownVocabulary, uri)
			}
			selected = append(selected, uri)
		}
	}

	var vocabs []*vocabulary
	for _, uri := range selected {
		if uri == vocabFormatAnnotation && cfg.formatAssertion {
			uri = vocabFormatAssertion
		}
		mk, known := knownVocabularies()[uri]
		if !known {
			return nil, fmt.Errorf("%w: %s", ErrUnknownVocabulary, uri)
		}
		vocabs = append(vocabs, mk())
	}
	return newDialect(id, vocabs), nil
}

func contains(xs []string, x string) bool {
	for _, e := range xs {
		if e == x {
			return true
		}
	}
	return false
}
