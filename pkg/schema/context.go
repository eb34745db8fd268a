// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

// Context is the state of one top-level validate call. It is owned
// by that call and never shared.
type Context struct {
	// dynamicScope is the stack of schemas entered and not yet
	// left. $dynamicRef searches it outermost first.
	dynamicScope []*Schema

	// adjacent holds the results of sibling keywords at the
	// current schema, keyed by keyword name. It is reset on entry
	// to each schema so later keywords can read annotations left
	// by earlier ones.
	adjacent map[string]*Result

	// shortCircuit stops evaluation at the first failing keyword.
	// It is set when the caller requested the flag format.
	shortCircuit bool

	// accessMode selects read or write semantics for required.
	accessMode AccessMode

	// skipDiscriminator suppresses one re-entry into a
	// discriminator while it is evaluating its mapped schema,
	// breaking the mutual recursion of the allOf subclass pattern.
	skipDiscriminator *Schema

	depth int
}
