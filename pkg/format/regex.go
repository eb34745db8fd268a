// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import "github.com/altshiftab/schemer/pkg/regexes"

// IsRegex reports whether s is a valid ECMA-262 regular expression.
func IsRegex(s string) bool {
	return regexes.ValidateEcma(s) == nil
}
