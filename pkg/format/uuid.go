// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import "github.com/google/uuid"

// IsUUID reports whether s is a valid RFC 4122 UUID in the
// canonical 8-4-4-4-12 hexadecimal form.
func IsUUID(s string) bool {
	// uuid.Parse also accepts urn: and braced forms;
	// the format keyword wants the plain 36-byte form only.
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
