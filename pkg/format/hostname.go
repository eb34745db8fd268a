// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"strings"
	"sync"

	"golang.org/x/net/idna"
)

// IsHostname reports whether s is a valid RFC 1123 hostname:
// labels of at most 63 octets, at most 253 octets in total,
// no leading or trailing hyphen in a label, no underscores,
// and no leading or trailing dot.
func IsHostname(s string) bool {
	return isValidHostname(s, false)
}

// IsIDNHostname reports whether s is a valid internationalized
// hostname. The name is mapped to ASCII with UTS#46 and then
// held to the same rules as a plain hostname.
func IsIDNHostname(s string) bool {
	return isValidHostname(s, true)
}

// idnProfile returns the IDNA profile used to map
// internationalized hostnames to ASCII.
var idnProfile = sync.OnceValue(func() *idna.Profile {
	return idna.New(
		idna.MapForLookup(),
		idna.ValidateLabels(true),
		idna.BidiRule(),
	)
})

// isValidHostname reports whether this is a valid hostname.
// If idn is true, this permits internationalized hostnames.
func isValidHostname(s string, idn bool) bool {
	if idn {
		// Permit all stops (RFC 3490 section 3.1).
		s = strings.ReplaceAll(s, "。", ".")
		s = strings.ReplaceAll(s, "．", ".")
		s = strings.ReplaceAll(s, "｡", ".")

		ascii, err := idnProfile().ToASCII(s)
		if err != nil {
			return false
		}
		s = ascii
	}

	if len(s) == 0 || len(s) > 253 {
		return false
	}
	if s[0] == '.' || s[len(s)-1] == '.' {
		return false
	}

	for _, label := range strings.Split(s, ".") {
		if !isValidLabel(label, idn) {
			return false
		}
	}
	return true
}

// isValidLabel checks one dot-separated hostname label,
// already in ASCII form.
func isValidLabel(label string, idn bool) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			// Underscores and all non-ASCII are rejected;
			// internationalized labels arrive here as A-labels.
			return false
		}
	}

	if len(label) >= 4 && strings.EqualFold(label[:4], "xn--") {
		// Decode the A-label and apply the RFC 5891 hyphen
		// restriction to the U-label.
		decoded, err := idna.Lookup.ToUnicode(label)
		if err != nil {
			return false
		}
		if len(decoded) >= 4 && decoded[2] == '-' && decoded[3] == '-' {
			return false
		}
		if !idn && decoded == label {
			// ToUnicode returning the input unchanged means
			// the punycode did not decode.
			return false
		}
	}

	return true
}
