// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"net/netip"
	"strings"
)

// IsEmail reports whether s is a valid RFC 5321 mailbox.
// The local part may be a dot-string or a quoted string, and the
// domain may be a hostname or a bracketed IP literal. Non-ASCII
// anywhere fails; use idn-email for internationalized addresses.
func IsEmail(s string) bool {
	return isValidEmail(s, false)
}

// IsIDNEmail reports whether s is a valid RFC 6531
// internationalized mailbox.
func IsIDNEmail(s string) bool {
	return isValidEmail(s, true)
}

// isValidEmail reports whether s is a valid mailbox.
// If idn is true, non-ASCII is permitted in both parts.
func isValidEmail(s string, idn bool) bool {
	// Mailbox    = Local-part "@" ( Domain / address-literal )
	// Local-part = Dot-string / Quoted-string
	local, domain, ok := splitMailbox(s)
	if !ok {
		return false
	}

	if !idn {
		for i := 0; i < len(s); i++ {
			if s[i]&0x80 != 0 {
				return false
			}
		}
	}

	if strings.HasPrefix(local, `"`) {
		if !isQuotedLocal(local) {
			return false
		}
	} else if !isDotString(local, idn) {
		return false
	}

	if strings.HasPrefix(domain, "[") {
		return isAddressLiteral(domain)
	}
	return isValidHostname(domain, idn)
}

// splitMailbox splits a mailbox at the separating '@',
// skipping any '@' inside a quoted local part.
func splitMailbox(s string) (local, domain string, ok bool) {
	if strings.HasPrefix(s, `"`) {
		// Find the closing quote, honoring backslash escapes.
		for i := 1; i < len(s); i++ {
			switch s[i] {
			case '\\':
				i++
			case '"':
				if i+1 >= len(s) || s[i+1] != '@' {
					return "", "", false
				}
				return s[:i+1], s[i+2:], true
			}
		}
		return "", "", false
	}
	idx := strings.LastIndexByte(s, '@')
	if idx <= 0 || idx == len(s)-1 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}

// isDotString checks an unquoted local part: atoms joined by single
// dots, with no leading or trailing dot.
func isDotString(local string, idn bool) bool {
	if local == "" || local[0] == '.' || local[len(local)-1] == '.' || strings.Contains(local, "..") {
		return false
	}
	for _, r := range local {
		if r == '.' {
			continue
		}
		if r >= 0x80 {
			if idn {
				continue
			}
			return false
		}
		if !isAtext(byte(r)) {
			return false
		}
	}
	return true
}

// isAtext reports whether c may appear in an RFC 5321 atom.
func isAtext(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$%&'*+-/=?^_`{|}~", c) >= 0
}

// isQuotedLocal checks a quoted local part, including the quotes.
func isQuotedLocal(local string) bool {
	if len(local) < 2 || local[0] != '"' || local[len(local)-1] != '"' {
		return false
	}
	inner := local[1 : len(local)-1]
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case c == '\\':
			// quoted-pairSMTP: backslash followed by any
			// ASCII graphic or space.
			i++
			if i >= len(inner) || inner[i] < 32 || inner[i] > 126 {
				return false
			}
		case c == '"':
			return false
		case c < 32 || c > 126:
			return false
		}
	}
	return true
}

// isAddressLiteral checks a bracketed address literal:
// [IPv4], [IPv6:addr].
func isAddressLiteral(domain string) bool {
	if len(domain) < 2 || domain[0] != '[' || domain[len(domain)-1] != ']' {
		return false
	}
	inner := domain[1 : len(domain)-1]
	if v6, ok := strings.CutPrefix(inner, "IPv6:"); ok {
		addr, err := netip.ParseAddr(v6)
		return err == nil && addr.Is6() && addr.Zone() == ""
	}
	addr, err := netip.ParseAddr(inner)
	return err == nil && addr.Is4()
}
