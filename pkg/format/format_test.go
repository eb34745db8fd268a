// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDate(t *testing.T) {
	valid := []string{"2023-01-31", "2024-02-29", "0000-01-01"}
	invalid := []string{"2023-02-29", "2023-13-01", "2023-00-10", "2023-1-01", "20230101", "2023-01-32", "2023-01-0a"}
	for _, s := range valid {
		assert.True(t, IsDate(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsDate(s), s)
	}
}

func TestTime(t *testing.T) {
	valid := []string{
		"12:00:00Z",
		"23:59:59+01:00",
		"00:00:00.123456-08:00",
		"23:59:60Z",
		"15:59:60-08:00",
	}
	invalid := []string{
		"24:00:00Z",
		"12:60:00Z",
		"12:00:61Z",
		"12:00:00",
		"22:59:60Z",
		"12:00:00.Z",
		"12:00:00+24:00",
	}
	for _, s := range valid {
		assert.True(t, IsTime(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsTime(s), s)
	}
}

func TestDateTime(t *testing.T) {
	assert.True(t, IsDateTime("2023-06-01T12:30:00Z"))
	assert.True(t, IsDateTime("2023-06-01t12:30:00z"))
	assert.False(t, IsDateTime("2023-06-01 12:30:00Z"))
	assert.False(t, IsDateTime("2023-06-01T25:30:00Z"))
}

func TestDuration(t *testing.T) {
	valid := []string{"P1Y", "P1Y2M3D", "PT1H30M", "P1DT12H", "P4W", "PT0S", "P0D"}
	invalid := []string{"P", "PT", "P1W2D", "P1D2Y", "1Y", "P1S", "PT1D", "P-1D", "pt"}
	for _, s := range valid {
		assert.True(t, IsDuration(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsDuration(s), s)
	}
}

func TestEmail(t *testing.T) {
	valid := []string{
		"joe@example.com",
		"a.b-c_d@example.co.uk",
		`"quoted string"@example.com`,
		`"with\"escape"@example.com`,
		"user@[192.168.0.1]",
		"user@[IPv6:::1]",
	}
	invalid := []string{
		".lead@example.com",
		"trail.@example.com",
		"two..dots@example.com",
		"no-at-sign",
		"@example.com",
		"user@",
		"user@exa_mple.com",
		"bücher@example.com",
	}
	for _, s := range valid {
		assert.True(t, IsEmail(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsEmail(s), s)
	}

	assert.True(t, IsIDNEmail("bücher@example.com"))
	assert.False(t, IsIDNEmail("two..dots@example.com"))
}

func TestHostname(t *testing.T) {
	valid := []string{"example.com", "a.b-c.d", "localhost", "xn--nxasmq6b.example"}
	invalid := []string{
		"-leading.example",
		"trailing-.example",
		"under_score.example",
		".leading.dot",
		"trailing.dot.",
		"toolong." + string(make([]byte, 300)),
		"exämple.com",
	}
	for _, s := range valid {
		assert.True(t, IsHostname(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsHostname(s), s)
	}

	assert.True(t, IsIDNHostname("bücher.example"))
	assert.False(t, IsIDNHostname("under_score.example"))
}

func TestIP(t *testing.T) {
	assert.True(t, IsIPv4("192.168.0.1"))
	assert.False(t, IsIPv4("256.1.1.1"))
	assert.False(t, IsIPv4("::1"))
	assert.True(t, IsIPv6("::1"))
	assert.True(t, IsIPv6("2001:db8::8a2e:370:7334"))
	assert.False(t, IsIPv6("192.168.0.1"))
	assert.False(t, IsIPv6("fe80::1%eth0"))
}

func TestURI(t *testing.T) {
	assert.True(t, IsURI("https://example.com/path?q=1#frag"))
	assert.True(t, IsURI("urn:isbn:0451450523"))
	assert.False(t, IsURI("/relative/path"))
	assert.False(t, IsURI("https://example.com/äöü"))
	assert.True(t, IsURIReference("/relative/path"))
	assert.False(t, IsURIReference("bad%zz"))
	assert.True(t, IsIRI("https://example.com/äöü"))
	assert.True(t, IsIRIReference("/äöü"))
}

func TestURITemplate(t *testing.T) {
	valid := []string{
		"http://example.com/~{username}/",
		"http://example.com/search{?q,lang}",
		"http://example.com/dictionary/{term:1}/{term}",
		"plain-no-expressions",
		"{+path}/here",
		"{/list*}",
	}
	invalid := []string{
		"http://example.com/{unclosed",
		"http://example.com/}stray",
		"{}",
		"{a..b}",
		"{term:}",
		"{bad name}",
	}
	for _, s := range valid {
		assert.True(t, IsURITemplate(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsURITemplate(s), s)
	}
}

func TestUUID(t *testing.T) {
	assert.True(t, IsUUID("2eb8aa08-aa98-11ea-b4aa-73b441d16380"))
	assert.True(t, IsUUID("2EB8AA08-AA98-11EA-B4AA-73B441D16380"))
	assert.False(t, IsUUID("2eb8aa08aa9811eab4aa73b441d16380"))
	assert.False(t, IsUUID("urn:uuid:2eb8aa08-aa98-11ea-b4aa-73b441d16380"))
	assert.False(t, IsUUID("2eb8aa08-aa98-11ea-b4aa-73b441d1638g"))
}

func TestJSONPointerFormats(t *testing.T) {
	assert.True(t, IsJSONPointer(""))
	assert.True(t, IsJSONPointer("/a/b~0c/~1"))
	assert.False(t, IsJSONPointer("a/b"))
	assert.False(t, IsJSONPointer("/bad~2escape"))

	assert.True(t, IsRelativeJSONPointer("0"))
	assert.True(t, IsRelativeJSONPointer("1/a"))
	assert.True(t, IsRelativeJSONPointer("2#"))
	assert.False(t, IsRelativeJSONPointer("01/a"))
	assert.False(t, IsRelativeJSONPointer("#"))
	assert.False(t, IsRelativeJSONPointer("1a"))
}

func TestRegexFormat(t *testing.T) {
	assert.True(t, IsRegex("^ab+c$"))
	assert.False(t, IsRegex("(unclosed"))
	assert.False(t, IsRegex(`\a`))
}

func TestRegistryLookup(t *testing.T) {
	r := Default()
	assert.False(t, r.Lookup("uuid")("nope"))
	// Unknown names always pass.
	assert.True(t, r.Lookup("no-such-format")("anything"))
}
