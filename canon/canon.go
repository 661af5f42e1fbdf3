// Package canon canonicalizes a proof body by stripping a fixed set of UTF-8
// whitespace codepoints from both ends, independently of the Go standard
// library's notion of whitespace (which covers a different codepoint set).
package canon

var skippable1 = map[byte]bool{
	0x09: true, 0x0A: true, 0x0B: true, 0x0C: true, 0x0D: true, 0x20: true,
}

var skippable2 = map[string]bool{
	"\xc2\x85": true, "\xc2\xa0": true,
}

var skippable3 = map[string]bool{
	"\xe1\x9a\x80": true, "\xe1\xa0\x8e": true,
	"\xe2\x80\x80": true, "\xe2\x80\x81": true, "\xe2\x80\x82": true, "\xe2\x80\x83": true,
	"\xe2\x80\x84": true, "\xe2\x80\x85": true, "\xe2\x80\x86": true, "\xe2\x80\x87": true,
	"\xe2\x80\x88": true, "\xe2\x80\x89": true, "\xe2\x80\x8a": true, "\xe2\x80\x8b": true,
	"\xe2\x80\x8c": true, "\xe2\x80\x8d": true,
	"\xe2\x80\xa8": true, "\xe2\x80\xa9": true, "\xe2\x80\xaf": true,
	"\xe2\x81\x9f": true, "\xe2\x81\xa0": true,
	"\xe3\x80\x80": true, "\xe3\xbb\xbf": true,
}

// utf8CharsToSkip reports how many bytes of whitespace codepoint start at
// pos, or 0 if the byte at pos does not begin a whitespace codepoint.
func utf8CharsToSkip(s string, pos int) int {
	c := s[pos]
	switch {
	case c&0x80 == 0:
		if skippable1[c] {
			return 1
		}
	case c == 0xc2 && pos+1 < len(s):
		if skippable2[s[pos:pos+2]] {
			return 2
		}
	case pos+2 < len(s):
		if skippable3[s[pos:pos+3]] {
			return 3
		}
	}
	return 0
}

// TrimBody strips leading and trailing runs of whitespace codepoints from s,
// treating s as raw UTF-8 bytes. Both ends are canonicalized identically so
// a prover and a verifier agree on the hashed body.
func TrimBody(s string) string {
	n := len(s)
	if n == 0 {
		return s
	}

	start := 0
	for start < len(s) {
		skip := utf8CharsToSkip(s, start)
		if skip == 0 {
			break
		}
		start += skip
	}

	end := n - 1
	charBytes := 0
	for end-charBytes >= start {
		idx := end - charBytes
		thisC := s[idx]
		if thisC&0xc0 == 0x80 {
			charBytes++
			continue
		}
		skip := utf8CharsToSkip(s, idx)
		if skip > 0 {
			end -= skip
			charBytes = 0
		} else {
			break
		}
	}

	newLen := end - start + 1
	if newLen <= 0 {
		return ""
	}
	return s[start : start+newLen]
}
