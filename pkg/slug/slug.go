// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// Posts carry a slug derived from their title (e.g., "Hello, Wörld!" becomes
// "hello-world"). Slugs are informational and are not required to be unique.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds a generated slug; longer results are cut at a hyphen when possible.
const MaxLength = 220

var (
	separators  = regexp.MustCompile(`[^a-z0-9]+`)
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Pipeline
//
//  1. NFD-normalize and strip combining marks (é → e).
//  2. Lowercase.
//  3. Replace every run of non [a-z0-9] characters with a single hyphen.
//  4. Trim hyphens and bound the result to [MaxLength].
func From(s string) string {
	stripMarks := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(stripMarks, s)
	if err != nil {
		result = s
	}

	result = strings.ToLower(result)
	result = separators.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLength {
		result = result[:MaxLength]
		if cut := strings.LastIndexByte(result, '-'); cut > 0 {
			result = result[:cut]
		}
		result = strings.Trim(result, "-")
	}

	return result
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
