package usd

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var digitRunRE = regexp.MustCompile(`\d+`)

// ReplacePrintfPadding replaces the frame-number token embedded in a
// filename-like literal with a printf-style padding placeholder of the same
// width: image.1001.exr becomes image.%04d.exr.
//
// The frame number is taken to be the last run of digits before the file
// extension, so version tokens earlier in the name survive untouched
// (render_v002.1001.exr → render_v002.%04d.exr). A trailing all-digit
// segment with no image suffix (beauty.1001) is the frame number, not an
// extension. A literal with no digit
// run, or one that is already normalized, is returned unchanged, making the
// function idempotent.
func ReplacePrintfPadding(literal string) string {
	stem, ext := splitFrameExt(literal)

	start, end := lastFrameRun(stem)
	if start < 0 {
		return literal
	}

	width := end - start
	return stem[:start] + fmt.Sprintf("%%0%dd", width) + stem[end:] + ext
}

// PaddingSize returns the digit width of the frame-number token in filename,
// or 0 when no frame number is present. shot.1001.usd yields 4.
func PaddingSize(filename string) int {
	stem, _ := splitFrameExt(filename)

	start, end := lastFrameRun(stem)
	if start < 0 {
		return 0
	}
	return end - start
}

// splitFrameExt splits literal into stem and extension. An all-digit
// "extension" is a trailing frame number (beauty.1001), not a file suffix,
// and stays in the stem so it can be normalized.
func splitFrameExt(literal string) (stem, ext string) {
	ext = path.Ext(literal)
	if len(ext) > 1 && digitRunRE.FindString(ext[1:]) == ext[1:] {
		ext = ""
	}
	return literal[:len(literal)-len(ext)], ext
}

// lastFrameRun locates the last digit run in s that is not already part of a
// %0<n>d placeholder. Returns (-1, -1) when none exists.
func lastFrameRun(s string) (int, int) {
	runs := digitRunRE.FindAllStringIndex(s, -1)
	for i := len(runs) - 1; i >= 0; i-- {
		start, end := runs[i][0], runs[i][1]
		if partOfPlaceholder(s, start, end) {
			continue
		}
		return start, end
	}
	return -1, -1
}

// partOfPlaceholder reports whether s[start:end] is the width of an existing
// %0<n>d token, e.g. the "04" in "%04d".
func partOfPlaceholder(s string, start, end int) bool {
	return start > 0 && s[start-1] == '%' &&
		end < len(s) && s[end] == 'd' &&
		strings.HasPrefix(s[start:end], "0")
}
