// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// idPattern matches new-style arXiv identifiers in dotted or dashed form,
// with an optional "arXiv:" prefix and an optional version suffix:
// "1706.03762", "1706-03762", "arXiv:1706.03762v3".
var idPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4})[.-](\d{4,5})(?:v(\d+))?$`)

// Parse validates an arXiv identifier and returns its canonical dotted
// form plus the version number, or 0 when no version was given. Dotted
// and dashed inputs are equivalent.
func Parse(raw string) (id string, version int, err error) {
	m := idPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", 0, fmt.Errorf("unrecognized arXiv identifier: %q", raw)
	}
	if m[3] != "" {
		version, _ = strconv.Atoi(m[3])
	}
	return m[1] + "." + m[2], version, nil
}

// DirName converts a dotted identifier to the dashed form used for
// filesystem directories and reference keys ("1706.03762" -> "1706-03762").
func DirName(id string) string {
	return strings.Replace(id, ".", "-", 1)
}

// Dotted converts a dashed identifier back to the dotted form used in
// arxiv.org URLs.
func Dotted(id string) string {
	return strings.Replace(id, "-", ".", 1)
}

// AbsURL returns the abstract page URL carrying the submission history.
func AbsURL(id string) string {
	return AbsBase + id
}

// EPrintURL returns the source archive URL for one version of a paper.
func EPrintURL(id string, version int) string {
	return fmt.Sprintf("%s%sv%d", EPrintBase, id, version)
}
