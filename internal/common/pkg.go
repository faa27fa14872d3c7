package common

import (
	"path"
	"strings"
)

// UnknownStr is the String() value for out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the identifier a package is referenced by when it is
// imported without an explicit name. Major version suffixes ("/v2", ".v3")
// and a "go-" prefix are dropped, as goimports does.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		base = path.Base(path.Dir(pkgPath))
	}

	if i := strings.Index(base, ".v"); i > 0 && isMajorVersion(base[i+1:]) {
		base = base[:i]
	}

	base = strings.TrimPrefix(base, "go-")

	return strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return -1
		}

		return r
	}, base)
}

// SplitQualified splits "pkg/path.Name" into its package path and name.
// A name without a dot is returned with an empty package path.
func SplitQualified(qualified string) (pkgPath, name string) {
	slash := strings.LastIndex(qualified, "/")

	dot := strings.LastIndex(qualified, ".")
	if dot <= slash {
		return "", qualified
	}

	return qualified[:dot], qualified[dot+1:]
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
