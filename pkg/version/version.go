// Package version implements structured version numbers used for the
// configuration minVersion gate. Parsing is deliberately forgiving: garbage
// parses as the zero version, which always compares lowest.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var versionPattern = regexp.MustCompile(`^(\d{1,5})(?:\.(\d{1,5})(?:\.(\d{1,5})(?:\.(\d{1,5}))?)?)?`)

// Number is a structured dotted version with up to four groups
// (major.minor.revision.build).
type Number struct {
	parts [4]int
}

// None is the zero version, produced by parsing the empty string.
var None = Number{}

// Parse reads a dotted version string. Missing groups are zero; strings
// that do not start with a digit parse as None. Trailing suffixes such as
// pre-release tags are ignored.
func Parse(s string) Number {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return None
	}

	var n Number
	for i := 0; i < 4; i++ {
		if m[i+1] == "" {
			break
		}
		part, err := strconv.Atoi(m[i+1])
		if err != nil {
			break
		}
		n.parts[i] = part
	}
	return n
}

// Compare returns -1, 0 or 1 as n is lower than, equal to, or higher than o.
func (n Number) Compare(o Number) int {
	for i := 0; i < 4; i++ {
		if n.parts[i] < o.parts[i] {
			return -1
		}
		if n.parts[i] > o.parts[i] {
			return 1
		}
	}
	return 0
}

// IsZero reports whether the number is the zero version.
func (n Number) IsZero() bool {
	return n == None
}

// String renders the version, trimming trailing zero groups down to
// major.minor.
func (n Number) String() string {
	if n.parts[3] != 0 {
		return fmt.Sprintf("%d.%d.%d.%d", n.parts[0], n.parts[1], n.parts[2], n.parts[3])
	}
	if n.parts[2] != 0 {
		return fmt.Sprintf("%d.%d.%d", n.parts[0], n.parts[1], n.parts[2])
	}
	return fmt.Sprintf("%d.%d", n.parts[0], n.parts[1])
}
