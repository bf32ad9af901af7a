package env

import (
	"strings"

	"github.com/weft-dev/weft/pkg/errors"
)

// CompatibilityLevel is a named version-compatibility tier constraining
// which transformation semantics are honoured. Levels order naturally; each
// level additionally declares how far back it can still support old
// semantics and how far it is willing to be elevated.
type CompatibilityLevel int

const (
	LevelJava6 CompatibilityLevel = iota
	LevelJava7
	LevelJava8
	LevelJava9
	LevelJava10
	LevelJava11
)

// DefaultCompatibilityLevel is the level a fresh session starts at.
const DefaultCompatibilityLevel = LevelJava6

var levelNames = map[string]CompatibilityLevel{
	"JAVA_6":  LevelJava6,
	"JAVA_7":  LevelJava7,
	"JAVA_8":  LevelJava8,
	"JAVA_9":  LevelJava9,
	"JAVA_10": LevelJava10,
	"JAVA_11": LevelJava11,
}

// supportFloor is the oldest level each level can still honour the
// semantics of. Levels from Java 9 onward drop support for pre-Java 8
// semantics.
var supportFloor = map[CompatibilityLevel]CompatibilityLevel{
	LevelJava6:  LevelJava6,
	LevelJava7:  LevelJava6,
	LevelJava8:  LevelJava6,
	LevelJava9:  LevelJava8,
	LevelJava10: LevelJava8,
	LevelJava11: LevelJava8,
}

// maxElevation is the highest level each level permits elevation to. The
// pre-Java 8 levels refuse to elevate past Java 8 since the class metadata
// they were verified against is absent above it.
var maxElevation = map[CompatibilityLevel]CompatibilityLevel{
	LevelJava6:  LevelJava8,
	LevelJava7:  LevelJava8,
	LevelJava8:  LevelJava11,
	LevelJava9:  LevelJava11,
	LevelJava10: LevelJava11,
	LevelJava11: LevelJava11,
}

// LevelForName resolves a compatibility level by name (case-insensitive).
func LevelForName(name string) (CompatibilityLevel, error) {
	level, ok := levelNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return DefaultCompatibilityLevel, errors.Newf(errors.ErrInvalidInput,
			"unknown compatibility level '%s'", name)
	}
	return level, nil
}

// String returns the level name.
func (l CompatibilityLevel) String() string {
	for name, level := range levelNames {
		if level == l {
			return name
		}
	}
	return "UNKNOWN"
}

// IsAtLeast reports whether the level is the same as or newer than other.
func (l CompatibilityLevel) IsAtLeast(other CompatibilityLevel) bool {
	return l >= other
}

// CanSupport reports whether the level can still honour the semantics of
// the (older or equal) other level.
func (l CompatibilityLevel) CanSupport(other CompatibilityLevel) bool {
	return other >= supportFloor[l] && other <= l
}

// CanElevateTo reports whether this level permits elevating the active
// level up to other.
func (l CompatibilityLevel) CanElevateTo(other CompatibilityLevel) bool {
	return other <= maxElevation[l]
}
