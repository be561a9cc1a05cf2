package results

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/kmbench/jobscript"
)

// Key identifies one timing series: a mode, a method and the thread,
// process or node count it ran with.
type Key struct {
	Mode   jobscript.Mode
	Method jobscript.Method
	// Scale is the thread, process or node count; serial runs have 1.
	Scale int
}

func (k Key) String() string {
	return fmt.Sprintf("%s_%s_%d", k.Mode, k.Method, k.Scale)
}

// compression suffixes stripped before parsing a log name.
var compressed = []string{".zst", ".lz4"}

// ParseKey derives the series key from a log file name such as
// "omp_clara_4.txt" or "serial_reg.txt". The name must contain exactly one
// mode token and one method token. The scale is the integer before the
// first dot of the last underscore-separated part, or 1 if there is none.
func ParseKey(name string) (Key, bool) {
	for _, ext := range compressed {
		name = strings.TrimSuffix(name, ext)
	}

	mode, ok := match(name, jobscript.Modes)
	if !ok {
		return Key{}, false
	}
	method, ok := match(name, jobscript.Methods)
	if !ok {
		return Key{}, false
	}

	return Key{Mode: mode, Method: method, Scale: parseScale(name)}, true
}

func match[T ~string](name string, tokens []T) (T, bool) {
	var (
		found T
		n     int
	)
	for _, tok := range tokens {
		if strings.Contains(name, string(tok)) {
			found = tok
			n++
		}
	}
	return found, n == 1
}

func parseScale(name string) int {
	last := name[strings.LastIndexByte(name, '_')+1:]
	last, _, _ = strings.Cut(last, ".")
	scale, err := strconv.Atoi(last)
	if err != nil {
		return 1
	}
	return scale
}
