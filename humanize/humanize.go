// Package humanize formats and parses byte counts in binary (IEC) units.
package humanize

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
	TiB = 1024 * GiB
)

func BPS(bps uint64) string {
	return Bytes(bps) + "/s"
}

func Bytes(bytes uint64) string {
	switch {
	case bytes >= TiB:
		return fmt.Sprintf("%.4g TiB", float64(bytes)/TiB)
	case bytes >= GiB:
		return fmt.Sprintf("%.4g GiB", float64(bytes)/GiB)
	case bytes >= MiB:
		return fmt.Sprintf("%.f MiB", float64(bytes)/MiB)
	case bytes >= KiB:
		return fmt.Sprintf("%.f KiB", float64(bytes)/KiB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

var suffixes = []struct {
	suffix string
	mult   uint64
}{
	// longest first, so that "GiB" is not matched as "B"
	{"tib", TiB}, {"gib", GiB}, {"mib", MiB}, {"kib", KiB},
	{"tb", TiB}, {"gb", GiB}, {"mb", MiB}, {"kb", KiB},
	{"t", TiB}, {"g", GiB}, {"m", MiB}, {"k", KiB},
	{"b", 1},
}

// ParseBytes parses sizes such as "1G", "512MiB", "1.5 GB" or "4096".
// All units are binary: "1G", "1GB" and "1GiB" are all 1<<30 bytes.
func ParseBytes(s string) (uint64, error) {
	ss := strings.ToLower(strings.TrimSpace(s))
	if ss == "" {
		return 0, fmt.Errorf("empty size")
	}
	mult := uint64(1)
	for _, sf := range suffixes {
		if strings.HasSuffix(ss, sf.suffix) {
			mult = sf.mult
			ss = strings.TrimSpace(strings.TrimSuffix(ss, sf.suffix))
			break
		}
	}
	if n, err := strconv.ParseUint(ss, 10, 64); err == nil {
		if n > ^uint64(0)/mult {
			return 0, fmt.Errorf("size %q overflows", s)
		}
		return n * mult, nil
	}
	v, err := strconv.ParseFloat(ss, 64)
	if err != nil || !(v >= 0) {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	bytes := v * float64(mult)
	if bytes >= float64(^uint64(0)) {
		return 0, fmt.Errorf("size %q overflows", s)
	}
	return uint64(bytes), nil
}
