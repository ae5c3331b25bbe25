// Package naming derives the canonical names of generated AUTOSAR artifacts.
// Every function is pure: the same inputs always give the same name.
package naming

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
)

var shortName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,127}$`)

// IsShortName reports whether s is a legal AUTOSAR SHORT-NAME.
func IsShortName(s string) bool {
	return shortName.MatchString(s)
}

func accessVerb(t domain.AccessType) string {
	switch t {
	case domain.AccessRead:
		return "Read"
	case domain.AccessWrite:
		return "Write"
	case domain.AccessCall:
		return "Call"
	}
	return ""
}

// SanitizeShortName turns free text such as a project name into a legal SHORT-NAME.
func SanitizeShortName(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "Project"
	}
	if c := out[0]; !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		out = "P_" + out
	}
	if len(out) > 128 {
		out = out[:128]
	}
	return out
}

// AccessPointName builds Rte_{Read|Write|Call}_{swc}_{runnable}.
func AccessPointName(swcName, runnableName string, t domain.AccessType) (string, error) {
	verb := accessVerb(t)
	if verb == "" {
		return "", domain.NewValidationError(domain.KindAccessPoint, "type", fmt.Sprintf("unknown access type %q", t))
	}
	return "Rte_" + verb + "_" + swcName + "_" + runnableName, nil
}

// UniqueName returns base if it is free, otherwise base_2, base_3, ... .
// taken is keyed by lower-cased name.
func UniqueName(base string, taken map[string]bool) string {
	if !taken[strings.ToLower(base)] {
		return base
	}
	for n := 2; ; n++ {
		cand := fmt.Sprintf("%s_%d", base, n)
		if !taken[strings.ToLower(cand)] {
			return cand
		}
	}
}

func InstanceName(swcName string, n int) string {
	return fmt.Sprintf("%s_%d", swcName, n)
}

func ConnectorName(srcInstance, srcPort, tgtInstance, tgtPort string) string {
	return srcInstance + "_" + srcPort + "_To_" + tgtInstance + "_" + tgtPort
}

func InternalBehaviorName(swcName string) string {
	return swcName + "_InternalBehavior"
}

// EventKind names the RTE event that triggers a runnable in the exported behavior.
type EventKind string

const (
	EventInit             EventKind = "IE"
	EventTiming           EventKind = "TE"
	EventDataReceived     EventKind = "DRE"
	EventOperationInvoked EventKind = "OIE"
)

func EventName(kind EventKind, runnableName string) string {
	return string(kind) + "_" + runnableName
}
