package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Names is the decomposition of a server group name under the canonical
// naming grammar application[-stack[-detail]][-vNNN]. The push sequence
// suffix orders groups within a cluster; Sequence is -1 when the name
// carries no suffix.
type Names struct {
	Application string
	Stack       string
	Detail      string
	Sequence    int
}

var sequencePattern = regexp.MustCompile(`-v(\d+)$`)

// ParseServerGroupName splits a server group name into its parts. Parsing
// is total: names that do not follow the grammar yield as many parts as
// can be recovered and a Sequence of -1.
func ParseServerGroupName(name string) Names {
	n := Names{Sequence: -1}
	if name == "" {
		return n
	}
	if m := sequencePattern.FindStringSubmatch(name); m != nil {
		seq, err := strconv.Atoi(m[1])
		if err == nil {
			n.Sequence = seq
			name = strings.TrimSuffix(name, m[0])
		}
	}
	parts := strings.SplitN(name, "-", 3)
	n.Application = parts[0]
	if len(parts) > 1 {
		n.Stack = parts[1]
	}
	if len(parts) > 2 {
		n.Detail = parts[2]
	}
	return n
}

// Cluster returns the cluster name the parts identify, without the
// sequence suffix.
func (n Names) Cluster() string {
	return ClusterName(n.Application, n.Stack, n.Detail)
}

// ClusterName builds a cluster name from its parts. A detail without a
// stack keeps the empty stack segment so the name parses back to the
// same parts.
func ClusterName(application, stack, detail string) string {
	name := application
	if stack != "" {
		name += "-" + stack
	}
	if detail != "" {
		if stack == "" {
			name += "-"
		}
		name += "-" + detail
	}
	return name
}
