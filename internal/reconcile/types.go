package reconcile

import "time"

// Probe is the observed state of one named entry in one directory.
// The zero value means the entry is absent.
type Probe struct {
	Present bool
	IsFile  bool
	ModTime time.Time
}

// Absent reports whether nothing exists at the probed path.
func (p Probe) Absent() bool {
	return !p.Present
}

// Comparison is the fine-grained result of comparing a source and a target
// probe for the same name.
type Comparison int

const (
	SourceNotAFile Comparison = iota
	TargetNotAFile
	SourceAbsent
	TargetAbsent
	SourceNewer
	TargetNewer
	SameTimestamp
)

func (c Comparison) String() string {
	switch c {
	case SourceNotAFile:
		return "SourceNotAFile"
	case TargetNotAFile:
		return "TargetNotAFile"
	case SourceAbsent:
		return "SourceAbsent"
	case TargetAbsent:
		return "TargetAbsent"
	case SourceNewer:
		return "SourceNewer"
	case TargetNewer:
		return "TargetNewer"
	case SameTimestamp:
		return "SameTimestamp"
	default:
		return "Comparison(?)"
	}
}

// Action is what a sync should do for one name.
type Action int

const (
	None Action = iota
	Copy
	Delete
	Fail
)

func (a Action) String() string {
	switch a {
	case None:
		return "None"
	case Copy:
		return "Copy"
	case Delete:
		return "Delete"
	case Fail:
		return "Fail"
	default:
		return "???"
	}
}

// Outcome is the decision for a single name. Reason is set only for Fail.
type Outcome struct {
	Name   string
	Action Action
	Reason string
}

// NameSet is a set of bare file names.
type NameSet map[string]struct{}

// NewNameSet builds a set from names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports membership. A nil set is empty.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union returns the distinct names of all lists, in first-seen order.
func Union(lists ...[]string) []string {
	seen := make(NameSet)
	var out []string
	for _, list := range lists {
		for _, n := range list {
			if seen.Has(n) {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}
