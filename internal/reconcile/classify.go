package reconcile

import "fmt"

// Compare reduces a pair of probes to a single Comparison.
//
// Type mismatches are checked before presence and timestamps, so a symlink or
// directory on either side is never resolved by timestamp logic.
func Compare(src, tgt Probe) Comparison {
	switch {
	case src.Present && !src.IsFile:
		return SourceNotAFile
	case tgt.Present && !tgt.IsFile:
		return TargetNotAFile
	case src.Absent():
		return SourceAbsent
	case tgt.Absent():
		return TargetAbsent
	case src.ModTime.After(tgt.ModTime):
		return SourceNewer
	case src.ModTime.Before(tgt.ModTime):
		return TargetNewer
	default:
		return SameTimestamp
	}
}

// Decide maps a Comparison to an Outcome for name.
func Decide(sourceDir, targetDir, name string, c Comparison, ignores NameSet) Outcome {
	out := Outcome{Name: name}
	switch c {
	case SourceNotAFile:
		out.Action = Fail
		out.Reason = fmt.Sprintf("%s/%s is not a plain file", sourceDir, name)
	case TargetNotAFile:
		out.Action = Fail
		out.Reason = fmt.Sprintf("%s/%s is not a plain file", targetDir, name)
	case SourceAbsent:
		// Whatever is at target is stale. Fires even when target is absent too.
		out.Action = Delete
	case TargetAbsent:
		if ignores.Has(name) {
			out.Action = None
		} else {
			out.Action = Copy
		}
	case SourceNewer:
		out.Action = Copy
	case TargetNewer:
		out.Action = Fail
		out.Reason = fmt.Sprintf("%s/%s is newer than %s/%s", targetDir, name, sourceDir, name)
	case SameTimestamp:
		out.Action = None
	default:
		out.Action = Fail
		out.Reason = fmt.Sprintf("internal error: unknown comparison %d for %s", int(c), name)
	}
	return out
}

// Classify combines Compare and Decide.
func Classify(sourceDir, targetDir, name string, src, tgt Probe, ignores NameSet) Outcome {
	return Decide(sourceDir, targetDir, name, Compare(src, tgt), ignores)
}
