package installer

// Stage is a step of an install run.
type Stage int

const (
	StageStart Stage = iota
	StageValidated
	StageDirectoryEnsured
	StageCommandConstructed
	StageDelegated
	StageSucceeded
	StageFailed
)

var stageNames = [...]string{
	StageStart:              "start",
	StageValidated:          "validated",
	StageDirectoryEnsured:   "directory-ensured",
	StageCommandConstructed: "command-constructed",
	StageDelegated:          "delegated",
	StageSucceeded:          "succeeded",
	StageFailed:             "failed",
}

// String implements fmt.Stringer.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Terminal reports whether no further transition follows s.
func (s Stage) Terminal() bool {
	return s == StageSucceeded || s == StageFailed
}
