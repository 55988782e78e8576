package model

// Decision is the outcome of a policy evaluation.
type Decision string

const (
	Allow Decision = "allow"
	Block Decision = "block"
)

// Mode selects the overall enforcement posture.
type Mode string

const (
	// ModeBlocklist allows by default; only protected paths are restricted.
	ModeBlocklist Mode = "blocklist"
	// ModeWhitelist denies by default; only safe-zone paths are permitted.
	ModeWhitelist Mode = "whitelist"
)

// ParseMode maps a string to a Mode. Unknown values fall back to blocklist,
// the permissive default.
func ParseMode(s string) Mode {
	if s == string(ModeWhitelist) {
		return ModeWhitelist
	}
	return ModeBlocklist
}

// Level is the protection level attached to a protected path.
type Level string

const (
	// LevelBlock denies every operation touching the path.
	LevelBlock Level = "block"
	// LevelReadOnly denies writes only.
	LevelReadOnly Level = "read_only"
)

// ParseLevel maps a string to a Level. Unknown values fall back to block,
// the stricter reading of a protected entry.
func ParseLevel(s string) Level {
	if s == string(LevelReadOnly) {
		return LevelReadOnly
	}
	return LevelBlock
}

// Verdict is the result of evaluating one request: the decision plus its
// human-readable justification. Produced fresh per evaluation, never mutated.
type Verdict struct {
	Decision Decision `json:"decision"`
	Reason   string   `json:"reason"`
}

// Allowed reports whether the verdict permits the operation.
func (v Verdict) Allowed() bool {
	return v.Decision == Allow
}

// AllowVerdict builds an allow verdict with the given reason.
func AllowVerdict(reason string) Verdict {
	return Verdict{Decision: Allow, Reason: reason}
}

// BlockVerdict builds a block verdict with the given reason.
func BlockVerdict(reason string) Verdict {
	return Verdict{Decision: Block, Reason: reason}
}
