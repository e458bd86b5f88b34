package engine

// state is a phase of one completion invocation.
//
// State Machine Overview:
//
//	stateIdle ──► stateQueryBuilt ──► stateCandidatesFetched
//	  │                ▲                │
//	  │ (empty query)  │                ├─(candidates)──► stateSelected ──► apply, loop back to stateIdle
//	  │                │                │                   (continuation threshold, omni off)
//	  │                └── stateOmniRetry ◄─(none, omni available)
//	  │                        │
//	  └──────────► stateNoMatch ◄─(none, omni exhausted or disabled)
//
// stateSelected ends the invocation instead of looping when the picker is
// cancelled or continuation is disabled. stateNoMatch is terminal.
type state int

const (
	stateIdle state = iota
	stateQueryBuilt
	stateCandidatesFetched
	stateSelected
	stateOmniRetry
	stateNoMatch
)

// String returns a human-readable name for the state
func (s state) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateQueryBuilt:
		return "QueryBuilt"
	case stateCandidatesFetched:
		return "CandidatesFetched"
	case stateSelected:
		return "Selected"
	case stateOmniRetry:
		return "OmniRetry"
	case stateNoMatch:
		return "NoMatch"
	default:
		return "Unknown"
	}
}
