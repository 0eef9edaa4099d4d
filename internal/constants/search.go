package constants

const (
	// Candidate grid: every start/duration within ±SearchMaxShift minutes of the
	// current value, in SearchStep minute increments.
	SearchMaxShift = 15
	SearchStep     = 5

	// Hard caps on the backtracking search. Zero disables a cap.
	DefaultMaxCandidates  = 5000
	DefaultMaxEvaluations = 250000

	// ChangePenalty is added to a candidate's score once per changed activity.
	ChangePenalty = 10
)
