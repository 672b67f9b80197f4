package fetcher

import "fmt"

// Outcome classifies the result of fetching one game.
type Outcome int

const (
	// OutcomeSuccess means the body was received and may be recorded.
	OutcomeSuccess Outcome = iota
	// OutcomeRetryable means this game failed; it stays pending and a later
	// run may succeed.
	OutcomeRetryable
	// OutcomeFatal means continuing the batch cannot succeed (credentials
	// rejected, cancelled, output unwritable).
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the outcome of a single box-score request.
type Result struct {
	GameID     string
	Outcome    Outcome
	StatusCode int
	Body       []byte
	Err        error
}

// OK reports whether the request succeeded.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

func success(gameID string, status int, body []byte) Result {
	return Result{GameID: gameID, Outcome: OutcomeSuccess, StatusCode: status, Body: body}
}

func retryable(gameID string, status int, err error) Result {
	return Result{GameID: gameID, Outcome: OutcomeRetryable, StatusCode: status, Err: err}
}

func fatal(gameID string, status int, err error) Result {
	return Result{GameID: gameID, Outcome: OutcomeFatal, StatusCode: status, Err: err}
}
