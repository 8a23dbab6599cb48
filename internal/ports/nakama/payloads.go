package nakama

// Wire payloads for the match handler. Everything crossing the socket is
// JSON; outcomes and moves travel as their string names so clients never
// depend on internal enum values.

// MatchLabel is the queryable label attached to every match.
type MatchLabel struct {
	Game  string `json:"game"`
	Phase string `json:"phase"`
	Open  int    `json:"open"`
}

// PlayMoveRequest is the client payload for OpPlayMove.
type PlayMoveRequest struct {
	Move string `json:"move"`
}

// SeatState describes one occupant in a MatchStateSnapshot.
type SeatState struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	IsBot       bool   `json:"is_bot"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// MatchStateSnapshot is broadcast after joins and leaves so clients can
// render the table.
type MatchStateSnapshot struct {
	Seats []SeatState `json:"seats"`
	Phase string      `json:"phase"`
	Round int         `json:"round"`
}

// ErrorEvent is sent privately to the offending client.
type ErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ShareTokenRequest is the RPC payload for RpcShareToken.
type ShareTokenRequest struct{}

// ShareTokenResponse carries the minted token.
type ShareTokenResponse struct {
	Token string `json:"token"`
}

// QuickMatchResponse is returned to clients requesting an open match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}
