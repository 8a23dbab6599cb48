package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create an
	// open match.
	RpcQuickMatch = "quick_match"

	// RpcShareToken is the Nakama RPC id clients call to mint a signed
	// stat-share token.
	RpcShareToken = "share_token"

	// MatchNameRoshambo is the authoritative match handler name registered
	// with Nakama.
	MatchNameRoshambo = "roshambo_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartMatch    int64 = 1
	OpPlayMove      int64 = 2
	OpResetTraining int64 = 3

	// Server -> Client events
	OpPlayerJoined  int64 = 101
	OpPlayerLeft    int64 = 102
	OpMatchStarted  int64 = 103
	OpRoundResolved int64 = 104
	OpTrainingReset int64 = 105
	OpMatchEnded    int64 = 106
	OpMatchState    int64 = 107
	OpError         int64 = 110
)
