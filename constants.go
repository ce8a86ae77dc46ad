package main

// Route constants
const (
	RouteDailyWord           = "/api/daily-word"
	RouteValidateWord        = "/api/validate-word"
	RouteCalculateSimilarity = "/api/calculate-similarity"
	RouteSaveGameResult      = "/api/save-game-result"
	RouteGiveUp              = "/api/give-up"
	RoutePlayerStatus        = "/api/player-status/:playerId"
	RouteDailyLeaderboard    = "/api/daily-leaderboard"
	RouteHistorical          = "/api/historical-leaderboards"
	RoutePlayerStats         = "/api/player-stats/:playerId"
	RouteHealth              = "/api/health"
	RouteHealthz             = "/healthz"
	RouteMetrics             = "/metrics"
)

// PlayerIDHeader carries the player id when a request has none in its body or path.
const PlayerIDHeader = "X-Player-Id"

// Player-facing messages
const (
	MessageValidWord       = "Giltigt svenskt ord"
	MessageNotInDictionary = "Detta ord finns inte i den svenska ordlistan. Försök igen!"
	MessageGaveUp          = "Du har gett upp för idag. Kom tillbaka imorgon för ett nytt ord!"
	MessageAlreadyPlayed   = "Du har redan spelat för idag"
	MessageCanPlay         = "Du kan spela för idag"
)

// Error message constants
const (
	ErrorInvalidRequest = "Invalid request body"
	ErrorInternal       = "Internal server error"
	ErrorTooManyRequest = "Too many requests. Please slow down."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
