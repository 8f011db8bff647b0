package handler

type ContextKey string

var (
	SessionIDCtx ContextKey = "sessionID"
)
