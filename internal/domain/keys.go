package domain

type CtxKey string

const (
	KeySession   CtxKey = "Session"
	KeyRequestID CtxKey = "RequestID"
	KeyCSRFToken CtxKey = "CSRFToken"
)
