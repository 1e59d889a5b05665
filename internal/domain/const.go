package domain

const (
	BoxCapabilityCtxKey = "artistdb-boxCapability"
	BoxTokenErrorCtxKey = "artistdb-boxTokenError"
)

const (
	BoxTokenQueryParam = "token"
)
