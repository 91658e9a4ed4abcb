package common

// AuthorizationHeaderName carries the session token as "Bearer <token>".
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in the Authorization header.
const BearerPrefix = "Bearer "
