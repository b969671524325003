// Package common contains shared constants and sentinel errors used across
// FlexRent components.
package common

// AuthorizationHeaderName carries the bearer access token on API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// StatementMaxSize is the largest bank statement accepted for analysis.
const StatementMaxSize = 2 << 20
