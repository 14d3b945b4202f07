// Package apiclient is a thin authenticated client for the backend
// REST API.
//
// The client is deliberately transport-only: it knows the /api/v1
// routes, attaches the bearer token from a [TokenProvider] (the auth
// provider is opaque; only the token matters here) and decodes JSON.
// Caching, warming and invalidation live in the stores built on top
// of it.
//
//	api, err := apiclient.New("https://api.example.com", apiclient.StaticTokenProvider("tok"))
//	schedules, err := api.Schedules(ctx, userID)
package apiclient
