// Package stores puts the cache in front of the backend API, one store
// per domain: meditation schedules and sessions, chat threads, the user
// profile and backend health.
//
// Every read goes through the cache with a per-domain TTL; every
// mutation calls the API first and then invalidates the key families it
// made stale. Each store also knows how to describe itself as warm
// tasks, so the composite can hand a ready orchestrator to the caller:
//
//	all := stores.New(api, store, stores.WithLogger(log))
//	warmer := all.Warmer()
//	_ = warmer.WarmUser(ctx, userID)
package stores
