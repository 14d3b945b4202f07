// Package haven is a client-side caching layer for the guidance app
// backend: an in-memory store with TTL and version gating, wildcard
// invalidation, a bounded operation journal with derived metrics, and
// a concurrent cache warmer that fills a user's working set at login.
//
// The root package wires everything from one config:
//
//	cfg, _ := config.Load("haven.yaml")
//	client, err := haven.New(ctx, cfg, apiclient.StaticTokenProvider(token))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	_ = client.WarmUser(ctx, userID)
//	profile, err := client.Stores().Profile.Get(ctx, userID)
//
// Every layer is also usable on its own: pkg/cache is a standalone
// store, pkg/warmup a standalone warmer, pkg/monitor the journal-to-
// sink bridge and debug HTTP handler.
package haven
