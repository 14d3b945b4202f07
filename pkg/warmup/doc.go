// Package warmup populates a cache ahead of user need.
//
// A warming pass is a set of [Task] values, each naming a cache key and
// the fetch function that produces its value. [Run] sorts tasks by
// descending priority and issues them concurrently, so total wall time
// approaches the slowest individual fetch rather than the sum. Passes
// are all-settled: a failing task is logged and reported in its
// [Result], and never aborts the others.
//
//	results := warmup.Run(ctx, store, []warmup.Task{
//	    {Key: "user:u1:profile", Priority: 100, TTL: 10 * time.Minute, Fetch: fetchProfile},
//	    {Key: "meditation:schedules:u1", Priority: 80, TTL: 5 * time.Minute, Fetch: fetchSchedules},
//	})
//
// [Orchestrator] composes independent per-domain task providers and
// warms them all for a user with one call. Concurrent WarmUser calls
// for the same user share a single in-flight pass, so several UI
// components triggering warming around login cause no redundant
// traffic. [Scheduler] re-runs the orchestrator on a cron schedule to
// keep long-lived sessions warm.
package warmup
