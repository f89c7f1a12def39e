// Package pipeline is the batch orchestrator: it discovers the files to
// upload, assigns each one a target round robin, drives the upload client,
// and applies the delete/move policies and the inter-upload delay.
//
// The run is strictly sequential. Exactly one upload is in flight at a time
// and the delay between files is a blocking sleep, which throttles the load
// placed on the server's transcoding queue.
//
// Entry points:
//   - Run(ctx, opts, deps) → RunStats
//   - Discover(dir) → []string
//   - PrintPlan(log, files, targets, title)
package pipeline
