// Package workers runs the client's background jobs.
//
// A Worker is started with a context and runs until the context is cancelled
// or Stop is called. Workers groups several of them behind one Start/Stop
// pair.
package workers

import "context"

// Worker is a background job.
type Worker interface {
	// Start launches the job. Starting a running worker restarts it.
	Start(ctx context.Context)

	// Stop cancels the job and waits for it to exit. Safe to call on a
	// stopped worker.
	Stop()
}

// Syncer is the part of the inventory service the sync worker drives.
type Syncer interface {
	SyncOfflineData(ctx context.Context) error
}
