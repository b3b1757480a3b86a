// Package poller follows a transcription job until it settles.
//
// A Poller moves through three states:
//
//	idle ──first fetch──▶ polling ──success|error──▶ settled
//
// Fetches are strictly sequential. The next one is scheduled a fixed
// interval after the previous one completes, so two requests for the same
// job are never outstanding at once. A failed fetch is recorded on the
// snapshot and polling continues. Once settled, the poller never fetches
// again and keeps returning the settled snapshot.
//
// Cancellation is cooperative: the poller checks its context before every
// fetch and before scheduling the next one. A fetch already in flight is
// allowed to finish, but its result is discarded.
package poller
