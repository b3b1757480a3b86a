// Package testutil provides test doubles shared by the workflow packages.
//
// FakeService is a scripted transcription.Service that counts every call,
// so tests can assert that rejected uploads never reach the network and
// that a settled poller stops fetching:
//
//	svc := testutil.NewFakeService("job-1",
//		testutil.Processing(40),
//		testutil.Succeeded(segments...),
//	)
//
// Start runs a component for the duration of a test:
//
//	testutil.Start(t, store)
package testutil
