// Package version reports the build version of the binary.
//
// Version and Commit are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/audioscript/version.Version=1.2.0"
//
// When Commit is empty it is read from the VCS stamp the Go toolchain
// embeds in the build info.
package version
