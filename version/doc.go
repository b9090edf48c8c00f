// Package version reports the build version of the relay binary.
//
// Values are injected at link time and fall back to the VCS stamps the Go
// toolchain records in the binary:
//
//	go build -ldflags "-X github.com/kbukum/chatrelay/version.Version=1.2.0 \
//	    -X github.com/kbukum/chatrelay/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/relay
package version
