// Package version holds the headfuzz release version. It is overridden
// at build time via -ldflags "-X github.com/maxvaer/headfuzz/pkg/version.Version=...".
package version

// Version is the current headfuzz version.
var Version = "dev"
