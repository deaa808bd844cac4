package version

// Version is the embed-gen release. Overridden at build time with
// -ldflags "-X github.com/xll-gen/embed-gen/version.Version=...".
var Version = "v0.1.0"
