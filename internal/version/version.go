package version

// Version is the current version of the peerlink relay.
// This value can be overridden at build time using:
//
//	go build -ldflags="-X 'github.com/BioHazard786/peerlink/internal/version.Version=v1.0.0'"
var Version = "dev"
