package version

// Build information set by ldflags
var (
	Version = "0.8.4"   // Set by goreleaser: -X github.com/weft-dev/weft/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/weft-dev/weft/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/weft-dev/weft/internal/version.Date={{.Date}}
)
