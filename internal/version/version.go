// ABOUTME: Version constants for the waveplay player
// ABOUTME: Reported in logs and the mDNS advertisement
package version

const (
	// Version is the player software version
	Version = "0.1.0"

	// Product is the product name reported to remote clients
	Product = "Waveplay"

	// Manufacturer identifies the project
	Manufacturer = "Waveplay Project"
)
