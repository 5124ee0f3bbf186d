// ABOUTME: mDNS advertisement for the remote-control endpoint
// ABOUTME: Publishes _waveplay._tcp so remotes can find the player
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/hashicorp/mdns"
	"github.com/waveplay/waveplay-go/internal/version"
)

// serviceType identifies waveplay players on the local network
const serviceType = "_waveplay._tcp"

// Config holds advertisement configuration
type Config struct {
	// PlayerName is the instance name shown to browsers
	PlayerName string

	// Port is the remote-control listen port
	Port int
}

// Advertiser publishes the player via mDNS
type Advertiser struct {
	config Config
	ctx    context.Context
	cancel context.CancelFunc
}

// NewAdvertiser creates an advertiser
func NewAdvertiser(config Config) *Advertiser {
	ctx, cancel := context.WithCancel(context.Background())
	return &Advertiser{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Advertise publishes the service until Stop is called
func (a *Advertiser) Advertise() error {
	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		a.config.PlayerName,
		serviceType,
		"",
		"",
		a.config.Port,
		ips,
		[]string{
			"path=/waveplay",
			fmt.Sprintf("version=%s", version.Version),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising mDNS service: %s on port %d (type: %s)",
		a.config.PlayerName, a.config.Port, serviceType)

	go func() {
		<-a.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Stop withdraws the advertisement
func (a *Advertiser) Stop() {
	a.cancel()
}

// getLocalIPs returns local non-loopback IPv4 addresses
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
