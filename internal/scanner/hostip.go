package scanner

import (
	"context"
	"net"
	"os"

	"github.com/RMahshie/wifiscope/pkg/models"
)

// lookupIP is swapped out in tests
var lookupIP = localIP

// localIP resolves the host name, preferring a non-loopback IPv4 address and
// falling back to the first usable interface address.
func localIP(ctx context.Context) string {
	if hostname, err := os.Hostname(); err == nil {
		if addrs, err := net.DefaultResolver.LookupIPAddr(ctx, hostname); err == nil {
			if ip := pickIPv4(addrs, false); ip != "" {
				return ip
			}
		}
	}

	ifaceAddrs, err := net.InterfaceAddrs()
	if err != nil {
		return models.UnavailableIP
	}
	var addrs []net.IPAddr
	for _, a := range ifaceAddrs {
		if n, ok := a.(*net.IPNet); ok {
			addrs = append(addrs, net.IPAddr{IP: n.IP})
		}
	}
	if ip := pickIPv4(addrs, true); ip != "" {
		return ip
	}
	return models.UnavailableIP
}

func pickIPv4(addrs []net.IPAddr, allowLoopback bool) string {
	var loopback string
	for _, a := range addrs {
		v4 := a.IP.To4()
		if v4 == nil {
			continue
		}
		if v4.IsLoopback() {
			if loopback == "" {
				loopback = v4.String()
			}
			continue
		}
		return v4.String()
	}
	if allowLoopback {
		return loopback
	}
	return ""
}
