package netutil

import (
	"net"
)

// MustParseCIDRs parses the configured admin allowlist into []*net.IPNet;
// invalid entries are ignored rather than locking the operator out.
func MustParseCIDRs(cidrs []string) (out []*net.IPNet) {
	for _, s := range cidrs {
		_, n, err := net.ParseCIDR(s)
		if err == nil && n != nil { out = append(out, n) }
	}
	return
}
