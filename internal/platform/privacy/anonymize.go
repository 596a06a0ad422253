// Package privacy reduces personal data before it reaches logs.
package privacy

import "net/netip"

// AnonymizeIP masks an address to its /24 (IPv4) or /48 (IPv6) network.
// It returns "unknown" for empty input and "invalid" when s does not parse.
func AnonymizeIP(s string) string {
	if s == "" || s == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap().WithZone("")

	bits := 48
	if addr.Is4() {
		bits = 24
	}
	return netip.PrefixFrom(addr, bits).Masked().Addr().String()
}
