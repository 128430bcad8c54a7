package ingest

import (
	"net"
	"net/netip"
	"strings"
)

// firstUsableIP 从候选列表中取第一个能解析成 IP 的地址。
// 候选值可能带端口（对端地址）或多余空白（转发头）。
func firstUsableIP(candidates []string) string {
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}

		if addr, err := netip.ParseAddr(candidate); err == nil {
			return addr.String()
		}

		// "1.2.3.4:5678" / "[::1]:5678"
		if host, _, err := net.SplitHostPort(candidate); err == nil {
			if addr, err := netip.ParseAddr(host); err == nil {
				return addr.String()
			}
		}
	}
	return ""
}
