package middleware

import (
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ParseNetworks turns the configured denylist into network ranges. Bare
// IPs are treated as single-address networks.
func ParseNetworks(entries []string) ([]*net.IPNet, error) {
	networks := make([]*net.IPNet, 0, len(entries))

	for _, entry := range entries {
		if ip := net.ParseIP(entry); ip != nil {
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}

			networks = append(networks, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}

		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid network %q, %w", entry, err)
		}

		networks = append(networks, network)
	}

	return networks, nil
}

// ResolveAddr turns the caller's host into an IP. Resolution failures
// fall back to loopback so a broken resolver never blocks a request.
func ResolveAddr(host string) net.IP {
	if ip := net.ParseIP(host); ip != nil {
		return ip
	}

	addrs, err := net.LookupIP(host)
	if err != nil || len(addrs) == 0 {
		return net.IPv4(127, 0, 0, 1)
	}

	return addrs[0]
}

// Denied reports whether ip falls inside any of the given networks.
func Denied(ip net.IP, networks []*net.IPNet) bool {
	for _, network := range networks {
		if network.Contains(ip) {
			return true
		}
	}

	return false
}

// NewOriginFilter rejects callers whose resolved address falls inside a
// denylisted network. Runs before any other check on every endpoint.
func NewOriginFilter() gin.HandlerFunc {
	networks, err := ParseNetworks(viper.GetStringSlice("origin.denylist"))
	if err != nil {
		// Config validation catches this at startup
		zap.L().Error("Failed to parse origin denylist", zap.Error(err))
	}

	return func(c *gin.Context) {
		ip := ResolveAddr(c.ClientIP())

		if Denied(ip, networks) {
			zap.L().Debug("Rejected denylisted origin", zap.String("ip", ip.String()))

			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "forbidden_origin",
			})
			return
		}

		c.Next()
	}
}
