// Package resolve turns a server string into an IPv4 socket address.
//
// A server is written host[:port]. When no port is given the resolver may
// consult the _minecraft._tcp SRV record of the host, and otherwise falls
// back to the default game port.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/rs/zerolog/log"

	"github.com/blockwire/blockwire/pkg/proto"
)

// SRVService is the service label queried for server records.
const SRVService = "_minecraft._tcp."

// DefaultTimeout bounds a single DNS exchange.
const DefaultTimeout = 3 * time.Second

// ErrNoAddress is returned when a host has no IPv4 address.
var ErrNoAddress = errors.New("resolve: no IPv4 address")

// Target is a parsed server string.
type Target struct {
	Host string
	Port uint16
	// PortSet reports whether the port was written explicitly.
	PortSet bool
}

// Parse splits a host[:port] server string.
func Parse(server string) (Target, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return Target{}, fmt.Errorf("empty server address")
	}

	host, portStr, err := net.SplitHostPort(server)
	if err != nil {
		// No port: the whole string is the host, unless it is malformed.
		if strings.Contains(server, ":") && !strings.HasPrefix(server, "[") {
			if _, perr := netip.ParseAddr(server); perr != nil {
				return Target{}, fmt.Errorf("parse server %q: %w", server, err)
			}
		}
		return Target{Host: strings.Trim(server, "[]"), Port: proto.DefaultPort}, nil
	}
	if host == "" {
		return Target{}, fmt.Errorf("parse server %q: missing host", server)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return Target{}, fmt.Errorf("parse server %q: invalid port %q", server, portStr)
	}
	return Target{Host: host, Port: uint16(port), PortSet: true}, nil
}

// Resolver locates servers. The zero value resolves through the system
// resolver and never consults SRV records.
type Resolver struct {
	// SRV enables _minecraft._tcp lookups for servers without a port.
	SRV bool
	// Nameserver is the host:port queried with DNS. Empty uses the first
	// server in /etc/resolv.conf for SRV lookups and the system resolver
	// for addresses.
	Nameserver string
	// Timeout bounds each DNS exchange; zero selects DefaultTimeout.
	Timeout time.Duration
}

// Locate parses server and applies SRV lookup when enabled. It returns the
// host and port to connect to.
func (r *Resolver) Locate(ctx context.Context, server string) (string, uint16, error) {
	t, err := Parse(server)
	if err != nil {
		return "", 0, err
	}
	if !r.SRV || t.PortSet || isLiteral(t.Host) {
		return t.Host, t.Port, nil
	}

	host, port, err := r.lookupSRV(ctx, t.Host)
	if err != nil {
		log.Debug().Err(err).Str("host", t.Host).Msg("no SRV record, using host directly")
		return t.Host, t.Port, nil
	}
	log.Debug().
		Str("host", t.Host).
		Str("target", host).
		Uint16("port", port).
		Msg("resolved SRV record")
	return host, port, nil
}

// Resolve returns the IPv4 address of host joined with port.
func (r *Resolver) Resolve(ctx context.Context, host string, port uint16) (netip.AddrPort, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		addr = addr.Unmap()
		if !addr.Is4() {
			return netip.AddrPort{}, fmt.Errorf("%w: %s is not IPv4", ErrNoAddress, host)
		}
		return netip.AddrPortFrom(addr, port), nil
	}

	var addrs []netip.Addr
	var err error
	if r.Nameserver != "" {
		addrs, err = r.lookupA(ctx, host)
	} else {
		addrs, err = net.DefaultResolver.LookupNetIP(ctx, "ip4", host)
	}
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("lookup %s: %w", host, err)
	}
	for _, a := range addrs {
		if a = a.Unmap(); a.Is4() {
			return netip.AddrPortFrom(a, port), nil
		}
	}
	return netip.AddrPort{}, fmt.Errorf("%w: %s", ErrNoAddress, host)
}

func (r *Resolver) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultTimeout
}

func (r *Resolver) nameserver() (string, error) {
	if r.Nameserver != "" {
		return r.Nameserver, nil
	}
	cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil {
		return "", fmt.Errorf("read resolv.conf: %w", err)
	}
	if len(cfg.Servers) == 0 {
		return "", fmt.Errorf("no nameserver configured")
	}
	return net.JoinHostPort(cfg.Servers[0], cfg.Port), nil
}

func (r *Resolver) exchange(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	server, err := r.nameserver()
	if err != nil {
		return nil, err
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.RecursionDesired = true

	c := &dns.Client{Net: "udp", Timeout: r.timeout()}
	resp, _, err := c.ExchangeContext(ctx, m, server)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("query %s: %s", name, dns.RcodeToString[resp.Rcode])
	}
	return resp, nil
}

func (r *Resolver) lookupSRV(ctx context.Context, host string) (string, uint16, error) {
	resp, err := r.exchange(ctx, SRVService+host, dns.TypeSRV)
	if err != nil {
		return "", 0, err
	}

	var records []*dns.SRV
	for _, rr := range resp.Answer {
		if srv, ok := rr.(*dns.SRV); ok && srv.Target != "." {
			records = append(records, srv)
		}
	}
	if len(records) == 0 {
		return "", 0, fmt.Errorf("query %s%s: no SRV answer", SRVService, host)
	}
	// Lowest priority first, heaviest weight within a priority.
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Priority != records[j].Priority {
			return records[i].Priority < records[j].Priority
		}
		return records[i].Weight > records[j].Weight
	})
	best := records[0]
	return strings.TrimSuffix(best.Target, "."), best.Port, nil
}

func (r *Resolver) lookupA(ctx context.Context, host string) ([]netip.Addr, error) {
	resp, err := r.exchange(ctx, host, dns.TypeA)
	if err != nil {
		return nil, err
	}
	var out []netip.Addr
	for _, rr := range resp.Answer {
		if a, ok := rr.(*dns.A); ok {
			if addr, ok := netip.AddrFromSlice(a.A.To4()); ok {
				out = append(out, addr)
			}
		}
	}
	return out, nil
}

func isLiteral(host string) bool {
	_, err := netip.ParseAddr(host)
	return err == nil
}
