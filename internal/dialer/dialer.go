package dialer

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/wireward/go-h1/internal/http"
)

// CoreDialer opens one plain TCP connection per request. it resolves
// the dial target from the request URL authority, falling back to the
// scheme's well-known port.
type CoreDialer struct {
	ResolveConfig *ResolveConfig
}

// Default is the dialer used when a client has none injected.
var Default http.Dialer = &CoreDialer{}

var zeroDialer net.Dialer
var customDnsDialer = net.Dialer{
	Resolver: &customServerResolver,
}

func (d *CoreDialer) Clone() *CoreDialer {
	return &CoreDialer{
		ResolveConfig: d.ResolveConfig.Clone(),
	}
}

func (d *CoreDialer) Unwrap() http.Dialer {
	return nil
}

func (d *CoreDialer) Dial(ctx context.Context, r *http.PreparedRequest) (io.ReadWriteCloser, error) {
	addr, port := r.U.Host, http.DefaultPort(r.U.Scheme)
	if add, prt, err := net.SplitHostPort(addr); err == nil {
		addr, port = add, prt
	}
	if port == "" {
		return nil, errors.New("no port to dial for scheme " + r.U.Scheme)
	}

	network, dialer, dialctx, dst := "tcp", &zeroDialer, ctx, net.JoinHostPort(addr, port)
	if cfg := d.ResolveConfig; cfg != nil {
		if cfg.Network == "ip4" {
			network = "tcp4"
		} else if cfg.Network == "ip6" {
			network = "tcp6"
		}
		if static, ok := cfg.StaticHosts[addr]; ok {
			dst = net.JoinHostPort(static, port)
		}
		if dns := cfg.CustomDNSServer; dns != "" {
			dialctx = dnsServerCtx{dialctx, dns}
			dialer = &customDnsDialer
		}
	}
	return dialer.DialContext(dialctx, network, dst)
}
