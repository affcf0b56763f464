package feegate

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/mintvault/libmintvault-go/token"
)

// DNSResolver defines the interface for registry TXT lookups.
// This allows tests to mock DNS resolution.
type DNSResolver interface {
	// LookupTXT looks up TXT records for the given name.
	LookupTXT(name string) ([]string, error)
}

// defaultDNSResolver wraps the standard net package DNS functions. It does
// not validate DNSSEC; use NewDNSSECResolver for authenticated lookups.
type defaultDNSResolver struct{}

func (d *defaultDNSResolver) LookupTXT(name string) ([]string, error) {
	return net.LookupTXT(name)
}

// DefaultDNSResolver is the plain DNS resolver using the net package.
var DefaultDNSResolver DNSResolver = &defaultDNSResolver{}

const (
	// defaultUpstream is the default recursive resolver for DNSSEC queries.
	defaultUpstream = "8.8.8.8:53"

	// dnssecTimeout is the timeout for DNSSEC queries.
	dnssecTimeout = 10 * time.Second

	// edns0BufSize is the EDNS0 UDP buffer size.
	edns0BufSize = 4096
)

// DNSSECResolver implements DNSResolver with DNSSEC validation.
// It relies on the upstream recursive resolver to perform DNSSEC validation
// and checks the AD (Authenticated Data) flag in responses.
type DNSSECResolver struct {
	// Upstream is the recursive resolver address (e.g., "8.8.8.8:53").
	Upstream string
}

// NewDNSSECResolver creates a new DNSSECResolver.
// If upstream is empty, it defaults to "8.8.8.8:53".
func NewDNSSECResolver(upstream string) *DNSSECResolver {
	if upstream == "" {
		upstream = defaultUpstream
	}
	return &DNSSECResolver{Upstream: upstream}
}

// LookupTXT looks up TXT records with DNSSEC validation.
func (r *DNSSECResolver) LookupTXT(name string) ([]string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeTXT)
	msg.RecursionDesired = true
	msg.SetEdns0(edns0BufSize, true) // DO (DNSSEC OK) flag

	client := &dns.Client{Timeout: dnssecTimeout}
	resp, _, err := client.Exchange(msg, r.Upstream)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s TXT: %w", ErrDNSLookupFailed, name, err)
	}

	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w: query %s TXT: rcode %s",
			ErrDNSLookupFailed, name, dns.RcodeToString[resp.Rcode])
	}

	// Require the AD flag — the recursive resolver validated DNSSEC.
	if !resp.AuthenticatedData {
		return nil, fmt.Errorf("%w: AD flag not set for %s TXT", ErrDNSSECValidationFailed, name)
	}

	var txts []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*dns.TXT); ok {
			// TXT records may be split into multiple strings; join them.
			txts = append(txts, strings.Join(txt.Txt, ""))
		}
	}

	if len(txts) == 0 {
		return nil, fmt.Errorf("%w: no TXT records for %s", ErrDNSLookupFailed, name)
	}

	return txts, nil
}

// DNSRegistry is an AllowOracle backed by a DNS-published operator list.
//
// The registry domain publishes TXT records at _operators.{domain} with an
// "operators=" prefix followed by comma-separated 40-character hex
// addresses, e.g.
//
//	operators=9f3c...b1,aa02...7e
//
// Multiple operators= records are merged.
type DNSRegistry struct {
	domain   string
	resolver DNSResolver
}

// Compile-time interface check.
var _ AllowOracle = (*DNSRegistry)(nil)

// NewDNSRegistry creates a registry for the given domain. A nil resolver
// selects DefaultDNSResolver.
func NewDNSRegistry(domain string, resolver DNSResolver) (*DNSRegistry, error) {
	if domain == "" {
		return nil, fmt.Errorf("%w: empty domain", ErrDNSLookupFailed)
	}
	if resolver == nil {
		resolver = DefaultDNSResolver
	}
	return &DNSRegistry{domain: domain, resolver: resolver}, nil
}

// IsOperatorAllowed resolves the operator list and reports membership.
func (r *DNSRegistry) IsOperatorAllowed(operator token.Address) (bool, error) {
	operators, err := r.Operators()
	if err != nil {
		return false, err
	}
	for _, op := range operators {
		if op == operator {
			return true, nil
		}
	}
	return false, nil
}

// Operators resolves and parses the published operator list.
func (r *DNSRegistry) Operators() ([]token.Address, error) {
	name := "_operators." + r.domain
	txts, err := r.resolver.LookupTXT(name)
	if err != nil {
		return nil, fmt.Errorf("%w: TXT lookup for %s: %w", ErrDNSLookupFailed, name, err)
	}

	const prefix = "operators="
	var operators []token.Address
	found := false
	for _, txt := range txts {
		txt = strings.TrimSpace(txt)
		if !strings.HasPrefix(txt, prefix) {
			continue
		}
		found = true
		for _, field := range strings.Split(strings.TrimPrefix(txt, prefix), ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			addr, err := token.ParseAddress(field)
			if err != nil {
				return nil, fmt.Errorf("feegate: operator record for %s: %w", name, err)
			}
			operators = append(operators, addr)
		}
	}

	if !found {
		return nil, fmt.Errorf("%w: no operators= TXT record for %s", ErrNoOperatorRecord, name)
	}

	return operators, nil
}
