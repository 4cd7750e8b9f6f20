// Package netdiag gathers self diagnostics: the free-text netcheck report
// from the external tool plus a STUN-derived public address and NAT class.
// Results degrade field by field; a diagnostics failure never propagates
// as an error to the presentation layer.
package netdiag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pion/stun/v3"
	"github.com/sirupsen/logrus"

	"tsdash/internal/geo"
	"tsdash/internal/model"
)

const (
	NATTypeUnknown          = "unknown"
	NATTypeSymmetric        = "symmetric"
	NATTypeConeOrRestricted = "cone_or_restricted"
)

// Report is one diagnostics snapshot for the local node.
type Report struct {
	Raw        string
	Location   model.Location
	PublicAddr string
	NATType    string
}

// NetcheckSource returns the raw diagnostic text from the external tool.
type NetcheckSource interface {
	Netcheck(ctx context.Context) (string, error)
}

// Checker runs the diagnostics round.
type Checker struct {
	source      NetcheckSource
	stunServers []string
	timeout     time.Duration
	logger      logrus.FieldLogger
}

func NewChecker(source NetcheckSource, stunServers []string, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		source:      source,
		stunServers: stunServers,
		timeout:     timeout,
		logger:      logrus.WithField("service", "netdiag"),
	}
}

// Check runs netcheck and, when STUN servers are configured, a public
// address probe. Every field falls back to a sentinel on failure.
func (c *Checker) Check(ctx context.Context) Report {
	rep := Report{Location: model.UnknownLocation(), NATType: NATTypeUnknown}

	raw, err := c.source.Netcheck(ctx)
	if err != nil {
		c.logger.Debugf("netcheck failed: %v", err)
	}
	rep.Raw = raw
	rep.Location = geo.ResolveSelf(raw)

	if len(c.stunServers) > 0 {
		addr, nat, err := c.probeSTUN(ctx)
		if err != nil {
			c.logger.Debugf("stun probe failed: %v", err)
		} else {
			rep.PublicAddr = addr
			rep.NATType = nat
		}
	}
	return rep
}

// SelfLocation is the topology builder's self-location hook.
func (c *Checker) SelfLocation(ctx context.Context) model.Location {
	return c.Check(ctx).Location
}

// probeSTUN queries every configured server. NAT type is inferred from
// mapped-address agreement across servers: differing mappings indicate a
// symmetric NAT.
func (c *Checker) probeSTUN(ctx context.Context) (string, string, error) {
	results := make([]string, 0, len(c.stunServers))
	var lastErr error
	for _, server := range c.stunServers {
		addr, err := c.probeServer(ctx, server)
		if err != nil {
			lastErr = err
			continue
		}
		results = append(results, addr)
	}
	if len(results) == 0 {
		if lastErr == nil {
			lastErr = fmt.Errorf("stun probe failed")
		}
		return "", NATTypeUnknown, lastErr
	}
	return results[0], classify(results), nil
}

func classify(addrs []string) string {
	if len(addrs) < 2 {
		return NATTypeUnknown
	}
	for _, addr := range addrs[1:] {
		if addr != addrs[0] {
			return NATTypeSymmetric
		}
	}
	return NATTypeConeOrRestricted
}

func (c *Checker) probeServer(ctx context.Context, server string) (string, error) {
	uriStr := strings.TrimSpace(server)
	if uriStr == "" {
		return "", fmt.Errorf("empty STUN server")
	}
	if !strings.HasPrefix(uriStr, "stun:") {
		uriStr = "stun:" + uriStr
	}

	uri, err := stun.ParseURI(uriStr)
	if err != nil {
		return "", err
	}

	client, err := stun.DialURI(uri, &stun.DialConfig{})
	if err != nil {
		return "", err
	}
	defer client.Close()

	msg := stun.MustBuild(stun.TransactionID, stun.BindingRequest)
	result := make(chan stun.XORMappedAddress, 1)
	fail := make(chan error, 1)

	go func() {
		var addr stun.XORMappedAddress
		err := client.Do(msg, func(res stun.Event) {
			if res.Error != nil {
				fail <- res.Error
				return
			}
			if err := addr.GetFrom(res.Message); err != nil {
				fail <- err
				return
			}
			result <- addr
		})
		if err != nil {
			fail <- err
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	select {
	case addr := <-result:
		return addr.String(), nil
	case err := <-fail:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
