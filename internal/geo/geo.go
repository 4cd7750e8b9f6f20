// Package geo resolves heuristic locations for mesh nodes. Resolution is
// best-effort: every resolver returns a valid Location, with the Unknown
// sentinel in any field it cannot fill. An all-Unknown result is a terminal
// value, not an error.
package geo

import (
	"net"
	"regexp"
	"strings"
	"time"

	"tsdash/internal/model"
)

// FromRelay resolves a relay identifier (e.g. "fra", "derp-nyc") against
// the fixed relay code table.
func FromRelay(relay string) model.Location {
	r := strings.ToLower(strings.TrimSpace(relay))
	if r == "" {
		return model.UnknownLocation()
	}
	for _, rc := range relayCodes {
		if strings.Contains(r, rc.Code) {
			return rc.location()
		}
	}
	return model.UnknownLocation()
}

// FromEndpoint classifies the host part of an endpoint address. Only
// private and link-local ranges are recognized (region "Local"); public-IP
// geolocation is not implemented and yields Unknown.
func FromEndpoint(endpoint string) model.Location {
	host := endpoint
	if h, _, err := net.SplitHostPort(endpoint); err == nil {
		host = h
	}
	ip := net.ParseIP(strings.Trim(host, "[]"))
	if ip == nil {
		return model.UnknownLocation()
	}
	if ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLoopback() {
		loc := model.UnknownLocation()
		loc.Region = "Local"
		loc.Country = "Private"
		return loc
	}
	return model.UnknownLocation()
}

// FromHostname matches city/country fragments in an advertised hostname.
func FromHostname(hostname string) model.Location {
	h := strings.ToLower(strings.TrimSpace(hostname))
	if h == "" {
		return model.UnknownLocation()
	}
	// Fragments are matched against the name with separators squeezed out,
	// so "new-york-laptop" still hits "newyork".
	squeezed := strings.NewReplacer("-", "", "_", "", ".", "", " ", "").Replace(h)
	for _, hint := range hostnameHints {
		if strings.Contains(squeezed, hint.Fragment) {
			return hint.location()
		}
	}
	return model.UnknownLocation()
}

// Resolve combines the relay, endpoint, and hostname resolvers in priority
// order for a peer node. Later resolvers only fill fields still at their
// Unknown sentinel; the hostname hint is merged only when it resolves a
// real country.
func Resolve(relay string, endpoints []string, hostname string) model.Location {
	var loc model.Location
	if relay != "" {
		loc = FromRelay(relay)
	} else {
		loc = model.UnknownLocation()
		if len(endpoints) > 0 {
			loc = FromEndpoint(endpoints[0])
		}
	}
	if hint := FromHostname(hostname); hint.Country != model.Unknown {
		loc = merge(loc, hint)
	}
	return loc
}

var netcheckLabels = map[string]*regexp.Regexp{
	"region":  regexp.MustCompile(`(?mi)^\s*\*?\s*Region:\s*(.+)$`),
	"country": regexp.MustCompile(`(?mi)^\s*\*?\s*Country:\s*(.+)$`),
	"city":    regexp.MustCompile(`(?mi)^\s*\*?\s*City:\s*(.+)$`),
}

// FromNetcheck extracts Region:/Country:/City: labels from free-text
// diagnostic output. Unmatched labels stay Unknown.
func FromNetcheck(text string) model.Location {
	loc := model.UnknownLocation()
	if m := netcheckLabels["region"].FindStringSubmatch(text); m != nil {
		loc.Region = strings.TrimSpace(m[1])
	}
	if m := netcheckLabels["country"].FindStringSubmatch(text); m != nil {
		loc.Country = strings.TrimSpace(m[1])
	}
	if m := netcheckLabels["city"].FindStringSubmatch(text); m != nil {
		loc.City = strings.TrimSpace(m[1])
	}
	return loc
}

// FromTimezone derives a coarse location from an IANA zone name like
// "Europe/Berlin": the area becomes the region hint and the city part has
// underscores restored to spaces.
func FromTimezone(tz string) model.Location {
	loc := model.UnknownLocation()
	if tz == "" {
		return loc
	}
	loc.Timezone = tz
	parts := strings.SplitN(tz, "/", 2)
	if len(parts) == 2 {
		loc.Region = strings.ReplaceAll(parts[1], "_", " ")
	}
	return loc
}

// ResolveSelf builds the local node's location from diagnostic output,
// falling back to the process timezone when the text resolves nothing.
func ResolveSelf(netcheckText string) model.Location {
	loc := FromNetcheck(netcheckText)
	if loc.Region != model.Unknown || loc.City != model.Unknown || loc.Country != model.Unknown {
		if loc.Timezone == model.Unknown {
			if zone, _ := time.Now().Zone(); zone != "" {
				loc.Timezone = zone
			}
		}
		return loc
	}
	if name, err := localZoneName(); err == nil && name != "" {
		return FromTimezone(name)
	}
	return loc
}

func localZoneName() (string, error) {
	loc := time.Now().Location()
	if loc == nil {
		return "", nil
	}
	return loc.String(), nil
}

// merge fills Unknown fields of base from hint.
func merge(base, hint model.Location) model.Location {
	if base.City == model.Unknown {
		base.City = hint.City
	}
	if base.Country == model.Unknown {
		base.Country = hint.Country
	}
	if base.CountryCode == model.UnknownCode {
		base.CountryCode = hint.CountryCode
	}
	if base.Region == model.Unknown {
		base.Region = hint.Region
	}
	return base
}
