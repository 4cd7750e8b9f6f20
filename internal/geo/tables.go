package geo

import "tsdash/internal/model"

type entry struct {
	City        string
	Country     string
	CountryCode string
	Region      string
}

// relayCodes maps DERP-style relay identifiers (airport codes) to locations.
// Matched by substring, first hit wins; declaration order is the match order.
var relayCodes = []struct {
	Code string
	entry
}{
	{"nyc", entry{"New York City", "USA", "US", "North America"}},
	{"sfo", entry{"San Francisco", "USA", "US", "North America"}},
	{"sea", entry{"Seattle", "USA", "US", "North America"}},
	{"dfw", entry{"Dallas", "USA", "US", "North America"}},
	{"ord", entry{"Chicago", "USA", "US", "North America"}},
	{"hou", entry{"Houston", "USA", "US", "North America"}},
	{"iad", entry{"Ashburn", "USA", "US", "North America"}},
	{"lax", entry{"Los Angeles", "USA", "US", "North America"}},
	{"mia", entry{"Miami", "USA", "US", "North America"}},
	{"den", entry{"Denver", "USA", "US", "North America"}},
	{"hnl", entry{"Honolulu", "USA", "US", "North America"}},
	{"tor", entry{"Toronto", "Canada", "CA", "North America"}},
	{"fra", entry{"Frankfurt", "Germany", "DE", "Europe"}},
	{"lhr", entry{"London", "UK", "GB", "Europe"}},
	{"ams", entry{"Amsterdam", "Netherlands", "NL", "Europe"}},
	{"par", entry{"Paris", "France", "FR", "Europe"}},
	{"mad", entry{"Madrid", "Spain", "ES", "Europe"}},
	{"waw", entry{"Warsaw", "Poland", "PL", "Europe"}},
	{"blr", entry{"Bangalore", "India", "IN", "Asia Pacific"}},
	{"sin", entry{"Singapore", "Singapore", "SG", "Asia Pacific"}},
	{"syd", entry{"Sydney", "Australia", "AU", "Asia Pacific"}},
	{"tok", entry{"Tokyo", "Japan", "JP", "Asia Pacific"}},
	{"hkg", entry{"Hong Kong", "Hong Kong", "HK", "Asia Pacific"}},
	{"sao", entry{"São Paulo", "Brazil", "BR", "South America"}},
	{"jnb", entry{"Johannesburg", "South Africa", "ZA", "Africa"}},
	{"nai", entry{"Nairobi", "Kenya", "KE", "Africa"}},
	{"dbi", entry{"Dubai", "UAE", "AE", "Middle East"}},
}

// hostnameHints maps city/country fragments in advertised hostnames to
// locations. Substring match, first hit wins.
var hostnameHints = []struct {
	Fragment string
	entry
}{
	{"london", entry{"London", "UK", "GB", "Europe"}},
	{"paris", entry{"Paris", "France", "FR", "Europe"}},
	{"berlin", entry{"Berlin", "Germany", "DE", "Europe"}},
	{"frankfurt", entry{"Frankfurt", "Germany", "DE", "Europe"}},
	{"amsterdam", entry{"Amsterdam", "Netherlands", "NL", "Europe"}},
	{"madrid", entry{"Madrid", "Spain", "ES", "Europe"}},
	{"dublin", entry{"Dublin", "Ireland", "IE", "Europe"}},
	{"stockholm", entry{"Stockholm", "Sweden", "SE", "Europe"}},
	{"zurich", entry{"Zurich", "Switzerland", "CH", "Europe"}},
	{"warsaw", entry{"Warsaw", "Poland", "PL", "Europe"}},
	{"tokyo", entry{"Tokyo", "Japan", "JP", "Asia Pacific"}},
	{"seoul", entry{"Seoul", "South Korea", "KR", "Asia Pacific"}},
	{"singapore", entry{"Singapore", "Singapore", "SG", "Asia Pacific"}},
	{"sydney", entry{"Sydney", "Australia", "AU", "Asia Pacific"}},
	{"mumbai", entry{"Mumbai", "India", "IN", "Asia Pacific"}},
	{"hongkong", entry{"Hong Kong", "Hong Kong", "HK", "Asia Pacific"}},
	{"newyork", entry{"New York City", "USA", "US", "North America"}},
	{"nyc", entry{"New York City", "USA", "US", "North America"}},
	{"seattle", entry{"Seattle", "USA", "US", "North America"}},
	{"chicago", entry{"Chicago", "USA", "US", "North America"}},
	{"dallas", entry{"Dallas", "USA", "US", "North America"}},
	{"miami", entry{"Miami", "USA", "US", "North America"}},
	{"toronto", entry{"Toronto", "Canada", "CA", "North America"}},
	{"saopaulo", entry{"São Paulo", "Brazil", "BR", "South America"}},
	{"dubai", entry{"Dubai", "UAE", "AE", "Middle East"}},
	{"nairobi", entry{"Nairobi", "Kenya", "KE", "Africa"}},
}

func (e entry) location() model.Location {
	loc := model.UnknownLocation()
	loc.City = e.City
	loc.Country = e.Country
	loc.CountryCode = e.CountryCode
	loc.Region = e.Region
	return loc
}
