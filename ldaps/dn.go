package ldaps

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// TopLevelOU returns the organizational unit closest to the domain root
// in dn, or "" when the entry lives outside any OU (plain containers
// such as CN=Users). ldap.ParseDN handles escaped separators, so an OU
// named "Sales, EMEA" does not split the walk.
func TopLevelOU(dn string) string {
	parsed, err := ldap.ParseDN(dn)
	if err != nil {
		return ""
	}

	top := ""
	for _, rdn := range parsed.RDNs {
		for _, attr := range rdn.Attributes {
			switch strings.ToUpper(attr.Type) {
			case "OU":
				top = attr.Value
			case "DC":
				// domain components follow the OU chain; the walk is done
				return top
			}
		}
	}
	return top
}

func parseDCParts(baseDN string) []string {
	parts := strings.Split(baseDN, ",")
	var dcParts []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(strings.ToLower(p), "dc=") {
			if len(p) > 3 {
				dcParts = append(dcParts, p[3:])
			}
		}
	}
	return dcParts
}

// DomainName renders the dc components of a base DN as a dotted domain
// name, e.g. "dc=corp,dc=example,dc=com" -> "corp.example.com".
func DomainName(baseDN string) string {
	return strings.Join(parseDCParts(baseDN), ".")
}
