package ldaps

import (
	"testing"

	"github.com/matryer/is"
)

func TestTopLevelOU(t *testing.T) {
	cases := []struct {
		name string
		dn   string
		want string
	}{
		{"single ou", "CN=Jane Doe,OU=Engineering,DC=corp,DC=example,DC=com", "Engineering"},
		{"nested ous pick the one nearest the root", "CN=Jane Doe,OU=Platform,OU=Engineering,DC=corp,DC=example,DC=com", "Engineering"},
		{"users container has no ou", "CN=Bob,CN=Users,DC=corp,DC=example,DC=com", ""},
		{"escaped comma in cn", `CN=Doe\, Jane,OU=Sales,DC=corp,DC=example,DC=com`, "Sales"},
		{"escaped comma in ou", `CN=Jane,OU=Sales\, EMEA,DC=corp,DC=example,DC=com`, "Sales, EMEA"},
		{"lowercase attribute types", "cn=jane,ou=eng,dc=corp,dc=example,dc=com", "eng"},
		{"empty dn", "", ""},
		{"unparseable dn", "not a dn at all,,,=", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(TopLevelOU(tc.dn), tc.want)
		})
	}
}

func TestDomainName(t *testing.T) {
	is := is.New(t)

	is.Equal(DomainName("dc=corp,dc=example,dc=com"), "corp.example.com")
	is.Equal(DomainName("DC=corp, DC=example, DC=com"), "corp.example.com")
	is.Equal(DomainName("ou=Engineering,dc=corp,dc=example,dc=com"), "corp.example.com")
	is.Equal(DomainName("cn=no,cn=domain,cn=components"), "")
}
