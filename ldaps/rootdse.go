package ldaps

import (
	"context"
	"fmt"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"
)

// ResolveBaseDN returns the domain base DN, reading defaultNamingContext
// from the RootDSE the first time when the config left it empty.
func (c *Client) ResolveBaseDN(ctx context.Context) (string, error) {
	if c.baseDN != "" {
		return c.baseDN, nil
	}

	conn, err := c.dialAndBind(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	base, err := readDefaultNamingContext(conn)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("rootdse read failed", zap.Error(err))
		}
		return "", err
	}

	if c.logger != nil {
		c.logger.Info("base dn discovered", zap.String("base", base))
	}
	c.baseDN = base
	return base, nil
}

func readDefaultNamingContext(conn searcher) (string, error) {
	searchReq := ldap.NewSearchRequest(
		"", // RootDSE
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		0,
		10, // time limit in seconds
		false,
		"(objectClass=*)",
		[]string{"defaultNamingContext"},
		nil,
	)

	sr, err := conn.Search(searchReq)
	if err != nil {
		return "", fmt.Errorf("rootdse search failed: %w", err)
	}
	if len(sr.Entries) == 0 {
		return "", fmt.Errorf("server returned no RootDSE entry")
	}

	base := sr.Entries[0].GetAttributeValue("defaultNamingContext")
	if base == "" {
		return "", fmt.Errorf("server does not publish defaultNamingContext; set LDAP_BASE_DN")
	}
	return base, nil
}
