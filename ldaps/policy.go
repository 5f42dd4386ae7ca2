package ldaps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"
)

// FetchPasswordPolicy reads the default domain password policy from the
// naming-context head object. Fine-grained password policies (PSOs) are
// not consulted.
func (c *Client) FetchPasswordPolicy(ctx context.Context) (*PasswordPolicy, error) {
	base, err := c.ResolveBaseDN(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := c.dialAndBind(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	pol, err := fetchPolicy(conn, base)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("password policy fetch failed", zap.Error(err), zap.String("base", base))
		}
		return nil, err
	}

	if c.logger != nil {
		c.logger.Info("password policy fetched",
			zap.String("base", base),
			zap.Bool("expires", pol.MaxPasswordAge != nil),
		)
	}
	return pol, nil
}

func fetchPolicy(conn searcher, baseDN string) (*PasswordPolicy, error) {
	searchReq := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		1,
		10, // time limit in seconds
		false,
		"(objectClass=*)",
		[]string{"maxPwdAge", "minPwdLength", "pwdHistoryLength", "lockoutThreshold"},
		nil,
	)

	sr, err := conn.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("password policy search failed: %w", err)
	}
	if len(sr.Entries) == 0 {
		return nil, fmt.Errorf("no entry found at %s", baseDN)
	}
	entry := sr.Entries[0]

	raw := entry.GetAttributeValue("maxPwdAge")
	if raw == "" {
		return nil, fmt.Errorf("%s has no maxPwdAge attribute; not a domain object, or the bind account cannot read it", baseDN)
	}
	maxAge, err := parseNegativeInterval(raw)
	if err != nil {
		return nil, fmt.Errorf("bad maxPwdAge on %s: %w", baseDN, err)
	}

	return &PasswordPolicy{
		MaxPasswordAge:        maxAge,
		MinPasswordLength:     intAttr(entry, "minPwdLength"),
		PasswordHistoryLength: intAttr(entry, "pwdHistoryLength"),
		LockoutThreshold:      intAttr(entry, "lockoutThreshold"),
	}, nil
}

// intAttr reads a small integer attribute, treating absence or garbage
// as zero; these fields are advisory report-header material only.
func intAttr(entry *ldap.Entry, name string) int {
	n, _ := strconv.Atoi(entry.GetAttributeValue(name))
	return n
}
