package ldaps

import (
	"context"
	"fmt"
	"time"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"
)

// SearchUsers returns every enabled user account within scope, carrying
// the attributes the expiry report needs.
func (c *Client) SearchUsers(ctx context.Context, scope Scope) ([]User, error) {
	base := scope.BaseDN
	if base == "" {
		var err error
		base, err = c.ResolveBaseDN(ctx)
		if err != nil {
			return nil, err
		}
	}

	conn, err := c.dialAndBind(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	start := time.Now()
	users, err := c.searchUsers(conn, base, scope)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("ldap user search failed", zap.Error(err), zap.String("base", base))
		}
		return nil, err
	}

	if c.logger != nil {
		c.logger.Info("user search complete",
			zap.Int("users", len(users)),
			zap.String("base", base),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return users, nil
}

// userFilter builds the enabled-user filter, optionally narrowed to a
// group's membership. 1.2.840.113556.1.4.803 is the bitwise-AND
// matching rule; userAccountControl bit 0x2 marks disabled accounts.
func userFilter(scope Scope) string {
	f := "(&(objectCategory=person)(objectClass=user)(!(userAccountControl:1.2.840.113556.1.4.803:=2))"
	if scope.GroupDN != "" {
		esc := ldap.EscapeFilter(scope.GroupDN)
		if scope.Nested {
			// 1.2.840.113556.1.4.1941 (matching rule in chain) walks
			// nested group membership on the server
			f += fmt.Sprintf("(memberOf:1.2.840.113556.1.4.1941:=%s)", esc)
		} else {
			f += fmt.Sprintf("(memberOf=%s)", esc)
		}
	}
	return f + ")"
}

func (c *Client) searchUsers(conn searcher, baseDN string, scope Scope) ([]User, error) {
	attributes := []string{
		"cn",
		"displayName",
		"sAMAccountName",
		"distinguishedName",
		"mail",
		"pwdLastSet",
		"userAccountControl",
	}

	searchReq := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,   // no client-side size limit
		120, // time limit in seconds
		false,
		userFilter(scope),
		attributes,
		nil,
	)

	sr, err := conn.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("ldap search failed: %w", err)
	}

	users := make([]User, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		u, ok := c.userFromEntry(entry)
		if !ok {
			// disabled account that slipped past the bit filter (servers
			// without matching-rule support)
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

// userFromEntry converts a directory entry to a User. The second return
// is false for accounts the report must drop (disabled). Unparseable
// attribute values are logged and skipped; the row is kept.
func (c *Client) userFromEntry(entry *ldap.Entry) (User, bool) {
	u := User{
		DN:             entry.DN,
		Name:           entry.GetAttributeValue("displayName"),
		SAMAccountName: entry.GetAttributeValue("sAMAccountName"),
		Mail:           entry.GetAttributeValue("mail"),
		entry:          entry,
	}
	if u.DN == "" {
		u.DN = entry.GetAttributeValue("distinguishedName")
	}
	if u.Name == "" {
		u.Name = entry.GetAttributeValue("cn")
	}

	if raw := entry.GetAttributeValue("pwdLastSet"); raw != "" {
		t, err := parseFiletime(raw)
		if err != nil {
			if c.logger != nil {
				c.logger.Warn("bad pwdLastSet value", zap.String("dn", u.DN), zap.String("value", raw), zap.Error(err))
			}
		} else {
			u.PasswordLastSet = t
		}
	}

	if raw := entry.GetAttributeValue("userAccountControl"); raw != "" {
		uac, err := parseUserAccountControl(raw)
		if err != nil {
			if c.logger != nil {
				c.logger.Warn("bad userAccountControl value", zap.String("dn", u.DN), zap.String("value", raw), zap.Error(err))
			}
		} else {
			if accountDisabled(uac) {
				return User{}, false
			}
			u.PasswordNeverExpires = passwordNeverExpires(uac)
		}
	}

	return u, true
}
