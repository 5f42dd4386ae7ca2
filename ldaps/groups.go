package ldaps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"
)

var (
	// ErrGroupNotFound means no group matched the given name or DN.
	ErrGroupNotFound = errors.New("group not found")
	// ErrAmbiguousName means more than one object matched a short name.
	ErrAmbiguousName = errors.New("name matches more than one object")
)

// FindGroup resolves a group by common name, or verifies it when the
// caller already passed a DN (anything containing '=').
func (c *Client) FindGroup(ctx context.Context, name string) (*Group, error) {
	base, err := c.ResolveBaseDN(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := c.dialAndBind(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	group, err := findGroup(conn, base, name)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("group lookup failed", zap.String("name", name), zap.Error(err))
		}
		return nil, err
	}

	if c.logger != nil {
		c.logger.Info("group resolved", zap.String("name", name), zap.String("dn", group.DN))
	}
	return group, nil
}

func findGroup(conn searcher, baseDN, name string) (*Group, error) {
	if strings.Contains(name, "=") {
		return verifyGroupDN(conn, name)
	}

	esc := ldap.EscapeFilter(name)
	searchReq := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 30, false,
		fmt.Sprintf("(&(objectClass=group)(|(cn=%s)(sAMAccountName=%s)))", esc, esc),
		[]string{"cn", "distinguishedName"},
		nil,
	)

	sr, err := conn.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("ldap search failed: %w", err)
	}

	switch len(sr.Entries) {
	case 0:
		return nil, fmt.Errorf("group %q: %w", name, ErrGroupNotFound)
	case 1:
		entry := sr.Entries[0]
		return &Group{DN: entry.DN, CN: entry.GetAttributeValue("cn")}, nil
	default:
		return nil, fmt.Errorf("group %q matches %s: %w", name, candidateList(sr.Entries), ErrAmbiguousName)
	}
}

// candidateList renders ambiguous match DNs for error messages.
func candidateList(entries []*ldap.Entry) string {
	dns := make([]string, 0, len(entries))
	for _, e := range entries {
		dns = append(dns, e.DN)
	}
	return strings.Join(dns, "; ")
}

// verifyGroupDN reads the object at dn to confirm it exists and really
// is a group.
func verifyGroupDN(conn searcher, dn string) (*Group, error) {
	searchReq := ldap.NewSearchRequest(
		dn,
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		1, 30, false,
		"(objectClass=group)",
		[]string{"cn"},
		nil,
	)

	sr, err := conn.Search(searchReq)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return nil, fmt.Errorf("group %q: %w", dn, ErrGroupNotFound)
		}
		return nil, fmt.Errorf("ldap search failed: %w", err)
	}
	if len(sr.Entries) == 0 {
		return nil, fmt.Errorf("object %q is not a group: %w", dn, ErrGroupNotFound)
	}

	entry := sr.Entries[0]
	return &Group{DN: entry.DN, CN: entry.GetAttributeValue("cn")}, nil
}
