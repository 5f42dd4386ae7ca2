package ldaps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"
)

// ErrOUNotFound means no organizational unit matched the given name or DN.
var ErrOUNotFound = errors.New("organizational unit not found")

// FindOU resolves an organizational unit by name, or verifies it when
// the caller already passed a DN. The returned DN becomes the search
// base for a scoped user query.
func (c *Client) FindOU(ctx context.Context, name string) (string, error) {
	base, err := c.ResolveBaseDN(ctx)
	if err != nil {
		return "", err
	}

	conn, err := c.dialAndBind(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	dn, err := findOU(conn, base, name)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("ou lookup failed", zap.String("name", name), zap.Error(err))
		}
		return "", err
	}

	if c.logger != nil {
		c.logger.Info("ou resolved", zap.String("name", name), zap.String("dn", dn))
	}
	return dn, nil
}

func findOU(conn searcher, baseDN, name string) (string, error) {
	if strings.Contains(name, "=") {
		return verifyOUDN(conn, name)
	}

	searchReq := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 30, false,
		fmt.Sprintf("(&(objectClass=organizationalUnit)(ou=%s))", ldap.EscapeFilter(name)),
		[]string{"ou"},
		nil,
	)

	sr, err := conn.Search(searchReq)
	if err != nil {
		return "", fmt.Errorf("ldap search failed: %w", err)
	}

	switch len(sr.Entries) {
	case 0:
		return "", fmt.Errorf("ou %q: %w", name, ErrOUNotFound)
	case 1:
		return sr.Entries[0].DN, nil
	default:
		return "", fmt.Errorf("ou %q matches %s: %w", name, candidateList(sr.Entries), ErrAmbiguousName)
	}
}

func verifyOUDN(conn searcher, dn string) (string, error) {
	searchReq := ldap.NewSearchRequest(
		dn,
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		1, 30, false,
		"(objectClass=organizationalUnit)",
		[]string{"ou"},
		nil,
	)

	sr, err := conn.Search(searchReq)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return "", fmt.Errorf("ou %q: %w", dn, ErrOUNotFound)
		}
		return "", fmt.Errorf("ldap search failed: %w", err)
	}
	if len(sr.Entries) == 0 {
		return "", fmt.Errorf("object %q is not an organizational unit: %w", dn, ErrOUNotFound)
	}
	return sr.Entries[0].DN, nil
}
