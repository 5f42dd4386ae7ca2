package ldaps

import (
	"fmt"
	"os"

	"github.com/go-ldap/ldap/v3"
	"github.com/go-ldap/ldif"
)

// WriteLDIF dumps the raw directory entries behind users to an LDIF
// file, for offline inspection of what the server actually returned.
// Users constructed without a directory entry are skipped.
func WriteLDIF(path string, users []User) error {
	entries := make([]*ldap.Entry, 0, len(users))
	for _, u := range users {
		if u.entry == nil {
			continue
		}
		entries = append(entries, u.entry)
	}

	data, err := ldif.ToLDIF(entries)
	if err != nil {
		return fmt.Errorf("build ldif: %w", err)
	}

	text, err := ldif.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal ldif: %w", err)
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write ldif file: %w", err)
	}
	return nil
}
