package ldaps

import (
	"time"

	"github.com/go-ldap/ldap/v3"
)

// User is one enabled directory account as fetched by SearchUsers.
type User struct {
	DN             string
	Name           string
	SAMAccountName string
	Mail           string
	// PasswordLastSet is nil when pwdLastSet is 0, meaning the password
	// must be changed at next logon.
	PasswordLastSet *time.Time
	// PasswordNeverExpires reports the DONT_EXPIRE_PASSWD control flag.
	PasswordNeverExpires bool

	// raw entry kept for LDIF dumps; nil for locally constructed users
	entry *ldap.Entry
}

// PasswordPolicy holds the domain password policy attributes the report uses.
type PasswordPolicy struct {
	// MaxPasswordAge is nil when the domain never expires passwords.
	MaxPasswordAge        *time.Duration
	MinPasswordLength     int
	PasswordHistoryLength int
	LockoutThreshold      int
}

// Group identifies a directory group resolved from user input.
type Group struct {
	DN string
	CN string
}

// Scope narrows SearchUsers to a subtree or to a group's membership.
// The zero value means all enabled users under the domain base.
type Scope struct {
	BaseDN  string // subtree to search; empty means the domain base
	GroupDN string // only members of this group when set
	Nested  bool   // follow nested group membership (matching rule in chain)
}
