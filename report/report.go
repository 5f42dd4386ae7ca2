// Package report derives password-expiry rows from directory users and
// the domain policy, and renders them to console, CSV, and XLSX.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SyntaxSnafu777/Active-Directory-Query-Password-Expiration/ldaps"
)

const (
	dateLayout = "2006-01-02"

	// rows expiring within this many days get the EXPIRING marker
	warnWindowDays = 14
)

// Row is one report line, fully derived and ready to format.
type Row struct {
	Name           string
	SAMAccountName string
	DN             string
	Mail           string
	TopLevelOU     string

	PasswordLastSet *time.Time
	PasswordExpires *time.Time // nil when the password never expires
	NoExpiry        bool       // account flag or domain policy disables expiry
	MustChange      bool       // pwdLastSet was 0
	DaysLeft        int        // meaningful only when PasswordExpires is set
}

// Meta describes the report for the console header.
type Meta struct {
	Host   string
	Scope  string
	Policy *ldaps.PasswordPolicy
}

// Build derives report rows from directory users and the domain
// password policy. DaysLeft is computed relative to now.
func Build(users []ldaps.User, policy *ldaps.PasswordPolicy, now time.Time) []Row {
	rows := make([]Row, 0, len(users))
	for _, u := range users {
		r := Row{
			Name:            u.Name,
			SAMAccountName:  u.SAMAccountName,
			DN:              u.DN,
			Mail:            u.Mail,
			TopLevelOU:      ldaps.TopLevelOU(u.DN),
			PasswordLastSet: u.PasswordLastSet,
			NoExpiry:        u.PasswordNeverExpires || policy.MaxPasswordAge == nil,
			MustChange:      u.PasswordLastSet == nil,
		}

		if !r.NoExpiry && r.PasswordLastSet != nil {
			expires := r.PasswordLastSet.Add(*policy.MaxPasswordAge)
			r.PasswordExpires = &expires
			r.DaysLeft = int(expires.Sub(now).Hours() / 24)
		}

		rows = append(rows, r)
	}
	return rows
}

// Sort orders rows by top-level OU, then display name, both
// case-insensitive. Users outside any OU sort first.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := strings.ToLower(rows[i].TopLevelOU), strings.ToLower(rows[j].TopLevelOU)
		if a != b {
			return a < b
		}
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
}

// ExportName returns the default timestamped export filename.
func ExportName(format string, now time.Time) string {
	return fmt.Sprintf("password-expiry_%s.%s", now.Format("20060102-150405"), format)
}

func (r Row) ouCell() string {
	if r.TopLevelOU == "" {
		return "-"
	}
	return r.TopLevelOU
}

func (r Row) lastSetCell() string {
	if r.PasswordLastSet == nil {
		return "-"
	}
	return r.PasswordLastSet.Format(dateLayout)
}

func (r Row) expiresCell() string {
	switch {
	case r.MustChange:
		return "expired (change at next logon)"
	case r.NoExpiry:
		return "never"
	case r.PasswordExpires != nil:
		return r.PasswordExpires.Format(dateLayout)
	default:
		return "-"
	}
}

func (r Row) daysLeftCell() string {
	if r.PasswordExpires == nil {
		return ""
	}
	return strconv.Itoa(r.DaysLeft)
}

func (r Row) statusCell() string {
	switch {
	case r.MustChange:
		return "EXPIRED"
	case r.PasswordExpires == nil:
		return ""
	case r.DaysLeft < 0:
		return "EXPIRED"
	case r.DaysLeft <= warnWindowDays:
		return "EXPIRING"
	default:
		return ""
	}
}
