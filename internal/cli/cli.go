// Package cli parses flags, drives the interactive prompts, and runs
// the report pipeline end to end.
package cli

import (
	"time"

	"github.com/alecthomas/kong"
)

// Flags declares the command line. Every prompt has a flag that
// pre-answers it, so the tool can run non-interactively.
type Flags struct {
	All   bool   `help:"Report on all enabled users." xor:"scope"`
	OU    string `help:"Report on users under an organizational unit (name or DN)." xor:"scope"`
	Group string `help:"Report on members of a group (name or DN)." xor:"scope"`

	Nested bool `help:"Match nested group membership (slower on large trees)."`

	Export   bool   `help:"Write an export file without prompting." xor:"export"`
	NoExport bool   `help:"Skip the export prompt." xor:"export" name:"no-export"`
	Format   string `help:"Export format." enum:"csv,xlsx" default:"csv"`
	Output   string `help:"Export path. Defaults to a timestamped name in the working directory." type:"path"`

	DumpLDIF string `help:"Also write the raw directory entries to an LDIF file." name:"dump-ldif" type:"path"`

	Check   bool          `help:"Probe connectivity and bind, then exit."`
	Verbose bool          `help:"Enable debug logging."`
	Timeout time.Duration `help:"Per-operation deadline." default:"30s"`
}

// Parse fills Flags from os.Args. Kong prints usage and exits on
// invalid input.
func Parse() *Flags {
	flags := &Flags{}
	kong.Parse(flags,
		kong.Name("pwdexpiry"),
		kong.Description("Report password expiration dates for Active Directory users, grouped by organizational unit."),
	)
	return flags
}
