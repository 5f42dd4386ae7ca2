package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Render writes the summary header and the report table to w.
func Render(w io.Writer, rows []Row, meta Meta) error {
	fmt.Fprintln(w, "Password expiry report")
	fmt.Fprintf(w, "  host:   %s\n", meta.Host)
	fmt.Fprintf(w, "  scope:  %s\n", meta.Scope)
	fmt.Fprintf(w, "  policy: %s\n", policyLine(meta))
	fmt.Fprintf(w, "  users:  %d\n", len(rows))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OU\tNAME\tACCOUNT\tLAST SET\tEXPIRES\tDAYS LEFT\tSTATUS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ouCell(), r.Name, r.SAMAccountName,
			r.lastSetCell(), r.expiresCell(), r.daysLeftCell(), r.statusCell(),
		)
	}
	return tw.Flush()
}

func policyLine(meta Meta) string {
	if meta.Policy == nil {
		return "unknown"
	}
	p := meta.Policy
	age := "passwords never expire"
	if p.MaxPasswordAge != nil {
		age = fmt.Sprintf("max password age %d days", int(p.MaxPasswordAge.Hours()/24))
	}
	return fmt.Sprintf("%s, min length %d, history %d, lockout threshold %d",
		age, p.MinPasswordLength, p.PasswordHistoryLength, p.LockoutThreshold)
}
