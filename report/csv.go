package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var exportHeader = []string{
	"OU", "Name", "Account", "Mail", "DN", "Password Last Set", "Password Expires", "Days Left", "Status",
}

func exportRow(r Row) []string {
	return []string{
		r.ouCell(), r.Name, r.SAMAccountName, r.Mail, r.DN,
		r.lastSetCell(), r.expiresCell(), r.daysLeftCell(), r.statusCell(),
	}
}

// WriteCSV writes rows as UTF-8 CSV with a byte order mark, so Excel
// opens the file with the right encoding.
func WriteCSV(w io.Writer, rows []Row) error {
	bw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())

	cw := csv.NewWriter(bw)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(exportRow(r)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return bw.Close()
}
