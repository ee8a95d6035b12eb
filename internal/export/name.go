package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cx-miguel-neiva/cwv-audit/plugins"
)

// en-US short date and time with dots, safe in file names.
const (
	DateLayout = "1.2.2006"
	TimeLayout = "3.04.05 PM"
)

// Table types written for every run.
const (
	TypeReport = "Report"
	TypeAudits = "Audits"
)

// Domain strips the leading "www." of a host.
func Domain(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// FileName renders "<Type> for <domain> - <M.D.YYYY> at <H.MM.SS AM/PM>.<ext>".
func FileName(typ, domain string, now time.Time, ext string) string {
	return fmt.Sprintf("%s for %s - %s at %s.%s",
		typ, Domain(domain), now.Format(DateLayout), now.Format(TimeLayout), ext)
}

// FilePath joins FileName onto the export directory.
func FilePath(e plugins.Export, ext string) string {
	return filepath.Join(e.Dir, FileName(e.Type, e.Domain, e.Now, ext))
}
