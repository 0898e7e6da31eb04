package download

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"einsync/internal/catalog"
	"einsync/internal/fileutil"
	"einsync/internal/textutil"
)

// suffix names the source in every derived filename so the existence glob
// can recognize prior runs regardless of tier or partition.
const suffix = "WEB-DL.EINTHUSAN.mp4"

var partitionCaser = cases.Title(language.Und)

// Filename derives the deterministic destination name for a resolved bundle:
// Title.Year.Partition.WEB-DL.EINTHUSAN.mp4, with the year omitted when
// unknown. Repeated runs must produce the same name for the idempotency
// check to hold.
func Filename(bundle catalog.LinkBundle) string {
	name := textutil.FileToken(bundle.Title)
	if bundle.Year != "" {
		name += "." + bundle.Year
	}
	return fmt.Sprintf("%s.%s.%s", name, partitionCaser.String(bundle.Partition), suffix)
}

// FindExisting scans dir for a prior download of the given title and year,
// matching any partition and tier.
func FindExisting(dir, title string, year int) (string, bool, error) {
	pattern := textutil.FileToken(title)
	if year != 0 {
		pattern += fmt.Sprintf(".%d", year)
	}
	return fileutil.FirstMatch(dir, pattern+".*EINTHUSAN*.mp4")
}
