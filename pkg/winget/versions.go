// pkg/winget/versions.go - picking a version from search results.

package winget

import (
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/windowsadmins/wingetpack/pkg/logging"
)

// LatestVersion returns the highest version among records whose ID matches id
// (case-insensitive). Records with unparseable versions are skipped; when no
// version parses at all, the first matching record's version string is
// returned as-is. The second return value is false when no record matches.
func LatestVersion(records []PackageRecord, id string) (string, bool) {
	var best *goversion.Version
	bestRaw := ""
	firstRaw := ""
	found := false

	for _, rec := range records {
		if !strings.EqualFold(rec.ID, id) {
			continue
		}
		if !found {
			firstRaw = rec.Version
			found = true
		}
		v, err := goversion.NewVersion(rec.Version)
		if err != nil {
			logging.Debug("Skipping unparseable version", "id", rec.ID, "version", rec.Version)
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = rec.Version
		}
	}

	if !found {
		return "", false
	}
	if best == nil {
		return firstRaw, true
	}
	return bestRaw, true
}
