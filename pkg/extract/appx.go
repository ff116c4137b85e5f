// pkg/extract/appx.go - reading identity metadata out of MSIX/AppX packages.

package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// appxManifest mirrors the Identity element of AppxManifest.xml and
// AppxBundleManifest.xml.
type appxManifest struct {
	Identity struct {
		Name    string `xml:"Name,attr"`
		Version string `xml:"Version,attr"`
	} `xml:"Identity"`
}

// AppxIdentity returns the package identity name and version declared inside
// an MSIX/AppX archive. These packages are zip containers with an XML
// manifest at a well-known location. Non-MSIX installer types have no
// embedded manifest and return an error; callers treat this as best-effort
// metadata only.
func AppxIdentity(installerPath string) (name, version string, err error) {
	switch strings.ToLower(filepath.Ext(installerPath)) {
	case ".msix", ".appx", ".msixbundle", ".appxbundle":
	default:
		return "", "", fmt.Errorf("no embedded manifest in %s files", filepath.Ext(installerPath))
	}

	reader, err := zip.OpenReader(installerPath)
	if err != nil {
		return "", "", fmt.Errorf("opening package archive: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		base := strings.ToLower(path.Base(file.Name))
		if base != "appxmanifest.xml" && base != "appxbundlemanifest.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", "", fmt.Errorf("opening manifest: %w", err)
		}

		var manifest appxManifest
		decodeErr := xml.NewDecoder(rc).Decode(&manifest)
		rc.Close()
		if decodeErr != nil {
			return "", "", fmt.Errorf("parsing manifest: %w", decodeErr)
		}
		return manifest.Identity.Name, manifest.Identity.Version, nil
	}

	return "", "", fmt.Errorf("manifest not found in %s", filepath.Base(installerPath))
}
