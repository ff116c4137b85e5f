package winget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatestVersion(t *testing.T) {
	records := []PackageRecord{
		{Name: "Firefox", ID: "Mozilla.Firefox", Version: "119.0"},
		{Name: "Firefox", ID: "mozilla.firefox", Version: "120.0.1"},
		{Name: "Firefox", ID: "Mozilla.Firefox", Version: "120.0"},
		{Name: "Other", ID: "Vendor.Other", Version: "999.0"},
	}

	version, ok := LatestVersion(records, "Mozilla.Firefox")
	assert.True(t, ok)
	assert.Equal(t, "120.0.1", version)
}

func TestLatestVersionNoMatch(t *testing.T) {
	_, ok := LatestVersion([]PackageRecord{{ID: "A.B", Version: "1.0"}}, "C.D")
	assert.False(t, ok)
}

func TestLatestVersionUnparseableFallsBackToFirstMatch(t *testing.T) {
	records := []PackageRecord{
		{ID: "Vendor.App", Version: "Unknown"},
		{ID: "Vendor.App", Version: "N/A"},
	}
	version, ok := LatestVersion(records, "Vendor.App")
	assert.True(t, ok)
	assert.Equal(t, "Unknown", version)
}
