// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetHomeDir points the home directory at dir for the duration of the test:
// USERPROFILE on Windows, HOME elsewhere.
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}

// SetXDGDirs points XDG_CONFIG_HOME and XDG_DATA_HOME below root and returns
// a cleanup function restoring both.
func SetXDGDirs(t testing.TB, root string) func() {
	t.Helper()
	restoreConfig := MustSetenv(t, "XDG_CONFIG_HOME", filepath.Join(root, "config"))
	restoreData := MustSetenv(t, "XDG_DATA_HOME", filepath.Join(root, "data"))
	return func() {
		restoreData()
		restoreConfig()
	}
}
