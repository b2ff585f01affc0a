package forticare

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLicenses_RegistrationToFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		io.WriteString(w, `{"assetDetails":{"license":{"licenseSKU":"FG-VM02","licenseFile":"LICENSEBLOB"},"serialNumber":"FGVM0212345"}}`)
	}))
	defer server.Close()

	dir := t.TempDir()
	client := NewClient(WithRegistrationURL(server.URL), WithLogger(discard))
	reg := client.RegisterAll(context.Background(), "tok123", []RegistrationCode{"AAAAA-BBBBB-CCCCC-DDDDD-EEEEEE"}, nil)
	require.Len(t, reg.Licenses, 1)

	result := WriteLicenses(discard, dir, reg.Licenses)
	require.Len(t, result.Written, 1)
	assert.Equal(t, WrittenFile{Serial: "FGVM0212345", Path: filepath.Join(dir, "FGVM0212345.lic")}, result.Written[0])

	data, err := os.ReadFile(filepath.Join(dir, "FGVM0212345.lic"))
	require.NoError(t, err)
	assert.Equal(t, "LICENSEBLOB", string(data))
}

func TestWriteLicenses_SkipsMissingFile(t *testing.T) {
	dir := t.TempDir()
	licenses := []License{
		{SKU: "FMG-VM-BASE", Serial: "FMG-VM0000001"},
		{SKU: "FG-VM02", Serial: "FGVM0200001", File: "blob"},
	}

	result := WriteLicenses(discard, dir, licenses)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "FMG-VM0000001", result.Skipped[0].Item)
	assert.ErrorIs(t, result.Skipped[0].Err, ErrNoLicenseFile)
	require.Len(t, result.Written, 1)
	assert.NoFileExists(t, filepath.Join(dir, "FMG-VM0000001.lic"))
	assert.FileExists(t, filepath.Join(dir, "FGVM0200001.lic"))
}

func TestWriteLicenses_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "FGVM0200001.lic")
	require.NoError(t, os.WriteFile(path, []byte("old license content that is longer"), 0o644))

	WriteLicenses(discard, dir, []License{{Serial: "FGVM0200001", File: "new"}})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteLicenses_UnwritablePathContinues(t *testing.T) {
	dir := t.TempDir()
	// A directory where the license file should go makes that one write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "FGVM0200001.lic"), 0o755))

	result := WriteLicenses(discard, dir, []License{
		{Serial: "FGVM0200001", File: "a"},
		{Serial: "FGVM0200002", File: "b"},
	})

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "FGVM0200001", result.Skipped[0].Item)
	require.Len(t, result.Written, 1)
	assert.Equal(t, "FGVM0200002", result.Written[0].Serial)
}

func TestWriteLicenses_InvalidSerial(t *testing.T) {
	dir := t.TempDir()
	serials := []string{"", "..", "../escape", `a\b`}
	var licenses []License
	for _, s := range serials {
		licenses = append(licenses, License{Serial: s, File: "x"})
	}

	result := WriteLicenses(discard, dir, licenses)
	assert.Empty(t, result.Written)
	require.Len(t, result.Skipped, len(serials))
	for _, s := range result.Skipped {
		assert.ErrorIs(t, s.Err, ErrInvalidSerial)
	}
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "escape.lic"))
}

func TestWriteLicenses_DefaultsToWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	result := WriteLicenses(discard, "", []License{{Serial: "FGVM0200009", File: "x"}})
	require.Len(t, result.Written, 1)
	assert.FileExists(t, filepath.Join(dir, "FGVM0200009.lic"))
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
