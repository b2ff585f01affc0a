package forticare

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidIPv4(t *testing.T) {
	for _, s := range []string{"192.0.2.1", "10.0.0.254", "0.0.0.0", "999.1.1.1"} {
		assert.True(t, ValidIPv4(s), s)
	}
	for _, s := range []string{"", "192.0.2", "192.0.2.1/24", "host.example.com", " 10.0.0.1", "1.2.3.4.5", "1234.1.1.1"} {
		assert.False(t, ValidIPv4(s), s)
	}
}

func TestAddressList_For(t *testing.T) {
	l := AddressList{"10.0.0.1", "10.0.0.2"}

	ip, ok := l.For(1)
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.2", ip)

	ip, ok = l.For(2)
	assert.False(t, ok)
	assert.Empty(t, ip)

	_, ok = AddressList(nil).For(0)
	assert.False(t, ok)
}

func TestResolveAddresses_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.txt")
	content := "# management addresses\n10.1.1.1\n\n  10.1.1.2  \nnot-an-ip\n# 10.9.9.9\n10.1.1.3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got := ResolveAddresses(discard, path, 5)
	assert.Equal(t, AddressList{"10.1.1.1", "10.1.1.2", "10.1.1.3"}, got)
}

func TestResolveAddresses_FileLongerThanCodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.txt")
	require.NoError(t, os.WriteFile(path, []byte("10.1.1.1\n10.1.1.2\n10.1.1.3\n"), 0o600))

	got := ResolveAddresses(discard, path, 1)
	ip, ok := got.For(0)
	assert.True(t, ok)
	assert.Equal(t, "10.1.1.1", ip)
}

func TestResolveAddresses_Literal(t *testing.T) {
	got := ResolveAddresses(discard, "192.0.2.50", 3)
	assert.Equal(t, AddressList{"192.0.2.50", "192.0.2.50", "192.0.2.50"}, got)
}

func TestResolveAddresses_InvalidLiteral(t *testing.T) {
	assert.Empty(t, ResolveAddresses(discard, "/no/such/file", 3))
	assert.Empty(t, ResolveAddresses(discard, "", 3))
}
