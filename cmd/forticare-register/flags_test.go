package main

import (
	"bytes"
	"errors"
	"flag"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOptionsFromFlags(t *testing.T) {
	var out bytes.Buffer
	opts, err := newOptionsFromFlags([]string{
		commandName,
		"--username", "cli-user",
		"--password=cli-pass",
		"--license-dir", "/tmp/out",
		"--no-licenses",
		"--ipv4-addresses", "addresses.txt",
		"--log-level", "debug",
		"a.zip", "b.zip",
	}, &out)
	require.NoError(t, err)
	require.Equal(t, "cli-user", opts.Username)
	require.Equal(t, "cli-pass", opts.Password)
	require.Equal(t, "assetmanagement", opts.ClientID)
	require.Equal(t, "/tmp/out", opts.LicenseDir)
	require.True(t, opts.NoLicenses)
	require.Equal(t, "addresses.txt", opts.IPv4Addresses)
	require.Equal(t, slog.LevelDebug, opts.LogLevel)
	require.Equal(t, []string{"a.zip", "b.zip"}, opts.Archives)
	require.NoError(t, opts.Validate())
}

func TestNewOptionsFromFlagsClientID(t *testing.T) {
	opts, err := newOptionsFromFlags([]string{commandName, "--client_id", "custom", "a.zip"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, "custom", opts.ClientID)
}

func TestNewOptionsFromFlagsHelp(t *testing.T) {
	var out bytes.Buffer
	_, err := newOptionsFromFlags([]string{commandName, "--help"}, &out)
	require.True(t, errors.Is(err, flag.ErrHelp))
	require.Contains(t, out.String(), "Usage: forticare-register")
	require.Contains(t, out.String(), "-ipv4-addresses")
}

func TestNewOptionsFromFlagsErrors(t *testing.T) {
	_, err := newOptionsFromFlags([]string{commandName, "--log-level", "loud"}, &bytes.Buffer{})
	require.Error(t, err)

	_, err = newOptionsFromFlags([]string{commandName, "--no-such-flag"}, &bytes.Buffer{})
	require.Error(t, err)

	opts, err := newOptionsFromFlags([]string{commandName}, &bytes.Buffer{})
	require.NoError(t, err)
	require.EqualError(t, opts.Validate(), "at least one zip archive is required")
}
