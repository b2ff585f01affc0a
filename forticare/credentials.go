package forticare

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DotfilePath returns the credential dotfile location under home:
// $HOME/.ftnt/ftnt_cloud_api.
func DotfilePath(home string) string {
	return filepath.Join(home, ".ftnt", "ftnt_cloud_api")
}

// LoadDotfile reads credentials from the dotfile at path.
// A missing file yields empty Credentials and no error.
func LoadDotfile(path string) (Credentials, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("open credential dotfile: %w", err)
	}
	defer f.Close()

	return ReadDotfile(f)
}

// ReadDotfile parses "username:password" lines. Blank lines and lines starting
// with '#' are ignored and only the first remaining line is used. The password
// is everything after the first ':'.
func ReadDotfile(r io.Reader) (Credentials, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		user, pass, ok := strings.Cut(line, ":")
		if !ok {
			return Credentials{}, fmt.Errorf("credential dotfile: expected username:password")
		}
		return Credentials{Username: user, Password: pass}, nil
	}
	if err := scanner.Err(); err != nil {
		return Credentials{}, fmt.Errorf("read credential dotfile: %w", err)
	}
	return Credentials{}, nil
}

// ResolveCredentials merges credential sources field by field. Sources are given
// highest priority first; the first non-empty value of each field wins. ClientID
// falls back to DefaultClientID.
//
// The command passes dotfile, environment, command line in that order.
func ResolveCredentials(sources ...Credentials) Credentials {
	var out Credentials
	for _, s := range sources {
		out.Username = firstNonEmpty(out.Username, s.Username)
		out.Password = firstNonEmpty(out.Password, s.Password)
		out.ClientID = firstNonEmpty(out.ClientID, s.ClientID)
	}
	out.ClientID = firstNonEmpty(out.ClientID, DefaultClientID)
	return out
}

// Validate reports ErrMissingCredentials when the username or password is unset.
func (c Credentials) Validate() error {
	switch {
	case c.Username == "":
		return fmt.Errorf("%w: username is required", ErrMissingCredentials)
	case c.Password == "":
		return fmt.Errorf("%w: password is required", ErrMissingCredentials)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
