package forticare

import (
	"bufio"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// ipv4Pattern is a loose dotted-quad check. Octets above 255 are accepted.
var ipv4Pattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// ValidIPv4 reports whether s looks like a dotted-quad IPv4 address.
func ValidIPv4(s string) bool {
	return ipv4Pattern.MatchString(s)
}

// AddressList holds management addresses paired with registration codes by position.
type AddressList []string

// For returns the address paired with code i. Once the list is exhausted,
// codes get no address.
func (l AddressList) For(i int) (string, bool) {
	if i < 0 || i >= len(l) {
		return "", false
	}
	return l[i], true
}

// ResolveAddresses interprets arg as a file of addresses, one per line, or failing
// that as a single literal address repeated once per code (n times).
//
// In a file, blank lines and '#' comments are ignored and invalid lines are
// dropped. An invalid literal yields an empty list and a warning.
func ResolveAddresses(logger *slog.Logger, arg string, n int) AddressList {
	if logger == nil {
		logger = slog.Default()
	}
	if arg == "" {
		return nil
	}

	f, err := os.Open(arg)
	if err == nil {
		defer f.Close()
		logger.Info("reading address list", slog.String("file", arg))

		var list AddressList
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if !ValidIPv4(line) {
				logger.Debug("ignoring invalid address", slog.String("file", arg), slog.String("line", line))
				continue
			}
			list = append(list, line)
		}
		if err := scanner.Err(); err != nil {
			logger.Warn("address list read incomplete", slog.String("file", arg), slog.Any("error", err))
		}
		return list
	}

	if !ValidIPv4(arg) {
		logger.Warn("not an address file or IPv4 address, registering without addresses", slog.String("value", arg))
		return nil
	}
	list := make(AddressList, n)
	for i := range list {
		list[i] = arg
	}
	return list
}
