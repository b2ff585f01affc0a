package forticare

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LicenseExt is the file extension of written license files.
const LicenseExt = ".lic"

// LicensePath returns the file a license with the given serial is written to.
func LicensePath(dir, serial string) string {
	return filepath.Join(dir, serial+LicenseExt)
}

// WriteLicenses writes each license file to dir/<serial>.lic, replacing any
// existing file. An empty dir means the current working directory.
// Licenses without file content and paths that cannot be written are skipped
// with a warning; the remaining licenses are still written.
func WriteLicenses(logger *slog.Logger, dir string, licenses []License) PersistResult {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = "."
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}

	var result PersistResult
	for _, lic := range licenses {
		log := logger.With(slog.String("serial", lic.Serial), slog.String("sku", lic.SKU))
		if err := checkSerial(lic.Serial); err != nil {
			log.Warn("not writing license", slog.Any("error", err))
			result.Skipped = append(result.Skipped, ItemError{Item: lic.Serial, Err: err})
			continue
		}
		if !lic.HasFile() {
			log.Warn("no license file returned, nothing to write")
			result.Skipped = append(result.Skipped, ItemError{Item: lic.Serial, Err: ErrNoLicenseFile})
			continue
		}

		p := LicensePath(dir, lic.Serial)
		if err := os.WriteFile(p, []byte(lic.File), 0o644); err != nil {
			log.Warn("cannot write license file", slog.String("path", p), slog.Any("error", err))
			result.Skipped = append(result.Skipped, ItemError{Item: lic.Serial, Err: err})
			continue
		}
		log.Info("wrote license file", slog.String("path", p))
		result.Written = append(result.Written, WrittenFile{Serial: lic.Serial, Path: p})
	}
	return result
}

func checkSerial(serial string) error {
	if serial == "" || serial == "." || serial == ".." || strings.ContainsAny(serial, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidSerial, serial)
	}
	return nil
}
