package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/ftnt-tools/forticare-register/forticare"
)

const commandName = "forticare-register"

// Options holds everything set on the command line.
type Options struct {
	Username      string
	Password      string
	ClientID      string
	LicenseDir    string
	NoLicenses    bool
	IPv4Addresses string
	Inventory     string
	LogLevel      slog.Level
	Archives      []string
}

func (o *Options) credentials() forticare.Credentials {
	return forticare.Credentials{
		Username: o.Username,
		Password: o.Password,
		ClientID: o.ClientID,
	}
}

// newOptionsFromFlags parses argv (including the program name). Usage and
// parse errors are written to output; -h/--help returns flag.ErrHelp.
func newOptionsFromFlags(argv []string, output io.Writer) (*Options, error) {
	flagSet := flag.NewFlagSet(commandName, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprintf(output, "Usage: %s [options] archive.zip [archive.zip ...]\n\n", commandName)
		fmt.Fprintf(output, "Registers the license codes found in the PDF certificates inside each zip\n")
		fmt.Fprintf(output, "archive and writes the returned license files as <serial>.lic.\n\n")
		fmt.Fprintf(output, "Credentials are read from ~/.ftnt/ftnt_cloud_api (username:password), then\n")
		fmt.Fprintf(output, "FORTICLOUD_API_USER / FORTICLOUD_API_PASSWORD, then the flags below.\n\n")
		flagSet.PrintDefaults()
	}

	opts := &Options{LogLevel: slog.LevelInfo}

	flagSet.StringVar(
		&(opts.Username),
		"username",
		"",
		"FortiCloud API username")
	flagSet.StringVar(
		&(opts.Password),
		"password",
		"",
		"FortiCloud API password")
	flagSet.StringVar(
		&(opts.ClientID),
		"client_id",
		forticare.DefaultClientID,
		"OAuth client_id")
	flagSet.StringVar(
		&(opts.LicenseDir),
		"license-dir",
		"",
		"directory for license files (default: current directory)")
	flagSet.BoolVar(
		&(opts.NoLicenses),
		"no-licenses",
		false,
		"register codes without writing license files")
	flagSet.StringVar(
		&(opts.IPv4Addresses),
		"ipv4-addresses",
		"",
		"file of IPv4 addresses (one per line, paired with codes in order) or a single address for every code")
	flagSet.StringVar(
		&(opts.Inventory),
		"inventory",
		"",
		"record registered assets: postgres://..., mongodb://..., bolt://<file> or a file path")
	flagSet.TextVar(
		&(opts.LogLevel),
		"log-level",
		slog.LevelInfo,
		"log level: debug, info, warn or error")

	if err := flagSet.Parse(argv[1:]); err != nil {
		return nil, err
	}
	opts.Archives = flagSet.Args()
	return opts, nil
}

// Validate checks option combinations that flag parsing cannot.
func (o *Options) Validate() error {
	if len(o.Archives) == 0 {
		return fmt.Errorf("at least one zip archive is required")
	}
	return nil
}
