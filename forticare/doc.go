// Package forticare automates bulk registration of FortiCare license codes.
//
// Install with:
//
//	go get github.com/ftnt-tools/forticare-register/forticare
//
// A registration run is a short linear pipeline:
//
//   - Extract registration codes from the PDF certificates inside zip archives
//   - Authenticate against the FortiCloud OAuth token endpoint
//   - Redeem each code through the FortiCare registration API
//   - Write every returned license file to disk as <serial>.lic
//
// # Quick Start
//
//	creds := forticare.ResolveCredentials(dotfile, env, cli)
//	extracted := forticare.ExtractCodes(logger, "licenses.zip")
//	addrs := forticare.ResolveAddresses(logger, "10.0.0.1", len(extracted.Codes))
//	client := forticare.NewClient(forticare.WithLogger(logger))
//	token, err := client.Token(ctx, creds)
//	result := client.RegisterAll(ctx, token, extracted.Codes, addrs)
//	forticare.WriteLicenses(logger, "/etc/licenses", result.Licenses)
//
// Manager runs the same steps as one Job and can record every registered
// asset in an inventory.Store.
//
// Fatal conditions are returned as errors. Per-item failures (a corrupt archive, a
// rejected code, an unwritable file) never stop the batch; they are logged and
// reported as ItemError values on the stage results.
package forticare
