package forticare

// DefaultClientID is the OAuth client_id used when none is configured.
const DefaultClientID = "assetmanagement"

// Credentials are the FortiCloud API user credentials used for the password grant.
type Credentials struct {
	Username string
	Password string
	ClientID string
}

// RegistrationCode is a vendor-issued code of the form XXXXX-XXXXX-XXXXX-XXXXX-XXXXXX.
type RegistrationCode string

// License is the record returned by a successful registration.
// File is empty for device types that never receive a downloadable license
// (FortiManager and FortiAnalyzer appliances, for example).
type License struct {
	SKU    string
	File   string
	Serial string

	// Code and IPv4 echo the request that produced this license.
	Code RegistrationCode
	IPv4 string
}

// HasFile reports whether the registration returned license content.
func (l License) HasFile() bool {
	return l.File != ""
}

// tokenRequest is the JSON body for the OAuth token endpoint.
type tokenRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	ClientID  string `json:"client_id"`
	GrantType string `json:"grant_type"`
}

// registrationRequest is the JSON body for the license registration endpoint.
type registrationRequest struct {
	LicenseRegistrationCode string `json:"licenseRegistrationCode"`
	Description             string `json:"description"`
	AdditionalInfo          string `json:"additionalInfo,omitempty"`
}

// registrationResponse is the success envelope of the registration endpoint.
// Errors carry only Message.
type registrationResponse struct {
	Message      string `json:"message,omitempty"`
	AssetDetails *struct {
		SerialNumber string `json:"serialNumber"`
		License      struct {
			LicenseSKU  string  `json:"licenseSKU"`
			LicenseFile *string `json:"licenseFile"`
		} `json:"license"`
	} `json:"assetDetails"`
}

// ItemError records a recoverable failure for a single item of a batch:
// an archive, an archive member, a registration code or a license file.
type ItemError struct {
	Item string
	Err  error
}

func (e ItemError) Error() string {
	return e.Item + ": " + e.Err.Error()
}

func (e ItemError) Unwrap() error {
	return e.Err
}

// ExtractResult is the outcome of scanning zip archives for registration codes.
type ExtractResult struct {
	Codes   []RegistrationCode
	Skipped []ItemError
}

// RegisterResult is the outcome of registering a batch of codes.
// A code either produced a License or an entry in Failed.
type RegisterResult struct {
	Licenses []License
	Failed   []ItemError
}

// WrittenFile is a license file written to disk.
type WrittenFile struct {
	Serial string
	Path   string
}

// PersistResult is the outcome of writing license files to disk.
type PersistResult struct {
	Written []WrittenFile
	Skipped []ItemError
}
