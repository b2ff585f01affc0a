package forticare

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ftnt-tools/forticare-register/forticare/inventory"
)

// Manager is the top-level orchestrator that runs one registration batch:
// extraction, authentication, registration, license files and inventory.
type Manager struct {
	client    *Client
	extractor *Extractor
	store     inventory.Store
	logger    *slog.Logger
	runID     string
	now       func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithAPIClient sets the client used to talk to FortiCloud/FortiCare.
func WithAPIClient(c *Client) ManagerOption {
	return func(m *Manager) {
		m.client = c
	}
}

// WithExtractor sets the extractor used to find registration codes.
func WithExtractor(e *Extractor) ManagerOption {
	return func(m *Manager) {
		m.extractor = e
	}
}

// WithInventory records every registered asset in s.
func WithInventory(s inventory.Store) ManagerOption {
	return func(m *Manager) {
		m.store = s
	}
}

// WithManagerLogger sets the logger for pipeline progress and warnings.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) ManagerOption {
	return func(m *Manager) {
		m.runID = id
	}
}

// NewManager creates a new registration Manager. Without WithAPIClient it talks
// to the production endpoints.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.client == nil {
		m.client = NewClient(WithLogger(m.logger))
	}
	if m.extractor == nil {
		m.extractor = &Extractor{Logger: m.logger}
	}
	if m.runID == "" {
		m.runID = uuid.NewString()
	}
	return m
}

// Job describes one registration batch.
type Job struct {
	Credentials Credentials
	Archives    []string
	// Addresses is an address file or a single literal IPv4 address. Optional.
	Addresses string
	// LicenseDir receives <serial>.lic files. Empty means the working directory.
	LicenseDir string
	// SkipLicenseFiles registers codes without writing any license file.
	SkipLicenseFiles bool
}

// Report is what a batch did. Item failures are listed per stage.
type Report struct {
	RunID     string
	Extract   ExtractResult
	Addresses AddressList
	Register  RegisterResult
	Persist   PersistResult
	Recorded  int
	// RecordFailed lists assets that could not be written to the inventory.
	RecordFailed []ItemError
}

// Run performs a registration batch:
//  1. Checks the credentials
//  2. Extracts registration codes from the archives
//  3. Resolves the optional address list
//  4. Requests a bearer token
//  5. Registers every code, continuing past failures
//  6. Writes the returned license files (unless skipped)
//  7. Records registered assets in the inventory (if configured)
//
// The returned error is non-nil only for conditions that end the run: missing
// credentials, no codes, or failed authentication. The report is returned in
// every case and describes the stages that did run.
func (m *Manager) Run(ctx context.Context, job Job) (*Report, error) {
	report := &Report{RunID: m.runID}
	m.logger.Info("starting registration run", slog.String("run_id", m.runID), slog.Int("archives", len(job.Archives)))

	// 1. Credentials
	if err := job.Credentials.Validate(); err != nil {
		return report, err
	}

	// 2. Codes
	report.Extract = m.extractor.Extract(job.Archives...)
	if len(report.Extract.Codes) == 0 {
		return report, fmt.Errorf("%w in %d archive(s)", ErrNoCodes, len(job.Archives))
	}
	m.logger.Info("extracted registration codes",
		slog.Int("codes", len(report.Extract.Codes)),
		slog.Int("skipped", len(report.Extract.Skipped)))

	// 3. Addresses
	report.Addresses = ResolveAddresses(m.logger, job.Addresses, len(report.Extract.Codes))

	// 4. Token
	token, err := m.client.Token(ctx, job.Credentials)
	if err != nil {
		return report, err
	}

	// 5. Registration
	report.Register = m.client.RegisterAll(ctx, token, report.Extract.Codes, report.Addresses)
	m.logger.Info("registration finished",
		slog.Int("registered", len(report.Register.Licenses)),
		slog.Int("failed", len(report.Register.Failed)))

	// 6. License files
	paths := make(map[string]string)
	if job.SkipLicenseFiles {
		m.logger.Info("not writing license files")
	} else {
		report.Persist = WriteLicenses(m.logger, job.LicenseDir, report.Register.Licenses)
		for _, w := range report.Persist.Written {
			paths[w.Serial] = w.Path
		}
	}

	// 7. Inventory
	if m.store != nil {
		m.record(ctx, report, paths)
	}
	return report, nil
}

func (m *Manager) record(ctx context.Context, report *Report, paths map[string]string) {
	for _, lic := range report.Register.Licenses {
		asset := inventory.Asset{
			Serial:           lic.Serial,
			SKU:              lic.SKU,
			RegistrationCode: string(lic.Code),
			IPv4:             lic.IPv4,
			LicensePath:      paths[lic.Serial],
			RunID:            report.RunID,
			RegisteredAt:     m.now().UTC(),
		}
		if err := m.store.Record(ctx, asset); err != nil {
			m.logger.Warn("cannot record asset", slog.String("serial", lic.Serial), slog.Any("error", err))
			report.RecordFailed = append(report.RecordFailed, ItemError{Item: lic.Serial, Err: err})
			continue
		}
		m.logger.Debug("recorded asset", slog.String("serial", lic.Serial))
		report.Recorded++
	}
}
