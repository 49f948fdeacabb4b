package reconcile

// IntegrityReport is the result of a read-only three-way comparison of the
// file store and the metadata index. It is never persisted and the audit
// never repairs anything; repair is SyncAll.
type IntegrityReport struct {
	// OrphanedRecords lists file paths referenced by index rows that no
	// longer exist on disk (equivalently: missing files).
	OrphanedRecords []string `json:"orphaned_records"`
	// HashMismatches lists paths whose live content fingerprint disagrees
	// with the stored one.
	HashMismatches []string `json:"hash_mismatches"`
	// Untracked lists files present on disk with no index row, a sign that
	// SyncAll has not yet run over them.
	Untracked []string `json:"untracked"`
	// Unreadable lists files that are indexed and present but could not be
	// read or parsed during the audit, keyed by path.
	Unreadable map[string]string `json:"unreadable,omitempty"`
	// Valid is true iff every set above is empty.
	Valid bool `json:"valid"`
}

// CheckIntegrity compares the file store against the metadata index
// without writing to either.
func (e *Engine) CheckIntegrity() (*IntegrityReport, error) {
	paths, err := e.files.List()
	if err != nil {
		return nil, err
	}

	rows, err := e.idx.AllRows()
	if err != nil {
		return nil, err
	}

	onDisk := make(map[string]bool, len(paths))
	for _, path := range paths {
		onDisk[path] = true
	}

	report := &IntegrityReport{
		OrphanedRecords: []string{},
		HashMismatches:  []string{},
		Untracked:       []string{},
	}

	indexed := make(map[string]bool, len(rows))
	for _, row := range rows {
		indexed[row.FilePath] = true

		if !onDisk[row.FilePath] {
			report.OrphanedRecords = append(report.OrphanedRecords, row.FilePath)
			continue
		}

		p, err := e.files.Read(row.FilePath)
		if err != nil {
			if report.Unreadable == nil {
				report.Unreadable = make(map[string]string)
			}
			report.Unreadable[row.FilePath] = err.Error()
			continue
		}

		if e.files.Hash(p.Content) != row.ContentHash {
			report.HashMismatches = append(report.HashMismatches, row.FilePath)
		}
	}

	for _, path := range paths {
		if !indexed[path] {
			report.Untracked = append(report.Untracked, path)
		}
	}

	report.Valid = len(report.OrphanedRecords) == 0 &&
		len(report.HashMismatches) == 0 &&
		len(report.Untracked) == 0 &&
		len(report.Unreadable) == 0

	return report, nil
}
