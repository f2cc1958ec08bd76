package domain

// StorageSettings holds the resolved backing directories.
// An empty directory means the corresponding store is not configured.
type StorageSettings struct {
	// DataDir is the parent directory used to derive defaults.
	DataDir string

	// TemplateDir holds one <name>.txt file per base prompt.
	TemplateDir string

	// CorpusDir holds one sub-directory per dataset.
	CorpusDir string
}

// TemplatesConfigured returns true if a template directory is set.
func (s StorageSettings) TemplatesConfigured() bool {
	return s.TemplateDir != ""
}

// CorpusConfigured returns true if a corpus directory is set.
func (s StorageSettings) CorpusConfigured() bool {
	return s.CorpusDir != ""
}
