package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Pipeline fields.
	FieldLogicalPath = "logical_path"
	FieldCachePath   = "cache_path"
	FieldDialect     = "dialect"
	FieldStage       = "stage"
	FieldKind        = "kind"
	FieldNodes       = "nodes"
	FieldExtensions  = "extensions"

	// Configuration fields.
	FieldScratchRoot = "scratch_root"
	FieldCacheFormat = "cache_format"
	FieldJobs        = "jobs"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesCached     = "files_cached"
	FieldFilesFailed     = "files_failed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
