package logging

// Standard field names so import logs can be filtered consistently.
const (
	FieldFile       = "file_path"
	FieldFormat     = "format"
	FieldSheet      = "sheet"
	FieldEncoding   = "encoding"
	FieldDelimiter  = "delimiter"
	FieldRow        = "row"
	FieldColumn     = "column"
	FieldValue      = "value"
	FieldTarget     = "target_field"
	FieldPhase      = "phase"
	FieldPolicy     = "on_error"
	FieldJournal    = "journal"
	FieldPartner    = "partner"
	FieldCurrency   = "currency"
	FieldStatement  = "statement"
	FieldReason     = "reason"
	FieldError      = "error"
	FieldCount      = "count"
	FieldValid      = "valid"
	FieldSkipped    = "skipped"
	FieldDryRun     = "dry_run"
	FieldDuration   = "duration_ms"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
