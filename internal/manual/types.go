// Package manual parses the CMS Definitions Manual — a fixed-column,
// section-structured plain-text publication — into strongly typed
// in-memory tables. Each file is read once at startup; malformed lines
// are skipped rather than rejected, since the publication interleaves
// decorative content with data (see DESIGN.md).
package manual

// DRGType distinguishes medical from surgical DRGs.
type DRGType string

const (
	Medical  DRGType = "MEDICAL"
	Surgical DRGType = "SURGICAL"
)

// DRGDefinition is one row of Appendix A. MDC is empty for Pre-MDC DRGs.
type DRGDefinition struct {
	DRG         string
	MDC         string
	Type        DRGType
	Description string
}

// MDCMapping is one (MDC, DRGs) pair in a diagnosis's mapping list.
// Order within a DiagnosisInfo is load order and semantically
// significant: the first mapping is the code's primary MDC.
type MDCMapping struct {
	MDC  string
	DRGs []string
}

// DiagnosisInfo is one row of Appendix B.
type DiagnosisInfo struct {
	Code        string
	Description string
	Mappings    []MDCMapping
}

// CCLevel is the severity tier of a CC/MCC diagnosis.
type CCLevel string

const (
	CC  CCLevel = "CC"
	MCC CCLevel = "MCC"
)

// CCMCCInfo is one row of Appendix C Part 1.
type CCMCCInfo struct {
	Code              string
	Level             CCLevel
	PDXExclusionGroup string // empty when absent
	Description       string
}

// ProcedureCodeInfo is a procedure code parsed from an MDC logic file.
type ProcedureCodeInfo struct {
	Code                string
	Description         string
	IsORProcedure       bool
	DRGs                []string // ordered, append-only as the code recurs under more DRGs
	RequiresCombination bool
	CombinationCodes    []string
}

// DRGSeverityVariants records which of the "with MCC" / "with CC" /
// "without CC" description variants the MDC-logic reader observed in a
// DRG header. Entries are keyed by the header's own DRG number and fill
// only the slot for that DRG; the variants of one triplet are not
// collected under a shared base DRG. Populated alongside ProcedureCodeInfo so a structural
// cross-check is available in addition to the description-substring
// heuristic the grouping engine uses (spec Open Question: the
// heuristic itself is unchanged — see DESIGN.md).
type DRGSeverityVariants struct {
	MCCDRG  string
	CCDRG   string
	NoCCDRG string
}
