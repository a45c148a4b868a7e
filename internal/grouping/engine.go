package grouping

import (
	"fmt"
	"strconv"
	"strings"

	"msdrggrouper/internal/manual"
	"msdrggrouper/internal/refdata"
)

// preMDCEntry is one row of the hard-coded Pre-MDC override table:
// a procedure maps to a DRG chosen by whether an MCC is present.
type preMDCEntry struct {
	withMCCDRG    string
	withoutMCCDRG string
}

var preMDCTable = map[string]preMDCEntry{
	"02YA0Z0": {"001", "002"},
	"02YA0Z1": {"001", "002"},
	"02YA0Z2": {"001", "002"},
	"0FY00Z0": {"005", "006"},
	"0FY00Z1": {"005", "006"},
	"0FY00Z2": {"005", "006"},
	"0BYK0Z0": {"007", "007"},
	"0BYK0Z1": {"007", "007"},
	"0BYK0Z2": {"007", "007"},
	"0BYL0Z0": {"007", "007"},
	"0BYL0Z1": {"007", "007"},
	"0BYL0Z2": {"007", "007"},
	"0BYM0Z0": {"007", "007"},
	"0BYM0Z1": {"007", "007"},
	"0BYM0Z2": {"007", "007"},
	"5A1522F": {"003", "003"},
}

// surgicalToMedicalFallback redirects a mis-typed surgical DRG produced
// by the medical path's initial triplet selection to the genuine
// medical (MCC, CC, no-CC) triplet.
var surgicalToMedicalFallback = map[string][3]string{
	"173": {"175", "175", "176"},
}

// acuteCorPulmonalePDX are principal diagnoses treated as MCC-equivalent
// throughout the medical path's variant selection (the initial MDC-mapping
// choice and the surgical fallback redirect) even when no MCC was
// recorded among the secondary diagnoses.
var acuteCorPulmonalePDX = map[string]struct{}{
	"I2601": {},
	"I2602": {},
	"I2603": {},
	"I2604": {},
	"I2609": {},
}

// Group runs the fixed 7-step decision pipeline against the given
// reference store and returns a DRGResult. It never errors; every
// failure mode yields the sentinel "999" result with an explanatory
// note.
func Group(store *refdata.Store, enc Encounter) DRGResult {
	var notes []string

	// Step 1 — principal-diagnosis lookup.
	pdxInfo, ok := store.Diagnoses[enc.PrincipalDx]
	if !ok {
		return DRGResult{
			DRG:         UngroupableDRG,
			Type:        "Medical",
			Description: "Ungroupable",
			Notes:       []string{fmt.Sprintf("principal diagnosis %s not found", enc.PrincipalDx)},
		}
	}

	// Step 2 — MDC derivation.
	mdc := pdxInfo.Mappings[0].MDC
	notes = append(notes, fmt.Sprintf("MDC %s from PDX %s", mdc, enc.PrincipalDx))

	// Step 3 — severity extraction; first MCC wins and stops the scan.
	var mccDx, ccDx string
	for _, dx := range enc.SecondaryDx {
		info, ok := store.CCMCC[dx]
		if !ok {
			continue
		}
		if info.Level == manual.MCC && mccDx == "" {
			mccDx = dx
			break
		}
		if info.Level == manual.CC && ccDx == "" {
			ccDx = dx
		}
	}

	// Step 4 — discharge-alive filter.
	if enc.DischargeStatus != Alive {
		if mccDx != "" {
			if _, alive := store.DischargeAlive[mccDx]; alive {
				notes = append(notes, fmt.Sprintf("MCC %s excluded: discharge-alive only, status=%s", mccDx, enc.DischargeStatus))
				mccDx = ""
			}
		}
		if ccDx != "" {
			if _, alive := store.DischargeAlive[ccDx]; alive {
				notes = append(notes, fmt.Sprintf("CC %s excluded: discharge-alive only, status=%s", ccDx, enc.DischargeStatus))
				ccDx = ""
			}
		}
	}

	// Step 5 — Pre-MDC override.
	for _, proc := range enc.Procedures {
		entry, ok := preMDCTable[proc]
		if !ok {
			continue
		}
		drg := entry.withoutMCCDRG
		resultCC := ccDx
		if mccDx != "" {
			drg = entry.withMCCDRG
			resultCC = ""
		}
		notes = append(notes, "Assigned via Pre-MDC logic")
		return buildResult(store, drg, "", mccDx, resultCC, "", notes)
	}

	// Step 6 — procedure branch selection.
	var orProcedures []string
	for _, proc := range enc.Procedures {
		if info, ok := store.Procedures[proc]; ok && info.IsORProcedure {
			orProcedures = append(orProcedures, proc)
		}
	}

	if len(orProcedures) > 0 {
		notes = append(notes, "surgical path: OR procedure present")
		drg, stepNotes := surgicalPath(store, orProcedures, mccDx, ccDx)
		notes = append(notes, stepNotes...)
		if drg == "" {
			return DRGResult{
				DRG:         UngroupableDRG,
				MDC:         mdc,
				Type:        "Medical",
				Description: "Ungroupable",
				Notes:       append(notes, "Could not determine DRG"),
			}
		}
		return buildResult(store, drg, mdc, mccDx, ccDx, orProcedures[0], notes)
	}

	notes = append(notes, "medical path: no OR procedure")
	drg, stepNotes, resolved := medicalPath(store, pdxInfo, mdc, enc.PrincipalDx, mccDx, ccDx)
	notes = append(notes, stepNotes...)
	if !resolved {
		return DRGResult{
			DRG:         UngroupableDRG,
			MDC:         mdc,
			Type:        "Medical",
			Description: "Ungroupable",
			Notes:       append(notes, "Could not determine DRG"),
		}
	}
	return buildResult(store, drg, mdc, mccDx, ccDx, "", notes)
}

// surgicalPath implements Step 7a.
func surgicalPath(store *refdata.Store, orProcedures []string, mccDx, ccDx string) (string, []string) {
	var notes []string

	var base string
	for _, proc := range orProcedures {
		info := store.Procedures[proc]
		if len(info.DRGs) > 0 {
			base = info.DRGs[0]
			break
		}
	}
	if base == "" {
		return "", notes
	}

	desc := strings.ToLower(store.DRGDefinitions[base].Description)
	hasVariants := strings.Contains(desc, "with mcc") || strings.Contains(desc, "without mcc") || strings.Contains(desc, "without cc")
	if !hasVariants {
		notes = append(notes, fmt.Sprintf("DRG %s has no severity variants", base))
		return base, notes
	}

	hasMCC := mccDx != ""
	hasCC := ccDx != ""

	if hasMCC {
		notes = append(notes, "MCC present: surgical base variant selected")
		return base, notes
	}

	ccVariant := incDRG(base, 1)
	noCCVariant := incDRG(base, 2)

	if hasCC {
		if strings.Contains(strings.ToLower(store.DRGDefinitions[ccVariant].Description), "with cc") {
			notes = append(notes, fmt.Sprintf("CC present: selected DRG %s", ccVariant))
			return ccVariant, notes
		}
		notes = append(notes, "CC present but CC variant not confirmed: base retained")
		return base, notes
	}

	noCCDesc := strings.ToLower(store.DRGDefinitions[noCCVariant].Description)
	if strings.Contains(noCCDesc, "without cc") {
		notes = append(notes, fmt.Sprintf("no CC/MCC: selected DRG %s", noCCVariant))
		return noCCVariant, notes
	}
	ccDesc := strings.ToLower(store.DRGDefinitions[ccVariant].Description)
	if strings.Contains(ccDesc, "without") || strings.Contains(ccDesc, "with cc") {
		notes = append(notes, fmt.Sprintf("no CC/MCC: fell back to DRG %s", ccVariant))
		return ccVariant, notes
	}
	notes = append(notes, "no CC/MCC: base retained")
	return base, notes
}

// medicalPath implements Step 7b, including the surgical-DRG fallback
// and the acute-cor-pulmonale MCC-equivalence rule. The final bool
// return is false when no mapping matches the derived MDC.
func medicalPath(store *refdata.Store, pdxInfo manual.DiagnosisInfo, mdc, principalDx, mccDx, ccDx string) (string, []string, bool) {
	var notes []string

	var drgs []string
	for _, mapping := range pdxInfo.Mappings {
		if mapping.MDC == mdc {
			drgs = mapping.DRGs
			break
		}
	}
	if len(drgs) == 0 {
		return "", notes, false
	}

	_, promoted := acuteCorPulmonalePDX[principalDx]
	effectiveMCC := mccDx != "" || promoted
	effectiveCC := ccDx != ""

	candidate := selectVariant(drgs, effectiveMCC, effectiveCC)
	notes = append(notes, fmt.Sprintf("candidate DRG %s from MDC %s mapping", candidate, mdc))

	if def, ok := store.DRGDefinitions[candidate]; ok && def.Type == manual.Surgical {
		if triplet, ok := surgicalToMedicalFallback[candidate]; ok {
			redirected := selectVariant(triplet[:], effectiveMCC, effectiveCC)
			notes = append(notes, fmt.Sprintf("surgical-typed candidate %s redirected to medical DRG %s", candidate, redirected))
			return redirected, notes, true
		}
		notes = append(notes, fmt.Sprintf("candidate %s is surgical-typed with no fallback entry", candidate))
	}

	return candidate, notes, true
}

// selectVariant applies the triplet/pair/singleton severity-selection
// rule shared by the initial MDC-mapping lookup and the surgical
// fallback redirect.
func selectVariant(drgs []string, hasMCC, hasCC bool) string {
	switch {
	case len(drgs) >= 3:
		if hasMCC {
			return drgs[0]
		}
		if hasCC {
			return drgs[1]
		}
		return drgs[2]
	case len(drgs) == 2:
		if hasMCC || hasCC {
			return drgs[0]
		}
		return drgs[1]
	default:
		return drgs[0]
	}
}

// incDRG returns the 3-digit zero-padded DRG numbered delta above base.
func incDRG(base string, delta int) string {
	n, err := strconv.Atoi(base)
	if err != nil {
		return base
	}
	return fmt.Sprintf("%03d", n+delta)
}

// buildResult implements C9: packages the derived DRG plus its
// Appendix A definition into a DRGResult. cc_dx is only carried when
// mcc_dx is absent.
func buildResult(store *refdata.Store, drg, mdc, mccDx, ccDx, surgicalProcedure string, notes []string) DRGResult {
	def, ok := store.DRGDefinitions[drg]
	description := "Unknown"
	drgType := "Medical"
	if ok {
		description = def.Description
		if def.MDC != "" {
			mdc = def.MDC
		}
		if def.Type == manual.Surgical {
			drgType = "Surgical"
		}
	}

	result := DRGResult{
		DRG:               drg,
		MDC:               mdc,
		Description:       description,
		Type:              drgType,
		MCCDx:             mccDx,
		SurgicalProcedure: surgicalProcedure,
		Notes:             notes,
	}
	if mccDx == "" {
		result.CCDx = ccDx
	}
	return result
}
