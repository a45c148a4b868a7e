// Package refdata assembles the outputs of the four Definitions Manual
// parsers (internal/manual) into one read-only lookup structure. The
// store is built once at startup and is safe to share across arbitrarily
// many concurrent grouping calls: nothing in it is mutated after Load
// returns.
package refdata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"msdrggrouper/internal/manual"
)

// Store is the immutable reference data consulted by the grouping
// engine. All maps are keyed by canonicalised code or zero-padded DRG.
type Store struct {
	DRGDefinitions    map[string]manual.DRGDefinition
	Diagnoses         map[string]manual.DiagnosisInfo
	CCMCC             map[string]manual.CCMCCInfo
	DischargeAlive    map[string]struct{}
	DRGExclusions     map[string]map[string]struct{}
	Procedures        map[string]manual.ProcedureCodeInfo
	SeverityVariants  map[string]manual.DRGSeverityVariants
}

var mdcLogicFiles = []string{
	"mdcs_00_07.txt",
	"mdcs_08_11.txt",
	"mdcs_12_21.txt",
	"mdcs_22_25.txt",
}

// Load reads appendix_A.txt, appendix_B.txt, and appendix_C.txt (all
// mandatory) plus any of the four MDC-logic narrative files present
// under dataDir (each optional; a missing one simply contributes
// nothing) and assembles a Store.
func Load(dataDir string) (*Store, error) {
	drgDefs, err := manual.ParseAppendixA(filepath.Join(dataDir, "appendix_A.txt"))
	if err != nil {
		return nil, fmt.Errorf("load appendix A: %w", err)
	}

	diagnoses, err := manual.ParseAppendixB(filepath.Join(dataDir, "appendix_B.txt"))
	if err != nil {
		return nil, fmt.Errorf("load appendix B: %w", err)
	}

	ccMCC, dischargeAlive, exclusions, err := manual.ParseAppendixC(filepath.Join(dataDir, "appendix_C.txt"))
	if err != nil {
		return nil, fmt.Errorf("load appendix C: %w", err)
	}

	procedures := make(map[string]manual.ProcedureCodeInfo)
	variants := make(map[string]manual.DRGSeverityVariants)
	for _, name := range mdcLogicFiles {
		path := filepath.Join(dataDir, name)
		procs, vars, err := manual.ParseMDCFile(path)
		if err != nil {
			// A missing MDC file is tolerated; any other read failure
			// (permissions, truncation mid-read) is not silently eaten.
			if isNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("load MDC logic %s: %w", name, err)
		}
		for code, info := range procs {
			procedures[code] = info
		}
		for drg, v := range vars {
			merged := variants[drg]
			if v.MCCDRG != "" {
				merged.MCCDRG = v.MCCDRG
			}
			if v.CCDRG != "" {
				merged.CCDRG = v.CCDRG
			}
			if v.NoCCDRG != "" {
				merged.NoCCDRG = v.NoCCDRG
			}
			variants[drg] = merged
		}
	}

	return &Store{
		DRGDefinitions:   drgDefs,
		Diagnoses:        diagnoses,
		CCMCC:            ccMCC,
		DischargeAlive:   dischargeAlive,
		DRGExclusions:    exclusions,
		Procedures:       procedures,
		SeverityVariants: variants,
	}, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
