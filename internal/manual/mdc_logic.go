package manual

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	drgHeaderRe    = regexp.MustCompile(`^DRG\s+(\d{3})\s+(.+)$`)
	andLineRe      = regexp.MustCompile(`^\s+and\s+([A-Z0-9]{7})\*?\s+(.*)$`)
	procedureLnRe  = regexp.MustCompile(`^  ([A-Z0-9]{7})\*?\s+(.*)$`)
)

type mdcSection int

const (
	sectionOff mdcSection = iota
	sectionOR
	sectionNonOR
	sectionDiagnosis
)

// ParseMDCFile parses one MDC narrative file: DRG headers, OR/non-OR
// procedure sections, combination ("and") lines, and asterisk handling.
// Returns the procedure table and, keyed by each DRG header's own
// number, the severity role ("with MCC" / "with CC" / "without CC")
// that header's description names; an entry fills only the slot for
// its own DRG.
func ParseMDCFile(path string) (map[string]ProcedureCodeInfo, map[string]DRGSeverityVariants, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	procedures := make(map[string]ProcedureCodeInfo)
	variants := make(map[string]DRGSeverityVariants)

	var currentDRG string
	section := sectionOff
	var pendingCombination string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		stripped := strings.TrimSpace(line)

		if m := drgHeaderRe.FindStringSubmatch(stripped); m != nil {
			currentDRG = m[1]
			description := m[2]

			v := variants[currentDRG]
			switch {
			case strings.Contains(description, "with MCC"):
				v.MCCDRG = currentDRG
			case strings.Contains(description, "with CC") && !strings.Contains(description, "without CC"):
				v.CCDRG = currentDRG
			case strings.Contains(description, "without CC/MCC") || strings.Contains(description, "without MCC"):
				v.NoCCDRG = currentDRG
			}
			variants[currentDRG] = v
			continue
		}

		if strings.Contains(stripped, "OPERATING ROOM PROCEDURES") && !strings.Contains(stripped, "NON-") {
			section = sectionOR
			continue
		}
		if strings.Contains(stripped, "NON-OPERATING ROOM PROCEDURES") {
			section = sectionNonOR
			continue
		}
		if strings.Contains(stripped, "PRINCIPAL") || strings.Contains(stripped, "SECONDARY") {
			section = sectionDiagnosis
			continue
		}

		if section == sectionDiagnosis {
			continue
		}
		if section != sectionOR && section != sectionNonOR {
			continue
		}

		if m := andLineRe.FindStringSubmatch(line); m != nil {
			code := m[1]
			desc := strings.TrimSpace(m[2])

			if pendingCombination != "" && code != "" {
				if pi, ok := procedures[pendingCombination]; ok {
					pi.RequiresCombination = true
					pi.CombinationCodes = append(pi.CombinationCodes, code)
					procedures[pendingCombination] = pi
				}

				var drgs []string
				if currentDRG != "" {
					drgs = []string{currentDRG}
				}
				procedures[code] = ProcedureCodeInfo{
					Code:          code,
					Description:   desc,
					IsORProcedure: section == sectionOR,
					DRGs:          drgs,
				}
			}
			continue
		}

		if m := procedureLnRe.FindStringSubmatch(line); m != nil {
			code := m[1]
			desc := strings.TrimSpace(m[2])
			prefix := line
			if len(prefix) > 20 {
				prefix = prefix[:20]
			}
			hasAsterisk := strings.Contains(prefix, "*")
			effectiveIsOR := section == sectionOR && !hasAsterisk

			pi, exists := procedures[code]
			if !exists {
				pi = ProcedureCodeInfo{
					Code:          code,
					Description:   desc,
					IsORProcedure: effectiveIsOR,
				}
			}
			if currentDRG != "" {
				pi.DRGs = append(pi.DRGs, currentDRG)
			}
			procedures[code] = pi

			pendingCombination = code
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	return procedures, variants, nil
}
