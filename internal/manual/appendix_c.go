package manual

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"msdrggrouper/internal/drgrange"
)

var (
	exclusionRefRe = regexp.MustCompile(`^(\d+:\d+\s+codes?)\s+(.*)$`)
	part3HeaderRe  = regexp.MustCompile(`DRGs?\s+(\d+(?:-\d+)?)`)
)

type ccSection int

const (
	sectionNone ccSection = iota
	sectionPart1
	sectionPart2
	sectionPart3
)

// ParseAppendixC parses the three-part CC/MCC appendix: Part 1 (the
// CC/MCC list with optional PDX-exclusion-group references), Part 2
// (codes that are CC/MCC only if the patient was discharged alive),
// and Part 3 (per-DRG exclusion lists).
func ParseAppendixC(path string) (map[string]CCMCCInfo, map[string]struct{}, map[string]map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ccMCC := make(map[string]CCMCCInfo)
	dischargeAlive := make(map[string]struct{})
	exclusions := make(map[string]map[string]struct{})
	var currentDRGs []string

	section := sectionNone
	inData := false

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		stripped := strings.TrimSpace(line)

		switch {
		case strings.Contains(line, "Part 1"):
			section = sectionPart1
			inData = false
			continue
		case strings.Contains(line, "Part 2"):
			section = sectionPart2
			inData = false
			continue
		case strings.Contains(line, "Part 3"):
			section = sectionPart3
			inData = false
			currentDRGs = nil
			continue
		}

		if stripped == "" || strings.HasPrefix(stripped, ":") || strings.HasPrefix(stripped, "|") {
			continue
		}

		if strings.Contains(line, "I10 Dx") && strings.Contains(line, "Lev") {
			inData = true
			continue
		}

		switch section {
		case sectionPart1:
			if !inData || len(line) < 12 {
				continue
			}
			code := columnAt(line, 1, 8)
			if code == "" || !isAlnum(code[0]) {
				continue
			}
			levelStr := columnAt(line, 8, 12)
			var level CCLevel
			switch levelStr {
			case "CC":
				level = CC
			case "MCC":
				level = MCC
			default:
				continue
			}

			rest := ""
			if len(line) > 12 {
				rest = strings.TrimSpace(line[12:])
			}
			exclusionRef := ""
			description := rest
			if m := exclusionRefRe.FindStringSubmatch(rest); m != nil {
				exclusionRef = m[1]
				description = m[2]
			}

			ccMCC[code] = CCMCCInfo{
				Code:              code,
				Level:             level,
				PDXExclusionGroup: exclusionRef,
				Description:       description,
			}

		case sectionPart2:
			fields := strings.Fields(stripped)
			if len(fields) == 0 {
				continue
			}
			code := fields[0]
			if len(code) <= 8 && isAlnum(code[0]) {
				dischargeAlive[code] = struct{}{}
			}

		case sectionPart3:
			if strings.Contains(line, "MDC") && strings.Contains(line, "DRG") {
				if m := part3HeaderRe.FindStringSubmatch(line); m != nil {
					currentDRGs = drgrange.Expand(m[1])
					for _, drg := range currentDRGs {
						if _, ok := exclusions[drg]; !ok {
							exclusions[drg] = make(map[string]struct{})
						}
					}
				}
				continue
			}

			fields := strings.Fields(stripped)
			if len(fields) == 0 {
				continue
			}
			code := fields[0]
			if len(code) <= 8 && isAlnum(code[0]) && len(currentDRGs) > 0 {
				for _, drg := range currentDRGs {
					exclusions[drg][code] = struct{}{}
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	return ccMCC, dischargeAlive, exclusions, nil
}

func isAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
