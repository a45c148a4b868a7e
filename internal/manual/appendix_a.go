package manual

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var drgTypeRe = regexp.MustCompile(`\s([MP])\s+`)

// ParseAppendixA parses the DRG catalogue: DRG in columns 0-3, MDC in
// columns 4-6 (absent for Pre-MDC), type character near column 7,
// description from column 10 onward. Header/decorative lines are
// skipped; data starts after the "DRG MDC MS Description" heading.
func ParseAppendixA(path string) (map[string]DRGDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	defs := make(map[string]DRGDefinition)
	inData := false

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, ":") || strings.HasPrefix(line, "|") || strings.HasPrefix(line, "Appendix") {
			continue
		}
		if strings.Contains(line, "DRG MDC MS Description") {
			inData = true
			continue
		}
		if !inData {
			continue
		}

		if len(line) < 10 {
			continue
		}

		drgNum := strings.TrimSpace(line[0:3])
		if !isDigits(drgNum) {
			continue
		}

		mdc := ""
		if len(line) > 5 {
			mdc = strings.TrimSpace(line[4:6])
		}

		var drgType DRGType
		typeChar := ""
		if len(line) > 8 {
			typeChar = strings.TrimSpace(line[7:8])
		}
		switch typeChar {
		case "P":
			drgType = Surgical
		case "M":
			drgType = Medical
		default:
			window := ""
			if len(line) > 4 {
				end := 12
				if end > len(line) {
					end = len(line)
				}
				window = line[4:end]
			}
			m := drgTypeRe.FindStringSubmatch(window)
			if m == nil {
				continue
			}
			if m[1] == "P" {
				drgType = Surgical
			} else {
				drgType = Medical
			}
		}

		description := ""
		if len(line) > 10 {
			description = strings.TrimSpace(line[10:])
		}

		defs[drgNum] = DRGDefinition{
			DRG:         drgNum,
			MDC:         mdc,
			Type:        drgType,
			Description: description,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return defs, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
