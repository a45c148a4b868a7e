package manual

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"msdrggrouper/internal/drgrange"
)

// ParseAppendixB parses the diagnosis -> MDC/DRG index. A diagnosis
// code in columns 0-8 introduces a new diagnosis and closes the
// previous one; a blank code column is a continuation that appends
// another (MDC, DRGs) mapping to the currently open diagnosis. Mapping
// order is preserved and semantically meaningful: the first mapping is
// the diagnosis's primary MDC.
func ParseAppendixB(path string) (map[string]DiagnosisInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	diagnoses := make(map[string]DiagnosisInfo)

	var currentDx string
	var currentMappings []MDCMapping
	var currentDescription string

	closeCurrent := func() {
		if currentDx != "" && len(currentMappings) > 0 {
			diagnoses[currentDx] = DiagnosisInfo{
				Code:        currentDx,
				Description: currentDescription,
				Mappings:    currentMappings,
			}
		}
	}

	inData := false
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.Contains(line, "I10 Dx") && strings.Contains(line, "MDC") {
			inData = true
			continue
		}
		if !inData {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		dxCode := ""
		if len(line) >= 8 {
			dxCode = strings.TrimSpace(line[0:8])
		} else {
			dxCode = strings.TrimSpace(line)
		}

		mdc := columnAt(line, 8, 12)
		drgRange := columnAt(line, 12, 24)

		if dxCode != "" {
			closeCurrent()
			currentDx = dxCode
			currentMappings = nil
			currentDescription = ""
			if len(line) > 24 {
				currentDescription = strings.TrimSpace(line[24:])
			}

			if mdc != "" && drgRange != "" {
				currentMappings = append(currentMappings, MDCMapping{
					MDC:  mdc,
					DRGs: drgrange.Expand(drgRange),
				})
			}
		} else {
			if mdc != "" && drgRange != "" {
				currentMappings = append(currentMappings, MDCMapping{
					MDC:  mdc,
					DRGs: drgrange.Expand(drgRange),
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	closeCurrent()

	return diagnoses, nil
}

// columnAt slices [start:end] out of line, clamping to its length, and
// trims the result. Returns "" if start is beyond the line.
func columnAt(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[start:end])
}
