// Package grouping implements the MS-DRG decision pipeline: given an
// encounter and a loaded reference store, it derives a single DRG
// assignment along with an ordered trace of the rules that fired.
package grouping

import "msdrggrouper/internal/normalize"

// Sex is the patient's recorded sex.
type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexUnknown Sex = "U"
)

// DischargeStatus is the encounter's discharge disposition.
type DischargeStatus string

const (
	Alive       DischargeStatus = "ALIVE"
	Expired     DischargeStatus = "EXPIRED"
	Transferred DischargeStatus = "TRANSFERRED"
)

// Encounter is a single patient stay to be grouped. All diagnosis and
// procedure codes are canonicalised at construction time so lookups
// never fail on case or punctuation.
type Encounter struct {
	PrincipalDx     string
	SecondaryDx     []string
	Procedures      []string
	Age             int
	Sex             Sex
	DischargeStatus DischargeStatus
}

// NewEncounter canonicalises every code field before returning.
func NewEncounter(principalDx string, secondaryDx, procedures []string, age int, sex Sex, status DischargeStatus) Encounter {
	return Encounter{
		PrincipalDx:     normalize.Code(principalDx),
		SecondaryDx:     normalize.Codes(secondaryDx),
		Procedures:      normalize.Codes(procedures),
		Age:             age,
		Sex:             sex,
		DischargeStatus: status,
	}
}

// DRGResult is the outcome of grouping one encounter.
type DRGResult struct {
	DRG               string
	MDC               string // empty means absent (Pre-MDC or unrecognised PDX)
	Description       string
	Type              string // "Surgical" | "Medical"
	MCCDx             string // empty when absent
	CCDx              string // empty when absent; never set alongside MCCDx
	SurgicalProcedure string // empty unless the surgical path fired
	Notes             []string
}

// UngroupableDRG is the sentinel DRG returned when an encounter cannot
// be assigned.
const UngroupableDRG = "999"
