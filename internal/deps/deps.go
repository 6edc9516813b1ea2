package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external program the distribution relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Toolchain returns the external programs texkit invokes, with the
// repair utility name taken from configuration.
func Toolchain(repairUtility string) []Requirement {
	return []Requirement{
		{Name: "Repair utility", Command: repairUtility, Description: "Rebuilds the file name database, font maps, and language tables"},
		{Name: "Metafont", Command: "mf", Description: "Generates font metrics from Metafont sources", Optional: true},
		{Name: "MakeMF", Command: "makemf", Description: "Synthesizes Metafont driver files for parameterized fonts", Optional: true},
		{Name: "HBF2GF", Command: "hbf2gf", Description: "Converts bitmap HBF fonts to GF and PL files", Optional: true},
		{Name: "PLtoTF", Command: "pltotf", Description: "Compiles property-list files into TFM metrics", Optional: true},
		{Name: "Perl", Command: "perl", Description: "Runs registered maintenance scripts", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
