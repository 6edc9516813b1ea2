package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckRepairUtility reports which repair utility binary maintenance
// will execute.
//
// The lookup order matches the session resolver: a binary under the
// installation's bin directory wins over one resolved from PATH, so
// status output names the same program maintenance would actually run.
func CheckRepairUtility(installRoot, command string) Status {
	result := Status{
		Name:        "Repair utility",
		Description: "Rebuilds the file name database, font maps, and language tables",
	}

	binary := strings.TrimSpace(command)
	if binary == "" {
		result.Detail = "command not configured"
		return result
	}

	root := strings.TrimSpace(installRoot)
	if root != "" {
		candidate := filepath.Join(root, "bin", executableName(binary))
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			result.Command = candidate
			result.Available = true
			return result
		}
	}

	if resolved, err := exec.LookPath(binary); err == nil {
		result.Command = resolved
		result.Available = true
		return result
	}

	result.Command = binary
	result.Available = false
	result.Detail = fmt.Sprintf("binary %q not found", binary)
	return result
}

func executableName(name string) string {
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		return name + ".exe"
	}
	return name
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
