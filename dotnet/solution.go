package dotnet

import (
	"path"
	"regexp"
	"strings"
)

// SolutionProject is one Project(...) entry lifted from a .sln file.
type SolutionProject struct {
	TypeGUID string
	Name     string
	Path     string
	GUID     string
}

var projectLineRE = regexp.MustCompile(`(?m)^Project\("\{([^}]+)\}"\)\s*=\s*"([^"]+)"\s*,\s*"([^"]+)"\s*,\s*"\{([^}]+)\}"`)

// solutionFolderGUID is the project-type GUID Visual Studio uses for
// virtual solution folders; these are not real projects and are excluded.
const solutionFolderGUID = "2150E333-8FDC-42A3-9474-1A3956D46DE8"

// ParseSolution extracts the real projects referenced by a .sln file,
// skipping solution-folder pseudo-entries, grounded on solution.py.
func ParseSolution(solutionPath string, data []byte) []SolutionProject {
	text := string(data)
	baseDir := path.Dir(filepathToSlash(solutionPath))

	var out []SolutionProject
	for _, m := range projectLineRE.FindAllStringSubmatch(text, -1) {
		typeGUID, name, relPath, guid := m[1], m[2], m[3], m[4]
		if strings.EqualFold(typeGUID, solutionFolderGUID) {
			continue
		}
		normalized := strings.ReplaceAll(relPath, "\\", "/")
		out = append(out, SolutionProject{
			TypeGUID: typeGUID,
			Name:     name,
			Path:     path.Join(baseDir, normalized),
			GUID:     guid,
		})
	}
	return out
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
