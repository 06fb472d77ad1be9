package adapter

import (
	"encoding/json"
	"fmt"
	"os"
)

// ModuleInfo provides access to the generated module-info.json file. It is
// used to find the directory within which specific modules are defined.
type ModuleInfo struct {
	modules map[string]moduleEntry
}

type moduleEntry struct {
	// Path is a list of paths, one for each class of make module created
	// from the bp file. They are all expected to be the same.
	Path []string `json:"path"`
}

// LoadModuleInfo reads and parses a module-info.json file.
func LoadModuleInfo(path string) (*ModuleInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module info: %w", err)
	}

	info, err := ParseModuleInfo(data)
	if err != nil {
		return nil, fmt.Errorf("parse module info %s: %w", path, err)
	}

	return info, nil
}

// ParseModuleInfo parses the contents of a module-info.json file.
func ParseModuleInfo(data []byte) (*ModuleInfo, error) {
	var modules map[string]moduleEntry
	if err := json.Unmarshal(data, &modules); err != nil {
		return nil, err
	}

	return &ModuleInfo{modules: modules}, nil
}

// ModulePath returns the unique on-disk directory of the named module. It
// fails for unknown modules and for modules whose make classes disagree on
// the path.
func (mi *ModuleInfo) ModulePath(name string) (string, error) {
	module, ok := mi.modules[name]
	if !ok {
		return "", fmt.Errorf("module %s could not be found", name)
	}

	unique := make(map[string]struct{}, len(module.Path))
	for _, p := range module.Path {
		unique[p] = struct{}{}
	}

	if len(unique) != 1 {
		return "", fmt.Errorf(
			"expected module %q to have a single unique path but found %v", name, module.Path)
	}

	return module.Path[0], nil
}
