package config

import (
	"os"
	"path/filepath"
)

// DataFilePath resolves a bundled resource such as "templates/banner.tmpl".
// The instance copy under DataDir wins over the system copy under SysDataDir.
// When neither exists the instance path is returned so callers still have a
// path to report or create.
func (s *Settings) DataFilePath(rel string) string {
	s.mu.RLock()
	local := filepath.Join(s.DataDir, rel)
	system := filepath.Join(s.SysDataDir, rel)
	s.mu.RUnlock()

	if exists(local) {
		return local
	}
	if exists(system) {
		return system
	}
	return local
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
