package config

import "path/filepath"

// ResolvedFiles contains the resolved config and env file paths. Empty
// means none was found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths from lc when given, otherwise the
// first existing file among the standard locations for serviceName. An
// explicit path that does not exist resolves to empty.
func ResolveFiles(serviceName string, lc LoaderConfig) ResolvedFiles {
	return ResolvedFiles{
		ConfigFile: firstExisting(lc.FileSystem, lc.ConfigFile, configCandidates(serviceName)),
		EnvFile:    firstExisting(lc.FileSystem, lc.EnvFile, envCandidates(serviceName)),
	}
}

func firstExisting(fs FileSystem, explicit string, candidates []string) string {
	if explicit != "" {
		if fs.Exists(explicit) {
			return explicit
		}
		return ""
	}
	for _, path := range candidates {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}

func configCandidates(serviceName string) []string {
	return []string{
		filepath.Join("cmd", serviceName, "config.yml"),
		filepath.Join("config", "config.yml"),
		"config.yml",
	}
}

func envCandidates(serviceName string) []string {
	return []string{
		filepath.Join("cmd", serviceName, ".env"),
		".env." + serviceName,
		".env",
	}
}
