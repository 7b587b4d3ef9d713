package requirements

import "strings"

// ParseDockerfileArgs extracts ARG declarations from Dockerfile lines,
// returning a map of ARG name to value. ARGs without a value are skipped.
func ParseDockerfileArgs(lines []string) map[string]string {
	_, args := parseDockerfileArgs(lines)
	return args
}

func parseDockerfileArgs(lines []string) ([]string, map[string]string) {
	var names []string
	args := make(map[string]string)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "ARG ") {
			continue
		}
		content := strings.TrimSpace(line[4:])
		key, value, ok := strings.Cut(content, "=")
		if !ok {
			continue
		}
		name := strings.TrimSpace(key)
		if _, seen := args[name]; !seen {
			names = append(names, name)
		}
		args[name] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return names, args
}

// CompareDockerfiles diffs the ARG declarations of two Dockerfile versions.
// Buckets keep the declaration order of the input files, so the output is
// stable across runs.
func CompareDockerfiles(oldLines, newLines []string) Changes {
	oldNames, oldArgs := parseDockerfileArgs(oldLines)
	newNames, newArgs := parseDockerfileArgs(newLines)

	var changes Changes

	for _, name := range oldNames {
		oldValue := oldArgs[name]
		if newValue, ok := newArgs[name]; ok {
			if oldValue != newValue {
				changes.Changed = append(changes.Changed,
					name+"="+oldValue+Arrow+name+"="+newValue)
			}
		} else {
			changes.Removed = append(changes.Removed, name+"="+oldValue)
		}
	}
	for _, name := range newNames {
		if _, ok := oldArgs[name]; !ok {
			changes.Added = append(changes.Added, name+"="+newArgs[name])
		}
	}

	return changes
}

// splitArg splits an "NAME=value" entry
func splitArg(line string) (string, string, bool) {
	name, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(name), strings.TrimSpace(value), true
}
