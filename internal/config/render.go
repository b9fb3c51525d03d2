package config

import (
	"fmt"
	"strconv"
	"strings"
)

// section groups options sharing the first key segment; "" is the top level.
type section struct {
	name string
	opts []ConfigOption
}

func groupOptions(opts []ConfigOption) []section {
	var out []section
	index := map[string]int{}
	for _, o := range opts {
		name, key := "", o.Key
		if i := strings.Index(o.Key, "."); i >= 0 {
			name, key = o.Key[:i], o.Key[i+1:]
		}
		pos, ok := index[name]
		if !ok {
			pos = len(out)
			index[name] = pos
			out = append(out, section{name: name})
		}
		out[pos].opts = append(out[pos].opts, ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	// top-level keys must precede any table header
	for i, s := range out {
		if s.name == "" && i > 0 {
			copy(out[1:i+1], out[:i])
			out[0] = s
			break
		}
	}
	return out
}

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	lines := []string{"# zenith configuration (TOML)"}
	for _, s := range groupOptions(GetConfigOptions()) {
		if s.name != "" {
			lines = append(lines, "["+s.name+"]")
		}
		for _, o := range s.opts {
			lines = append(lines, optionLines(o)...)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// UpdateTOML appends missing defaults to an existing TOML document and comments
// out keys that are no longer recognized. The bool reports whether anything changed.
func UpdateTOML(existing string) (string, bool) {
	opts := GetConfigOptions()
	known := make(map[string]bool, len(opts))
	for _, o := range opts {
		known[o.Key] = true
	}

	seen := map[string]bool{}
	current := ""
	changed := false
	out := make([]string, 0)
	for _, line := range strings.Split(existing, "\n") {
		trim := strings.TrimSpace(line)
		switch {
		case trim == "" || strings.HasPrefix(trim, "#"):
			out = append(out, line)
			continue
		case strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]"):
			current = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		if current != "" {
			key = current + "." + key
		}
		if !known[key] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema", indent+"# "+trim)
			changed = true
			continue
		}
		seen[key] = true
		out = append(out, line)
	}

	var missing []ConfigOption
	for _, o := range opts {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}
	var head []string
	out = append(out, "", "# Added by config update")
	for _, s := range groupOptions(missing) {
		if s.name == "" {
			// appended top-level keys would land in the last table
			head = append(head, "# Added by config update")
			for _, o := range s.opts {
				head = append(head, optionLines(o)...)
			}
			continue
		}
		out = append(out, "["+s.name+"]")
		for _, o := range s.opts {
			out = append(out, optionLines(o)...)
		}
	}
	return strings.Join(append(head, out...), "\n"), true
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.ContainsAny(key[:1], `["'`) {
		return "", false
	}
	return key, true
}

func optionLines(o ConfigOption) []string {
	var lines []string
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, o.Key+" = "+tomlValue(o.Default), "")
}

func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case []string:
		q := make([]string, len(v))
		for i, s := range v {
			q[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(q, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}
