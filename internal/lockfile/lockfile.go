// Package lockfile reads the gems resolved in a Bundler Gemfile.lock.
package lockfile

import (
	"bufio"
	"io"
	"strings"
)

// DefaultName is the lockfile Bundler writes next to the Gemfile.
const DefaultName = "Gemfile.lock"

// Manifest maps gem names to their resolved versions.
type Manifest map[string]string

// Has reports whether the named gem is part of the bundle.
func (m Manifest) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Parse reads the specs listed under the GEM, GIT and PATH sources of a
// lockfile. Dependency lines nested under a spec are skipped; platform
// suffixes stay part of the version (nokogiri 1.16.0-arm64-darwin).
func Parse(r io.Reader) (Manifest, error) {
	m := make(Manifest)
	scanner := bufio.NewScanner(r)

	inSource := false
	inSpecs := false
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			inSource, inSpecs = false, false
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		switch {
		case indent == 0:
			section := strings.TrimSpace(line)
			inSource = section == "GEM" || section == "GIT" || section == "PATH"
			inSpecs = false
		case !inSource:
		case indent == 2:
			inSpecs = strings.TrimSpace(line) == "specs:"
		case indent == 4 && inSpecs:
			name, version, ok := parseSpec(strings.TrimSpace(line))
			if ok {
				m[name] = version
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// parseSpec splits "rails (7.1.3)" into name and version.
func parseSpec(s string) (string, string, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		if s == "" || strings.ContainsAny(s, " ") {
			return "", "", false
		}
		return s, "", true
	}
	name := strings.TrimSpace(s[:open])
	version := strings.TrimSuffix(strings.TrimSpace(s[open+1:]), ")")
	if name == "" {
		return "", "", false
	}
	return name, version, true
}
