package main

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
)

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandConfigEnv substitutes ${VAR} references in a config file body.
// A reference to an unset variable is an error; "$$" yields a literal "$".
func expandConfigEnv(body string) (string, error) {
	const escaped = "\x00HEALTHMON_DOLLAR\x00"
	body = strings.ReplaceAll(body, "$$", escaped)

	var missing []string
	for _, m := range envRef.FindAllStringSubmatch(body, -1) {
		if _, ok := os.LookupEnv(m[1]); !ok && !slices.Contains(missing, m[1]) {
			missing = append(missing, m[1])
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return "", fmt.Errorf("config references unset environment variables: %s", strings.Join(missing, ", "))
	}

	body = envRef.ReplaceAllStringFunc(body, func(ref string) string {
		return os.Getenv(envRef.FindStringSubmatch(ref)[1])
	})
	return strings.ReplaceAll(body, escaped, "$"), nil
}
