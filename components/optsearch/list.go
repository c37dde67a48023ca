package optsearch

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LoadItems reads one option per line. Blank lines and lines starting with #
// are skipped, duplicates are dropped and file order is kept.
func LoadItems(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("optsearch: missing reader")
	}

	scanner := bufio.NewScanner(r)
	items := make([]string, 0, 16)
	seen := map[string]struct{}{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		items = append(items, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
