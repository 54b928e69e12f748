// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"strconv"
	"strings"
)

// isValidSegmentName checks for undesirable but technically valid names.
func isValidSegmentName(name string) bool {
	return name != ""
}

// Parse creates a new Address struct by parsing its canonical string representation.
func Parse(rawID string) (*Address, error) {
	if rawID == "" {
		return nil, fmt.Errorf("identifier cannot be empty")
	}

	addr := &Address{}
	var name strings.Builder
	index := -1
	inIndex := false
	var digits strings.Builder

	flush := func() error {
		if inIndex {
			return fmt.Errorf("unterminated index in %q", rawID)
		}
		if !isValidSegmentName(name.String()) {
			return fmt.Errorf("identifier path contains empty segment")
		}
		addr.Path = append(addr.Path, NewPathSegmentWithIndex(name.String(), index))
		name.Reset()
		index = -1
		return nil
	}

	runes := []rune(rawID)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inIndex:
			if r == ']' {
				if digits.Len() == 0 {
					return nil, fmt.Errorf("empty index in %q", rawID)
				}
				n, err := strconv.Atoi(digits.String())
				if err != nil {
					return nil, fmt.Errorf("internal error parsing index: %w", err)
				}
				index = n
				digits.Reset()
				inIndex = false
				if i+1 < len(runes) && runes[i+1] != '.' {
					return nil, fmt.Errorf("index must end a segment in %q", rawID)
				}
				continue
			}
			if r < '0' || r > '9' {
				return nil, fmt.Errorf("invalid path segment format: non-numeric index in %q", rawID)
			}
			digits.WriteRune(r)
		case r == '\\':
			if i+1 == len(runes) {
				return nil, fmt.Errorf("dangling escape in %q", rawID)
			}
			i++
			name.WriteRune(runes[i])
		case r == '.':
			if err := flush(); err != nil {
				return nil, err
			}
		case r == '[':
			inIndex = true
		case r == ']':
			return nil, fmt.Errorf("unexpected ']' in %q", rawID)
		default:
			if index != -1 {
				return nil, fmt.Errorf("index must end a segment in %q", rawID)
			}
			name.WriteRune(r)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return addr, nil
}
