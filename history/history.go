// Package history loads the optional historical identifier dump used to
// seed the ledger at startup.
package history

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"dedup-telegram-bot/identifier"
)

// Load reads a flat text dump, one token per line. Lines starting with @
// are handles; everything else is treated as a phone number. Phones that
// normalize to fewer than the minimum digit count are discarded. Returned
// tokens are normalized and ready for seeding.
func Load(path string) (phones, handles []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "@") {
			handles = append(handles, identifier.NormalizeHandle(line))
			continue
		}
		phone := identifier.NormalizePhone(line)
		if len(phone) >= identifier.MinPhoneDigits {
			phones = append(phones, phone)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read history file: %w", err)
	}
	return phones, handles, nil
}
