package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
)

// FileTokenProvider serves tokens from a JSON file keyed by calendar ref:
//
//	{"alice@example.com": {"refresh_token": "..."}}
//
// Tokens are provisioned out of band by whoever owns the OAuth consent flow.
// The file is read once and cached.
func FileTokenProvider(path string) TokenProvider {
	var (
		once    sync.Once
		tokens  map[string]*oauth2.Token
		loadErr error
	)
	return func(calendarRef string) (*oauth2.Token, error) {
		once.Do(func() {
			data, err := os.ReadFile(path)
			if err != nil {
				loadErr = fmt.Errorf("failed to read token file %s: %w", path, err)
				return
			}
			loadErr = json.Unmarshal(data, &tokens)
		})
		if loadErr != nil {
			return nil, loadErr
		}
		token, ok := tokens[calendarRef]
		if !ok {
			return nil, fmt.Errorf("no token provisioned for %s", calendarRef)
		}
		return token, nil
	}
}
