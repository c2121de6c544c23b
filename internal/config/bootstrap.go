package config

import (
	"errors"
	"os"
	"path/filepath"
)

const defaultYAML = `app:
  data_dir: .
  headless: false

operator:
  first_name: ""
  last_name: ""
  email: ""
  phone: ""
  resume_path: ""

search:
  keywords:
    - software engineer
    - junior developer
  locations:
    - Remote
  exclude_keywords:
    - senior
    - lead
    - manager
    - director
    - principal
    - staff

apply:
  max_applications: 10

platforms:
  linkedin: false
  indeed: false
  glassdoor: false

boards:
  enabled: false
  companies: []

email:
  enabled: false
  imap_host: imap.gmail.com
  imap_port: 993
  username: ""
`

// EnsureUserConfig makes sure a config file exists in dataDir, writing the
// default template on first run. Returns the path to use.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.WriteFile(userPath, []byte(defaultYAML), 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}
