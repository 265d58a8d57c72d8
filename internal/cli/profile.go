// Package cli keeps the onboarding CLI's saved API endpoints.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/edvin/onboarding/internal/config"
)

const (
	configDirName = "onboarding"
	profilesDir   = "profiles"
	stateFile     = "state.json"

	// DefaultAPIURL reaches an API started with the default listen address.
	DefaultAPIURL = "http://localhost" + config.DefaultHTTPListenAddr
)

// Profile is a saved API endpoint.
type Profile struct {
	Name   string `json:"name"`
	APIURL string `json:"api_url"`
	APIKey string `json:"api_key,omitempty"`
}

// State holds the active profile selection.
type State struct {
	ActiveProfile string `json:"active_profile"`
}

// configDir returns the base config directory (~/.config/onboarding/).
func configDir() (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		xdgConfig = filepath.Join(home, ".config")
	}

	return filepath.Join(xdgConfig, configDirName), nil
}

// ensureConfigDir creates the config directory structure if needed.
func ensureConfigDir() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Join(dir, profilesDir), 0700); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return dir, nil
}

// SaveProfile writes a profile, replacing any profile with the same name.
func SaveProfile(name, apiURL, apiKey string) (*Profile, error) {
	name = sanitizeName(name)
	if name == "" {
		return nil, errors.New("profile name is required")
	}
	u, err := url.Parse(apiURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q", apiURL)
	}

	dir, err := ensureConfigDir()
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		Name:   name,
		APIURL: strings.TrimRight(apiURL, "/"),
		APIKey: apiKey,
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, profilesDir, name+".json"), data, 0600); err != nil {
		return nil, fmt.Errorf("write profile: %w", err)
	}

	return profile, nil
}

// ListProfiles returns all saved profiles sorted by name.
func ListProfiles() ([]Profile, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}

	pDir := filepath.Join(dir, profilesDir)
	entries, err := os.ReadDir(pDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read profiles directory: %w", err)
	}

	var profiles []Profile
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(pDir, entry.Name()))
		if err != nil {
			continue
		}

		var p Profile
		if err := json.Unmarshal(data, &p); err != nil {
			continue
		}
		profiles = append(profiles, p)
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

// LoadProfile loads a profile by name.
func LoadProfile(name string) (*Profile, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, profilesDir, sanitizeName(name)+".json"))
	if err != nil {
		return nil, fmt.Errorf("profile %q not found: %w", name, err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// DeleteProfile removes a saved profile.
func DeleteProfile(name string) error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	name = sanitizeName(name)
	if err := os.Remove(filepath.Join(dir, profilesDir, name+".json")); err != nil {
		return fmt.Errorf("delete profile %q: %w", name, err)
	}

	// If this was the active profile, clear it.
	state, _ := loadState()
	if state != nil && state.ActiveProfile == name {
		state.ActiveProfile = ""
		return saveState(state)
	}

	return nil
}

// SetActive sets the active profile.
func SetActive(name string) error {
	p, err := LoadProfile(name)
	if err != nil {
		return err
	}

	return saveState(&State{ActiveProfile: p.Name})
}

// GetActive returns the currently active profile name.
func GetActive() (string, error) {
	state, err := loadState()
	if err != nil {
		return "", nil // no state file = no active profile
	}
	return state.ActiveProfile, nil
}

// Resolve picks the API endpoint to use. Explicit values win, then the
// ONBOARDING_API_URL and ONBOARDING_API_KEY environment variables, then the
// active profile, then DefaultAPIURL.
func Resolve(apiURL, apiKey string) (string, string) {
	if apiURL == "" {
		apiURL = os.Getenv("ONBOARDING_API_URL")
	}
	if apiKey == "" {
		apiKey = os.Getenv("ONBOARDING_API_KEY")
	}

	if apiURL == "" || apiKey == "" {
		if active, _ := GetActive(); active != "" {
			if p, err := LoadProfile(active); err == nil {
				if apiURL == "" {
					apiURL = p.APIURL
				}
				if apiKey == "" {
					apiKey = p.APIKey
				}
			}
		}
	}

	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return apiURL, apiKey
}

func loadState() (*State, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, stateFile))
	if err != nil {
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

func saveState(state *State) error {
	dir, err := ensureConfigDir()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, stateFile), data, 0600)
}

func sanitizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
	return strings.Trim(name, "-")
}
