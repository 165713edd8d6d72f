package server

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FeatureFlags toggles the optional surfaces of the analyzer
type FeatureFlags struct {
	// JSON endpoint at POST /api/analyze
	EnableJSONAPI bool `json:"enable_json_api"`

	// zxcvbn crack-time estimate on the result page and in API responses
	EnableEstimate bool `json:"enable_estimate"`

	// WebSocket endpoint at GET /ws/analyze
	EnableLiveAnalysis bool `json:"enable_live_analysis"`
}

// DefaultFeatureFlags returns the flags written when no file exists yet
func DefaultFeatureFlags() FeatureFlags {
	return FeatureFlags{
		EnableJSONAPI:      true,
		EnableEstimate:     true,
		EnableLiveAnalysis: false,
	}
}

// FeatureFlagManager manages feature flags
type FeatureFlagManager struct {
	flags      FeatureFlags
	configPath string
	mu         sync.RWMutex
}

// NewFeatureFlagManager loads flags from configPath, writing the defaults there if the file is missing
func NewFeatureFlagManager(configPath string) (*FeatureFlagManager, error) {
	manager := &FeatureFlagManager{
		configPath: configPath,
		flags:      DefaultFeatureFlags(),
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := manager.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load feature flags: %w", err)
		}
	} else {
		if err := manager.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to save default feature flags: %w", err)
		}
	}

	return manager, nil
}

// NewStaticFeatureFlags returns a manager that never touches the filesystem
func NewStaticFeatureFlags(flags FeatureFlags) *FeatureFlagManager {
	return &FeatureFlagManager{flags: flags}
}

// GetFlags returns the current feature flags
func (m *FeatureFlagManager) GetFlags() FeatureFlags {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags
}

// UpdateFlags replaces the flags and persists them when the manager is file backed
func (m *FeatureFlagManager) UpdateFlags(flags FeatureFlags) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.flags = flags
	if m.configPath == "" {
		return nil
	}
	return m.saveToFile()
}

// Reload re-reads the flags file
func (m *FeatureFlagManager) Reload() error {
	if m.configPath == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadFromFile()
}

// loadFromFile loads feature flags from a file
func (m *FeatureFlagManager) loadFromFile() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read feature flags file: %w", err)
	}

	// Keys absent from the file keep their default value
	flags := DefaultFeatureFlags()
	if err := json.Unmarshal(data, &flags); err != nil {
		return fmt.Errorf("failed to parse feature flags: %w", err)
	}

	m.flags = flags
	return nil
}

// saveToFile saves feature flags to a file
func (m *FeatureFlagManager) saveToFile() error {
	data, err := json.MarshalIndent(m.flags, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal feature flags: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write feature flags file: %w", err)
	}

	return nil
}
