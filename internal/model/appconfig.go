package model

import "github.com/piwi3910/AtlasPack/internal/binpack"

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default pack settings applied to new projects and CLI runs
	DefaultPageWidth     int               `toml:"default_page_width" json:"default_page_width"`
	DefaultPageHeight    int               `toml:"default_page_height" json:"default_page_height"`
	DefaultHeuristic     binpack.Heuristic `toml:"default_heuristic" json:"default_heuristic"`
	DefaultPadding       int               `toml:"default_padding" json:"default_padding"`
	DefaultMode          PackMode          `toml:"default_mode" json:"default_mode"`
	DefaultMaxPages      int               `toml:"default_max_pages" json:"default_max_pages"`
	DefaultLegacyAreaFit bool              `toml:"default_legacy_area_fit" json:"default_legacy_area_fit"`

	// Application preferences
	LogLevel       string   `toml:"log_level" json:"log_level"` // "debug", "info", "warn", "error"
	RecentProjects []string `toml:"recent_projects" json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultPageWidth:     defaults.PageWidth,
		DefaultPageHeight:    defaults.PageHeight,
		DefaultHeuristic:     defaults.Heuristic,
		DefaultPadding:       defaults.Padding,
		DefaultMode:          defaults.Mode,
		DefaultMaxPages:      defaults.MaxPages,
		DefaultLegacyAreaFit: defaults.LegacyAreaFit,
		LogLevel:             "info",
		RecentProjects:       []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a PackSettings struct.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	s.PageWidth = c.DefaultPageWidth
	s.PageHeight = c.DefaultPageHeight
	s.Heuristic = c.DefaultHeuristic
	s.Padding = c.DefaultPadding
	s.Mode = c.DefaultMode
	s.MaxPages = c.DefaultMaxPages
	s.LegacyAreaFit = c.DefaultLegacyAreaFit
}

// Settings returns a PackSettings built from the configured defaults.
func (c AppConfig) Settings() PackSettings {
	s := DefaultSettings()
	c.ApplyToSettings(&s)
	return s
}

// AddRecentProject moves path to the front of the recent list, keeping at most limit entries.
func (c *AppConfig) AddRecentProject(path string, limit int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	c.RecentProjects = recent
}
