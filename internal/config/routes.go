package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RouteLimit is one route class's admission budget.
type RouteLimit struct {
	Limit         int `yaml:"limit"`
	WindowSeconds int `yaml:"window_seconds"`
}

// Window returns the limit window as a duration.
func (r RouteLimit) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// RouteLimits maps route class names to their budgets.
type RouteLimits map[string]RouteLimit

type routeLimitsFile struct {
	Routes RouteLimits `yaml:"routes"`
}

// DefaultRouteLimits returns the built-in budgets: analysis routes tighter
// than query routes, upload routes tightest.
func DefaultRouteLimits() RouteLimits {
	return RouteLimits{
		"analyze": {Limit: 20, WindowSeconds: 60},
		"query":   {Limit: 100, WindowSeconds: 60},
		"upload":  {Limit: 5, WindowSeconds: 300},
	}
}

// LoadRouteLimits reads budgets from a YAML file, overlaying the defaults.
// An empty path returns the defaults unchanged.
func LoadRouteLimits(path string) (RouteLimits, error) {
	limits := DefaultRouteLimits()
	if path == "" {
		return limits, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route limits file: %w", err)
	}

	var parsed routeLimitsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse route limits file: %w", err)
	}

	for name, limit := range parsed.Routes {
		if limit.Limit <= 0 || limit.WindowSeconds <= 0 {
			return nil, fmt.Errorf("route %q: limit and window_seconds must be positive", name)
		}
		limits[name] = limit
	}

	return limits, nil
}

// Lookup returns the budget for a route class, falling back to the query
// class for unknown routes.
func (r RouteLimits) Lookup(routeClass string) RouteLimit {
	if limit, ok := r[routeClass]; ok {
		return limit
	}
	return r["query"]
}
