// Package route loads origin/destination pairs from YAML route files.
package route

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
	"gopkg.in/yaml.v3"
)

// Load reads the route file at path and derives its key from the file name.
func Load(path string) (schema.Route, error) {
	key, err := contract.RouteKeyFromPath(path)
	if err != nil {
		return schema.Route{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return schema.Route{}, &contract.ConfigurationError{Field: "route", Reason: "cannot open " + path, Err: err}
	}
	defer func() { _ = f.Close() }()

	cfg, err := Parse(f)
	if err != nil {
		return schema.Route{}, err
	}

	return schema.Route{Key: key, Source: path, Config: cfg}, nil
}

// Parse decodes a route document. Unknown keys are rejected so typos surface early.
func Parse(r io.Reader) (schema.RouteConfig, error) {
	var cfg schema.RouteConfig

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, contract.NewConfigError("route", "route file is empty")
		}
		return cfg, &contract.ConfigurationError{Field: "route", Reason: "malformed YAML", Err: err}
	}

	cfg.Origin = strings.TrimSpace(cfg.Origin)
	cfg.Destination = strings.TrimSpace(cfg.Destination)

	var missing []string
	if cfg.Origin == "" {
		missing = append(missing, "origin")
	}
	if cfg.Destination == "" {
		missing = append(missing, "destination")
	}
	if len(missing) > 0 {
		return cfg, contract.NewConfigError("route", "missing %s", strings.Join(missing, " and "))
	}

	return cfg, nil
}

// Describe renders a route for banners.
func Describe(r schema.Route) string {
	return fmt.Sprintf("%s -> %s", r.Config.Origin, r.Config.Destination)
}
