package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/databricks/databricks-sdk-go/config"
	"gopkg.in/ini.v1"
)

// DefaultDatabricksProfile is the section used when no profile name is given.
const DefaultDatabricksProfile = "DEFAULT"

// DatabricksProfile is one section of a .databrickscfg file.
type DatabricksProfile struct {
	Config *config.Config
	// HTTPPath is the SQL warehouse endpoint; empty when the profile has none.
	HTTPPath string
}

// Registry reads connection profiles from a .databrickscfg style ini file.
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, profile string) (*DatabricksProfile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(ctx context.Context, profile string) (*DatabricksProfile, error) {
	if profile == "" {
		profile = DefaultDatabricksProfile
	}
	section, err := cr.cfg.GetSection(profile)
	if err != nil {
		profiles, _ := cr.GetProfiles(ctx)
		return nil, fmt.Errorf("profile %s not found, available: %s", profile, availableProfiles(profiles))
	}

	host := section.Key("host").String()
	token := section.Key("token").String()
	if host == "" || token == "" {
		return nil, fmt.Errorf("profile %s must define host and token", profile)
	}

	return &DatabricksProfile{
		Config: &config.Config{
			Profile: profile,
			Host:    host,
			Token:   token,
		},
		HTTPPath: section.Key("http_path").String(),
	}, nil
}

func availableProfiles(profiles []string) string {
	if len(profiles) == 0 {
		return "none"
	}
	return strings.Join(profiles, ", ")
}

// HostName strips the scheme from a workspace host so it can be used in a DSN.
func HostName(host string) string {
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}
