package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/de-tools/material-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// DefaultInstitutionProfile is the section read when no profile is configured.
const DefaultInstitutionProfile = "default"

const defaultSector = "Setor de Material Didático"

// DefaultInstitution is printed when no institution file exists.
var DefaultInstitution = domain.Institution{
	Profile: DefaultInstitutionProfile,
	Sector:  defaultSector,
}

// InstitutionRegistry reads institution profiles from an ini file, one
// section per profile with name, sector and logo keys.
type InstitutionRegistry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetInstitution(ctx context.Context, profile string) (domain.Institution, error)
}

type institutionRegistry struct {
	dir string
	cfg *ini.File
}

func NewInstitutionRegistry(path string) (InstitutionRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &institutionRegistry{dir: filepath.Dir(path), cfg: cfg}, nil
}

func (r *institutionRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *institutionRegistry) GetInstitution(ctx context.Context, profile string) (domain.Institution, error) {
	if profile == "" {
		profile = DefaultInstitutionProfile
	}
	section, err := r.cfg.GetSection(profile)
	if err != nil {
		profiles, _ := r.GetProfiles(ctx)
		return domain.Institution{}, fmt.Errorf("institution profile %s not found, available: %s", profile, availableProfiles(profiles))
	}

	name := section.Key("name").String()
	if name == "" {
		return domain.Institution{}, fmt.Errorf("institution profile %s must define name", profile)
	}

	logo := section.Key("logo").String()
	if logo != "" && !filepath.IsAbs(logo) {
		logo = filepath.Join(r.dir, logo)
	}

	return domain.Institution{
		Profile: profile,
		Name:    name,
		Sector:  section.Key("sector").MustString(defaultSector),
		Logo:    logo,
	}, nil
}

// LoadInstitution reads one profile, falling back to DefaultInstitution when
// the file does not exist.
func LoadInstitution(ctx context.Context, cfg InstitutionConfig) (domain.Institution, error) {
	registry, err := NewInstitutionRegistry(cfg.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultInstitution, nil
	}
	if err != nil {
		return domain.Institution{}, fmt.Errorf("failed to load institution file: %w", err)
	}
	return registry.GetInstitution(ctx, cfg.Profile)
}
