package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryPreset names a writing category posts are seeded into.
type CategoryPreset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// AccountPreset is a fixed account created on every seed run, so developers
// always have known credentials to log in with.
type AccountPreset struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Bio      string `yaml:"bio"`
	Admin    bool   `yaml:"admin"`
}

// Preset describes the deterministic part of a seed run. The random part
// (extra users, posts, battles) is layered on top by Seed.
type Preset struct {
	Categories []CategoryPreset `yaml:"categories"`
	Accounts   []AccountPreset  `yaml:"accounts"`
}

// DefaultPreset returns the built-in preset used when no YAML file is given.
func DefaultPreset() Preset {
	return Preset{
		Categories: []CategoryPreset{
			{Name: "deneme", Description: "Kişisel denemeler ve fikir yazıları."},
			{Name: "öykü", Description: "Kısa öyküler ve anlatılar."},
			{Name: "şiir", Description: "Şiir ve dizeler."},
			{Name: "eleştiri", Description: "Kitap, film ve kültür eleştirileri."},
			{Name: "gezi", Description: "Gezi yazıları ve gözlemler."},
			{Name: "günlük", Description: "Günlük hayattan notlar."},
		},
		Accounts: []AccountPreset{
			{Username: "meydan_admin", Email: "admin@kalemmeydani.dev", Bio: "Meydanın bekçisi.", Admin: true},
			{Username: "ilk_kalem", Email: "ilk@kalemmeydani.dev", Bio: "Buradaki ilk kalem."},
			{Username: "test", Email: "test@kalemmeydani.dev", Bio: "Test hesabı."},
		},
	}
}

// LoadPreset reads a preset from a YAML file. Missing sections fall back to
// the defaults so a preset file can override only categories or only accounts.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("read preset %s: %w", path, err)
	}

	var preset Preset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return Preset{}, fmt.Errorf("parse preset %s: %w", path, err)
	}

	defaults := DefaultPreset()
	if len(preset.Categories) == 0 {
		preset.Categories = defaults.Categories
	}
	if len(preset.Accounts) == 0 {
		preset.Accounts = defaults.Accounts
	}
	return preset, nil
}

// CategoryNames returns just the category names, in preset order.
func (p Preset) CategoryNames() []string {
	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		names = append(names, c.Name)
	}
	return names
}
