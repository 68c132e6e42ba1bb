package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/napolitain/settlers-combat/internal/combat"
	"github.com/napolitain/settlers-combat/internal/units"
)

// DamageJSON represents the JSON structure for a damage profile
type DamageJSON struct {
	Low          int     `json:"low"`
	High         int     `json:"high"`
	Accuracy     float64 `json:"accuracy"`
	SplashChance float64 `json:"splash chance"`
}

// UnitJSON represents the JSON structure for a unit
type UnitJSON struct {
	ID         *int       `json:"id"`
	Names      []string   `json:"names"`
	Codenames  []string   `json:"codenames,omitempty"`
	Faction    string     `json:"faction,omitempty"`
	Category   string     `json:"category,omitempty"`
	Phases     []string   `json:"phases"`
	Capacity   int        `json:"capacity,omitempty"`
	HitPoints  int        `json:"hit points"`
	Damage     DamageJSON `json:"damage"`
	Experience int        `json:"experience when killed,omitempty"`
	Abilities  []string   `json:"special abilities,omitempty"`
	Traits     []string   `json:"traits,omitempty"`
}

// UnitFileJSON is the top-level structure of a unit file
type UnitFileJSON struct {
	Units []UnitJSON `json:"units"`
}

// ToUnit converts the JSON record into a validated unit type
func (j UnitJSON) ToUnit() (combat.UnitType, error) {
	if j.ID == nil {
		return combat.UnitType{}, fmt.Errorf("unit %v: missing id", j.Names)
	}
	if len(j.Names) == 0 {
		return combat.UnitType{}, fmt.Errorf("unit %d: missing names", *j.ID)
	}
	if len(j.Phases) == 0 {
		return combat.UnitType{}, fmt.Errorf("unit %s: missing phases", j.Names[0])
	}

	damage, err := combat.NewDamage(j.Damage.Low, j.Damage.High, j.Damage.Accuracy, j.Damage.SplashChance)
	if err != nil {
		return combat.UnitType{}, fmt.Errorf("unit %s: %w", j.Names[0], err)
	}

	u := combat.UnitType{
		ID:            *j.ID,
		Names:         slices.Clone(j.Names),
		Codenames:     slices.Clone(j.Codenames),
		Faction:       combat.NonPlayerAdventure,
		Category:      combat.Unknown,
		Capacity:      j.Capacity,
		BaseHitPoints: j.HitPoints,
		Damage:        damage,
		Experience:    j.Experience,
	}

	if j.Faction != "" {
		if u.Faction, err = combat.ParseFaction(j.Faction); err != nil {
			return combat.UnitType{}, fmt.Errorf("unit %s: %w", j.Names[0], err)
		}
	}
	if j.Category != "" {
		if u.Category, err = combat.ParseCategory(j.Category); err != nil {
			return combat.UnitType{}, fmt.Errorf("unit %s: %w", j.Names[0], err)
		}
	}
	for _, s := range j.Phases {
		p, err := combat.ParsePhase(s)
		if err != nil {
			return combat.UnitType{}, fmt.Errorf("unit %s: %w", j.Names[0], err)
		}
		u.Phases = u.Phases.With(p)
	}
	for _, s := range j.Abilities {
		a, err := combat.ParseAbility(s)
		if err != nil {
			return combat.UnitType{}, fmt.Errorf("unit %s: %w", j.Names[0], err)
		}
		u.Abilities = u.Abilities.With(a)
	}
	for _, s := range j.Traits {
		t, err := combat.ParseTrait(s)
		if err != nil {
			return combat.UnitType{}, fmt.Errorf("unit %s: %w", j.Names[0], err)
		}
		u.Traits = u.Traits.With(t)
	}

	if err := u.Validate(); err != nil {
		return combat.UnitType{}, err
	}
	return u, nil
}

// UnitToJSON converts a unit type into its JSON record
func UnitToJSON(u combat.UnitType) UnitJSON {
	id := u.ID
	j := UnitJSON{
		ID:        &id,
		Names:     slices.Clone(u.Names),
		Codenames: slices.Clone(u.Codenames),
		Faction:   u.Faction.String(),
		Category:  u.Category.String(),
		Capacity:  u.Capacity,
		HitPoints: u.BaseHitPoints,
		Damage: DamageJSON{
			Low:          u.Damage.Low(),
			High:         u.Damage.High(),
			Accuracy:     u.Damage.Accuracy(),
			SplashChance: u.Damage.SplashChance(),
		},
		Experience: u.Experience,
		Traits:     u.Traits.Strings(),
	}
	for _, p := range combat.Phases {
		if u.Phases.Has(p) {
			j.Phases = append(j.Phases, p.String())
		}
	}
	for a := combat.AttackWeakestTarget; a <= combat.Butcher; a++ {
		if u.Abilities.Has(a) {
			j.Abilities = append(j.Abilities, a.String())
		}
	}
	return j
}

// ParseUnits parses the contents of a unit file
func ParseUnits(data []byte) ([]combat.UnitType, error) {
	var file UnitFileJSON
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse units: %w", err)
	}

	result := make([]combat.UnitType, 0, len(file.Units))
	for _, raw := range file.Units {
		u, err := raw.ToUnit()
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, nil
}

// LoadUnitFile loads units from a single JSON file
func LoadUnitFile(path string) ([]combat.UnitType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	result, err := ParseUnits(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return result, nil
}

// LoadUnits loads every .json file in dataDir into a database. Files that
// fail to parse and duplicate units are skipped with a warning.
func LoadUnits(dataDir string, logger *zap.Logger) (*units.Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read units directory: %w", err)
	}

	db, err := units.NewDatabase()
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		loaded, err := LoadUnitFile(filepath.Join(dataDir, entry.Name()))
		if err != nil {
			logger.Warn("skipping unit file", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		for _, u := range loaded {
			if err := db.Add(u); err != nil {
				logger.Warn("skipping unit", zap.String("file", entry.Name()), zap.Error(err))
			}
		}
	}

	logger.Info("loaded units", zap.String("dir", dataDir), zap.Int("count", db.Len()))
	return db, nil
}

// LoadDatabase returns the built-in catalog when dataDir is empty, or the
// units found in dataDir otherwise.
func LoadDatabase(dataDir string, logger *zap.Logger) (*units.Database, error) {
	if dataDir == "" {
		return units.Default(), nil
	}
	return LoadUnits(dataDir, logger)
}

// WriteUnits writes units as a unit file
func WriteUnits(path string, list []combat.UnitType) error {
	file := UnitFileJSON{Units: make([]UnitJSON, len(list))}
	for i, u := range list {
		file.Units[i] = UnitToJSON(u)
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode units: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
