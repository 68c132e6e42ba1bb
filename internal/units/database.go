package units

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/napolitain/settlers-combat/internal/combat"
)

var (
	ErrNotFound  = errors.New("unit not found")
	ErrAmbiguous = errors.New("unit name is ambiguous")
	ErrDuplicate = errors.New("unit id already registered")
)

// Database indexes unit types by id, by relaxed name and by codename.
// Names are matched case-insensitively, ignoring plurals and doubled letters;
// a unique prefix of a relaxed name is also accepted. Codenames only match
// exactly (ignoring case).
type Database struct {
	units map[int]combat.UnitType
	names map[string][]int // relaxed name -> ids
	keys  []string         // sorted relaxed names for prefix search
}

// NewDatabase creates a database holding units.
func NewDatabase(units ...combat.UnitType) (*Database, error) {
	db := &Database{
		units: make(map[int]combat.UnitType),
		names: make(map[string][]int),
	}
	for _, u := range units {
		if err := db.Add(u); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Default returns a database with the built-in catalog.
func Default() *Database {
	db, err := NewDatabase(AllUnits()...)
	if err != nil {
		panic(err)
	}
	return db
}

// Add registers a unit. Names are trimmed before indexing.
func (db *Database) Add(u combat.UnitType) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if _, ok := db.units[u.ID]; ok {
		return fmt.Errorf("%w: %d (%s)", ErrDuplicate, u.ID, u.Name())
	}
	u = u.Clone()
	for i, name := range u.Names {
		u.Names[i] = strings.Join(strings.Fields(name), " ")
	}
	db.units[u.ID] = u

	keys := make(map[string]bool)
	for _, name := range u.Names {
		lower := strings.ToLower(name)
		keys[lower] = true
		keys[relax(lower)] = true
	}
	for _, code := range u.Codenames {
		keys[strings.ToLower(code)] = true
	}
	for key := range keys {
		if key == "" {
			continue
		}
		if _, ok := db.names[key]; !ok {
			db.keys = append(db.keys, key)
		}
		db.names[key] = append(db.names[key], u.ID)
	}
	sort.Strings(db.keys)
	return nil
}

func (db *Database) Len() int { return len(db.units) }

// Get returns the unit with the given id.
func (db *Database) Get(id int) (combat.UnitType, bool) {
	u, ok := db.units[id]
	return u, ok
}

// All returns every unit ordered by id.
func (db *Database) All() []combat.UnitType {
	out := make([]combat.UnitType, 0, len(db.units))
	for _, u := range db.units {
		out = append(out, u)
	}
	slices.SortFunc(out, func(x, y combat.UnitType) int { return x.ID - y.ID })
	return out
}

// Find looks a unit up by name or codename.
func (db *Database) Find(name string) (combat.UnitType, error) {
	return db.FindFunc(name, nil)
}

// FindFunc looks a unit up by name, considering only units accepted by
// filter (nil accepts everything). An exact relaxed match wins; otherwise
// the query must be the prefix of names belonging to exactly one unit.
func (db *Database) FindFunc(name string, filter func(combat.UnitType) bool) (combat.UnitType, error) {
	query := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if query == "" {
		return combat.UnitType{}, fmt.Errorf("%w: empty name", ErrNotFound)
	}

	for _, key := range []string{query, relax(query)} {
		if ids, ok := db.names[key]; ok {
			if u, err := db.single(name, ids, filter); !errors.Is(err, ErrNotFound) {
				return u, err
			}
		}
	}

	var ids []int
	for i := sort.SearchStrings(db.keys, query); i < len(db.keys) && strings.HasPrefix(db.keys[i], query); i++ {
		for _, id := range db.names[db.keys[i]] {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	return db.single(name, ids, filter)
}

func (db *Database) single(name string, ids []int, filter func(combat.UnitType) bool) (combat.UnitType, error) {
	var found []combat.UnitType
	for _, id := range ids {
		u := db.units[id]
		if filter == nil || filter(u) {
			found = append(found, u)
		}
	}
	switch len(found) {
	case 0:
		return combat.UnitType{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	case 1:
		return found[0], nil
	default:
		names := make([]string, len(found))
		for i, u := range found {
			names[i] = u.Name()
		}
		return combat.UnitType{}, fmt.Errorf("%w: %q matches %s", ErrAmbiguous, name, strings.Join(names, ", "))
	}
}

// Codename returns the first codename of u, or its first name if it has none.
func Codename(u combat.UnitType) string {
	if len(u.Codenames) > 0 {
		return u.Codenames[0]
	}
	return u.Name()
}

// relax folds common spelling variations: "men" becomes "man", a trailing
// plural is dropped, and in words longer than four letters doubled letters
// collapse.
func relax(s string) string {
	s = strings.ReplaceAll(s, "men", "man")
	switch {
	case strings.HasSuffix(s, "es"):
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "s"):
		s = s[:len(s)-1]
	}
	if len(s) <= 4 {
		return s
	}
	var b strings.Builder
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
