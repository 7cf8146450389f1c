// Package journal holds the directory of known journals and the provider hosting each one.
package journal

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed journals.yml
var builtinYAML []byte

// Errors returned while loading a directory.
var (
	ErrDuplicateName = errors.New("duplicate journal name")
	ErrEmptyName     = errors.New("journal name cannot be empty")
	ErrEmptyProvider = errors.New("journal provider cannot be empty")
	ErrInvalidEntry  = errors.New("invalid journal entry")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Entry is a journal of the directory.
type Entry struct {
	Name         string `yaml:"name" json:"name" validate:"required,max=256"`
	Provider     string `yaml:"provider" json:"provider" validate:"required,alphanum,lowercase"`
	Abbreviation string `yaml:"abbr,omitempty" json:"abbr,omitempty" validate:"omitempty,printascii,max=64"` // Empty when the provider expects Name

	// Volumes replaces Abbreviation as identifier for journals whose code
	// changed over time. Volumes outside every range have no identifier.
	Volumes []VolumeRange `yaml:"volumes,omitempty" json:"volumes,omitempty" validate:"omitempty,dive"`
}

// VolumeRange maps the volumes From..To (inclusive) to an identifier.
// A zero To leaves the range open-ended.
type VolumeRange struct {
	From         int    `yaml:"from,omitempty" json:"from,omitempty" validate:"gte=0"`
	To           int    `yaml:"to,omitempty" json:"to,omitempty" validate:"gte=0"`
	Abbreviation string `yaml:"abbr" json:"abbr" validate:"required,printascii,max=64"`
}

// Contains reports whether volume falls in the range.
func (r VolumeRange) Contains(volume int) bool {
	return volume >= r.From && (r.To == 0 || volume <= r.To)
}

func (r VolumeRange) String() string {
	if r.To == 0 {
		return fmt.Sprintf("%d-", r.From)
	}
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

func (r VolumeRange) overlaps(o VolumeRange) bool {
	return (r.To == 0 || o.From <= r.To) && (o.To == 0 || r.From <= o.To)
}

// Validate checks the entry's fields and volume ranges.
func (e Entry) Validate() error {
	err := validate.Struct(e)
	if err == nil {
		return e.validateVolumes()
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch {
	case fe.Field() == "Name" && fe.Tag() == "required":
		return ErrEmptyName
	case fe.Field() == "Provider" && fe.Tag() == "required":
		return ErrEmptyProvider
	}
	return fmt.Errorf("%w: %s fails %q", ErrInvalidEntry, fe.Field(), fe.Tag())
}

func (e Entry) validateVolumes() error {
	for i, r := range e.Volumes {
		if r.To != 0 && r.To < r.From {
			return fmt.Errorf("%w: volume range %s ends before it starts", ErrInvalidEntry, r)
		}
		for _, prev := range e.Volumes[:i] {
			if r.overlaps(prev) {
				return fmt.Errorf("%w: volume ranges %s and %s overlap", ErrInvalidEntry, prev, r)
			}
		}
	}
	return nil
}

// Identifier returns the string the provider's URL scheme expects for the
// given volume of this journal. ok is false when the journal has volume
// ranges and none of them holds volume.
func (e Entry) Identifier(volume string) (id string, ok bool) {
	if len(e.Volumes) == 0 {
		return e.Canonical(), true
	}

	v, err := strconv.Atoi(volume)
	if err != nil {
		return "", false
	}
	for _, r := range e.Volumes {
		if r.Contains(v) {
			return r.Abbreviation, true
		}
	}
	return "", false
}

// Canonical returns the identifier of the journal regardless of volume:
// the abbreviation, else the identifier of the last volume range, else the name.
func (e Entry) Canonical() string {
	if e.Abbreviation != "" {
		return e.Abbreviation
	}
	if n := len(e.Volumes); n > 0 {
		return e.Volumes[n-1].Abbreviation
	}
	return e.Name
}

func (e Entry) clone() Entry {
	e.Volumes = append([]VolumeRange(nil), e.Volumes...)
	return e
}

// Directory is an immutable set of journals indexed by display name.
type Directory struct {
	entries []Entry
	byName  map[string]int
}

// New builds a directory from entries, preserving their order.
func New(entries []Entry) (*Directory, error) {
	d := &Directory{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i+1, e.Name, err)
		}
		if _, ok := d.byName[e.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, e.Name)
		}
		d.byName[e.Name] = len(d.entries)
		d.entries = append(d.entries, e.clone())
	}

	return d, nil
}

// Parse reads a directory from its YAML representation.
func Parse(data []byte) (*Directory, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing journals: %w", err)
	}
	return New(entries)
}

// Load reads a directory from a YAML file.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading journals: %w", err)
	}
	return Parse(data)
}

// Builtin returns the directory shipped with the binary.
func Builtin() *Directory {
	d, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in journal directory is invalid: %v", err))
	}
	return d
}

// Lookup returns the entry with the given display name.
func (d *Directory) Lookup(name string) (Entry, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Entry{}, false
	}
	return d.entries[i].clone(), true
}

// Names returns the display names in directory order.
func (d *Directory) Names() []string {
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the entries in directory order.
func (d *Directory) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.clone()
	}
	return out
}

// ByProvider returns the entries hosted by the given provider.
func (d *Directory) ByProvider(key string) []Entry {
	var out []Entry
	for _, e := range d.entries {
		if e.Provider == key {
			out = append(out, e.clone())
		}
	}
	return out
}

// Len returns the number of journals.
func (d *Directory) Len() int {
	return len(d.entries)
}

// IntegrityIssue is a directory entry referencing an unregistered provider.
type IntegrityIssue struct {
	Journal  string `json:"journal"`
	Provider string `json:"provider"`
}

func (i IntegrityIssue) String() string {
	return fmt.Sprintf("journal %q references unknown provider %q", i.Journal, i.Provider)
}

// CheckProviders returns the entries whose provider is not known.
func CheckProviders(d *Directory, known func(key string) bool) []IntegrityIssue {
	var issues []IntegrityIssue
	for _, e := range d.entries {
		if !known(e.Provider) {
			issues = append(issues, IntegrityIssue{Journal: e.Name, Provider: e.Provider})
		}
	}
	return issues
}
