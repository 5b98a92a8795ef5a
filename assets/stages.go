package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"chronorogue/internal/component"
	"chronorogue/internal/generate"
	"chronorogue/internal/stage"
)

//go:embed stages/*.yaml
var embedded embed.FS

// FoeStyle overrides the name and hit points of every foe of one kind.
type FoeStyle struct {
	Name string `yaml:"name"`
	HP   int    `yaml:"hp"`
}

// StageFile is the on-disk form of one stage.
type StageFile struct {
	ID         string              `yaml:"id"`
	Name       string              `yaml:"name"`
	Seed       int64               `yaml:"seed"`
	FocusRegen *int                `yaml:"focus_regen"`
	Senses     []string            `yaml:"senses"`
	Lore       []string            `yaml:"lore"`
	Foes       map[string]FoeStyle `yaml:"foes"`
	Layout     string              `yaml:"layout"`
}

// Template converts the file into a validated stage template.
func (f *StageFile) Template() (*stage.Template, error) {
	if f.ID == "" {
		return nil, fmt.Errorf("stage file: missing id")
	}
	rows := strings.Split(strings.TrimRight(f.Layout, "\n"), "\n")
	t, err := stage.FromLayout(f.ID, f.Name, rows)
	if err != nil {
		return nil, err
	}
	if t.Name == "" {
		t.Name = t.ID
	}
	t.Seed = f.Seed
	t.Lore = f.Lore
	if f.FocusRegen != nil {
		t.FocusRegen = *f.FocusRegen
	}
	if len(f.Senses) > 0 {
		var allowed component.SenseSet
		for _, s := range f.Senses {
			k, ok := component.ParseSenseKind(s)
			if !ok {
				return nil, fmt.Errorf("stage %s: unknown sense %q", f.ID, s)
			}
			allowed = allowed.With(k)
		}
		t.AllowedSenses = allowed
	}
	for name, style := range f.Foes {
		kind, ok := component.ParseFoeKind(name)
		if !ok {
			return nil, fmt.Errorf("stage %s: unknown foe kind %q", f.ID, name)
		}
		for i := range t.Foes {
			if t.Foes[i].Kind != kind {
				continue
			}
			if style.Name != "" {
				t.Foes[i].Name = style.Name
			}
			if style.HP != 0 {
				t.Foes[i].HP = style.HP
			}
		}
	}
	return t, t.Validate()
}

// Parse decodes one YAML stage file.
func Parse(name string, data []byte) (*stage.Template, error) {
	var f StageFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	t, err := f.Template()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

// LoadFS reads every *.yaml file under dir in fsys, ordered by file name.
// Stage ids must be unique.
func LoadFS(fsys fs.FS, dir string) ([]*stage.Template, error) {
	names, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("assets: no stage files in %q", dir)
	}
	sort.Strings(names)

	seen := map[string]bool{}
	var out []*stage.Template
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		t, err := Parse(name, data)
		if err != nil {
			return nil, err
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%s: duplicate stage id %q", name, t.ID)
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, nil
}

// Stages loads the stage set. An empty dir selects the embedded stages.
func Stages(dir string) ([]*stage.Template, error) {
	if dir == "" {
		return LoadFS(embedded, "stages")
	}
	return LoadFS(os.DirFS(dir), ".")
}

// Generated builds n procedural stages. Stage i uses seed+i.
func Generated(n int, seed int64) ([]*stage.Template, error) {
	out := make([]*stage.Template, 0, n)
	for i := 0; i < n; i++ {
		s := seed + int64(i)
		name := FloorNames[i%len(FloorNames)]
		t, err := generate.Stage(fmt.Sprintf("generated-%d", i+1), name, s, generate.DefaultConfig(s))
		if err != nil {
			return nil, err
		}
		t.Lore = FloorLore[i%len(FloorLore)]
		out = append(out, t)
	}
	return out, nil
}
