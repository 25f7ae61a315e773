// Package workspace manages the .skillspec directory layout: skill
// specs, drafts, pattern and policy files, and the diary database.
package workspace

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/template"
)

// Dir is the workspace directory name searched for upward from the
// working directory.
const Dir = ".skillspec"

// SpecFileName is the spec document inside each skill directory.
const SpecFileName = "spec.yaml"

// DocFileName is the rendered document next to the spec.
const DocFileName = "SKILL.md"

// Workspace is a resolved .skillspec directory.
type Workspace struct {
	// Root is the project directory containing .skillspec.
	Root string
}

// Find walks upward from dir until it finds a .skillspec directory.
func Find(dir string) (*Workspace, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		info, err := os.Stat(filepath.Join(current, Dir))
		if err == nil && info.IsDir() {
			return &Workspace{Root: current}, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return nil, fmt.Errorf("no %s directory found from %s upward; run 'skillspec init' first", Dir, dir)
		}
		current = parent
	}
}

// Init creates the workspace layout under dir and returns it. Existing
// directories are left alone.
func Init(dir string) (*Workspace, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	ws := &Workspace{Root: root}
	for _, sub := range []string{"skills", "drafts", "archive", "patterns", "policies"} {
		if err := os.MkdirAll(filepath.Join(ws.Path(), sub), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", sub, err)
		}
	}
	return ws, nil
}

// Path is the .skillspec directory.
func (w *Workspace) Path() string {
	return filepath.Join(w.Root, Dir)
}

// SkillsDir holds published skills, DraftsDir work in progress.
func (w *Workspace) SkillsDir() string   { return filepath.Join(w.Path(), "skills") }
func (w *Workspace) DraftsDir() string   { return filepath.Join(w.Path(), "drafts") }
func (w *Workspace) ArchiveDir() string  { return filepath.Join(w.Path(), "archive") }
func (w *Workspace) PatternsDir() string { return filepath.Join(w.Path(), "patterns") }
func (w *Workspace) PoliciesDir() string { return filepath.Join(w.Path(), "policies") }

// DiaryPath is the diary database location.
func (w *Workspace) DiaryPath() string {
	return filepath.Join(w.Path(), "diary.db")
}

// ConfigPath is the project configuration file.
func (w *Workspace) ConfigPath() string {
	return filepath.Join(w.Path(), "skillspec.yaml")
}

// Skill is one located skill.
type Skill struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	SpecPath string `json:"spec_path"`
	DocPath  string `json:"doc_path"`
	HasDoc   bool   `json:"has_doc"`
}

// Find locates a skill by name, drafts first so work in progress
// shadows a published copy.
func (w *Workspace) Find(name string) (*Skill, error) {
	for _, dir := range []struct {
		base   string
		status string
	}{
		{w.DraftsDir(), "draft"},
		{w.SkillsDir(), "published"},
	} {
		specPath := filepath.Join(dir.base, name, SpecFileName)
		if _, err := os.Stat(specPath); err != nil {
			continue
		}
		docPath := filepath.Join(dir.base, name, DocFileName)
		_, docErr := os.Stat(docPath)
		return &Skill{
			Name:     name,
			Status:   dir.status,
			SpecPath: specPath,
			DocPath:  docPath,
			HasDoc:   docErr == nil,
		}, nil
	}
	return nil, fmt.Errorf("skill %q not found in drafts or skills", name)
}

// List returns every skill in the workspace, drafts and published,
// sorted by name.
func (w *Workspace) List() ([]Skill, error) {
	seen := map[string]bool{}
	var skills []Skill
	for _, dir := range []struct {
		base   string
		status string
	}{
		{w.DraftsDir(), "draft"},
		{w.SkillsDir(), "published"},
	} {
		entries, err := os.ReadDir(dir.base)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", dir.base, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() || seen[entry.Name()] {
				continue
			}
			skill, err := w.Find(entry.Name())
			if err != nil {
				continue
			}
			seen[entry.Name()] = true
			skills = append(skills, *skill)
		}
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

//go:embed template/spec.yaml.tmpl
var specTemplate string

// Scaffold creates a new draft skill from the builtin template. It
// refuses to overwrite an existing spec.
func (w *Workspace) Scaffold(name, owner string) (*Skill, error) {
	dir := filepath.Join(w.DraftsDir(), name)
	specPath := filepath.Join(dir, SpecFileName)
	if _, err := os.Stat(specPath); err == nil {
		return nil, fmt.Errorf("skill %q already exists at %s", name, specPath)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create skill dir: %w", err)
	}

	tmpl, err := template.New("spec").Parse(specTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse spec template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string{"Name": name, "Owner": owner}); err != nil {
		return nil, fmt.Errorf("render spec template: %w", err)
	}
	if err := os.WriteFile(specPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write spec: %w", err)
	}

	return &Skill{
		Name:     name,
		Status:   "draft",
		SpecPath: specPath,
		DocPath:  filepath.Join(dir, DocFileName),
	}, nil
}
