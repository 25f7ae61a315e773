// Package bundle packages a skill directory into a distributable zip
// archive with a checksum manifest.
package bundle

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ManifestName is the manifest entry inside every bundle.
const ManifestName = "manifest.json"

// Manifest describes the bundle contents.
type Manifest struct {
	Skill   string            `json:"skill"`
	Version string            `json:"version,omitempty"`
	Files   map[string]string `json:"files"`
}

// Build zips the skill directory into one archive in memory and
// returns it with its manifest. Files holds hex sha256 digests keyed
// by archive path. The archive is assembled fully before any caller
// writes it, so a failed build never leaves a partial file behind.
func Build(skillName, version, dir string) ([]byte, *Manifest, error) {
	manifest := &Manifest{Skill: skillName, Version: version, Files: map[string]string{}}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk skill dir: %w", err)
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("nothing to bundle in %s", dir)
	}
	sort.Strings(paths)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, path := range paths {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil, nil, err
		}
		name := filepath.ToSlash(filepath.Join(skillName, rel))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		sum := sha256.Sum256(data)
		manifest.Files[name] = hex.EncodeToString(sum[:])

		w, err := zw.Create(name)
		if err != nil {
			return nil, nil, fmt.Errorf("add %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, nil, fmt.Errorf("write %s: %w", name, err)
		}
	}

	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	w, err := zw.Create(filepath.ToSlash(filepath.Join(skillName, ManifestName)))
	if err != nil {
		return nil, nil, fmt.Errorf("add manifest: %w", err)
	}
	if _, err := w.Write(manifestJSON); err != nil {
		return nil, nil, fmt.Errorf("write manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, nil, fmt.Errorf("finalize bundle: %w", err)
	}

	return buf.Bytes(), manifest, nil
}

// Write builds the bundle and writes it to outPath in one step.
func Write(skillName, version, dir, outPath string) (*Manifest, error) {
	data, manifest, err := Build(skillName, version, dir)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write bundle: %w", err)
	}
	return manifest, nil
}

// ReadManifest extracts the manifest from a bundle archive.
func ReadManifest(path string) (*Manifest, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if filepath.Base(f.Name) != ManifestName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open manifest: %w", err)
		}
		defer rc.Close()
		var manifest Manifest
		if err := json.NewDecoder(rc).Decode(&manifest); err != nil {
			return nil, fmt.Errorf("decode manifest: %w", err)
		}
		return &manifest, nil
	}
	return nil, fmt.Errorf("no %s in bundle %s", ManifestName, path)
}
