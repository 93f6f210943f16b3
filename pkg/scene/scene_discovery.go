package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Unique identifier
	Name        string // Scene name
	Description string // Optional description
	Type        string // "builtin" or "toml"
	FilePath    string // Path to the scene file (toml type only)
}

type builtin struct {
	info   SceneInfo
	create func() *Scene
}

var builtins = []builtin{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "One sphere on a ground plane lit by a point light",
			Type:        "builtin",
		},
		create: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "mirror",
			Name:        "Mirror Scene",
			Description: "Default scene plus a mirror sphere and a back wall",
			Type:        "builtin",
		},
		create: NewMirrorScene,
	},
}

// BuiltinScenes lists the scenes that are compiled into the binary
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtins))
	for i, b := range builtins {
		infos[i] = b.info
	}
	return infos
}

// ByName creates a fresh copy of a built-in scene
func ByName(name string) (*Scene, bool) {
	for _, b := range builtins {
		if b.info.ID == name {
			return b.create(), true
		}
	}
	return nil, false
}

// ListSceneFiles scans dir for .toml scene descriptions
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return []SceneInfo{}, nil
		}
		return nil, err
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse metadata for %s: %w", filePath, err)
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ParseSceneMetadata extracts metadata from the comment header of a scene
// file. Recognised lines are "# Scene: <name>" and "# Description: <text>".
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       "toml:" + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Type:     "toml",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if v, ok := strings.CutPrefix(content, "Scene:"); ok {
			info.Name = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(content, "Description:"); ok {
			info.Description = strings.TrimSpace(v)
		}
	}

	return info, scanner.Err()
}

// titleCase converts a file name like "two-spheres" into "Two Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
