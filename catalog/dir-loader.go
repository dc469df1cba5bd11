package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/arena/scoring"
)

// LoadDirOpts tunes how test data is attached to loaded problems.
// With AssetURLBase set, tests carry download URLs under
// <base>/<problem-id>/tests/<filename> instead of inline content;
// checksums are computed from the local files either way.
type LoadDirOpts struct {
	AssetURLBase string
}

type problemManifest struct {
	Title             string `toml:"title"`
	Tier              string `toml:"tier"`
	CpuMs             int    `toml:"cpu_ms"`
	MemKiB            int    `toml:"mem_kib"`
	IllustrationImage string `toml:"illustration_image"`
}

// LoadDir reads every subdirectory of root as one problem. A problem
// directory holds problem.toml, statement.md, a tests/ directory of
// .in/.ans pairs and optionally a hints/ directory of level_N.md files.
// The subdirectory name is the problem id.
func LoadDir(root string, opts LoadDirOpts) ([]Problem, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("error reading problem directory: %w", err)
	}

	problems := make([]Problem, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p, err := loadProblemDir(filepath.Join(root, e.Name()), e.Name(), opts)
		if err != nil {
			return nil, fmt.Errorf("error loading problem %s: %w", e.Name(), err)
		}
		problems = append(problems, p)
	}

	sort.Slice(problems, func(i, j int) bool {
		return problems[i].ID < problems[j].ID
	})

	return problems, nil
}

func loadProblemDir(dir string, id string, opts LoadDirOpts) (Problem, error) {
	manifestBytes, err := os.ReadFile(filepath.Join(dir, "problem.toml"))
	if err != nil {
		return Problem{}, fmt.Errorf("error reading problem.toml: %w", err)
	}

	var manifest problemManifest
	err = toml.Unmarshal(manifestBytes, &manifest)
	if err != nil {
		return Problem{}, fmt.Errorf("error parsing problem.toml: %w", err)
	}

	tier := scoring.Tier(manifest.Tier)
	if !scoring.ValidTier(tier) {
		return Problem{}, fmt.Errorf("unknown tier %q", manifest.Tier)
	}

	statement, err := os.ReadFile(filepath.Join(dir, "statement.md"))
	if err != nil {
		return Problem{}, fmt.Errorf("error reading statement.md: %w", err)
	}

	tests, err := loadTestsDir(filepath.Join(dir, "tests"), id, opts)
	if err != nil {
		return Problem{}, err
	}
	if len(tests) == 0 {
		return Problem{}, fmt.Errorf("problem has no tests")
	}

	hints, err := loadHintsDir(filepath.Join(dir, "hints"))
	if err != nil {
		return Problem{}, err
	}

	illustrationKey := ""
	if manifest.IllustrationImage != "" {
		illustrationKey = fmt.Sprintf("problems/%s/%s", id, manifest.IllustrationImage)
	}

	return Problem{
		ID:              id,
		Title:           manifest.Title,
		Tier:            tier,
		StatementMd:     string(statement),
		IllustrationKey: illustrationKey,
		CpuMs:           manifest.CpuMs,
		MemKiB:          manifest.MemKiB,
		Tests:           tests,
		Hints:           hints,
	}, nil
}

func loadTestsDir(dir string, problemID string, opts LoadDirOpts) ([]TestAsset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading tests directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	tests := make([]TestAsset, 0, len(entries)/2)
	for i := 0; i+1 < len(entries); i += 2 {
		inName := entries[i].Name()
		ansName := entries[i+1].Name()

		inBase := strings.TrimSuffix(inName, filepath.Ext(inName))
		ansBase := strings.TrimSuffix(ansName, filepath.Ext(ansName))
		if inBase != ansBase {
			return nil, fmt.Errorf("input and answer file base names do not match: %s, %s", inName, ansName)
		}
		if filepath.Ext(inName) == ".ans" {
			inName, ansName = ansName, inName
		}

		input, err := os.ReadFile(filepath.Join(dir, inName))
		if err != nil {
			return nil, fmt.Errorf("error reading input file: %w", err)
		}
		answer, err := os.ReadFile(filepath.Join(dir, ansName))
		if err != nil {
			return nil, fmt.Errorf("error reading answer file: %w", err)
		}

		inSha := hexSha256(input)
		ansSha := hexSha256(answer)
		asset := TestAsset{InSha256: &inSha, AnsSha256: &ansSha}

		if opts.AssetURLBase != "" {
			inURL := fmt.Sprintf("%s/%s/tests/%s", strings.TrimSuffix(opts.AssetURLBase, "/"), problemID, inName)
			ansURL := fmt.Sprintf("%s/%s/tests/%s", strings.TrimSuffix(opts.AssetURLBase, "/"), problemID, ansName)
			asset.InURL = &inURL
			asset.AnsURL = &ansURL
		} else {
			inContent := string(input)
			ansContent := string(answer)
			asset.InContent = &inContent
			asset.AnsContent = &ansContent
		}

		tests = append(tests, asset)
	}

	return tests, nil
}

func loadHintsDir(dir string) (map[int]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[int]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading hints directory: %w", err)
	}

	hints := make(map[int]string, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		levelStr, ok := strings.CutPrefix(name, "level_")
		if !ok {
			return nil, fmt.Errorf("unexpected hint filename: %s", e.Name())
		}
		level, err := strconv.Atoi(levelStr)
		if err != nil || level < 1 {
			return nil, fmt.Errorf("unexpected hint filename: %s", e.Name())
		}
		content, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("error reading hint file: %w", err)
		}
		hints[level] = string(content)
	}

	return hints, nil
}

func hexSha256(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
