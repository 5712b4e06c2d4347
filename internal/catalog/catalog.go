package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// UnknownBig is returned for small categories absent from the mapping table.
	UnknownBig = "未知分类"
	// UnknownSmall is returned for class ids outside the class-name table.
	UnknownSmall = "未知小类"
)

// Catalog holds the read-only category lookup tables: the detector's
// class-id to small-category names and the small to big category mapping.
// Loaded once at startup and shared by all requests; never mutated.
type Catalog struct {
	smallToBig map[string]string
	bigSet     map[string]struct{}
	classNames []string
}

type mappingFile struct {
	SmallToBig    map[string]string `json:"small_to_big"`
	BigCategories []string          `json:"big_categories"`
}

// Load reads the mapping document and the ordered class-name list
// (one name per line, index = class id).
func Load(mappingPath, classNamesPath string) (*Catalog, error) {
	data, err := os.ReadFile(mappingPath)
	if err != nil {
		return nil, fmt.Errorf("read category mapping %s: %w", mappingPath, err)
	}

	var mf mappingFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse category mapping %s: %w", mappingPath, err)
	}

	f, err := os.Open(classNamesPath)
	if err != nil {
		return nil, fmt.Errorf("open class names %s: %w", classNamesPath, err)
	}
	defer f.Close()

	var classNames []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		classNames = append(classNames, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read class names %s: %w", classNamesPath, err)
	}

	bigSet := make(map[string]struct{}, len(mf.BigCategories))
	for _, b := range mf.BigCategories {
		bigSet[b] = struct{}{}
	}

	log.Info().
		Int("small_categories", len(classNames)).
		Int("mappings", len(mf.SmallToBig)).
		Int("big_categories", len(mf.BigCategories)).
		Msg("Category catalog loaded")

	return &Catalog{
		smallToBig: mf.SmallToBig,
		bigSet:     bigSet,
		classNames: classNames,
	}, nil
}

// MapToBig resolves a small category name to its big category.
// Total: unknown names map to UnknownBig rather than failing.
func (c *Catalog) MapToBig(small string) string {
	if big, ok := c.smallToBig[small]; ok {
		return big
	}
	return UnknownBig
}

// SmallName resolves a detector class id to its small category name.
// Out-of-range ids map to UnknownSmall.
func (c *Catalog) SmallName(classID int) string {
	if classID >= 0 && classID < len(c.classNames) {
		return c.classNames[classID]
	}
	return UnknownSmall
}

// IsBigCategory reports whether name is a member of the big-category list.
func (c *Catalog) IsBigCategory(name string) bool {
	_, ok := c.bigSet[name]
	return ok
}

// ClassCount returns the number of known small categories.
func (c *Catalog) ClassCount() int {
	return len(c.classNames)
}
