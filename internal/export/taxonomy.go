package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Mapper rewrites free text into the comma-joined sorted set of canonical
// values whose key phrases occur in it. Keys are matched as escaped literals,
// not patterns, so mapping tables can contain any punctuation.
type Mapper struct {
	pattern   *regexp.Regexp
	canonical map[string]string
}

// NewMapper compiles a mapper from a literal-phrase to canonical-value table.
func NewMapper(mapping map[string]string) (*Mapper, error) {
	if len(mapping) == 0 {
		return nil, fmt.Errorf("mapping table is empty")
	}

	canonical := make(map[string]string, len(mapping))
	keys := make([]string, 0, len(mapping))
	for key, value := range mapping {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		canonical[key] = value
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("mapping table has no usable keys")
	}

	// Longer keys first so a phrase that extends another phrase wins the
	// alternation (regexp alternation is first-match, not longest-match).
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	escaped := make([]string, len(keys))
	for i, key := range keys {
		escaped[i] = regexp.QuoteMeta(key)
	}
	pattern, err := regexp.Compile(strings.Join(escaped, "|"))
	if err != nil {
		return nil, fmt.Errorf("compiling mapping pattern: %w", err)
	}

	return &Mapper{pattern: pattern, canonical: canonical}, nil
}

// Remap scans text for every known phrase and returns the deduplicated,
// alphabetically sorted canonical values joined with ", ". No match yields "".
func (m *Mapper) Remap(text string) string {
	if text == "" {
		return ""
	}
	matches := m.pattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(matches))
	values := make([]string, 0, len(matches))
	for _, match := range matches {
		value, ok := m.canonical[strings.TrimSpace(match)]
		if !ok {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}

// DefaultCategoryTaxonomy maps raw scraped category names to full taxonomy
// paths.
func DefaultCategoryTaxonomy() map[string]string {
	return map[string]string{
		"Facial Cleansers":         "Health & Beauty > Personal Care > Cosmetics > Skin Care > Facial Cleansers",
		"Toners":                   "Health & Beauty > Personal Care > Cosmetics > Skin Care > Toners & Astringents",
		"Exfoliators":              "Health & Beauty > Personal Care > Cosmetics > Skin Care > Skin Care Masks & Peels",
		"Sheet Masks":              "Health & Beauty > Personal Care > Cosmetics > Skin Care > Skin Care Masks & Peels",
		"Serums":                   "Health & Beauty > Personal Care > Cosmetics > Skin Care > Face Serums",
		"Emulsions & Essences":     "Health & Beauty > Personal Care > Cosmetics > Skin Care",
		"Moisturizers":             "Health & Beauty > Personal Care > Cosmetics > Skin Care > Face Moisturizers",
		"Gel Moisturizers":         "Health & Beauty > Personal Care > Cosmetics > Skin Care > Face Moisturizers",
		"Eye Care / Eye and Lips":  "Health & Beauty > Personal Care > Cosmetics > Skin Care > Eye Creams",
		"Lip Balm":                 "Health & Beauty > Personal Care > Cosmetics > Skin Care > Lip Balms & Treatments > Lip Balms",
		"Makeup Removers":          "Health & Beauty > Personal Care > Cosmetics > Skin Care > Makeup Removers",
		"Skincare Kits":            "Health & Beauty > Personal Care > Cosmetics > Cosmetic Tools > Skin Care Tools",
		"Perfume":                  "Health & Beauty > Personal Care > Cosmetics > Perfumes & Colognes",
		"Bath & Shower":            "Health & Beauty > Personal Care > Cosmetics > Bath & Body",
		"Hand & Foot Cream":        "Health & Beauty > Personal Care > Cosmetics > Skin Care > Hand Creams",
		"Hair Color":               "Health & Beauty > Personal Care > Hair Care > Hair Color",
		"Hair Styling":             "Health & Beauty > Personal Care > Hair Care > Hair Styling Products",
		"MakeUp":                   "Health & Beauty > Personal Care > Cosmetics > Makeup",
	}
}

// DefaultTaxonomyTypes reduces full taxonomy paths to short display types, so
// a row's final type is derived transitively through its taxonomy path.
func DefaultTaxonomyTypes() map[string]string {
	return map[string]string{
		"Health & Beauty > Personal Care > Cosmetics > Skin Care > Facial Cleansers":                    "Facial Cleansers",
		"Health & Beauty > Personal Care > Cosmetics > Skin Care > Toners & Astringents":                "Toners & Astringents",
		"Health & Beauty > Personal Care > Cosmetics > Skin Care > Skin Care Masks & Peels":             "Skin Care Masks & Peels",
		"Health & Beauty > Personal Care > Cosmetics > Skin Care > Face Serums":                         "Face Serums",
		"Health & Beauty > Personal Care > Cosmetics > Skin Care":                                       "Skin Care",
		"Health & Beauty > Personal Care > Cosmetics > Skin Care > Face Moisturizers":                   "Face Moisturizers",
		"Health & Beauty > Personal Care > Cosmetics > Skin Care > Eye Creams":                          "Eye Creams",
		"Health & Beauty > Personal Care > Cosmetics > Skin Care > Lip Balms & Treatments > Lip Balms":  "Lip Balms",
		"Health & Beauty > Personal Care > Cosmetics > Skin Care > Makeup Removers":                     "Makeup Removers",
		"Health & Beauty > Personal Care > Cosmetics > Cosmetic Tools > Skin Care Tools":                "Skin Care Tools",
		"Health & Beauty > Personal Care > Cosmetics > Perfumes & Colognes":                             "Perfumes & Colognes",
		"Health & Beauty > Personal Care > Cosmetics > Bath & Body":                                     "Bath & Body",
		"Health & Beauty > Personal Care > Cosmetics > Skin Care > Hand Creams":                         "Hand Creams",
		"Health & Beauty > Personal Care > Hair Care > Hair Color":                                      "Hair Color",
		"Health & Beauty > Personal Care > Hair Care > Hair Styling Products":                           "Hair Styling Products",
		"Health & Beauty > Personal Care > Cosmetics > Makeup":                                          "Makeup",
	}
}
