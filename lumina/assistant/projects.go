package assistant

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed projects.yaml
var defaultProjects []byte

type Category string

const (
	CategoryWeb       Category = "Site Web"
	CategoryApp       Category = "Application"
	CategoryPortfolio Category = "Portfolio"
	CategoryEcommerce Category = "E-commerce"
)

// Categories lists the gallery filters in display order.
func Categories() []Category {
	return []Category{CategoryWeb, CategoryApp, CategoryPortfolio, CategoryEcommerce}
}

type Project struct {
	ID                  string   `json:"id" yaml:"id"`
	Title               string   `json:"title" yaml:"title"`
	Description         string   `json:"description" yaml:"description"`
	DetailedDescription string   `json:"detailedDescription" yaml:"detailed_description"`
	Category            Category `json:"category" yaml:"category"`
	Tags                []string `json:"tags" yaml:"tags"`
	ImageURL            string   `json:"imageUrl" yaml:"image_url"`
	Link                string   `json:"link,omitempty" yaml:"link,omitempty"`
	Github              string   `json:"github,omitempty" yaml:"github,omitempty"`
	Featured            bool     `json:"featured" yaml:"featured"`
	Year                string   `json:"year" yaml:"year"`
}

type Catalog struct {
	Projects []Project
}

// LoadCatalog reads projects from path, or the embedded catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultProjects
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read projects: %w", err)
		}
		data = raw
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var projects []Project
	if err := yaml.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("parse projects: %w", err)
	}
	seen := make(map[string]bool, len(projects))
	for i, p := range projects {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("project %d has no id", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate project id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return &Catalog{Projects: projects}, nil
}

func (c *Catalog) Featured() []Project {
	var out []Project
	for _, p := range c.Projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// ByCategory returns every project when cat is empty.
func (c *Catalog) ByCategory(cat Category) []Project {
	if cat == "" {
		return append([]Project(nil), c.Projects...)
	}
	var out []Project
	for _, p := range c.Projects {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) Find(id string) (Project, bool) {
	for _, p := range c.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}
