package cipher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const recipeExt = ".yaml"

// RecipeManager stores recipes in memory and, when storePath is set, as one
// YAML file per recipe.
type RecipeManager struct {
	recipes   map[string]*Recipe
	storePath string
	mu        sync.RWMutex
}

// NewRecipeManager creates a manager preloaded with the built-in recipes.
// An empty storePath keeps everything in memory.
func NewRecipeManager(storePath string) *RecipeManager {
	rm := &RecipeManager{
		recipes:   make(map[string]*Recipe),
		storePath: storePath,
	}
	for _, r := range BuiltinRecipes() {
		rm.recipes[r.Name] = r
	}
	return rm
}

// BuiltinRecipes returns the pipelines every installation ships with.
func BuiltinRecipes() []*Recipe {
	return []*Recipe{
		{
			Name:        "ciphertext-to-text",
			Description: "Decode a hex ciphertext as telegraph text",
			Tags:        []string{"builtin", "decode"},
			Pipeline: Pipeline{
				Operations: []OperationConfig{{Name: "hex_to_bits"}, {Name: "baudot_decode"}},
				Reversible: true,
			},
		},
		{
			Name:        "text-to-ciphertext",
			Description: "Encode telegraph text and render it as hex",
			Tags:        []string{"builtin", "encode"},
			Pipeline: Pipeline{
				Operations: []OperationConfig{{Name: "baudot_encode"}, {Name: "bits_to_hex"}},
				Reversible: true,
			},
		},
		{
			Name:        "show-codes",
			Description: "Split a hex ciphertext into 5-bit codes",
			Tags:        []string{"builtin", "format"},
			Pipeline: Pipeline{
				Operations: []OperationConfig{{Name: "hex_to_bits"}, {Name: "bits_chunk"}},
			},
		},
	}
}

// SaveRecipe validates and stores a recipe, stamping its timestamps.
func (rm *RecipeManager) SaveRecipe(recipe *Recipe) error {
	if recipe == nil || strings.TrimSpace(recipe.Name) == "" {
		return fmt.Errorf("recipe name cannot be empty")
	}
	if err := validatePipeline(&recipe.Pipeline); err != nil {
		return fmt.Errorf("recipe %s: %w", recipe.Name, err)
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	if recipe.CreatedAt == "" {
		recipe.CreatedAt = now
	}
	recipe.UpdatedAt = now
	rm.recipes[recipe.Name] = recipe

	if rm.storePath != "" {
		return rm.persistRecipe(recipe)
	}
	return nil
}

func (rm *RecipeManager) GetRecipe(name string) (*Recipe, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	recipe, exists := rm.recipes[name]
	return recipe, exists
}

// ListRecipes returns all recipes sorted by name.
func (rm *RecipeManager) ListRecipes() []*Recipe {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	recipes := make([]*Recipe, 0, len(rm.recipes))
	for _, recipe := range rm.recipes {
		recipes = append(recipes, recipe)
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].Name < recipes[j].Name })
	return recipes
}

func (rm *RecipeManager) DeleteRecipe(name string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	delete(rm.recipes, name)
	if rm.storePath != "" {
		path := filepath.Join(rm.storePath, sanitizeFilename(name)+recipeExt)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete recipe file: %w", err)
		}
	}
	return nil
}

// LoadRecipes reads every .yaml or .yml file in the store. A missing store
// directory is not an error.
func (rm *RecipeManager) LoadRecipes() error {
	if rm.storePath == "" {
		return nil
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	entries, err := os.ReadDir(rm.storePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read recipes directory: %w", err)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(rm.storePath, entry.Name()))
		if err != nil {
			return fmt.Errorf("read recipe %s: %w", entry.Name(), err)
		}
		var recipe Recipe
		if err := yaml.Unmarshal(data, &recipe); err != nil {
			return fmt.Errorf("parse recipe %s: %w", entry.Name(), err)
		}
		if recipe.Name == "" {
			recipe.Name = strings.TrimSuffix(entry.Name(), ext)
		}
		rm.recipes[recipe.Name] = &recipe
	}
	return nil
}

// SearchRecipes matches query case-insensitively against names,
// descriptions and tags.
func (rm *RecipeManager) SearchRecipes(query string) []*Recipe {
	q := strings.ToLower(query)
	var results []*Recipe
	for _, recipe := range rm.ListRecipes() {
		if strings.Contains(strings.ToLower(recipe.Name), q) || strings.Contains(strings.ToLower(recipe.Description), q) {
			results = append(results, recipe)
			continue
		}
		for _, tag := range recipe.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				results = append(results, recipe)
				break
			}
		}
	}
	return results
}

func (rm *RecipeManager) persistRecipe(recipe *Recipe) error {
	if err := os.MkdirAll(rm.storePath, 0o755); err != nil {
		return fmt.Errorf("create recipes directory: %w", err)
	}
	data, err := yaml.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("serialize recipe: %w", err)
	}
	path := filepath.Join(rm.storePath, sanitizeFilename(recipe.Name)+recipeExt)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write recipe file: %w", err)
	}
	return nil
}

func validatePipeline(p *Pipeline) error {
	if len(p.Operations) == 0 {
		return fmt.Errorf("pipeline has no operations")
	}
	for i, step := range p.Operations {
		if _, ok := GetOperation(step.Name); !ok {
			return fmt.Errorf("unknown operation at step %d: %s", i, step.Name)
		}
	}
	return nil
}

// sanitizeFilename keeps letters, digits, '-' and '_' and maps spaces to '_'.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "recipe"
	}
	return b.String()
}
