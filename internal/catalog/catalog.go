package catalog

import (
	"fmt"
	"sort"
	"sync"

	"pir-integrity/internal/models"
)

// Loader provides the catalog rows. Implemented by the question and category
// repositories; tests supply fixtures directly.
type Loader interface {
	ListCategories() ([]models.Category, error)
	ListQuestions() ([]models.Question, error)
}

// Catalog is the read-only question/category lookup table owned by the
// composition root. It is populated explicitly at engine start and refreshed
// only on administrative catalog change; the engine itself never mutates it.
type Catalog struct {
	loader Loader

	mu         sync.RWMutex
	categories map[uint]models.Category
	questions  map[uint]models.Question
	ordered    []models.Question // all questions in display order
	byCategory map[uint][]models.Question
}

// New creates an empty catalog bound to a loader. Call Load before use.
func New(loader Loader) *Catalog {
	return &Catalog{loader: loader}
}

// Load populates the catalog from the loader, replacing any prior content.
func (c *Catalog) Load() error {
	categories, err := c.loader.ListCategories()
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	questions, err := c.loader.ListQuestions()
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}

	catIndex := make(map[uint]models.Category, len(categories))
	for _, cat := range categories {
		if cat.Weight <= 0 {
			return fmt.Errorf("category %d (%s) has non-positive weight", cat.ID, cat.Code)
		}
		catIndex[cat.ID] = cat
	}

	qIndex := make(map[uint]models.Question, len(questions))
	byCategory := make(map[uint][]models.Question)
	for _, q := range questions {
		if _, ok := catIndex[q.CategoryID]; !ok {
			return fmt.Errorf("question %d references unknown category %d", q.ID, q.CategoryID)
		}
		qIndex[q.ID] = q
		byCategory[q.CategoryID] = append(byCategory[q.CategoryID], q)
	}

	// Pairings are fixed at catalog-authoring time; validate them once here
	// so later stages can resolve ids without re-checking.
	for _, q := range questions {
		if q.RelatedQuestionID == nil {
			continue
		}
		related, ok := qIndex[*q.RelatedQuestionID]
		if !ok {
			return fmt.Errorf("question %d paired with unknown question %d", q.ID, *q.RelatedQuestionID)
		}
		if related.RelatedQuestionID != nil && *related.RelatedQuestionID != q.ID {
			return fmt.Errorf("question %d is paired with more than one question", related.ID)
		}
	}

	ordered := make([]models.Question, len(questions))
	copy(ordered, questions)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].DisplayOrder < ordered[j].DisplayOrder
	})
	for id := range byCategory {
		qs := byCategory[id]
		sort.Slice(qs, func(i, j int) bool {
			return qs[i].DisplayOrder < qs[j].DisplayOrder
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = catIndex
	c.questions = qIndex
	c.ordered = ordered
	c.byCategory = byCategory

	return nil
}

// Refresh re-reads the catalog. Used by the administrative refresh endpoint
// after catalog content changes.
func (c *Catalog) Refresh() error {
	return c.Load()
}

// Question returns the question with the given id
func (c *Catalog) Question(id uint) (models.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.questions[id]
	return q, ok
}

// Category returns the category with the given id
func (c *Catalog) Category(id uint) (models.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cat, ok := c.categories[id]
	return cat, ok
}

// Categories returns all categories sorted by display order
func (c *Catalog) Categories() []models.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Category, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out
}

// Questions returns all questions in display order
func (c *Catalog) Questions() []models.Question {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Question, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// QuestionsByCategory returns the category's questions in display order
func (c *Catalog) QuestionsByCategory(categoryID uint) []models.Question {
	c.mu.RLock()
	defer c.mu.RUnlock()
	qs := c.byCategory[categoryID]
	out := make([]models.Question, len(qs))
	copy(out, qs)
	return out
}

// RequiredCount returns how many questions must be answered for completion
func (c *Catalog) RequiredCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.questions)
}

// Pair is one resolved cross-validation pairing
type Pair struct {
	A models.Question
	B models.Question
}

// CrossValidationPairs returns each pairing exactly once, anchored on the
// lower question id.
func (c *Catalog) CrossValidationPairs() []Pair {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var pairs []Pair
	for _, q := range c.ordered {
		if !q.IsCrossValidation || q.RelatedQuestionID == nil {
			continue
		}
		related, ok := c.questions[*q.RelatedQuestionID]
		if !ok || q.ID > related.ID {
			continue
		}
		pairs = append(pairs, Pair{A: q, B: related})
	}
	return pairs
}

// SocialDesirabilityQuestions returns the questions flagged for
// social-desirability checking
func (c *Catalog) SocialDesirabilityQuestions() []models.Question {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.Question
	for _, q := range c.ordered {
		if q.SocialDesirability {
			out = append(out, q)
		}
	}
	return out
}

// ScenarioQuestions returns the scenario questions carrying a moral stage tag
func (c *Catalog) ScenarioQuestions() []models.Question {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.Question
	for _, q := range c.ordered {
		if q.Type == models.QuestionTypeScenario && q.MoralStage != nil {
			out = append(out, q)
		}
	}
	return out
}
