package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"pir-integrity/internal/models"
)

// CatalogRepository handles database operations for the question catalog.
// The engine only reads it; administrative flows own the writes.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCategories retrieves all integrity dimensions in display order
func (r *CatalogRepository) ListCategories() ([]models.Category, error) {
	query := `
		SELECT id, code, name, weight, display_order, created_at, updated_at
		FROM categories
		ORDER BY display_order, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID,
			&c.Code,
			&c.Name,
			&c.Weight,
			&c.DisplayOrder,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// ListQuestions retrieves all catalog questions in display order
func (r *CatalogRepository) ListQuestions() ([]models.Question, error) {
	query := `
		SELECT id, category_id, text, type, options, expected_answer,
		       measures_ethics, measures_integrity, measures_honesty, measures_reliability,
		       reverse_scored, is_cross_validation, related_question_id,
		       social_desirability_flag, moral_stage, ideal_scenario_option,
		       display_order, created_at, updated_at
		FROM questions
		ORDER BY display_order, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var options pq.StringArray
		var moralStage sql.NullString
		err := rows.Scan(
			&q.ID,
			&q.CategoryID,
			&q.Text,
			&q.Type,
			&options,
			&q.ExpectedAnswer,
			&q.MeasuresEthics,
			&q.MeasuresIntegrity,
			&q.MeasuresHonesty,
			&q.MeasuresReliability,
			&q.ReverseScored,
			&q.IsCrossValidation,
			&q.RelatedQuestionID,
			&q.SocialDesirability,
			&moralStage,
			&q.IdealScenarioOption,
			&q.DisplayOrder,
			&q.CreatedAt,
			&q.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		q.Options = []string(options)
		if moralStage.Valid {
			stage := models.MoralLevel(moralStage.String)
			q.MoralStage = &stage
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}
