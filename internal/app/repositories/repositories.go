package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/skillkhoj/backend/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	CourseRepository      *CourseRepository
	JobRepository         *JobRepository
	ApplicationRepository *ApplicationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pg *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(pg),
		CourseRepository:      NewCourseRepository(pg),
		JobRepository:         NewJobRepository(pg),
		ApplicationRepository: NewApplicationRepository(pg),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// orderByIDs returns items rearranged to follow ids, skipping ids with no match.
func orderByIDs[T any](ids []string, items []T, idOf func(T) string) []T {
	byID := make(map[string]T, len(items))
	for _, it := range items {
		byID[idOf(it)] = it
	}
	ordered := make([]T, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			ordered = append(ordered, it)
		}
	}
	return ordered
}
