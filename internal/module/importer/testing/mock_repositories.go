package testing

import (
	"context"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// MockJobRepository はテスト用のモックJobRepositoryです
type MockJobRepository struct {
	ExistsFunc  func(ctx context.Context, id string) (bool, error)
	GetByIDFunc func(ctx context.Context, id string) (*domain.JobRecord, error)
	InsertFunc  func(ctx context.Context, job *domain.JobRecord) error
	UpdateFunc  func(ctx context.Context, job *domain.JobRecord) error
}

func (m *MockJobRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return false, nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*domain.JobRecord, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockJobRepository) Insert(ctx context.Context, job *domain.JobRecord) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, job)
	}
	return nil
}

func (m *MockJobRepository) Update(ctx context.Context, job *domain.JobRecord) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, job)
	}
	return nil
}

// MockCompanyRepository はテスト用のモックCompanyRepositoryです
type MockCompanyRepository struct {
	ExistsFunc  func(ctx context.Context, id int64) (bool, error)
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Company, error)
	InsertFunc  func(ctx context.Context, company domain.Company) error
}

func (m *MockCompanyRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return false, nil
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockCompanyRepository) Insert(ctx context.Context, company domain.Company) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, company)
	}
	return nil
}

// MockTitleRepository はテスト用のモックTitleRepositoryです
type MockTitleRepository struct {
	ExistsFunc  func(ctx context.Context, id string) (bool, error)
	GetByIDFunc func(ctx context.Context, id string) (*domain.Title, error)
	InsertFunc  func(ctx context.Context, title domain.Title) error
}

func (m *MockTitleRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return false, nil
}

func (m *MockTitleRepository) GetByID(ctx context.Context, id string) (*domain.Title, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockTitleRepository) Insert(ctx context.Context, title domain.Title) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, title)
	}
	return nil
}

// MockSkillRepository はテスト用のモックSkillRepositoryです
type MockSkillRepository struct {
	ExistsFunc  func(ctx context.Context, id string) (bool, error)
	GetByIDFunc func(ctx context.Context, id string) (*domain.Skill, error)
	InsertFunc  func(ctx context.Context, skill domain.Skill) error
}

func (m *MockSkillRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return false, nil
}

func (m *MockSkillRepository) GetByID(ctx context.Context, id string) (*domain.Skill, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockSkillRepository) Insert(ctx context.Context, skill domain.Skill) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, skill)
	}
	return nil
}

// MockJobSkillRepository はテスト用のモックJobSkillRepositoryです
type MockJobSkillRepository struct {
	ReplaceForJobFunc func(ctx context.Context, jobID string, skillIDs []string) error
	LinkFunc          func(ctx context.Context, jobID, skillID string) error
	ListByJobFunc     func(ctx context.Context, jobID string) ([]string, error)
}

func (m *MockJobSkillRepository) ReplaceForJob(ctx context.Context, jobID string, skillIDs []string) error {
	if m.ReplaceForJobFunc != nil {
		return m.ReplaceForJobFunc(ctx, jobID, skillIDs)
	}
	return nil
}

func (m *MockJobSkillRepository) Link(ctx context.Context, jobID, skillID string) error {
	if m.LinkFunc != nil {
		return m.LinkFunc(ctx, jobID, skillID)
	}
	return nil
}

func (m *MockJobSkillRepository) ListByJob(ctx context.Context, jobID string) ([]string, error) {
	if m.ListByJobFunc != nil {
		return m.ListByJobFunc(ctx, jobID)
	}
	return nil, nil
}

// MockRepositories は全ポートをモックで埋めた Repositories を返します
func MockRepositories() domain.Repositories {
	return domain.Repositories{
		Jobs:      &MockJobRepository{},
		Companies: &MockCompanyRepository{},
		Titles:    &MockTitleRepository{},
		Skills:    &MockSkillRepository{},
		JobSkills: &MockJobSkillRepository{},
	}
}
