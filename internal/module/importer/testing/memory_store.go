package testing

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// MemoryStore はテスト用のインメモリストアです
// 書き込み前に FailJobWrite が非nilを返すと、そのエラーで失敗します
type MemoryStore struct {
	mu sync.Mutex

	jobs      map[string]*domain.JobRecord
	companies map[int64]domain.Company
	titles    map[string]domain.Title
	skills    map[string]domain.Skill
	jobSkills map[string][]string

	// JobInserts / JobUpdates は jobs への書き込み回数
	JobInserts int
	JobUpdates int

	FailJobWrite func(job *domain.JobRecord) error
}

// NewMemoryStore は空のインメモリストアを作成します
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:      make(map[string]*domain.JobRecord),
		companies: make(map[int64]domain.Company),
		titles:    make(map[string]domain.Title),
		skills:    make(map[string]domain.Skill),
		jobSkills: make(map[string][]string),
	}
}

// Repositories はストアを domain.Repositories として返します
func (s *MemoryStore) Repositories() domain.Repositories {
	return domain.Repositories{
		Jobs:      memoryJobs{s},
		Companies: memoryCompanies{s},
		Titles:    memoryTitles{s},
		Skills:    memorySkills{s},
		JobSkills: memoryJobSkills{s},
	}
}

// JobCount は保存済みの求人数を返します
func (s *MemoryStore) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// CompanyCount は保存済みの企業数を返します
func (s *MemoryStore) CompanyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.companies)
}

// === jobs ===

type memoryJobs struct{ s *MemoryStore }

func (r memoryJobs) Exists(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.jobs[id]
	return ok, nil
}

func (r memoryJobs) GetByID(ctx context.Context, id string) (*domain.JobRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job, ok := r.s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}
	cp := *job
	return &cp, nil
}

func (r memoryJobs) Insert(ctx context.Context, job *domain.JobRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailJobWrite != nil {
		if err := r.s.FailJobWrite(job); err != nil {
			return err
		}
	}
	if _, ok := r.s.jobs[job.ID]; ok {
		return fmt.Errorf("duplicate job id: %s", job.ID)
	}
	stored := &domain.JobRecord{}
	if err := applyColumns(stored, job); err != nil {
		return err
	}
	r.s.jobs[job.ID] = stored
	r.s.JobInserts++
	return nil
}

func (r memoryJobs) Update(ctx context.Context, job *domain.JobRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailJobWrite != nil {
		if err := r.s.FailJobWrite(job); err != nil {
			return err
		}
	}
	stored, ok := r.s.jobs[job.ID]
	if !ok {
		return fmt.Errorf("job %s: %w", job.ID, domain.ErrNotFound)
	}
	if err := applyColumns(stored, job); err != nil {
		return err
	}
	r.s.JobUpdates++
	return nil
}

// applyColumns は job に存在するカラムだけを dst に反映します
func applyColumns(dst, job *domain.JobRecord) error {
	for _, col := range job.Columns() {
		if err := dst.SetColumn(col.Name, col.Value); err != nil {
			return err
		}
	}
	return nil
}

// === company ===

type memoryCompanies struct{ s *MemoryStore }

func (r memoryCompanies) Exists(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.companies[id]
	return ok, nil
}

func (r memoryCompanies) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, fmt.Errorf("company %d: %w", id, domain.ErrNotFound)
	}
	return &c, nil
}

func (r memoryCompanies) Insert(ctx context.Context, company domain.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[company.ID]; ok {
		return fmt.Errorf("duplicate company id: %d", company.ID)
	}
	r.s.companies[company.ID] = company
	return nil
}

// === title_taxonomy ===

type memoryTitles struct{ s *MemoryStore }

func (r memoryTitles) Exists(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.titles[id]
	return ok, nil
}

func (r memoryTitles) GetByID(ctx context.Context, id string) (*domain.Title, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.titles[id]
	if !ok {
		return nil, fmt.Errorf("title %s: %w", id, domain.ErrNotFound)
	}
	return &t, nil
}

func (r memoryTitles) Insert(ctx context.Context, title domain.Title) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.titles[title.ID]; ok {
		return fmt.Errorf("duplicate title id: %s", title.ID)
	}
	r.s.titles[title.ID] = title
	return nil
}

// === skill_2_skill_pt_br ===

type memorySkills struct{ s *MemoryStore }

func (r memorySkills) Exists(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.skills[id]
	return ok, nil
}

func (r memorySkills) GetByID(ctx context.Context, id string) (*domain.Skill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sk, ok := r.s.skills[id]
	if !ok {
		return nil, fmt.Errorf("skill %s: %w", id, domain.ErrNotFound)
	}
	return &sk, nil
}

func (r memorySkills) Insert(ctx context.Context, skill domain.Skill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.skills[skill.ID]; ok {
		return fmt.Errorf("duplicate skill id: %s", skill.ID)
	}
	r.s.skills[skill.ID] = skill
	return nil
}

// === job_skill ===

type memoryJobSkills struct{ s *MemoryStore }

func (r memoryJobSkills) ReplaceForJob(ctx context.Context, jobID string, skillIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(skillIDs) == 0 {
		delete(r.s.jobSkills, jobID)
		return nil
	}
	r.s.jobSkills[jobID] = slices.Clone(skillIDs)
	return nil
}

func (r memoryJobSkills) Link(ctx context.Context, jobID, skillID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if slices.Contains(r.s.jobSkills[jobID], skillID) {
		return fmt.Errorf("job %s skill %s: %w", jobID, skillID, domain.ErrDuplicateLink)
	}
	r.s.jobSkills[jobID] = append(r.s.jobSkills[jobID], skillID)
	return nil
}

func (r memoryJobSkills) ListByJob(ctx context.Context, jobID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return slices.Clone(r.s.jobSkills[jobID]), nil
}
