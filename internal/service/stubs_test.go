package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/noah-isme/uni-payroll-api/internal/models"
	"github.com/noah-isme/uni-payroll-api/internal/repository"
	appErrors "github.com/noah-isme/uni-payroll-api/pkg/errors"
)

type teacherStore struct {
	items      map[string]*models.Teacher
	profiles   map[string]*models.TeacherProfile
	emails     map[string]string
	dependents int
	deleted    []string
}

func (s *teacherStore) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	var out []models.Teacher
	for _, teacher := range s.items {
		out = append(out, *teacher)
	}
	return out, len(out), nil
}

func (s *teacherStore) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := s.items[id]; ok {
		cp := *teacher
		return &cp, nil
	}
	if profile, ok := s.profiles[id]; ok {
		cp := profile.Teacher
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *teacherStore) FindProfile(ctx context.Context, id string) (*models.TeacherProfile, error) {
	if profile, ok := s.profiles[id]; ok {
		cp := *profile
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *teacherStore) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	owner, ok := s.emails[email]
	return ok && owner != excludeID, nil
}

func (s *teacherStore) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return false, nil
}

func (s *teacherStore) Create(ctx context.Context, teacher *models.Teacher) error {
	if s.items == nil {
		s.items = map[string]*models.Teacher{}
	}
	teacher.ID = "t-new"
	cp := *teacher
	s.items[teacher.ID] = &cp
	return nil
}

func (s *teacherStore) Update(ctx context.Context, teacher *models.Teacher) error {
	cp := *teacher
	s.items[teacher.ID] = &cp
	return nil
}

func (s *teacherStore) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *teacherStore) CountDependents(ctx context.Context, id string) (int, error) {
	return s.dependents, nil
}

type departmentStore struct {
	items map[string]*models.Department
}

func (s *departmentStore) FindByID(ctx context.Context, id string) (*models.Department, error) {
	if department, ok := s.items[id]; ok {
		cp := *department
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type subjectStore struct {
	items map[string]*models.Subject
}

func (s *subjectStore) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if subject, ok := s.items[id]; ok {
		cp := *subject
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type classStore struct {
	items   map[string]*models.ClassDetail
	updated *models.Class
}

func (s *classStore) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	return nil, 0, nil
}

func (s *classStore) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if detail, ok := s.items[id]; ok {
		cp := detail.Class
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *classStore) FindDetail(ctx context.Context, id string) (*models.ClassDetail, error) {
	if detail, ok := s.items[id]; ok {
		cp := *detail
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *classStore) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return false, nil
}

func (s *classStore) Create(ctx context.Context, class *models.Class) error {
	class.ID = "c-new"
	return nil
}

func (s *classStore) Update(ctx context.Context, class *models.Class) error {
	cp := *class
	s.updated = &cp
	return nil
}

func (s *classStore) Delete(ctx context.Context, id string) error {
	return nil
}

func (s *classStore) CountDependents(ctx context.Context, id string) (int, error) {
	return 0, nil
}

type assignmentStore struct {
	items      map[string]*models.TeachingAssignmentDetail
	duplicate  bool
	salaryRefs int
	created    *models.TeachingAssignment
	deleted    []string
	payrollErr error
}

func (s *assignmentStore) List(ctx context.Context, filter models.TeachingAssignmentFilter) ([]models.TeachingAssignmentDetail, int, error) {
	var out []models.TeachingAssignmentDetail
	for _, detail := range s.items {
		out = append(out, *detail)
	}
	return out, len(out), nil
}

func (s *assignmentStore) FindByID(ctx context.Context, id string) (*models.TeachingAssignment, error) {
	if detail, ok := s.items[id]; ok {
		cp := detail.TeachingAssignment
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *assignmentStore) FindDetail(ctx context.Context, id string) (*models.TeachingAssignmentDetail, error) {
	if detail, ok := s.items[id]; ok {
		cp := *detail
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *assignmentStore) ListScheduledByTeacher(ctx context.Context, teacherID, academicYearID string) ([]models.TeachingAssignmentDetail, error) {
	var out []models.TeachingAssignmentDetail
	for _, detail := range s.items {
		if detail.TeacherID == teacherID && detail.AcademicYearID == academicYearID && detail.Status != models.AssignmentStatusCancelled {
			out = append(out, *detail)
		}
	}
	return out, nil
}

func (s *assignmentStore) ListTeacherIDsByClass(ctx context.Context, classID string) ([]string, error) {
	var ids []string
	for _, detail := range s.items {
		if detail.ClassID == classID && detail.Status != models.AssignmentStatusCancelled {
			ids = append(ids, detail.TeacherID)
		}
	}
	return ids, nil
}

func (s *assignmentStore) ListDetailsByIDs(ctx context.Context, teacherID string, ids []string) ([]models.TeachingAssignmentDetail, error) {
	var out []models.TeachingAssignmentDetail
	for _, id := range uniqueStrings(ids) {
		if detail, ok := s.items[id]; ok && detail.TeacherID == teacherID {
			out = append(out, *detail)
		}
	}
	return out, nil
}

func (s *assignmentStore) ListForPayroll(ctx context.Context, q repository.PayrollQuery) ([]models.TeachingAssignmentDetail, error) {
	if s.payrollErr != nil {
		return nil, s.payrollErr
	}
	var out []models.TeachingAssignmentDetail
	for _, detail := range s.items {
		switch detail.Status {
		case models.AssignmentStatusConfirmed, models.AssignmentStatusInProgress, models.AssignmentStatusCompleted:
		default:
			continue
		}
		if detail.TeacherID == q.TeacherID && detail.AcademicYearID == q.AcademicYearID {
			out = append(out, *detail)
		}
	}
	return out, nil
}

func (s *assignmentStore) Exists(ctx context.Context, teacherID, classID, excludeID string) (bool, error) {
	return s.duplicate, nil
}

func (s *assignmentStore) Create(ctx context.Context, assignment *models.TeachingAssignment) error {
	assignment.ID = "ta-new"
	cp := *assignment
	s.created = &cp
	return nil
}

func (s *assignmentStore) Update(ctx context.Context, assignment *models.TeachingAssignment) error {
	if detail, ok := s.items[assignment.ID]; ok {
		detail.TeachingAssignment = *assignment
	}
	return nil
}

func (s *assignmentStore) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *assignmentStore) CountSalaryReferences(ctx context.Context, id string) (int, error) {
	return s.salaryRefs, nil
}

type rateStore struct {
	items      map[string]*models.RateSetting
	active     []models.RateSetting
	codes      map[string]string
	refs       int
	successors int
	created    *models.RateSetting
	activated  *models.RateSetting
	deleted    []string
	updateErr  error
}

func (s *rateStore) List(ctx context.Context, filter models.RateSettingFilter) ([]models.RateSetting, int, error) {
	return nil, 0, nil
}

func (s *rateStore) FindByID(ctx context.Context, id string) (*models.RateSetting, error) {
	if setting, ok := s.items[id]; ok {
		cp := *setting
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *rateStore) ListActive(ctx context.Context, at time.Time, rateType models.RateType) ([]models.RateSetting, error) {
	var out []models.RateSetting
	for _, setting := range s.active {
		if rateType == "" || setting.RateType == rateType {
			out = append(out, setting)
		}
	}
	return out, nil
}

func (s *rateStore) ExistsByCode(ctx context.Context, code string, excludeIDs ...string) (bool, error) {
	owner, ok := s.codes[code]
	if !ok {
		return false, nil
	}
	for _, id := range excludeIDs {
		if id == owner {
			return false, nil
		}
	}
	return true, nil
}

func (s *rateStore) Create(ctx context.Context, setting *models.RateSetting) error {
	if setting.ID == "" {
		setting.ID = "r-new"
	}
	setting.Version = 1
	cp := *setting
	s.created = &cp
	return nil
}

func (s *rateStore) Update(ctx context.Context, setting *models.RateSetting) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	setting.Version++
	cp := *setting
	s.items[setting.ID] = &cp
	return nil
}

func (s *rateStore) Activate(ctx context.Context, setting *models.RateSetting) error {
	setting.Version++
	cp := *setting
	s.activated = &cp
	return nil
}

func (s *rateStore) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *rateStore) CountSalaryReferences(ctx context.Context, id string) (int, error) {
	return s.refs, nil
}

func (s *rateStore) CountSuccessors(ctx context.Context, id string) (int, error) {
	return s.successors, nil
}

type salaryStore struct {
	items      map[string]*models.SalaryCalculation
	events     []models.SalaryEvent
	exists     bool
	saveErr    error
	stats      *models.SalaryStatistics
	statsCalls int
	exported   []models.SalaryListItem
}

func cloneCalculation(calc *models.SalaryCalculation) *models.SalaryCalculation {
	cp := *calc
	cp.Assignments = make(models.AssignmentEntries, len(calc.Assignments))
	for i, entry := range calc.Assignments {
		entry.AppliedRates = append([]models.AppliedRate(nil), entry.AppliedRates...)
		cp.Assignments[i] = entry
	}
	cp.ValidationErrors = append(models.StringList(nil), calc.ValidationErrors...)
	return &cp
}

func (s *salaryStore) Create(ctx context.Context, calc *models.SalaryCalculation, event models.SalaryEvent) error {
	if s.items == nil {
		s.items = map[string]*models.SalaryCalculation{}
	}
	calc.ID = "sc-new"
	calc.Version = 1
	event.CalculationID = calc.ID
	s.items[calc.ID] = cloneCalculation(calc)
	s.events = append(s.events, event)
	return nil
}

func (s *salaryStore) FindByID(ctx context.Context, id string) (*models.SalaryCalculation, error) {
	if calc, ok := s.items[id]; ok {
		return cloneCalculation(calc), nil
	}
	return nil, sql.ErrNoRows
}

func (s *salaryStore) ExistsActive(ctx context.Context, teacherID, academicYearID string, semesterID *string, periodType models.PeriodType, excludeID string) (bool, error) {
	return s.exists, nil
}

func (s *salaryStore) List(ctx context.Context, filter models.SalaryFilter) ([]models.SalaryListItem, int, error) {
	return nil, 0, nil
}

func (s *salaryStore) ListAll(ctx context.Context, filter models.SalaryFilter) ([]models.SalaryListItem, error) {
	return s.exported, nil
}

func (s *salaryStore) Save(ctx context.Context, calc *models.SalaryCalculation, events ...models.SalaryEvent) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if stored, ok := s.items[calc.ID]; ok && stored.Version != calc.Version {
		return repository.ErrStaleVersion
	}
	calc.Version++
	s.items[calc.ID] = cloneCalculation(calc)
	for _, event := range events {
		event.CalculationID = calc.ID
		s.events = append(s.events, event)
	}
	return nil
}

func (s *salaryStore) ListEvents(ctx context.Context, calculationID string) ([]models.SalaryEvent, error) {
	var out []models.SalaryEvent
	for _, event := range s.events {
		if event.CalculationID == calculationID {
			out = append(out, event)
		}
	}
	return out, nil
}

func (s *salaryStore) Statistics(ctx context.Context, filter models.SalaryStatisticsFilter) (*models.SalaryStatistics, error) {
	s.statsCalls++
	cp := *s.stats
	return &cp, nil
}

func (s *salaryStore) actions(calculationID string) []string {
	var out []string
	for _, event := range s.events {
		if event.CalculationID == calculationID {
			out = append(out, event.Action)
		}
	}
	return out
}

type memoryCache struct {
	entries map[string][]byte
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.entries == nil {
		c.entries = map[string][]byte{}
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}
