package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimk/coursecompass/internal/app/models"
	"github.com/selimk/coursecompass/internal/pkg/apperrors"
)

// --- fakes ---

type fakeCollegeStore struct {
	colleges map[string]*models.College
}

func (f *fakeCollegeStore) CreateCollege(ctx context.Context, college *models.College) (int64, error) {
	if _, ok := f.colleges[college.Name]; ok {
		return 0, apperrors.ErrCollegeAlreadyExists
	}
	if f.colleges == nil {
		f.colleges = map[string]*models.College{}
	}
	college.ID = int64(len(f.colleges) + 1)
	f.colleges[college.Name] = college
	return college.ID, nil
}

func (f *fakeCollegeStore) GetCollegeByName(ctx context.Context, name string) (*models.College, error) {
	college, ok := f.colleges[name]
	if !ok {
		return nil, apperrors.ErrCollegeNotFound
	}
	return college, nil
}

func (f *fakeCollegeStore) GetAllColleges(ctx context.Context) ([]*models.College, error) {
	var out []*models.College
	for _, college := range f.colleges {
		out = append(out, college)
	}
	return out, nil
}

type fakeStudentStore struct {
	students map[string]*models.Student // keyed by studentID

	updatedResponses       models.ResponseMap
	updatedRecommendations []models.Recommendation
	recommendationsSet     bool

	updateResponsesErr error
}

func (f *fakeStudentStore) CreateStudent(ctx context.Context, student *models.Student) (int64, error) {
	if existing, ok := f.students[student.StudentID]; ok && existing.CollegeID == student.CollegeID {
		return 0, apperrors.ErrStudentAlreadyExists
	}
	if f.students == nil {
		f.students = map[string]*models.Student{}
	}
	id := int64(len(f.students) + 1000)
	f.students[student.StudentID] = student
	return id, nil
}

func (f *fakeStudentStore) GetStudentByCollegeAndID(ctx context.Context, collegeID int64, studentID string) (*models.Student, error) {
	student, ok := f.students[studentID]
	if !ok || student.CollegeID != collegeID {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (f *fakeStudentStore) UpdateResponses(ctx context.Context, id int64, responses models.ResponseMap) error {
	if f.updateResponsesErr != nil {
		return f.updateResponsesErr
	}
	f.updatedResponses = responses
	return nil
}

func (f *fakeStudentStore) UpdateRecommendations(ctx context.Context, id int64, recommendations []models.Recommendation) error {
	f.updatedRecommendations = recommendations
	f.recommendationsSet = true
	return nil
}

func (f *fakeStudentStore) GetStudentsWithRecommendations(ctx context.Context, collegeID int64) ([]*models.Student, error) {
	var students []*models.Student
	for _, s := range f.students {
		if s.CollegeID == collegeID && len(s.Recommendations) > 0 {
			students = append(students, s)
		}
	}
	return students, nil
}

type fakeQuestionStore struct {
	questions map[string]*models.Question // keyed by external question_id
}

func (f *fakeQuestionStore) CreateQuestion(ctx context.Context, question *models.Question) (int64, error) {
	if existing, ok := f.questions[question.QuestionID]; ok && existing.CollegeID == question.CollegeID {
		return 0, apperrors.ErrQuestionAlreadyExists
	}
	if f.questions == nil {
		f.questions = map[string]*models.Question{}
	}
	question.ID = int64(len(f.questions) + 100)
	f.questions[question.QuestionID] = question
	return question.ID, nil
}

func (f *fakeQuestionStore) GetQuestionByExternalID(ctx context.Context, collegeID int64, questionID string) (*models.Question, error) {
	question, ok := f.questions[questionID]
	if !ok || question.CollegeID != collegeID {
		return nil, apperrors.ErrQuestionNotFound
	}
	return question, nil
}

func (f *fakeQuestionStore) GetQuestionsByCollege(ctx context.Context, collegeID int64) ([]*models.Question, error) {
	var questions []*models.Question
	for _, q := range f.questions {
		if q.CollegeID == collegeID {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (f *fakeQuestionStore) GetQuestionIDsByCollege(ctx context.Context, collegeID int64) ([]string, error) {
	var ids []string
	for _, q := range f.questions {
		if q.CollegeID == collegeID {
			ids = append(ids, q.QuestionID)
		}
	}
	return ids, nil
}

type fakeSettingStore struct {
	settings map[string]*models.RecommendationSetting // keyed by subject group name
	getErr   error
}

func (f *fakeSettingStore) UpsertSetting(ctx context.Context, setting *models.RecommendationSetting) error {
	if f.settings == nil {
		f.settings = map[string]*models.RecommendationSetting{}
	}
	f.settings[setting.SubjectGroupName] = setting
	return nil
}

func (f *fakeSettingStore) GetSetting(ctx context.Context, collegeID int64, subjectGroupName string) (*models.RecommendationSetting, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	setting, ok := f.settings[subjectGroupName]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return setting, nil
}

type fakeFetcher struct {
	courses []models.Course
	err     error
}

func (f *fakeFetcher) FetchCourses(ctx context.Context, baseURL string) ([]models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.courses, nil
}

// fakeGenerator answers each prompt through fn and records the prompts it saw.
type fakeGenerator struct {
	fn      func(prompt string) (string, error)
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.fn(prompt)
}

// --- fixtures ---

func testCollege() *models.College {
	return &models.College{ID: 1, CollegeID: "ACME", Name: "acme", BaseURL: "http://catalog.acme.edu"}
}

func testQuestions() map[string]*models.Question {
	return map[string]*models.Question{
		"Q1": {
			ID: 10, CollegeID: 1, QuestionID: "Q1", Text: "When do you prefer to attend classes?",
			Options: []models.Option{
				{Text: "Morning", Value: "morning"},
				{Text: "Evening", Value: "evening"},
			},
		},
		"Q2": {
			ID: 11, CollegeID: 1, QuestionID: "Q2", Text: "Which learning style suits you best?",
			Options: []models.Option{
				{Text: "Hands-on projects", Value: "projects"},
				{Text: "Lectures and reading", Value: "lectures"},
			},
		},
	}
}

func course(group, semester, subject, paper string) models.Course {
	return models.Course{
		"SubjectGroupName": group,
		"SemesterName":     semester,
		"SubjectName":      subject,
		"PaperName":        paper,
	}
}

func modelAnswer(recs ...models.Recommendation) string {
	payload := map[string]interface{}{"recommendations": recs}
	out, _ := json.Marshal(payload)
	return string(out)
}

func newTestService(colleges *fakeCollegeStore, students *fakeStudentStore, questions *fakeQuestionStore, settings *fakeSettingStore, fetcher *fakeFetcher, gen *fakeGenerator) RecommendationService {
	return NewRecommendationService(colleges, students, questions, settings, fetcher, gen, 0)
}

// --- tests ---

func TestSubmitAnswers_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownCollege", func(t *testing.T) {
		svc := newTestService(
			&fakeCollegeStore{colleges: map[string]*models.College{}},
			&fakeStudentStore{}, &fakeQuestionStore{}, &fakeSettingStore{},
			&fakeFetcher{}, &fakeGenerator{},
		)

		_, err := svc.SubmitAnswers(ctx, "ghost", "S1", models.ResponseMap{"Q1": "morning"})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrCollegeNotFound)
	})

	t.Run("UnknownStudent", func(t *testing.T) {
		svc := newTestService(
			&fakeCollegeStore{colleges: map[string]*models.College{"acme": testCollege()}},
			&fakeStudentStore{students: map[string]*models.Student{}},
			&fakeQuestionStore{questions: testQuestions()}, &fakeSettingStore{},
			&fakeFetcher{}, &fakeGenerator{},
		)

		_, err := svc.SubmitAnswers(ctx, "acme", "S404", models.ResponseMap{"Q1": "morning"})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})

	t.Run("UnknownQuestionIDsRejectedWholesale", func(t *testing.T) {
		students := &fakeStudentStore{students: map[string]*models.Student{
			"S1": {ID: 100, CollegeID: 1, StudentID: "S1", Name: "Jane"},
		}}
		svc := newTestService(
			&fakeCollegeStore{colleges: map[string]*models.College{"acme": testCollege()}},
			students,
			&fakeQuestionStore{questions: testQuestions()}, &fakeSettingStore{},
			&fakeFetcher{}, &fakeGenerator{},
		)

		_, err := svc.SubmitAnswers(ctx, "acme", "S1", models.ResponseMap{
			"Q1": "morning",
			"Z9": "whatever",
			"A0": "nope",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnknownQuestionIDs)

		var custom *apperrors.CustomError
		require.ErrorAs(t, err, &custom)
		// Invalid IDs are listed sorted so the message is deterministic.
		assert.Equal(t, []string{"A0", "Z9"}, custom.Details["invalidQuestionIds"])
		assert.Contains(t, custom.Message, "A0, Z9")

		// Nothing may be stored on a rejected submission.
		assert.Nil(t, students.updatedResponses)
		assert.False(t, students.recommendationsSet)
	})
}

func TestSubmitAnswers_CatalogFailure(t *testing.T) {
	ctx := context.Background()

	students := &fakeStudentStore{students: map[string]*models.Student{
		"S1": {ID: 100, CollegeID: 1, StudentID: "S1", Name: "Jane"},
	}}
	svc := newTestService(
		&fakeCollegeStore{colleges: map[string]*models.College{"acme": testCollege()}},
		students,
		&fakeQuestionStore{questions: testQuestions()}, &fakeSettingStore{},
		&fakeFetcher{err: fmt.Errorf("%w: connection refused", apperrors.ErrCatalogFetch)},
		&fakeGenerator{},
	)

	answers := models.ResponseMap{"Q1": "morning"}
	_, err := svc.SubmitAnswers(ctx, "acme", "S1", answers)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCatalogFetch)

	// The raw answers were stored before the fetch, and stay stored.
	assert.Equal(t, answers, students.updatedResponses)
	// No recommendation write happened.
	assert.False(t, students.recommendationsSet)
}

func TestSubmitAnswers_FullPipeline(t *testing.T) {
	ctx := context.Background()

	colleges := &fakeCollegeStore{colleges: map[string]*models.College{"acme": testCollege()}}
	students := &fakeStudentStore{students: map[string]*models.Student{
		"S1": {ID: 100, CollegeID: 1, StudentID: "S1", Name: "Jane", Semester: "Third"},
	}}
	questions := &fakeQuestionStore{questions: testQuestions()}
	settings := &fakeSettingStore{settings: map[string]*models.RecommendationSetting{
		"Science": {CollegeID: 1, SubjectGroupName: "Science", NumRecommendations: 2},
		"Arts":    {CollegeID: 1, SubjectGroupName: "Arts", NumRecommendations: 1},
	}}
	fetcher := &fakeFetcher{courses: []models.Course{
		course("Science", "Third", "Physics", "Mechanics I"),
		course("Science", "First", "Physics", "Intro Physics"), // wrong semester, filtered out
		course("Arts", "third", "History", "Modern History"),   // semester match is case-insensitive
		course("Commerce", "Third", "Accounting", "Accounting I"), // no setting, skipped
	}}
	gen := &fakeGenerator{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, `"Science"`) {
			return modelAnswer(
				models.Recommendation{SubjectName: "Physics", PaperName: "Mechanics I"},
				models.Recommendation{SubjectName: "Physics", PaperName: "Waves"},
			), nil
		}
		return "```json\n" + modelAnswer(models.Recommendation{SubjectName: "History", PaperName: "Modern History"}) + "\n```", nil
	}}

	svc := newTestService(colleges, students, questions, settings, fetcher, gen)

	recs, err := svc.SubmitAnswers(ctx, "acme", "S1", models.ResponseMap{"Q1": "morning", "Q2": "projects"})
	require.NoError(t, err)

	// Groups are processed in catalog order; every entry is tagged with its group.
	require.Len(t, recs, 3)
	assert.Equal(t, "Science", recs[0].SubjectGroupName)
	assert.Equal(t, "Science", recs[1].SubjectGroupName)
	assert.Equal(t, "Arts", recs[2].SubjectGroupName)
	assert.Equal(t, "Mechanics I", recs[0].PaperName)
	assert.Equal(t, "Modern History", recs[2].PaperName)

	// The merged result was persisted.
	assert.Equal(t, recs, students.updatedRecommendations)

	// Two model calls: one per group that has a setting and courses left
	// after filtering. Commerce never reached the model.
	require.Len(t, gen.prompts, 2)

	// Prompts carry enriched text, not raw option values.
	assert.Contains(t, gen.prompts[0], "When do you prefer to attend classes?")
	assert.Contains(t, gen.prompts[0], "Morning")
	assert.NotContains(t, gen.prompts[0], `"morning"`)
	assert.Contains(t, gen.prompts[0], "recommend exactly 2")
	assert.Contains(t, gen.prompts[1], "recommend exactly 1")

	// The filtered-out first-semester course is not offered to the model.
	assert.NotContains(t, gen.prompts[0], "Intro Physics")
}

func TestSubmitAnswers_GroupFailureDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()

	students := &fakeStudentStore{students: map[string]*models.Student{
		"S1": {ID: 100, CollegeID: 1, StudentID: "S1", Name: "Jane"},
	}}
	settings := &fakeSettingStore{settings: map[string]*models.RecommendationSetting{
		"Science": {CollegeID: 1, SubjectGroupName: "Science", NumRecommendations: 1},
		"Arts":    {CollegeID: 1, SubjectGroupName: "Arts", NumRecommendations: 1},
	}}
	fetcher := &fakeFetcher{courses: []models.Course{
		course("Science", "", "Physics", "Mechanics I"),
		course("Arts", "", "History", "Modern History"),
	}}
	gen := &fakeGenerator{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, `"Science"`) {
			return "I am sorry, I cannot help with that.", nil // unparsable
		}
		return modelAnswer(models.Recommendation{SubjectName: "History", PaperName: "Modern History"}), nil
	}}

	svc := newTestService(
		&fakeCollegeStore{colleges: map[string]*models.College{"acme": testCollege()}},
		students,
		&fakeQuestionStore{questions: testQuestions()},
		settings, fetcher, gen,
	)

	recs, err := svc.SubmitAnswers(ctx, "acme", "S1", models.ResponseMap{"Q1": "morning"})
	require.NoError(t, err)

	// The broken Science group is skipped; Arts still comes through.
	require.Len(t, recs, 1)
	assert.Equal(t, "Arts", recs[0].SubjectGroupName)
	assert.True(t, students.recommendationsSet)
}

func TestSubmitAnswers_AllGroupsFailYieldsEmptyResult(t *testing.T) {
	ctx := context.Background()

	students := &fakeStudentStore{students: map[string]*models.Student{
		"S1": {ID: 100, CollegeID: 1, StudentID: "S1", Name: "Jane"},
	}}
	settings := &fakeSettingStore{settings: map[string]*models.RecommendationSetting{
		"Science": {CollegeID: 1, SubjectGroupName: "Science", NumRecommendations: 1},
	}}
	fetcher := &fakeFetcher{courses: []models.Course{
		course("Science", "", "Physics", "Mechanics I"),
	}}
	gen := &fakeGenerator{fn: func(string) (string, error) {
		return "", errors.New("model unavailable")
	}}

	svc := newTestService(
		&fakeCollegeStore{colleges: map[string]*models.College{"acme": testCollege()}},
		students,
		&fakeQuestionStore{questions: testQuestions()},
		settings, fetcher, gen,
	)

	recs, err := svc.SubmitAnswers(ctx, "acme", "S1", models.ResponseMap{"Q1": "morning"})
	require.NoError(t, err)
	assert.Empty(t, recs)

	// The empty result is still persisted, replacing any previous one.
	assert.True(t, students.recommendationsSet)
	assert.Empty(t, students.updatedRecommendations)
}

func TestEnrichResponses(t *testing.T) {
	ctx := context.Background()
	college := testCollege()

	svc := &recommendationServiceImpl{
		questionRepo: &fakeQuestionStore{questions: testQuestions()},
	}

	t.Run("EmptyResponses", func(t *testing.T) {
		student := &models.Student{CollegeID: 1}
		enriched := svc.enrichResponses(ctx, college, student)
		assert.Empty(t, enriched)

		// An empty set still marshals to an empty JSON object.
		out, err := json.Marshal(enriched)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(out))
	})

	t.Run("ResolvedPairs", func(t *testing.T) {
		student := &models.Student{CollegeID: 1, Responses: models.ResponseMap{
			"Q1": "morning",
			"Q2": "projects",
		}}
		enriched := svc.enrichResponses(ctx, college, student)
		require.Len(t, enriched, 2)
		assert.Equal(t, "When do you prefer to attend classes?", enriched[0].Question)
		assert.Equal(t, "Morning", enriched[0].Answer)
		assert.Equal(t, "Which learning style suits you best?", enriched[1].Question)
		assert.Equal(t, "Hands-on projects", enriched[1].Answer)
	})

	t.Run("MissingQuestionFallsBack", func(t *testing.T) {
		student := &models.Student{CollegeID: 1, Responses: models.ResponseMap{
			"Q9": "morning",
		}}
		enriched := svc.enrichResponses(ctx, college, student)
		require.Len(t, enriched, 1)
		assert.Equal(t, "Question ID Q9 for college acme", enriched[0].Question)
		assert.Equal(t, "Selected: morning (question or option not found)", enriched[0].Answer)
	})

	t.Run("MissingOptionFallsBack", func(t *testing.T) {
		student := &models.Student{CollegeID: 1, Responses: models.ResponseMap{
			"Q1": "midnight",
		}}
		enriched := svc.enrichResponses(ctx, college, student)
		require.Len(t, enriched, 1)
		assert.Equal(t, "Question ID Q1 for college acme", enriched[0].Question)
		assert.Equal(t, "Selected: midnight (question or option not found)", enriched[0].Answer)
	})
}

func TestGroupCourses(t *testing.T) {
	courses := []models.Course{
		course("Science", "", "Physics", "Mechanics I"),
		course("Arts", "", "History", "Modern History"),
		course("Science", "", "Chemistry", "Organic Chemistry"),
		{"SubjectName": "Mystery", "PaperName": "Unlabeled"}, // no group field
	}

	groups, order := groupCourses(courses)

	assert.Equal(t, []string{"Science", "Arts", "Unknown"}, order)
	assert.Len(t, groups["Science"], 2)
	assert.Len(t, groups["Arts"], 1)
	assert.Len(t, groups["Unknown"], 1)
}

func TestFilterBySemester(t *testing.T) {
	courses := []models.Course{
		course("Science", "Third", "Physics", "Mechanics I"),
		course("Science", "third", "Physics", "Waves"),
		course("Science", "First", "Physics", "Intro Physics"),
	}

	t.Run("CaseInsensitiveMatch", func(t *testing.T) {
		filtered := filterBySemester(courses, "THIRD")
		assert.Len(t, filtered, 2)
	})

	t.Run("EmptySemesterKeepsAll", func(t *testing.T) {
		filtered := filterBySemester(courses, "")
		assert.Len(t, filtered, 3)
	})

	t.Run("NoMatch", func(t *testing.T) {
		filtered := filterBySemester(courses, "Ninth")
		assert.Empty(t, filtered)
	})
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"PlainJSON", `{"recommendations": []}`, `{"recommendations": []}`},
		{"JSONFence", "```json\n{\"recommendations\": []}\n```", `{"recommendations": []}`},
		{"BareFence", "```\n{\"recommendations\": []}\n```", `{"recommendations": []}`},
		{"SurroundingWhitespace", "  \n{\"recommendations\": []}\n  ", `{"recommendations": []}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripCodeFences(tc.in))
		})
	}
}

func TestGenerateForGroup(t *testing.T) {
	ctx := context.Background()
	courses := []models.Course{course("Science", "Third", "Physics", "Mechanics I")}
	enriched := models.EnrichedResponses{{Question: "Q?", Answer: "A."}}

	t.Run("CountMismatchAcceptedAsIs", func(t *testing.T) {
		gen := &fakeGenerator{fn: func(string) (string, error) {
			// Asked for 3, model returned 1. The result is passed through.
			return modelAnswer(models.Recommendation{SubjectName: "Physics", PaperName: "Mechanics I"}), nil
		}}
		svc := &recommendationServiceImpl{generator: gen}

		recs, err := svc.generateForGroup(ctx, "Science", courses, enriched, 3)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "Science", recs[0].SubjectGroupName)
	})

	t.Run("MissingRecommendationsKey", func(t *testing.T) {
		gen := &fakeGenerator{fn: func(string) (string, error) {
			return `{"courses": []}`, nil
		}}
		svc := &recommendationServiceImpl{generator: gen}

		_, err := svc.generateForGroup(ctx, "Science", courses, enriched, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recommendations key")
	})

	t.Run("GroupNameOverridesModelOutput", func(t *testing.T) {
		gen := &fakeGenerator{fn: func(string) (string, error) {
			return `{"recommendations": [{"SubjectName": "Physics", "PaperName": "Mechanics I", "SubjectGroupName": "Bogus"}]}`, nil
		}}
		svc := &recommendationServiceImpl{generator: gen}

		recs, err := svc.generateForGroup(ctx, "Science", courses, enriched, 1)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "Science", recs[0].SubjectGroupName)
	})
}
