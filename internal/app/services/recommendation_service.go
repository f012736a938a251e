package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/selimk/coursecompass/internal/app/models"
	"github.com/selimk/coursecompass/internal/genai"
	"github.com/selimk/coursecompass/internal/pkg/apperrors"
	"github.com/selimk/coursecompass/internal/pkg/logger"
	"github.com/selimk/coursecompass/internal/pkg/metrics"
)

// RecommendationService handles answer submission and drives the
// recommendation pipeline: enrich responses, group and filter the catalog,
// generate per subject group, merge and persist.
type RecommendationService interface {
	SubmitAnswers(ctx context.Context, collegeName, studentID string, answers models.ResponseMap) ([]models.Recommendation, error)
}

// recommendationServiceImpl implements the RecommendationService interface
type recommendationServiceImpl struct {
	collegeRepo  CollegeStore
	studentRepo  StudentStore
	questionRepo QuestionStore
	settingRepo  SettingStore
	fetcher      CourseFetcher
	generator    genai.Generator
	modelTimeout time.Duration
}

// NewRecommendationService creates a new recommendation service instance.
// The generator is constructed once at startup and shared; modelTimeout
// bounds each individual model call.
func NewRecommendationService(
	collegeRepo CollegeStore,
	studentRepo StudentStore,
	questionRepo QuestionStore,
	settingRepo SettingStore,
	fetcher CourseFetcher,
	generator genai.Generator,
	modelTimeout time.Duration,
) RecommendationService {
	return &recommendationServiceImpl{
		collegeRepo:  collegeRepo,
		studentRepo:  studentRepo,
		questionRepo: questionRepo,
		settingRepo:  settingRepo,
		fetcher:      fetcher,
		generator:    generator,
		modelTimeout: modelTimeout,
	}
}

// SubmitAnswers stores a student's answers, runs the recommendation pipeline
// against the college's live catalog and persists the merged result.
//
// Failure behavior: an unknown college or student aborts before anything is
// stored; invalid question IDs are rejected wholesale (no partial
// acceptance); a catalog fetch failure aborts after the answers were stored,
// leaving recommendations untouched. Per-group generation failures never
// surface here; they only shrink the result.
func (s *recommendationServiceImpl) SubmitAnswers(ctx context.Context, collegeName, studentID string, answers models.ResponseMap) ([]models.Recommendation, error) {
	college, err := s.collegeRepo.GetCollegeByName(ctx, collegeName)
	if err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetStudentByCollegeAndID(ctx, college.ID, studentID)
	if err != nil {
		return nil, err
	}

	if err := s.validateAnswerKeys(ctx, college, answers); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	// Store the raw answers before any external call so they survive a
	// failed generation attempt.
	if err := s.studentRepo.UpdateResponses(ctx, student.ID, answers); err != nil {
		return nil, err
	}
	student.Responses = answers

	courses, err := s.fetcher.FetchCourses(ctx, college.BaseURL)
	if err != nil {
		logger.Error().Err(err).Str("college", college.Name).Msg("Failed to fetch course catalog")
		metrics.SubmissionsTotal.WithLabelValues("catalog_error").Inc()
		return nil, err
	}

	recommendations := s.generate(ctx, college, student, courses)

	if err := s.studentRepo.UpdateRecommendations(ctx, student.ID, recommendations); err != nil {
		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues("ok").Inc()
	return recommendations, nil
}

// validateAnswerKeys ensures every answered question ID belongs to the
// college's own question set.
func (s *recommendationServiceImpl) validateAnswerKeys(ctx context.Context, college *models.College, answers models.ResponseMap) error {
	validIDs, err := s.questionRepo.GetQuestionIDsByCollege(ctx, college.ID)
	if err != nil {
		return fmt.Errorf("error loading college question IDs: %w", err)
	}

	valid := make(map[string]struct{}, len(validIDs))
	for _, id := range validIDs {
		valid[id] = struct{}{}
	}

	invalid := []string{}
	for id := range answers {
		if _, ok := valid[id]; !ok {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	sort.Strings(invalid)

	return apperrors.NewCustomError(
		apperrors.ErrUnknownQuestionIDs,
		fmt.Sprintf("the following question IDs do not belong to college '%s': %s", college.Name, strings.Join(invalid, ", ")),
	).WithDetails(map[string]interface{}{"invalidQuestionIds": invalid})
}

// generate runs the per-group pipeline and merges the results. It never
// fails: a group that cannot be processed is logged and skipped.
func (s *recommendationServiceImpl) generate(ctx context.Context, college *models.College, student *models.Student, courses []models.Course) []models.Recommendation {
	enriched := s.enrichResponses(ctx, college, student)
	groups, order := groupCourses(courses)

	final := []models.Recommendation{}
	for _, groupName := range order {
		filtered := filterBySemester(groups[groupName], student.Semester)
		if len(filtered) == 0 {
			// Nothing offered for the student's semester in this group.
			continue
		}

		setting, err := s.settingRepo.GetSetting(ctx, college.ID, groupName)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrResourceNotFound) {
				// No count configured for this group means no recommendations
				// were requested for it.
				logger.Debug().Str("subjectGroup", groupName).Msg("No recommendation setting for subject group, skipping")
			} else {
				logger.Error().Err(err).Str("subjectGroup", groupName).Msg("Failed to load recommendation setting, skipping group")
				metrics.GroupGenerationsTotal.WithLabelValues("error").Inc()
			}
			continue
		}

		recommendations, err := s.generateForGroup(ctx, groupName, filtered, enriched, setting.NumRecommendations)
		if err != nil {
			logger.Error().Err(err).
				Str("subjectGroup", groupName).
				Str("college", college.Name).
				Msg("Recommendation generation failed for subject group, skipping")
			metrics.GroupGenerationsTotal.WithLabelValues("error").Inc()
			continue
		}

		metrics.GroupGenerationsTotal.WithLabelValues("ok").Inc()
		final = append(final, recommendations...)
	}

	return final
}

// enrichResponses translates the student's raw answers into question text and
// option text for the prompt. Lookups are scoped to the student's college; a
// missing question or option yields a descriptive placeholder pair instead of
// an error. Keys are processed in sorted order so the prompt is stable.
func (s *recommendationServiceImpl) enrichResponses(ctx context.Context, college *models.College, student *models.Student) models.EnrichedResponses {
	enriched := models.EnrichedResponses{}
	if len(student.Responses) == 0 {
		return enriched
	}

	qids := make([]string, 0, len(student.Responses))
	for qid := range student.Responses {
		qids = append(qids, qid)
	}
	sort.Strings(qids)

	for _, qid := range qids {
		selectedValue := student.Responses[qid]

		question, err := s.questionRepo.GetQuestionByExternalID(ctx, college.ID, qid)
		if err != nil {
			enriched = append(enriched, fallbackResponse(qid, college.Name, selectedValue))
			continue
		}

		optionText, found := "", false
		for _, option := range question.Options {
			if option.Value == selectedValue {
				optionText, found = option.Text, true
				break
			}
		}
		if !found {
			enriched = append(enriched, fallbackResponse(qid, college.Name, selectedValue))
			continue
		}

		enriched = append(enriched, models.EnrichedResponse{Question: question.Text, Answer: optionText})
	}

	return enriched
}

// fallbackResponse is emitted when a question or option cannot be resolved.
func fallbackResponse(qid, collegeName, selectedValue string) models.EnrichedResponse {
	return models.EnrichedResponse{
		Question: fmt.Sprintf("Question ID %s for college %s", qid, collegeName),
		Answer:   fmt.Sprintf("Selected: %s (question or option not found)", selectedValue),
	}
}

// unknownSubjectGroup buckets courses whose record carries no group name.
const unknownSubjectGroup = "Unknown"

// groupCourses partitions the catalog by SubjectGroupName, preserving the
// first-seen order of groups.
func groupCourses(courses []models.Course) (map[string][]models.Course, []string) {
	groups := map[string][]models.Course{}
	order := []string{}

	for _, course := range courses {
		name := course.SubjectGroupName()
		if name == "" {
			name = unknownSubjectGroup
		}
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], course)
	}

	return groups, order
}

// filterBySemester keeps the courses matching the student's semester,
// case-insensitively. An empty student semester keeps everything.
func filterBySemester(courses []models.Course, semester string) []models.Course {
	if semester == "" {
		return courses
	}

	filtered := []models.Course{}
	for _, course := range courses {
		if strings.EqualFold(course.SemesterName(), semester) {
			filtered = append(filtered, course)
		}
	}
	return filtered
}

// generateForGroup builds the prompt for one subject group, invokes the model
// and parses its JSON answer. Every returned recommendation is tagged with
// the group name. The requested count is a prompt instruction only; the model
// output is accepted as-is even when the count differs.
func (s *recommendationServiceImpl) generateForGroup(ctx context.Context, groupName string, courses []models.Course, enriched models.EnrichedResponses, numRecommendations int) ([]models.Recommendation, error) {
	prompt, err := buildPrompt(groupName, courses, enriched, numRecommendations)
	if err != nil {
		return nil, err
	}

	callCtx := ctx
	if s.modelTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.modelTimeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.generator.Generate(callCtx, prompt)
	metrics.ModelCallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("model invocation failed: %w", err)
	}

	cleaned := stripCodeFences(raw)

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("model returned unparsable output: %w", err)
	}

	rawList, ok := parsed["recommendations"]
	if !ok {
		return nil, fmt.Errorf("model output is missing the recommendations key")
	}

	var recommendations []models.Recommendation
	if err := json.Unmarshal(rawList, &recommendations); err != nil {
		return nil, fmt.Errorf("model returned a malformed recommendations list: %w", err)
	}

	for i := range recommendations {
		recommendations[i].SubjectGroupName = groupName
	}

	return recommendations, nil
}

// promptTemplate is the advisor instruction sent for each subject group.
const promptTemplate = `
You are an expert academic advisor. Based on the student's survey responses and the list of available courses for the "%[1]s" subject group, recommend exactly %[2]d of the most suitable courses.

**Student Responses:**
%[3]s

**Available %[1]s Courses (for the student's semester):**
%[4]s

**Instructions:**
- Analyze the student's preferences.
- Compare them against the available courses.
- Return exactly %[2]d course recommendations from the provided list.
- Your response must be only a JSON object in the following format:
{
  "recommendations": [
    {"SubjectName": "...", "PaperName": "..."},
    ...
  ]
}
`

// buildPrompt renders the group prompt with the enriched responses and the
// filtered course list embedded as indented JSON.
func buildPrompt(groupName string, courses []models.Course, enriched models.EnrichedResponses, numRecommendations int) (string, error) {
	responsesJSON, err := json.MarshalIndent(enriched, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal enriched responses: %w", err)
	}

	coursesJSON, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal course list: %w", err)
	}

	return fmt.Sprintf(promptTemplate, groupName, numRecommendations, responsesJSON, coursesJSON), nil
}

// stripCodeFences removes Markdown code-fence artifacts some models wrap
// around their JSON answer.
func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
