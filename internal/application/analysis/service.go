package analysis

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"proact-backend/internal/ai"
	"proact-backend/internal/domain"
	"proact-backend/internal/pkg/apperr"
	"proact-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// staleAfter is the cache window: analysis documents older than this are
// regenerated on read.
const staleAfter = 24 * time.Hour

// activeWindow marks a project as active when it received an update within
// this period.
const activeWindow = 30 * 24 * time.Hour

// Service derives cached analysis documents for projects and governments.
// Regeneration is lazy: a read on an absent or stale document triggers it
// synchronously.
type Service struct {
	DB *gorm.DB
	AI ai.Classifier

	// Now overrides the clock in tests.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GetProjectAnalysis returns the project's analysis document, regenerating
// it when absent or older than 24 hours. Only the owning government, the
// assigned contractor and admins may read it.
func (s *Service) GetProjectAnalysis(ctx context.Context, projectID, viewerID uuid.UUID, viewerRole string) (*domain.ProjectAnalysis, error) {
	var project domain.Project
	if err := s.DB.WithContext(ctx).First(&project, "project_id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, err
	}
	if viewerRole != constants.RoleAdmin && viewerID != project.GovernmentID && viewerID != project.ContractorID {
		return nil, apperr.Forbidden("You do not have access to this project's analysis")
	}

	var existing domain.ProjectAnalysis
	err := s.DB.WithContext(ctx).First(&existing, "project_id = ?", projectID).Error
	if err == nil && s.now().Sub(existing.LastUpdated) <= staleAfter {
		return &existing, nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return s.GenerateProjectAnalysis(ctx, projectID)
}

// GenerateProjectAnalysis recomputes every metric block from the raw
// entities and upserts the single analysis document for the project.
func (s *Service) GenerateProjectAnalysis(ctx context.Context, projectID uuid.UUID) (*domain.ProjectAnalysis, error) {
	var project domain.Project
	if err := s.DB.WithContext(ctx).First(&project, "project_id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, err
	}

	var updates []domain.ProjectUpdate
	if err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).Order("date ASC").Find(&updates).Error; err != nil {
		return nil, err
	}
	var comments []domain.Comment
	if err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	var reports []domain.Report
	if err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).Find(&reports).Error; err != nil {
		return nil, err
	}
	var likes, dislikes int64
	if err := s.DB.WithContext(ctx).Model(&domain.ProjectVote{}).
		Where("project_id = ? AND kind = ?", projectID, domain.VoteLike).Count(&likes).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&domain.ProjectVote{}).
		Where("project_id = ? AND kind = ?", projectID, domain.VoteDislike).Count(&dislikes).Error; err != nil {
		return nil, err
	}

	now := s.now()
	doc := domain.ProjectAnalysis{
		ProjectID:         projectID,
		LastUpdated:       now,
		SupportMetrics:    asJSON(supportMetrics(likes, dislikes)),
		ProgressMetrics:   asJSON(progressMetrics(now, &project, updates)),
		FinancialMetrics:  asJSON(financialMetrics(now, &project)),
		ContractorMetrics: asJSON(contractorMetrics(&project, updates, comments)),
		CommentAnalysis:   asJSON(s.commentMetrics(ctx, comments)),
		CorruptionMetrics: asJSON(corruptionMetrics(reports)),
	}
	if err := s.upsertProjectAnalysis(ctx, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetAggregateAnalysis returns the government's rollup document with the
// same staleness discipline as the per-project variant.
func (s *Service) GetAggregateAnalysis(ctx context.Context, governmentID uuid.UUID) (*domain.AggregateAnalysis, error) {
	var existing domain.AggregateAnalysis
	err := s.DB.WithContext(ctx).First(&existing, "government_id = ?", governmentID).Error
	if err == nil && s.now().Sub(existing.LastUpdated) <= staleAfter {
		return &existing, nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return s.GenerateAggregateAnalysis(ctx, governmentID)
}

// GenerateAggregateAnalysis recomputes the rollup over every project the
// government owns. A government with zero projects has no document.
func (s *Service) GenerateAggregateAnalysis(ctx context.Context, governmentID uuid.UUID) (*domain.AggregateAnalysis, error) {
	var projects []domain.Project
	if err := s.DB.WithContext(ctx).Where("government_id = ?", governmentID).Find(&projects).Error; err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, apperr.NotFound("No projects found for this government")
	}

	projectIDs := make([]uuid.UUID, 0, len(projects))
	titleByID := make(map[uuid.UUID]string, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ProjectID)
		titleByID[p.ProjectID] = p.Title
	}

	var updates []domain.ProjectUpdate
	if err := s.DB.WithContext(ctx).Where("project_id IN ?", projectIDs).Find(&updates).Error; err != nil {
		return nil, err
	}
	var comments []domain.Comment
	if err := s.DB.WithContext(ctx).Where("project_id IN ?", projectIDs).Find(&comments).Error; err != nil {
		return nil, err
	}
	var reports []domain.Report
	if err := s.DB.WithContext(ctx).Where("project_id IN ?", projectIDs).Find(&reports).Error; err != nil {
		return nil, err
	}
	var likes, dislikes int64
	if err := s.DB.WithContext(ctx).Model(&domain.ProjectVote{}).
		Where("project_id IN ? AND kind = ?", projectIDs, domain.VoteLike).Count(&likes).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&domain.ProjectVote{}).
		Where("project_id IN ? AND kind = ?", projectIDs, domain.VoteDislike).Count(&dislikes).Error; err != nil {
		return nil, err
	}

	now := s.now()
	updatesByProject := map[uuid.UUID][]domain.ProjectUpdate{}
	for _, u := range updates {
		updatesByProject[u.ProjectID] = append(updatesByProject[u.ProjectID], u)
	}

	counts := ProjectCounts{Total: len(projects)}
	for _, p := range projects {
		if anyUpdateSince(updatesByProject[p.ProjectID], now.Add(-activeWindow)) {
			counts.Active++
		}
	}
	counts.Stalled = counts.Total - counts.Active

	satisfaction := SatisfactionSummary{TotalLikes: likes, TotalDislikes: dislikes}
	if likes+dislikes > 0 {
		satisfaction.SatisfactionRatio = float64(likes) / float64(likes+dislikes) * 100
	}

	var financial FinancialSummary
	for _, p := range projects {
		financial.TotalBudget += p.Budget
		financial.TotalExpenditure += p.Expenditure
		if p.Expenditure > p.Budget {
			financial.ProjectsOverBudget++
		}
	}
	if financial.TotalBudget > 0 {
		financial.AverageExpenditureRatio = financial.TotalExpenditure / financial.TotalBudget * 100
	}

	performance, err := s.rankContractors(ctx, now, projects, updatesByProject)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(comments))
	for _, c := range comments {
		texts = append(texts, c.Content)
	}
	tags := ai.CollectTags(ctx, s.AI, texts)
	sentiment := PublicSentiment{
		TotalComments:         len(comments),
		SentimentDistribution: distribution(ai.ClassifyBatch(ctx, s.AI, texts)),
		TopTags:               topN(tags, 10),
		TopPositiveTags:       tagMentions(tags, ai.SentimentPositive, 5),
		TopNegativeTags:       tagMentions(tags, ai.SentimentNegative, 5),
		TopConcerns:           ai.TopPhrases(ctx, s.AI, texts, ai.IntentConcern),
		TopPraises:            ai.TopPhrases(ctx, s.AI, texts, ai.IntentPraise),
	}

	corruption := CorruptionSummary{CorruptionMetrics: corruptionMetrics(reports)}
	reportCounts := map[uuid.UUID]int{}
	for _, r := range reports {
		reportCounts[r.ProjectID]++
	}
	for id, n := range reportCounts {
		corruption.TopReportedProjects = append(corruption.TopReportedProjects, ProjectReportCount{
			ProjectID: id, Title: titleByID[id], ReportCount: n,
		})
	}
	sort.SliceStable(corruption.TopReportedProjects, func(i, j int) bool {
		return corruption.TopReportedProjects[i].ReportCount > corruption.TopReportedProjects[j].ReportCount
	})
	if len(corruption.TopReportedProjects) > 5 {
		corruption.TopReportedProjects = corruption.TopReportedProjects[:5]
	}

	doc := domain.AggregateAnalysis{
		GovernmentID:          governmentID,
		LastUpdated:           now,
		ProjectCount:          asJSON(counts),
		OverallSatisfaction:   asJSON(satisfaction),
		FinancialSummary:      asJSON(financial),
		ContractorPerformance: asJSON(performance),
		PublicSentiment:       asJSON(sentiment),
		CorruptionReports:     asJSON(corruption),
	}
	if err := s.upsertAggregateAnalysis(ctx, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Service) upsertProjectAnalysis(ctx context.Context, doc *domain.ProjectAnalysis) error {
	var existing domain.ProjectAnalysis
	err := s.DB.WithContext(ctx).First(&existing, "project_id = ?", doc.ProjectID).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		return s.DB.WithContext(ctx).Create(doc).Error
	case err != nil:
		return err
	default:
		doc.AnalysisID = existing.AnalysisID
		doc.CreatedAt = existing.CreatedAt
		return s.DB.WithContext(ctx).Save(doc).Error
	}
}

func (s *Service) upsertAggregateAnalysis(ctx context.Context, doc *domain.AggregateAnalysis) error {
	var existing domain.AggregateAnalysis
	err := s.DB.WithContext(ctx).First(&existing, "government_id = ?", doc.GovernmentID).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		return s.DB.WithContext(ctx).Create(doc).Error
	case err != nil:
		return err
	default:
		doc.AnalysisID = existing.AnalysisID
		doc.CreatedAt = existing.CreatedAt
		return s.DB.WithContext(ctx).Save(doc).Error
	}
}

func supportMetrics(likes, dislikes int64) SupportMetrics {
	m := SupportMetrics{Likes: likes, Dislikes: dislikes}
	if likes+dislikes > 0 {
		m.SupportRatio = float64(likes) / float64(likes+dislikes) * 100
	}
	return m
}

func progressMetrics(now time.Time, project *domain.Project, updates []domain.ProjectUpdate) ProgressMetrics {
	m := ProgressMetrics{TotalUpdates: len(updates)}
	if len(updates) == 0 {
		return m
	}
	last := updates[0].Date
	for _, u := range updates[1:] {
		if u.Date.After(last) {
			last = u.Date
		}
	}
	m.LastUpdateDate = &last
	m.DaysSinceLastUpdate = int(math.Floor(now.Sub(last).Hours() / 24))
	ageWeeks := now.Sub(project.CreatedAt).Hours() / 24 / 7
	if ageWeeks > 0 {
		m.UpdateFrequency = float64(len(updates)) / ageWeeks
	}
	return m
}

func financialMetrics(now time.Time, project *domain.Project) FinancialMetrics {
	m := FinancialMetrics{Budget: project.Budget, Expenditure: project.Expenditure}
	if project.Budget > 0 {
		m.ExpenditureRatio = project.Expenditure / project.Budget * 100
	}
	ageDays := now.Sub(project.CreatedAt).Hours() / 24
	if ageDays > 0 && project.Expenditure > 0 {
		m.BurnRate = project.Expenditure / ageDays
	}
	if m.BurnRate > 0 && project.Expenditure < project.Budget {
		remainingDays := (project.Budget - project.Expenditure) / m.BurnRate
		t := now.Add(time.Duration(remainingDays * 24 * float64(time.Hour)))
		m.ProjectedCompletion = &t
	}
	return m
}

func contractorMetrics(project *domain.Project, updates []domain.ProjectUpdate, comments []domain.Comment) ContractorMetrics {
	m := ContractorMetrics{ActivityLevel: len(updates)}
	if m.ActivityLevel > 10 {
		m.ActivityLevel = 10
	}

	byID := make(map[uuid.UUID]domain.Comment, len(comments))
	for _, c := range comments {
		byID[c.CommentID] = c
	}
	var nonContractor, replies int
	var totalHours float64
	var resolvable int
	for _, c := range comments {
		if c.UserID != project.ContractorID {
			nonContractor++
			continue
		}
		if c.ParentCommentID == nil {
			continue
		}
		replies++
		if parent, ok := byID[*c.ParentCommentID]; ok {
			totalHours += c.CreatedAt.Sub(parent.CreatedAt).Hours()
			resolvable++
		}
	}
	if nonContractor > 0 {
		m.ResponseRate = float64(replies) / float64(nonContractor) * 100
	}
	if resolvable > 0 {
		m.AverageResponseTimeHours = totalHours / float64(resolvable)
	}
	return m
}

func (s *Service) commentMetrics(ctx context.Context, comments []domain.Comment) CommentMetrics {
	texts := make([]string, 0, len(comments))
	for _, c := range comments {
		texts = append(texts, c.Content)
	}
	return CommentMetrics{
		TotalComments:         len(comments),
		SentimentDistribution: distribution(ai.ClassifyBatch(ctx, s.AI, texts)),
		TopTags:               topN(ai.CollectTags(ctx, s.AI, texts), 10),
		TopConcerns:           ai.TopPhrases(ctx, s.AI, texts, ai.IntentConcern),
		TopPraises:            ai.TopPhrases(ctx, s.AI, texts, ai.IntentPraise),
	}
}

func corruptionMetrics(reports []domain.Report) CorruptionMetrics {
	m := CorruptionMetrics{TotalReports: len(reports)}
	var severitySum, severityCount int
	for _, r := range reports {
		switch r.Status {
		case domain.ReportPending:
			m.Pending++
		case domain.ReportInvestigating:
			m.Investigating++
		case domain.ReportResolved:
			m.Resolved++
		case domain.ReportRejected:
			m.Rejected++
		}
		if r.AISeverity > 0 {
			severitySum += r.AISeverity
			severityCount++
		}
	}
	if severityCount > 0 {
		m.AverageSeverity = float64(severitySum) / float64(severityCount)
	}
	return m
}

// rankContractors scores each contractor: per project, the update count
// plus 5 when any update landed within the active window.
func (s *Service) rankContractors(ctx context.Context, now time.Time, projects []domain.Project, updatesByProject map[uuid.UUID][]domain.ProjectUpdate) (ContractorPerformance, error) {
	scores := map[uuid.UUID]*ContractorRank{}
	var order []uuid.UUID
	for _, p := range projects {
		r, ok := scores[p.ContractorID]
		if !ok {
			r = &ContractorRank{ContractorID: p.ContractorID}
			scores[p.ContractorID] = r
			order = append(order, p.ContractorID)
		}
		r.ProjectCount++
		ups := updatesByProject[p.ProjectID]
		r.ActivityScore += len(ups)
		if anyUpdateSince(ups, now.Add(-activeWindow)) {
			r.ActivityScore += 5
		}
	}

	var contractors []domain.User
	if err := s.DB.WithContext(ctx).Where("user_id IN ?", order).Find(&contractors).Error; err != nil {
		return ContractorPerformance{}, err
	}
	nameByID := make(map[uuid.UUID]string, len(contractors))
	for _, u := range contractors {
		nameByID[u.UserID] = u.Name
	}

	ranked := make([]ContractorRank, 0, len(order))
	for _, id := range order {
		r := *scores[id]
		r.Name = nameByID[id]
		ranked = append(ranked, r)
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].ActivityScore > ranked[j].ActivityScore })

	perf := ContractorPerformance{MostActive: topRanks(ranked, 5), LeastActive: []ContractorRank{}}
	// With five or fewer contractors the two lists would mirror each other.
	if len(ranked) > 5 {
		bottom := ranked[len(ranked)-5:]
		for i := len(bottom) - 1; i >= 0; i-- {
			perf.LeastActive = append(perf.LeastActive, bottom[i])
		}
	}
	return perf, nil
}

func topRanks(ranked []ContractorRank, n int) []ContractorRank {
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]ContractorRank, len(ranked))
	copy(out, ranked)
	return out
}

// tagMentions filters tags to one sentiment and keeps the n most mentioned.
func tagMentions(tags []ai.TagCount, sentiment string, n int) []TagMention {
	out := []TagMention{}
	for _, t := range tags {
		if t.Sentiment != sentiment {
			continue
		}
		out = append(out, TagMention{Tag: t.Tag, Count: t.Count})
		if len(out) == n {
			break
		}
	}
	return out
}

func topN(tags []ai.TagCount, n int) []ai.TagCount {
	if len(tags) > n {
		tags = tags[:n]
	}
	return tags
}

func anyUpdateSince(updates []domain.ProjectUpdate, cutoff time.Time) bool {
	for _, u := range updates {
		if u.Date.After(cutoff) {
			return true
		}
	}
	return false
}

func asJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(b)
}
