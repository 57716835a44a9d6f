package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"proact-backend/internal/ai"
	"proact-backend/internal/domain"
	"proact-backend/internal/pkg/apperr"
	"proact-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAnalysisTest(t *testing.T) (*Service, *gorm.DB, *domain.Project, *domain.User, *domain.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Project{}, &domain.ProjectUpdate{},
		&domain.ProjectVote{}, &domain.Comment{}, &domain.Report{},
		&domain.ProjectAnalysis{}, &domain.AggregateAnalysis{},
	))

	gov := domain.User{Name: "City Works", Email: "gov@example.com", Role: constants.RoleGovernment, PasswordHash: "x"}
	require.NoError(t, db.Create(&gov).Error)
	contractor := domain.User{Name: "BuildCo", Email: "buildco@example.com", Role: constants.RoleContractor, PasswordHash: "x"}
	require.NoError(t, db.Create(&contractor).Error)
	project := domain.Project{Title: "Bridge Repair", Budget: 1000, GovernmentID: gov.UserID, ContractorID: contractor.UserID}
	require.NoError(t, db.Create(&project).Error)

	svc := &Service{DB: db, AI: &ai.Null{}}
	return svc, db, &project, &gov, &contractor
}

func TestGetProjectAnalysis_StalenessWindow(t *testing.T) {
	svc, db, project, gov, _ := setupAnalysisTest(t)
	ctx := context.Background()

	t0 := time.Now()
	svc.Now = func() time.Time { return t0 }
	first, err := svc.GetProjectAnalysis(ctx, project.ProjectID, gov.UserID, constants.RoleGovernment)
	require.NoError(t, err)

	// 23h later the cached document is served unchanged.
	svc.Now = func() time.Time { return t0.Add(23 * time.Hour) }
	cached, err := svc.GetProjectAnalysis(ctx, project.ProjectID, gov.UserID, constants.RoleGovernment)
	require.NoError(t, err)
	assert.Equal(t, first.LastUpdated.Unix(), cached.LastUpdated.Unix())

	// 25h later it is regenerated.
	svc.Now = func() time.Time { return t0.Add(25 * time.Hour) }
	fresh, err := svc.GetProjectAnalysis(ctx, project.ProjectID, gov.UserID, constants.RoleGovernment)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(25*time.Hour).Unix(), fresh.LastUpdated.Unix())

	var count int64
	require.NoError(t, db.Model(&domain.ProjectAnalysis{}).Where("project_id = ?", project.ProjectID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGenerateProjectAnalysis_UpsertsSingleDocument(t *testing.T) {
	svc, db, project, _, _ := setupAnalysisTest(t)
	ctx := context.Background()

	_, err := svc.GenerateProjectAnalysis(ctx, project.ProjectID)
	require.NoError(t, err)
	_, err = svc.GenerateProjectAnalysis(ctx, project.ProjectID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.ProjectAnalysis{}).Where("project_id = ?", project.ProjectID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetProjectAnalysis_RestrictedToProjectParties(t *testing.T) {
	svc, _, project, gov, contractor := setupAnalysisTest(t)
	ctx := context.Background()

	_, err := svc.GetProjectAnalysis(ctx, project.ProjectID, uuid.New(), constants.RolePublic)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	_, err = svc.GetProjectAnalysis(ctx, project.ProjectID, uuid.New(), constants.RoleGovernment)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	_, err = svc.GetProjectAnalysis(ctx, project.ProjectID, gov.UserID, constants.RoleGovernment)
	assert.NoError(t, err)
	_, err = svc.GetProjectAnalysis(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor)
	assert.NoError(t, err)
	_, err = svc.GetProjectAnalysis(ctx, project.ProjectID, uuid.New(), constants.RoleAdmin)
	assert.NoError(t, err)
}

func TestGenerateProjectAnalysis_UnknownProject(t *testing.T) {
	svc, _, _, _, _ := setupAnalysisTest(t)

	_, err := svc.GenerateProjectAnalysis(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestGenerateProjectAnalysis_SupportAndFinancialMetrics(t *testing.T) {
	svc, db, project, gov, contractor := setupAnalysisTest(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&domain.ProjectVote{ProjectID: project.ProjectID, UserID: gov.UserID, Kind: domain.VoteLike}).Error)
	require.NoError(t, db.Create(&domain.ProjectVote{ProjectID: project.ProjectID, UserID: contractor.UserID, Kind: domain.VoteLike}).Error)
	require.NoError(t, db.Create(&domain.ProjectVote{ProjectID: project.ProjectID, UserID: uuid.New(), Kind: domain.VoteDislike}).Error)

	require.NoError(t, db.Model(&domain.Project{}).Where("project_id = ?", project.ProjectID).Update("expenditure", 500).Error)

	// Pin the clock ten days after creation so age-based rates are exact.
	var created domain.Project
	require.NoError(t, db.First(&created, "project_id = ?", project.ProjectID).Error)
	svc.Now = func() time.Time { return created.CreatedAt.Add(10 * 24 * time.Hour) }

	doc, err := svc.GenerateProjectAnalysis(ctx, project.ProjectID)
	require.NoError(t, err)

	var support SupportMetrics
	require.NoError(t, json.Unmarshal(doc.SupportMetrics, &support))
	assert.EqualValues(t, 2, support.Likes)
	assert.EqualValues(t, 1, support.Dislikes)
	assert.InDelta(t, 66.67, support.SupportRatio, 0.01)

	var financial FinancialMetrics
	require.NoError(t, json.Unmarshal(doc.FinancialMetrics, &financial))
	assert.Equal(t, 50.0, financial.ExpenditureRatio)
	assert.InDelta(t, 50.0, financial.BurnRate, 0.001)
	require.NotNil(t, financial.ProjectedCompletion)
	// 500 remaining at 50/day = 10 more days.
	expected := created.CreatedAt.Add(20 * 24 * time.Hour)
	assert.WithinDuration(t, expected, *financial.ProjectedCompletion, time.Minute)
}

func TestGenerateProjectAnalysis_ContractorResponseMetrics(t *testing.T) {
	svc, db, project, gov, contractor := setupAnalysisTest(t)
	ctx := context.Background()

	parent := domain.Comment{ProjectID: project.ProjectID, UserID: gov.UserID, Content: "When will the road reopen?"}
	require.NoError(t, db.Create(&parent).Error)
	require.NoError(t, db.Model(&domain.Comment{}).Where("comment_id = ?", parent.CommentID).
		Update("created_at", time.Now().Add(-4*time.Hour)).Error)

	reply := domain.Comment{ProjectID: project.ProjectID, UserID: contractor.UserID, ParentCommentID: &parent.CommentID, Content: "Next month"}
	require.NoError(t, db.Create(&reply).Error)
	require.NoError(t, db.Model(&domain.Comment{}).Where("comment_id = ?", reply.CommentID).
		Update("created_at", time.Now().Add(-1*time.Hour)).Error)

	other := domain.Comment{ProjectID: project.ProjectID, UserID: uuid.New(), Content: "Still waiting"}
	require.NoError(t, db.Create(&other).Error)

	doc, err := svc.GenerateProjectAnalysis(ctx, project.ProjectID)
	require.NoError(t, err)

	var cm ContractorMetrics
	require.NoError(t, json.Unmarshal(doc.ContractorMetrics, &cm))
	assert.Equal(t, 50.0, cm.ResponseRate)
	assert.InDelta(t, 3.0, cm.AverageResponseTimeHours, 0.1)
}

func TestGenerateProjectAnalysis_CorruptionRollup(t *testing.T) {
	svc, db, project, _, _ := setupAnalysisTest(t)
	ctx := context.Background()

	reporter := uuid.New()
	require.NoError(t, db.Create(&domain.Report{ProjectID: project.ProjectID, Description: "a", ReporterID: &reporter, Status: domain.ReportPending, AISeverity: 8}).Error)
	require.NoError(t, db.Create(&domain.Report{ProjectID: project.ProjectID, Description: "b", ReporterID: &reporter, Status: domain.ReportResolved, AISeverity: 4}).Error)
	require.NoError(t, db.Create(&domain.Report{ProjectID: project.ProjectID, Description: "c", ReporterID: &reporter, Status: domain.ReportPending, AISeverity: 0}).Error)

	doc, err := svc.GenerateProjectAnalysis(ctx, project.ProjectID)
	require.NoError(t, err)

	var corr CorruptionMetrics
	require.NoError(t, json.Unmarshal(doc.CorruptionMetrics, &corr))
	assert.Equal(t, 3, corr.TotalReports)
	assert.Equal(t, 2, corr.Pending)
	assert.Equal(t, 1, corr.Resolved)
	// Unset severities are excluded from the mean.
	assert.Equal(t, 6.0, corr.AverageSeverity)
}

func TestGenerateProjectAnalysis_StockPhrasesWithoutCredential(t *testing.T) {
	svc, db, project, gov, _ := setupAnalysisTest(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&domain.Comment{ProjectID: project.ProjectID, UserID: gov.UserID, Content: "The road is a mess"}).Error)

	doc, err := svc.GenerateProjectAnalysis(ctx, project.ProjectID)
	require.NoError(t, err)

	var cm CommentMetrics
	require.NoError(t, json.Unmarshal(doc.CommentAnalysis, &cm))
	assert.Equal(t, 1, cm.TotalComments)
	assert.Equal(t, 100.0, cm.SentimentDistribution.Neutral)
	assert.Contains(t, cm.TopConcerns, "Delayed timeline")
	assert.Contains(t, cm.TopPraises, "Efficient work")
}

func TestGetAggregateAnalysis_ZeroProjectsIsNotFound(t *testing.T) {
	svc, _, _, _, _ := setupAnalysisTest(t)

	_, err := svc.GetAggregateAnalysis(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestGenerateAggregateAnalysis_CountsAndRanking(t *testing.T) {
	svc, db, project, gov, contractor := setupAnalysisTest(t)
	ctx := context.Background()

	idle := domain.User{Name: "SlowCo", Email: "slowco@example.com", Role: constants.RoleContractor, PasswordHash: "x"}
	require.NoError(t, db.Create(&idle).Error)
	stalled := domain.Project{Title: "Stalled Drainage", Budget: 400, GovernmentID: gov.UserID, ContractorID: idle.UserID}
	require.NoError(t, db.Create(&stalled).Error)

	// Recent update on the first project only.
	require.NoError(t, db.Create(&domain.ProjectUpdate{ProjectID: project.ProjectID, Content: "progress", Date: time.Now().Add(-24 * time.Hour)}).Error)

	doc, err := svc.GenerateAggregateAnalysis(ctx, gov.UserID)
	require.NoError(t, err)

	var counts ProjectCounts
	require.NoError(t, json.Unmarshal(doc.ProjectCount, &counts))
	assert.Equal(t, ProjectCounts{Total: 2, Active: 1, Completed: 0, Stalled: 1}, counts)

	var perf ContractorPerformance
	require.NoError(t, json.Unmarshal(doc.ContractorPerformance, &perf))
	require.NotEmpty(t, perf.MostActive)
	assert.Equal(t, contractor.UserID, perf.MostActive[0].ContractorID)
	// One update plus the recent-activity bonus.
	assert.Equal(t, 6, perf.MostActive[0].ActivityScore)
	assert.Equal(t, idle.UserID, perf.MostActive[1].ContractorID)
	// Two contractors would appear in both lists, so the bottom list stays
	// empty until more than five are ranked.
	assert.Empty(t, perf.LeastActive)

	var count int64
	require.NoError(t, db.Model(&domain.AggregateAnalysis{}).Where("government_id = ?", gov.UserID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Regenerating upserts the same document.
	_, err = svc.GenerateAggregateAnalysis(ctx, gov.UserID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.AggregateAnalysis{}).Where("government_id = ?", gov.UserID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGenerateAggregateAnalysis_FinancialAndSentimentBlocks(t *testing.T) {
	svc, db, project, gov, contractor := setupAnalysisTest(t)
	ctx := context.Background()

	// Second project has spent beyond its budget.
	over := domain.Project{Title: "Overrun Culvert", Budget: 200, GovernmentID: gov.UserID, ContractorID: contractor.UserID}
	require.NoError(t, db.Create(&over).Error)
	require.NoError(t, db.Model(&domain.Project{}).Where("project_id = ?", over.ProjectID).Update("expenditure", 300).Error)
	require.NoError(t, db.Create(&domain.Comment{ProjectID: project.ProjectID, UserID: gov.UserID, Content: "Potholes everywhere"}).Error)

	doc, err := svc.GenerateAggregateAnalysis(ctx, gov.UserID)
	require.NoError(t, err)

	var financial FinancialSummary
	require.NoError(t, json.Unmarshal(doc.FinancialSummary, &financial))
	assert.Equal(t, 1200.0, financial.TotalBudget)
	assert.Equal(t, 300.0, financial.TotalExpenditure)
	assert.Equal(t, 1, financial.ProjectsOverBudget)
	assert.InDelta(t, 25.0, financial.AverageExpenditureRatio, 0.001)

	var sentiment PublicSentiment
	require.NoError(t, json.Unmarshal(doc.PublicSentiment, &sentiment))
	assert.Equal(t, 1, sentiment.TotalComments)
	assert.Empty(t, sentiment.TopPositiveTags)
	assert.Empty(t, sentiment.TopNegativeTags)
	// Stock phrase lists serve as the fallback without a live classifier.
	assert.Contains(t, sentiment.TopConcerns, "Delayed timeline")
	assert.Contains(t, sentiment.TopPraises, "Efficient work")
}

func TestRankContractors_BottomListOnlyBeyondFive(t *testing.T) {
	svc, db, project, gov, contractor := setupAnalysisTest(t)
	ctx := context.Background()

	// Five more contractors with one idle project each, six ranked in
	// total counting the one from setup.
	require.NoError(t, db.Create(&domain.ProjectUpdate{ProjectID: project.ProjectID, Content: "progress", Date: time.Now().Add(-24 * time.Hour)}).Error)
	for i := 0; i < 5; i++ {
		extra := domain.User{Name: "Crew", Email: fmt.Sprintf("crew%d@example.com", i), Role: constants.RoleContractor, PasswordHash: "x"}
		require.NoError(t, db.Create(&extra).Error)
		p := domain.Project{Title: fmt.Sprintf("Site %d", i), Budget: 100, GovernmentID: gov.UserID, ContractorID: extra.UserID}
		require.NoError(t, db.Create(&p).Error)
	}

	doc, err := svc.GenerateAggregateAnalysis(ctx, gov.UserID)
	require.NoError(t, err)

	var perf ContractorPerformance
	require.NoError(t, json.Unmarshal(doc.ContractorPerformance, &perf))
	assert.Len(t, perf.MostActive, 5)
	assert.Equal(t, contractor.UserID, perf.MostActive[0].ContractorID)
	assert.Len(t, perf.LeastActive, 5)
	for _, r := range perf.LeastActive {
		assert.NotEqual(t, contractor.UserID, r.ContractorID)
	}
}
