package projects

import (
	"context"
	"testing"

	"proact-backend/internal/domain"
	"proact-backend/internal/pkg/apperr"
	"proact-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProjectsTest(t *testing.T) (*Service, *gorm.DB, *domain.User, *domain.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Project{}, &domain.InventoryItem{},
		&domain.UsedItem{}, &domain.ProjectUpdate{}, &domain.ProjectVote{},
	))

	gov := domain.User{Name: "City Works", Email: "gov@example.com", Role: constants.RoleGovernment, PasswordHash: "x"}
	require.NoError(t, db.Create(&gov).Error)
	contractor := domain.User{Name: "BuildCo", Email: "buildco@example.com", Role: constants.RoleContractor, PasswordHash: "x"}
	require.NoError(t, db.Create(&contractor).Error)

	return &Service{DB: db}, db, &gov, &contractor
}

func createProject(t *testing.T, svc *Service, gov, contractor *domain.User) *domain.Project {
	project, err := svc.Create(context.Background(), gov.UserID, CreateInput{
		Title:        "Water Treatment Plant",
		Budget:       5000,
		ContractorID: contractor.UserID.String(),
	})
	require.NoError(t, err)
	return project
}

func TestCreate_RejectsNonContractorAssignment(t *testing.T) {
	svc, db, gov, _ := setupProjectsTest(t)

	public := domain.User{Name: "Jo Citizen", Email: "jo@example.com", Role: constants.RolePublic, PasswordHash: "x"}
	require.NoError(t, db.Create(&public).Error)

	_, err := svc.Create(context.Background(), gov.UserID, CreateInput{
		Title:        "Bad Assignment",
		Budget:       100,
		ContractorID: public.UserID.String(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreate_Validation(t *testing.T) {
	svc, _, gov, contractor := setupProjectsTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, gov.UserID, CreateInput{Title: " ", Budget: 10, ContractorID: contractor.UserID.String()})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Create(ctx, gov.UserID, CreateInput{Title: "X", Budget: -1, ContractorID: contractor.UserID.String()})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Create(ctx, gov.UserID, CreateInput{Title: "X", Budget: 10, ContractorID: "not-a-uuid"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestVotes_AreMutuallyExclusivePerUser(t *testing.T) {
	svc, _, gov, contractor := setupProjectsTest(t)
	project := createProject(t, svc, gov, contractor)
	ctx := context.Background()
	voter := uuid.New()

	votes, err := svc.Like(ctx, project.ProjectID, voter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, votes.Likes)
	assert.EqualValues(t, 0, votes.Dislikes)
	assert.Equal(t, domain.VoteLike, votes.UserVote)

	// Switching to dislike replaces the like.
	votes, err = svc.Dislike(ctx, project.ProjectID, voter)
	require.NoError(t, err)
	assert.EqualValues(t, 0, votes.Likes)
	assert.EqualValues(t, 1, votes.Dislikes)
	assert.Equal(t, domain.VoteDislike, votes.UserVote)

	// Liking twice stays a single like.
	_, err = svc.Like(ctx, project.ProjectID, voter)
	require.NoError(t, err)
	votes, err = svc.Like(ctx, project.ProjectID, voter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, votes.Likes)

	votes, err = svc.Unlike(ctx, project.ProjectID, voter)
	require.NoError(t, err)
	assert.EqualValues(t, 0, votes.Likes)
	assert.Empty(t, votes.UserVote)
}

func TestVote_UnknownProject(t *testing.T) {
	svc, _, _, _ := setupProjectsTest(t)

	_, err := svc.Like(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdate_BudgetCannotDropBelowExpenditure(t *testing.T) {
	svc, db, gov, contractor := setupProjectsTest(t)
	project := createProject(t, svc, gov, contractor)

	require.NoError(t, db.Model(&domain.Project{}).Where("project_id = ?", project.ProjectID).Update("expenditure", 900).Error)

	newBudget := 500.0
	_, err := svc.Update(context.Background(), project.ProjectID, gov.UserID, constants.RoleGovernment, UpdateInput{Budget: &newBudget})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindBusinessRule))
}

func TestUpdate_OnlyOwnerOrAdmin(t *testing.T) {
	svc, _, gov, contractor := setupProjectsTest(t)
	project := createProject(t, svc, gov, contractor)

	title := "Renamed"
	_, err := svc.Update(context.Background(), project.ProjectID, uuid.New(), constants.RoleGovernment, UpdateInput{Title: &title})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	updated, err := svc.Update(context.Background(), project.ProjectID, uuid.New(), constants.RoleAdmin, UpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestDelete_SoftDeletes(t *testing.T) {
	svc, db, gov, contractor := setupProjectsTest(t)
	project := createProject(t, svc, gov, contractor)

	require.NoError(t, svc.Delete(context.Background(), project.ProjectID))

	var count int64
	require.NoError(t, db.Model(&domain.Project{}).Where("project_id = ?", project.ProjectID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	var total int64
	require.NoError(t, db.Unscoped().Model(&domain.Project{}).Where("project_id = ?", project.ProjectID).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}
