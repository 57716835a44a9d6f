package updates

import (
	"context"
	"encoding/json"
	"testing"

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

// extractorStub returns canned items so routing can be tested without the
// external service.
type extractorStub struct {
	ai.Null
	items []ai.ExtractedItem
}

func (e *extractorStub) Enabled() bool { return true }

func (e *extractorStub) ExtractItems(ctx context.Context, text string) []ai.ExtractedItem {
	return e.items
}

func setupUpdatesTest(t *testing.T) (*Service, *gorm.DB, *domain.Project, *domain.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Project{}, &domain.InventoryItem{},
		&domain.UsedItem{}, &domain.ProjectUpdate{}, &domain.Notification{},
	))

	gov := domain.User{Name: "City Works", Email: "gov@example.com", Role: constants.RoleGovernment, PasswordHash: "x"}
	require.NoError(t, db.Create(&gov).Error)
	contractor := domain.User{Name: "BuildCo", Email: "buildco@example.com", Role: constants.RoleContractor, PasswordHash: "x"}
	require.NoError(t, db.Create(&contractor).Error)

	project := domain.Project{
		Title:        "Road Rehabilitation",
		Budget:       1000,
		GovernmentID: gov.UserID,
		ContractorID: contractor.UserID,
	}
	require.NoError(t, db.Create(&project).Error)

	svc := &Service{DB: db, AI: &ai.Null{}}
	return svc, db, &project, &contractor
}

func inventoryRows(t *testing.T, db *gorm.DB, projectID uuid.UUID) []domain.InventoryItem {
	var rows []domain.InventoryItem
	require.NoError(t, db.Where("project_id = ?", projectID).Order("position ASC").Find(&rows).Error)
	return rows
}

func reloadProject(t *testing.T, db *gorm.DB, projectID uuid.UUID) domain.Project {
	var p domain.Project
	require.NoError(t, db.First(&p, "project_id = ?", projectID).Error)
	return p
}

func TestCreate_PurchaseUpdatesExpenditureAndInventory(t *testing.T) {
	svc, db, project, contractor := setupUpdatesTest(t)

	update, err := svc.Create(context.Background(), project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content:        "Procured cement for the foundation",
		PurchasedItems: []domain.UpdateItem{{Name: "Cement", Quantity: 10, Price: 50}},
	})
	require.NoError(t, err)
	require.NotNil(t, update)

	p := reloadProject(t, db, project.ProjectID)
	assert.Equal(t, 500.0, p.Expenditure)

	rows := inventoryRows(t, db, project.ProjectID)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cement", rows[0].Name)
	assert.Equal(t, 10.0, rows[0].Quantity)
	assert.Equal(t, 500.0, rows[0].TotalSpent)
}

func TestCreate_ExpenditureMatchesInventorySpend(t *testing.T) {
	svc, db, project, contractor := setupUpdatesTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content:        "Bought cement and sand",
		PurchasedItems: []domain.UpdateItem{{Name: "Cement", Quantity: 5, Price: 50}, {Name: "Sand", Quantity: 20, Price: 10}},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content:       "Used some cement",
		UtilisedItems: []domain.UpdateItem{{Name: "cement", Quantity: 3}},
	})
	require.NoError(t, err)

	p := reloadProject(t, db, project.ProjectID)
	var sum float64
	for _, row := range inventoryRows(t, db, project.ProjectID) {
		sum += row.TotalSpent
	}
	assert.Equal(t, sum, p.Expenditure)
}

func TestCreate_InsufficientQuantityLeavesLedgerUntouched(t *testing.T) {
	svc, db, project, contractor := setupUpdatesTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content:        "Stocked cement",
		PurchasedItems: []domain.UpdateItem{{Name: "Cement", Quantity: 10, Price: 50}},
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content:       "Used far too much cement",
		UtilisedItems: []domain.UpdateItem{{Name: "Cement", Quantity: 15}},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindBusinessRule))
	assert.Contains(t, err.Error(), "requested 15")
	assert.Contains(t, err.Error(), "available 10")

	rows := inventoryRows(t, db, project.ProjectID)
	require.Len(t, rows, 1)
	assert.Equal(t, 10.0, rows[0].Quantity)

	var updateCount int64
	require.NoError(t, db.Model(&domain.ProjectUpdate{}).Where("project_id = ?", project.ProjectID).Count(&updateCount).Error)
	assert.EqualValues(t, 1, updateCount)
}

func TestCreate_ItemNotInInventory(t *testing.T) {
	svc, _, project, contractor := setupUpdatesTest(t)

	_, err := svc.Create(context.Background(), project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content:       "Used gravel",
		UtilisedItems: []domain.UpdateItem{{Name: "Gravel", Quantity: 2}},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindBusinessRule))
	assert.Contains(t, err.Error(), "Gravel")
}

func TestCreate_BudgetExceededIsAtomic(t *testing.T) {
	svc, db, project, contractor := setupUpdatesTest(t)

	_, err := svc.Create(context.Background(), project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content:        "Big purchase",
		PurchasedItems: []domain.UpdateItem{{Name: "Steel", Quantity: 100, Price: 50}},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindBusinessRule))
	assert.Contains(t, err.Error(), "Insufficient budget")

	p := reloadProject(t, db, project.ProjectID)
	assert.Equal(t, 0.0, p.Expenditure)
	assert.Empty(t, inventoryRows(t, db, project.ProjectID))
}

func TestCreate_CaseInsensitiveMerge(t *testing.T) {
	svc, db, project, contractor := setupUpdatesTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content:        "Stocked cement",
		PurchasedItems: []domain.UpdateItem{{Name: "Cement", Quantity: 4, Price: 10}},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content:        "More cement",
		PurchasedItems: []domain.UpdateItem{{Name: "cement", Quantity: 6, Price: 12}},
	})
	require.NoError(t, err)

	rows := inventoryRows(t, db, project.ProjectID)
	require.Len(t, rows, 1)
	assert.Equal(t, 10.0, rows[0].Quantity)
	assert.Equal(t, 112.0, rows[0].TotalSpent)
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc, _, project, contractor := setupUpdatesTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{Content: "   "})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Create(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content:        "bad quantity",
		PurchasedItems: []domain.UpdateItem{{Name: "Cement", Quantity: 0, Price: 5}},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Create(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content:        "bad price",
		PurchasedItems: []domain.UpdateItem{{Name: "Cement", Quantity: 1, Price: -1}},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Create(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content:       "no name",
		UtilisedItems: []domain.UpdateItem{{Name: " ", Quantity: 1}},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreate_OnlyContractorMayPost(t *testing.T) {
	svc, _, project, _ := setupUpdatesTest(t)

	_, err := svc.Create(context.Background(), project.ProjectID, uuid.New(), constants.RoleContractor, CreateInput{
		Content: "I am not the assigned contractor",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestCreate_ExtractedItemsRoutedByKeyword(t *testing.T) {
	svc, db, project, contractor := setupUpdatesTest(t)
	ctx := context.Background()

	// Purchase keyword routes extracted items into purchases.
	svc.AI = &extractorStub{items: []ai.ExtractedItem{{Name: "Bricks", Quantity: 100}}}
	update, err := svc.Create(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content: "We bought a pallet of bricks today",
	})
	require.NoError(t, err)

	var purchased []domain.UpdateItem
	require.NoError(t, json.Unmarshal(update.PurchasedItems, &purchased))
	require.Len(t, purchased, 1)
	assert.Equal(t, "Bricks", purchased[0].Name)

	rows := inventoryRows(t, db, project.ProjectID)
	require.Len(t, rows, 1)
	assert.Equal(t, 100.0, rows[0].Quantity)

	// Utilise keyword wins even when a purchase keyword is also present.
	update, err = svc.Create(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content: "We used the bricks we got last week",
	})
	require.NoError(t, err)
	var utilised []domain.UpdateItem
	require.NoError(t, json.Unmarshal(update.UtilisedItems, &utilised))
	require.Len(t, utilised, 1)

	rows = inventoryRows(t, db, project.ProjectID)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Quantity)
}

func TestClassifyContent(t *testing.T) {
	assert.Equal(t, "utilise", classifyContent("We consumed the stock"))
	assert.Equal(t, "purchase", classifyContent("Ordered new pipes"))
	assert.Equal(t, "utilise", classifyContent("Progress continues on site"))
	assert.Equal(t, "utilise", classifyContent("We used what we bought"))
}

func TestEditAndDelete(t *testing.T) {
	svc, db, project, contractor := setupUpdatesTest(t)
	ctx := context.Background()

	update, err := svc.Create(ctx, project.ProjectID, contractor.UserID, constants.RoleContractor, CreateInput{
		Content: "Initial progress note",
	})
	require.NoError(t, err)

	edited, err := svc.Edit(ctx, project.ProjectID, update.UpdateID, contractor.UserID, constants.RoleContractor, EditInput{
		Content: "Corrected progress note",
	})
	require.NoError(t, err)
	assert.Equal(t, "Corrected progress note", edited.Content)

	_, err = svc.Edit(ctx, project.ProjectID, update.UpdateID, uuid.New(), constants.RoleContractor, EditInput{Content: "nope"})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	require.NoError(t, svc.Delete(ctx, project.ProjectID, update.UpdateID, contractor.UserID, constants.RoleContractor))
	var count int64
	require.NoError(t, db.Model(&domain.ProjectUpdate{}).Where("project_id = ?", project.ProjectID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	err = svc.Delete(ctx, project.ProjectID, update.UpdateID, contractor.UserID, constants.RoleContractor)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
