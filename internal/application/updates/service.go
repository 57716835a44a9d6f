package updates

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"proact-backend/internal/ai"
	"proact-backend/internal/application/notifications"
	"proact-backend/internal/domain"
	"proact-backend/internal/ledger"
	"proact-backend/internal/pkg/apperr"
	"proact-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Keyword lists for classifying an update whose item lists are empty.
// Utilise keywords are checked first.
var (
	utiliseKeywords  = []string{"used", "utilised", "utilized", "consumed", "ate", "drank", "spent", "deployed", "applied"}
	purchaseKeywords = []string{"bought", "purchased", "procured", "acquired", "ordered", "received", "got", "obtained"}
)

// Service reconciles project updates against the inventory ledger and the
// project budget.
type Service struct {
	DB            *gorm.DB
	AI            ai.Classifier
	Notifications *notifications.Service
}

// CreateInput is one update submission.
type CreateInput struct {
	Content        string              `json:"content"`
	Media          []string            `json:"media"`
	PurchasedItems []domain.UpdateItem `json:"purchasedItems"`
	UtilisedItems  []domain.UpdateItem `json:"utilisedItems"`
}

// EditInput changes the content or media of an existing update. Item lists
// are immutable once reconciled.
type EditInput struct {
	Content string   `json:"content"`
	Media   []string `json:"media"`
}

// Create applies one update to a project: validates item entries, checks
// budget and availability, mutates the inventory ledger and appends the
// update record, all inside one transaction. On success a notification is
// dispatched to the owning government when the author is the contractor.
func (s *Service) Create(ctx context.Context, projectID, actorID uuid.UUID, actorRole string, in CreateInput) (*domain.ProjectUpdate, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation("Update content is required")
	}
	if err := validateItems(in.PurchasedItems, true); err != nil {
		return nil, err
	}
	if err := validateItems(in.UtilisedItems, false); err != nil {
		return nil, err
	}

	purchased := in.PurchasedItems
	utilised := in.UtilisedItems
	if len(purchased) == 0 && len(utilised) == 0 && s.AI != nil {
		extracted := s.AI.ExtractItems(ctx, in.Content)
		if len(extracted) > 0 {
			items := make([]domain.UpdateItem, 0, len(extracted))
			for _, e := range extracted {
				items = append(items, domain.UpdateItem{Name: e.Name, Quantity: e.Quantity})
			}
			if classifyContent(in.Content) == "purchase" {
				purchased = items
			} else {
				utilised = items
			}
		}
	}

	var (
		update  domain.ProjectUpdate
		project domain.Project
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, "project_id = ?", projectID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.NotFound("Project not found")
			}
			return err
		}
		if actorRole != constants.RoleAdmin && actorID != project.ContractorID {
			return apperr.Forbidden("Only the assigned contractor can post updates to this project")
		}

		led, err := loadLedger(tx, projectID)
		if err != nil {
			return err
		}

		var totalCost float64
		for _, it := range purchased {
			totalCost += it.Price * it.Quantity
		}
		if project.Expenditure+totalCost > project.Budget {
			return apperr.BusinessRule(
				"Insufficient budget: purchase cost %.2f would raise expenditure to %.2f, exceeding budget %.2f",
				totalCost, project.Expenditure+totalCost, project.Budget)
		}

		// Every utilised entry is checked before any ledger mutation.
		for _, it := range utilised {
			avail, ok := led.Available(it.Name)
			if !ok {
				return apperr.BusinessRule("Item %q not found in inventory", it.Name)
			}
			if it.Quantity > avail {
				return apperr.BusinessRule(
					"Insufficient quantity for %q: requested %g, available %g",
					it.Name, it.Quantity, avail)
			}
		}

		for _, it := range purchased {
			cost := led.RecordPurchase(it.Name, it.Quantity, it.Price)
			project.Expenditure += cost
		}
		for _, it := range utilised {
			if err := led.RecordUtilisation(it.Name, it.Quantity); err != nil {
				return apperr.BusinessRule("%s", err.Error())
			}
		}

		if err := persistLedger(tx, projectID, led); err != nil {
			return err
		}
		if err := tx.Model(&domain.Project{}).Where("project_id = ?", projectID).
			Update("expenditure", project.Expenditure).Error; err != nil {
			return err
		}

		update = domain.ProjectUpdate{
			ProjectID:      projectID,
			Content:        in.Content,
			Media:          mustJSON(in.Media),
			PurchasedItems: mustJSON(purchased),
			UtilisedItems:  mustJSON(utilised),
		}
		return tx.Create(&update).Error
	})
	if err != nil {
		return nil, err
	}

	if s.Notifications != nil && actorID == project.ContractorID {
		s.notifyGovernment(&project, actorID, &update)
	}
	return &update, nil
}

// Edit changes an update's content or media.
func (s *Service) Edit(ctx context.Context, projectID, updateID, actorID uuid.UUID, actorRole string, in EditInput) (*domain.ProjectUpdate, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation("Update content is required")
	}
	var project domain.Project
	if err := s.DB.WithContext(ctx).First(&project, "project_id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, err
	}
	if actorRole != constants.RoleAdmin && actorID != project.ContractorID {
		return nil, apperr.Forbidden("Only the assigned contractor can edit updates on this project")
	}
	var update domain.ProjectUpdate
	if err := s.DB.WithContext(ctx).First(&update, "update_id = ? AND project_id = ?", updateID, projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Update not found")
		}
		return nil, err
	}
	update.Content = in.Content
	if in.Media != nil {
		update.Media = mustJSON(in.Media)
	}
	if err := s.DB.WithContext(ctx).Save(&update).Error; err != nil {
		return nil, err
	}
	return &update, nil
}

// Delete removes an update record. The ledger effects of the update are
// not reversed.
func (s *Service) Delete(ctx context.Context, projectID, updateID, actorID uuid.UUID, actorRole string) error {
	var project domain.Project
	if err := s.DB.WithContext(ctx).First(&project, "project_id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("Project not found")
		}
		return err
	}
	if actorRole != constants.RoleAdmin && actorID != project.ContractorID {
		return apperr.Forbidden("Only the assigned contractor can delete updates on this project")
	}
	res := s.DB.WithContext(ctx).Where("update_id = ? AND project_id = ?", updateID, projectID).Delete(&domain.ProjectUpdate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Update not found")
	}
	return nil
}

// List returns a project's updates, newest first.
func (s *Service) List(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectUpdate, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Project{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.NotFound("Project not found")
	}
	var out []domain.ProjectUpdate
	if err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).Order("date DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) notifyGovernment(project *domain.Project, senderID uuid.UUID, update *domain.ProjectUpdate) {
	var gov domain.User
	email := ""
	if err := s.DB.First(&gov, "user_id = ?", project.GovernmentID).Error; err == nil {
		email = gov.Email
	}
	sender := senderID
	entity := update.UpdateID
	go s.Notifications.Dispatch(notifications.Input{
		RecipientID:    project.GovernmentID,
		RecipientEmail: email,
		SenderID:       &sender,
		Type:           notifications.TypeProjectUpdate,
		Message:        fmt.Sprintf("A new update was posted on project %q", project.Title),
		EntityID:       &entity,
		EntityType:     "project_update",
		Metadata:       map[string]interface{}{"projectId": project.ProjectID.String()},
	})
}

// validateItems shape-checks item entries. Price applies to purchases only.
func validateItems(items []domain.UpdateItem, withPrice bool) error {
	for i, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return apperr.Validation("Invalid item data at entry %d: name is required", i)
		}
		if it.Quantity <= 0 {
			return apperr.Validation("Invalid item data for %q: quantity must be greater than zero", it.Name)
		}
		if withPrice && it.Price < 0 {
			return apperr.Validation("Invalid item data for %q: price cannot be negative", it.Name)
		}
	}
	return nil
}

// classifyContent decides where AI-extracted items belong. Utilise keywords
// win over purchase keywords; no match defaults to utilise.
func classifyContent(content string) string {
	lower := strings.ToLower(content)
	for _, kw := range utiliseKeywords {
		if strings.Contains(lower, kw) {
			return "utilise"
		}
	}
	for _, kw := range purchaseKeywords {
		if strings.Contains(lower, kw) {
			return "purchase"
		}
	}
	return "utilise"
}

// loadLedger materializes a project's inventory and used-item rows.
func loadLedger(tx *gorm.DB, projectID uuid.UUID) (*ledger.Ledger, error) {
	var inv []domain.InventoryItem
	if err := tx.Where("project_id = ?", projectID).Order("position ASC").Find(&inv).Error; err != nil {
		return nil, err
	}
	var used []domain.UsedItem
	if err := tx.Where("project_id = ?", projectID).Order("position ASC").Find(&used).Error; err != nil {
		return nil, err
	}
	entries := make([]ledger.Entry, 0, len(inv))
	for _, it := range inv {
		entries = append(entries, ledger.Entry{Name: it.Name, Quantity: it.Quantity, Price: it.Price, TotalSpent: it.TotalSpent})
	}
	usedEntries := make([]ledger.UsedEntry, 0, len(used))
	for _, it := range used {
		usedEntries = append(usedEntries, ledger.UsedEntry{Name: it.Name, Quantity: it.Quantity})
	}
	return ledger.New(entries, usedEntries), nil
}

// persistLedger writes the ledger state back, replacing the previous rows.
func persistLedger(tx *gorm.DB, projectID uuid.UUID, led *ledger.Ledger) error {
	if err := tx.Where("project_id = ?", projectID).Delete(&domain.InventoryItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("project_id = ?", projectID).Delete(&domain.UsedItem{}).Error; err != nil {
		return err
	}
	for i, e := range led.Entries() {
		row := domain.InventoryItem{
			ProjectID:  projectID,
			Name:       e.Name,
			NameKey:    ledger.Key(e.Name),
			Quantity:   e.Quantity,
			Price:      e.Price,
			TotalSpent: e.TotalSpent,
			Position:   i,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for i, u := range led.Used() {
		row := domain.UsedItem{
			ProjectID: projectID,
			Name:      u.Name,
			NameKey:   ledger.Key(u.Name),
			Quantity:  u.Quantity,
			Position:  i,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func mustJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return datatypes.JSON([]byte("[]"))
	}
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(b)
}
