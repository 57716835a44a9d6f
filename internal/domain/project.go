package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is an infrastructure project owned by a government user and
// executed by a contractor user. Expenditure must always equal the sum of
// inventory total_spent; the reconciliation engine enforces this, not the
// storage layer.
type Project struct {
	ProjectID     uuid.UUID      `gorm:"column:project_id;type:uuid;primaryKey" json:"project_id"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	BannerURL     string         `gorm:"column:banner_url" json:"bannerUrl"`
	PDFURL        string         `gorm:"column:pdf_url" json:"pdfUrl"`
	Description   string         `gorm:"column:description" json:"description"`
	LocationLat   float64        `gorm:"column:location_lat" json:"locationLat"`
	LocationLng   float64        `gorm:"column:location_lng" json:"locationLng"`
	LocationPlace string         `gorm:"column:location_place" json:"locationPlace"`
	Budget        float64        `gorm:"column:budget;type:decimal(18,2);not null" json:"budget"`
	Expenditure   float64        `gorm:"column:expenditure;type:decimal(18,2);not null;default:0" json:"expenditure"`
	GovernmentID  uuid.UUID      `gorm:"column:government_id;type:uuid;not null;index" json:"government_id"`
	ContractorID  uuid.UUID      `gorm:"column:contractor_id;type:uuid;not null;index" json:"contractor_id"`
	Inventory     []InventoryItem `gorm:"foreignKey:ProjectID" json:"inventory,omitempty"`
	UsedItems     []UsedItem      `gorm:"foreignKey:ProjectID" json:"usedItems,omitempty"`
	Updates       []ProjectUpdate `gorm:"foreignKey:ProjectID" json:"updates,omitempty"`
	Votes         []ProjectVote   `gorm:"foreignKey:ProjectID" json:"-"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string {
	return "Projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ProjectID == uuid.Nil {
		p.ProjectID = uuid.New()
	}
	return nil
}

// InventoryItem is one stocked item of a project. NameKey is the lowercased
// name; "Cement" and "cement" share one row.
type InventoryItem struct {
	ItemID     uuid.UUID `gorm:"column:item_id;type:uuid;primaryKey" json:"item_id"`
	ProjectID  uuid.UUID `gorm:"column:project_id;type:uuid;not null;uniqueIndex:idx_inventory_project_name,priority:1" json:"project_id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	NameKey    string    `gorm:"column:name_key;not null;uniqueIndex:idx_inventory_project_name,priority:2" json:"-"`
	Quantity   float64   `gorm:"column:quantity;type:decimal(18,2);not null;default:0" json:"quantity"`
	Price      float64   `gorm:"column:price;type:decimal(18,2);not null;default:0" json:"price"`
	TotalSpent float64   `gorm:"column:total_spent;type:decimal(18,2);not null;default:0" json:"totalSpent"`
	Position   int       `gorm:"column:position;not null;default:0" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (InventoryItem) TableName() string {
	return "InventoryItems"
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ItemID == uuid.Nil {
		i.ItemID = uuid.New()
	}
	return nil
}

// UsedItem tracks the cumulative consumed quantity of an inventory item.
type UsedItem struct {
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;primaryKey" json:"item_id"`
	ProjectID uuid.UUID `gorm:"column:project_id;type:uuid;not null;uniqueIndex:idx_used_project_name,priority:1" json:"project_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	NameKey   string    `gorm:"column:name_key;not null;uniqueIndex:idx_used_project_name,priority:2" json:"-"`
	Quantity  float64   `gorm:"column:quantity;type:decimal(18,2);not null;default:0" json:"quantity"`
	Position  int       `gorm:"column:position;not null;default:0" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (UsedItem) TableName() string {
	return "UsedItems"
}

func (u *UsedItem) BeforeCreate(tx *gorm.DB) error {
	if u.ItemID == uuid.Nil {
		u.ItemID = uuid.New()
	}
	return nil
}

// UpdateItem is one purchased or utilised entry recorded on an update.
// Price is zero for utilised entries.
type UpdateItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price,omitempty"`
}

// ProjectUpdate is a progress update posted by the contractor. Item lists
// are kept as recorded on the update; the ledger holds the running state.
type ProjectUpdate struct {
	UpdateID       uuid.UUID      `gorm:"column:update_id;type:uuid;primaryKey" json:"update_id"`
	ProjectID      uuid.UUID      `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`
	Content        string         `gorm:"column:content;not null" json:"content"`
	Media          datatypes.JSON `gorm:"column:media" json:"media"`
	Date           time.Time      `gorm:"column:date;not null" json:"date"`
	PurchasedItems datatypes.JSON `gorm:"column:purchased_items" json:"purchasedItems"`
	UtilisedItems  datatypes.JSON `gorm:"column:utilised_items" json:"utilisedItems"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (ProjectUpdate) TableName() string {
	return "ProjectUpdates"
}

func (u *ProjectUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.UpdateID == uuid.Nil {
		u.UpdateID = uuid.New()
	}
	if u.Date.IsZero() {
		u.Date = time.Now()
	}
	return nil
}

// Vote kinds.
const (
	VoteLike    = "like"
	VoteDislike = "dislike"
)

// ProjectVote records one user's like or dislike of a project. The unique
// index makes like/dislike mutually exclusive per user.
type ProjectVote struct {
	VoteID    uuid.UUID `gorm:"column:vote_id;type:uuid;primaryKey" json:"vote_id"`
	ProjectID uuid.UUID `gorm:"column:project_id;type:uuid;not null;uniqueIndex:idx_vote_project_user,priority:1" json:"project_id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_vote_project_user,priority:2" json:"user_id"`
	Kind      string    `gorm:"column:kind;type:varchar(10);not null" json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ProjectVote) TableName() string {
	return "ProjectVotes"
}

func (v *ProjectVote) BeforeCreate(tx *gorm.DB) error {
	if v.VoteID == uuid.Nil {
		v.VoteID = uuid.New()
	}
	return nil
}
