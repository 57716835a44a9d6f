package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectAnalysis is the cached per-project metrics document. Exactly one
// row per project (unique index); regenerated when older than 24 hours.
type ProjectAnalysis struct {
	AnalysisID         uuid.UUID      `gorm:"column:analysis_id;type:uuid;primaryKey" json:"analysis_id"`
	ProjectID          uuid.UUID      `gorm:"column:project_id;type:uuid;not null;uniqueIndex" json:"project_id"`
	LastUpdated        time.Time      `gorm:"column:last_updated;not null" json:"lastUpdated"`
	SupportMetrics     datatypes.JSON `gorm:"column:support_metrics" json:"supportMetrics"`
	ProgressMetrics    datatypes.JSON `gorm:"column:progress_metrics" json:"progressMetrics"`
	FinancialMetrics   datatypes.JSON `gorm:"column:financial_metrics" json:"financialMetrics"`
	ContractorMetrics  datatypes.JSON `gorm:"column:contractor_metrics" json:"contractorMetrics"`
	CommentAnalysis    datatypes.JSON `gorm:"column:comment_analysis" json:"commentAnalysis"`
	CorruptionMetrics  datatypes.JSON `gorm:"column:corruption_metrics" json:"corruptionReportMetrics"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

func (ProjectAnalysis) TableName() string {
	return "ProjectAnalyses"
}

func (a *ProjectAnalysis) BeforeCreate(tx *gorm.DB) error {
	if a.AnalysisID == uuid.Nil {
		a.AnalysisID = uuid.New()
	}
	return nil
}

// AggregateAnalysis is the cached per-government rollup across all owned
// projects. Exactly one row per government; same 24-hour staleness window.
type AggregateAnalysis struct {
	AnalysisID            uuid.UUID      `gorm:"column:analysis_id;type:uuid;primaryKey" json:"analysis_id"`
	GovernmentID          uuid.UUID      `gorm:"column:government_id;type:uuid;not null;uniqueIndex" json:"government_id"`
	LastUpdated           time.Time      `gorm:"column:last_updated;not null" json:"lastUpdated"`
	ProjectCount          datatypes.JSON `gorm:"column:project_count" json:"projectCount"`
	OverallSatisfaction   datatypes.JSON `gorm:"column:overall_satisfaction" json:"overallSatisfaction"`
	FinancialSummary      datatypes.JSON `gorm:"column:financial_summary" json:"financialSummary"`
	ContractorPerformance datatypes.JSON `gorm:"column:contractor_performance" json:"contractorPerformance"`
	PublicSentiment       datatypes.JSON `gorm:"column:public_sentiment" json:"publicSentiment"`
	CorruptionReports     datatypes.JSON `gorm:"column:corruption_reports" json:"corruptionReports"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

func (AggregateAnalysis) TableName() string {
	return "AggregateAnalyses"
}

func (a *AggregateAnalysis) BeforeCreate(tx *gorm.DB) error {
	if a.AnalysisID == uuid.Nil {
		a.AnalysisID = uuid.New()
	}
	return nil
}
