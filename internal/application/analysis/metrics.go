package analysis

import (
	"time"

	"proact-backend/internal/ai"

	"github.com/google/uuid"
)

// SupportMetrics summarizes public voting on one project.
type SupportMetrics struct {
	Likes        int64   `json:"likes"`
	Dislikes     int64   `json:"dislikes"`
	SupportRatio float64 `json:"supportRatio"`
}

// ProgressMetrics summarizes update cadence.
type ProgressMetrics struct {
	TotalUpdates        int        `json:"totalUpdates"`
	LastUpdateDate      *time.Time `json:"lastUpdateDate,omitempty"`
	DaysSinceLastUpdate int        `json:"daysSinceLastUpdate"`
	UpdateFrequency     float64    `json:"updateFrequency"`
}

// FinancialMetrics summarizes budget consumption. ProjectedCompletion is
// present only when the burn rate is positive and budget remains.
type FinancialMetrics struct {
	Budget              float64    `json:"budget"`
	Expenditure         float64    `json:"expenditure"`
	ExpenditureRatio    float64    `json:"expenditureRatio"`
	BurnRate            float64    `json:"burnRate"`
	ProjectedCompletion *time.Time `json:"projectedCompletion,omitempty"`
}

// ContractorMetrics summarizes the contractor's engagement on one project.
type ContractorMetrics struct {
	ActivityLevel            int     `json:"activityLevel"`
	ResponseRate             float64 `json:"responseRate"`
	AverageResponseTimeHours float64 `json:"averageResponseTimeHours"`
}

// SentimentDistribution is percentage shares over classified comments.
type SentimentDistribution struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// CommentMetrics is the sentiment and theme rollup over a project's
// comments.
type CommentMetrics struct {
	TotalComments         int                   `json:"totalComments"`
	SentimentDistribution SentimentDistribution `json:"sentimentDistribution"`
	TopTags               []ai.TagCount         `json:"topTags"`
	TopConcerns           []string              `json:"topConcerns"`
	TopPraises            []string              `json:"topPraises"`
}

// CorruptionMetrics counts a project's reports by status. AverageSeverity
// ignores unset severities.
type CorruptionMetrics struct {
	TotalReports    int     `json:"totalReports"`
	Pending         int     `json:"pending"`
	Investigating   int     `json:"investigating"`
	Resolved        int     `json:"resolved"`
	Rejected        int     `json:"rejected"`
	AverageSeverity float64 `json:"averageSeverity"`
}

// ProjectCounts splits a government's projects into active and stalled.
// Completed stays zero until projects carry a completion state.
type ProjectCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Stalled   int `json:"stalled"`
}

// SatisfactionSummary sums votes across all of a government's projects.
type SatisfactionSummary struct {
	TotalLikes        int64   `json:"totalLikes"`
	TotalDislikes     int64   `json:"totalDislikes"`
	SatisfactionRatio float64 `json:"satisfactionRatio"`
}

// FinancialSummary sums budgets and expenditures across projects.
type FinancialSummary struct {
	TotalBudget             float64 `json:"totalBudget"`
	TotalExpenditure        float64 `json:"totalExpenditure"`
	AverageExpenditureRatio float64 `json:"averageExpenditureRatio"`
	ProjectsOverBudget      int     `json:"projectsOverBudget"`
}

// ContractorRank is one contractor's activity ranking entry.
type ContractorRank struct {
	ContractorID  uuid.UUID `json:"contractorId"`
	Name          string    `json:"name"`
	ActivityScore int       `json:"activityScore"`
	ProjectCount  int       `json:"projectCount"`
}

// ContractorPerformance ranks contractors by activity score.
type ContractorPerformance struct {
	MostActive  []ContractorRank `json:"mostActive"`
	LeastActive []ContractorRank `json:"leastActive"`
}

// TagMention is a tag with its mention count, sentiment already applied as
// a filter.
type TagMention struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// PublicSentiment is the comment rollup across all owned projects.
type PublicSentiment struct {
	TotalComments         int                   `json:"totalComments"`
	SentimentDistribution SentimentDistribution `json:"sentimentDistribution"`
	TopTags               []ai.TagCount         `json:"topTags"`
	TopPositiveTags       []TagMention          `json:"topPositiveTags"`
	TopNegativeTags       []TagMention          `json:"topNegativeTags"`
	TopConcerns           []string              `json:"topConcerns"`
	TopPraises            []string              `json:"topPraises"`
}

// ProjectReportCount is one entry in the most-reported-projects list.
type ProjectReportCount struct {
	ProjectID   uuid.UUID `json:"projectId"`
	Title       string    `json:"title"`
	ReportCount int       `json:"reportCount"`
}

// CorruptionSummary is the report rollup across all owned projects.
type CorruptionSummary struct {
	CorruptionMetrics
	TopReportedProjects []ProjectReportCount `json:"topReportedProjects"`
}

// distribution converts sentiment counts into percentage shares.
func distribution(counts ai.SentimentCounts) SentimentDistribution {
	total := counts.Positive + counts.Neutral + counts.Negative
	if total == 0 {
		return SentimentDistribution{}
	}
	return SentimentDistribution{
		Positive: float64(counts.Positive) / float64(total) * 100,
		Neutral:  float64(counts.Neutral) / float64(total) * 100,
		Negative: float64(counts.Negative) / float64(total) * 100,
	}
}
