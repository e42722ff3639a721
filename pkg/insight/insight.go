package insight

import "time"

type InsightType string

const (
	TypeInfo    InsightType = "info"
	TypeWarning InsightType = "warning"
	TypeError   InsightType = "error"
)

// Insight is a short notice rendered for the user, such as a budget running
// hot. Insights are derived state: they live in memory and are rebuilt from
// events, never persisted.
type Insight struct {
	Type      InsightType
	Title     string
	Message   string
	CreatedAt time.Time
}
