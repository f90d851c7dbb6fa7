package domain

// EntityType classifies a span returned by the NER collaborator.
type EntityType string

const (
	EntityPerson   EntityType = "person"
	EntityDate     EntityType = "date"
	EntityLocation EntityType = "location"
	EntityMoney    EntityType = "money"
)

// Entity is one recognised span of case text.
type Entity struct {
	Type  EntityType `json:"type"`
	Value string     `json:"value"`
	Start int        `json:"start"`
	End   int        `json:"end"`
}

// Mention is one deduplicated evidence item with the context snippet of its
// first occurrence.
type Mention struct {
	Value   string `json:"value"`
	Context string `json:"context"`
}

// SummaryCounts is derived from the evidence lists and must equal their
// lengths.
type SummaryCounts struct {
	TotalWitnesses int `json:"total_witnesses"`
	TotalDocuments int `json:"total_documents"`
	TotalDates     int `json:"total_dates"`
	TotalLocations int `json:"total_locations"`
	TotalMonetary  int `json:"total_monetary_amounts"`
}

// EvidenceBundle is the aggregated, deduplicated entity extraction result
// for one case. All lists are in order of first mention.
type EvidenceBundle struct {
	Witnesses       []Mention     `json:"witnesses"`
	Documents       []Mention     `json:"documents"`
	Dates           []Mention     `json:"dates"`
	Locations       []Mention     `json:"locations"`
	MonetaryAmounts []Mention     `json:"monetary_amounts"`
	Summary         SummaryCounts `json:"summary_counts"`
	// Degraded is set when the NER provider was unavailable and only
	// pattern-matched fields are populated.
	Degraded      bool   `json:"degraded,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Recount recomputes the derived summary counts from the lists.
func (b *EvidenceBundle) Recount() {
	b.Summary = SummaryCounts{
		TotalWitnesses: len(b.Witnesses),
		TotalDocuments: len(b.Documents),
		TotalDates:     len(b.Dates),
		TotalLocations: len(b.Locations),
		TotalMonetary:  len(b.MonetaryAmounts),
	}
}
