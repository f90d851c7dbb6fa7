package domain

// Legal domains recognised by the classifier.
const (
	DomainCriminal     = "Criminal"
	DomainCivil        = "Civil"
	DomainFamily       = "Family"
	DomainCyber        = "Cyber"
	DomainConsumer     = "Consumer"
	DomainLabour       = "Labour"
	DomainProperty     = "Property"
	DomainUnclassified = "Unclassified"
)

// Domains lists the classifiable legal domains, excluding Unclassified.
var Domains = []string{
	DomainCriminal,
	DomainCivil,
	DomainFamily,
	DomainCyber,
	DomainConsumer,
	DomainLabour,
	DomainProperty,
}

// KnownDomain reports whether name is one of the classifiable domains.
func KnownDomain(name string) bool {
	for _, d := range Domains {
		if d == name {
			return true
		}
	}
	return false
}

// RankedPrediction is one (label, confidence) pair of a classification.
// Confidence is a similarity score normalised to [0,1], not a calibrated
// probability.
type RankedPrediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ClassificationResult maps case text to a domain and ranked issue labels.
// PrimaryIssue is the highest-confidence issue label; RankedPredictions is
// sorted by confidence descending.
type ClassificationResult struct {
	Domain            string             `json:"domain"`
	DomainConfidence  float64            `json:"domain_confidence"`
	PrimaryIssue      string             `json:"primary_issue"`
	SecondaryIssues   []string           `json:"secondary_issues"`
	RankedPredictions []RankedPrediction `json:"ranked_predictions"`
	CorrelationID     string             `json:"correlation_id,omitempty"`
}

// Unclassified reports whether no exemplar cleared the similarity floor.
func (c *ClassificationResult) Unclassified() bool {
	return c.Domain == DomainUnclassified
}
