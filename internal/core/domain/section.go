package domain

// Statute families covered by the section corpus.
const (
	ActIPC    = "IPC"
	ActBNS    = "BNS"
	ActCrPC   = "CrPC"
	ActITAct  = "IT_ACT"
	ActCPC    = "CPC"
	ActHMA    = "HMA"
	ActCPA    = "CPA"
	ActIDAct  = "ID_ACT"
	ActTPAct  = "TP_ACT"
	ActITActA = "IT_AMEND" // 2008 amendment provisions kept separate in source data
)

// KnownActs is the closed set of acts a SectionRecord may carry.
var KnownActs = map[string]bool{
	ActIPC:    true,
	ActBNS:    true,
	ActCrPC:   true,
	ActITAct:  true,
	ActCPC:    true,
	ActHMA:    true,
	ActCPA:    true,
	ActIDAct:  true,
	ActTPAct:  true,
	ActITActA: true,
}

// domainActs restricts retrieval candidates to acts plausible for a domain.
// Domains absent from the map search the default criminal-code pair.
var domainActs = map[string][]string{
	DomainCriminal: {ActIPC, ActBNS, ActCrPC},
	DomainCyber:    {ActITAct, ActITActA, ActIPC, ActBNS},
	DomainFamily:   {ActHMA, ActIPC, ActBNS, ActCrPC},
	DomainCivil:    {ActCPC, ActTPAct, ActIPC, ActBNS},
	DomainConsumer: {ActCPA, ActIPC, ActBNS},
	DomainLabour:   {ActIDAct, ActIPC, ActBNS},
	DomainProperty: {ActTPAct, ActCPC, ActIPC, ActBNS},
}

// ActsForDomain returns the acts searched for a domain.
func ActsForDomain(domain string) []string {
	if acts, ok := domainActs[domain]; ok {
		return acts
	}
	return []string{ActIPC, ActBNS}
}

// SectionRecord is one statute provision with retrieval metadata.
// Records are retrieved, never mutated.
type SectionRecord struct {
	Act            string  `json:"act"`
	SectionID      string  `json:"section_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	PunishmentText string  `json:"punishment_text,omitempty"`
	Bailable       bool    `json:"bailable"`
	Cognizable     bool    `json:"cognizable"`
	Note           string  `json:"note,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}

// SectionMapping is the Section Retriever's output: records ordered by
// relevance score descending, ties broken by act then section id ascending.
type SectionMapping struct {
	Domain        string          `json:"domain"`
	PrimaryIssue  string          `json:"primary_issue"`
	Sections      []SectionRecord `json:"sections"`
	TotalCount    int             `json:"total_count"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}
