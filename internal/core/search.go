package core

import "time"

// RemoteDomain is one domain as reported by a registrar, already mapped out
// of the registrar's wire format.
type RemoteDomain struct {
	Name              string
	Status            string
	ExpirationDate    time.Time
	RegistrationDate  time.Time
	Nameservers       []string
	RegistrarDomainID string
}

type AvailabilityState string

const (
	AvailableYes     AvailabilityState = "yes"
	AvailableNo      AvailabilityState = "no"
	AvailableUnknown AvailabilityState = "unknown"
	AvailableError   AvailabilityState = "error"
)

type Price struct {
	Years    int    `json:"years,omitempty"`
	Price    string `json:"price"`
	Currency string `json:"currency,omitempty"`
}

// DomainResult is the normalized availability of one name at one registrar.
type DomainResult struct {
	DomainName string            `json:"domain_name"`
	Available  AvailabilityState `json:"available"`
	Premium    string            `json:"premium,omitempty"`
	PriceList  []Price           `json:"price_list,omitempty"`
	Message    string            `json:"message,omitempty"`
}

// SearchResult pairs a registrar with its normalized answer. It is produced
// per request and never persisted.
type SearchResult struct {
	Registrar Registrar    `json:"registrar"`
	Result    DomainResult `json:"result"`
}

// BulkSearchResult carries one registrar's answers for a batch of names.
type BulkSearchResult struct {
	Registrar Registrar      `json:"registrar"`
	Results   []DomainResult `json:"result"`
}
