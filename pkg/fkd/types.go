package fkd

import (
	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala"
)

// Case is one extracted incident record. Field names mirror the JSON
// emitted for downstream consumers; the Japanese archive labels each
// field maps from are listed in the parser.
type Case struct {
	CaseID string `json:"case_id" bson:"case_id"`
	URL    string `json:"url" bson:"url"`

	CaseName   string `json:"case_name" bson:"case_name"`
	Date       string `json:"date" bson:"date"` // YYYY-MM-DD when parseable, else the raw text
	Location   string `json:"location" bson:"location"`
	Facility   string `json:"facility" bson:"facility"`
	Summary    string `json:"summary" bson:"summary"`
	Phenomenon string `json:"phenomenon" bson:"phenomenon"`

	Process        string   `json:"process" bson:"process"`
	Cause          string   `json:"cause" bson:"cause"`
	Response       string   `json:"response" bson:"response"`
	Countermeasure string   `json:"countermeasure" bson:"countermeasure"`
	Knowledge      []string `json:"knowledge" bson:"knowledge"`
	Background     string   `json:"background" bson:"background"`

	Scenario mandala.Serialized `json:"scenario" bson:"scenario"`

	Images     Images     `json:"images" bson:"images"`
	Sources    []string   `json:"sources" bson:"sources"`
	Casualties Casualties `json:"casualties" bson:"casualties"`

	FinancialDamage string   `json:"financial_damage" bson:"financial_damage"`
	SocialImpact    string   `json:"social_impact" bson:"social_impact"`
	Notes           string   `json:"notes" bson:"notes"`
	Field           string   `json:"field" bson:"field"`
	Authors         []string `json:"authors" bson:"authors"`
}

// Images collects the case's visual material: the representative figure
// (a filename under /df/) and the multimedia attachments (/mf/ links).
type Images struct {
	Representative string       `json:"representative" bson:"representative"`
	Multimedia     []Multimedia `json:"multimedia" bson:"multimedia"`
}

// Multimedia is one attachment reference.
type Multimedia struct {
	ID      string `json:"id" bson:"id"`
	Caption string `json:"caption" bson:"caption"`
}

// Casualties holds the reported death and injury counts.
type Casualties struct {
	Deaths   int `json:"deaths" bson:"deaths"`
	Injuries int `json:"injuries" bson:"injuries"`
}

// CaseRef points at a case page found on an index page.
type CaseRef struct {
	CaseID string `json:"case_id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}
