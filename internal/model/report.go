package model

import "time"

// Report is the exploration report for the two datasets
type Report struct {
	RunID        string          `json:"run_id"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Datasets     []DatasetReport `json:"datasets"`
	Distribution map[Label]int   `json:"label_distribution"`         // rows per label in the merged table, before cleaning
	Cleaned      map[Label]int   `json:"cleaned_label_distribution"` // rows per label left after dropping empty clean text
	Profiles     []Profile       `json:"profiles,omitempty"`

	LLM *LLMSummary `json:"llm,omitempty"` // optional, never changes any number above
}

// DatasetReport holds the exploration results for one source dataset
type DatasetReport struct {
	Name       string      `json:"name"`
	Label      Label       `json:"label"`
	Rows       int         `json:"rows"`
	Cleaned    int         `json:"cleaned"`  // rows that survived cleaning with non-empty text
	Rejected   int         `json:"rejected"` // rows dropped by the cleaner
	Adjectives int         `json:"adjectives"`
	TopWords   []WordCount `json:"top_words"`
	CloudWords []WordCount `json:"-"` // word cloud input, capped at explore.max_words
	Lengths    LengthStats `json:"lengths"`
}

// WordCount is one row of a frequency table
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// LengthStats summarises raw text lengths (in characters)
type LengthStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
	P95    float64 `json:"p95"`
	Series []int   `json:"-"` // per-row lengths, for plotting
}

// Profile describes the columns of a loaded table
type Profile struct {
	Name    string          `json:"name"`
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

// ColumnProfile is the dtype / unique / null summary of one column
type ColumnProfile struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Unique int    `json:"unique"`
	Nulls  int    `json:"nulls"`
}

// LLMSummary contains the optional model-written narrative
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	Strict    bool     `json:"strict"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// PrepareStats counts rows through every stage of the prepare pipeline
type PrepareStats struct {
	DepressiveLoaded int `json:"depressive_loaded"`
	DepressiveUnique int `json:"depressive_unique"`
	RandomLoaded     int `json:"random_loaded"`
	RandomKept       int `json:"random_kept"` // after the sentiment filter
	Merged           int `json:"merged"`
	Rejected         int `json:"rejected"` // rows the cleaner refused (URL-led or too short)
	Dropped          int `json:"dropped"`  // rows removed because clean text was empty
	Written          int `json:"written"`
	SkippedRows      int `json:"skipped_rows"` // malformed CSV rows
}
