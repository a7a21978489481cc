package domain

import "strings"

// Impact categories assigned by the annotation source to a transcript consequence.
const (
	ImpactHigh     = "HIGH"
	ImpactModerate = "MODERATE"
	ImpactLow      = "LOW"
	ImpactModifier = "MODIFIER"
)

// Pathogenicity class labels as emitted by AlphaMissense.
const (
	ClassLikelyBenign     = "likely_benign"
	ClassAmbiguous        = "ambiguous"
	ClassLikelyPathogenic = "likely_pathogenic"
)

// ConsequenceMissense is the consequence term that gates pathogenicity lookups.
const ConsequenceMissense = "missense_variant"

// impactRank orders impact categories for consequence selection. Lower is more
// severe. Unknown categories sort last.
var impactRank = map[string]int{
	ImpactHigh:     1,
	ImpactModerate: 2,
	ImpactLow:      3,
	ImpactModifier: 4,
}

// ImpactRank returns the sort rank for an impact category.
func ImpactRank(impact string) int {
	if rank, ok := impactRank[impact]; ok {
		return rank
	}
	return 5
}

// severityRank orders pathogenicity classes for reconciliation. Higher is more
// severe. Unrecognized classes rank 0 but still beat the empty initial state.
var severityRank = map[string]int{
	ClassLikelyPathogenic: 3,
	ClassAmbiguous:        2,
	ClassLikelyBenign:     1,
}

// SeverityRank returns the reconciliation rank for a pathogenicity class.
func SeverityRank(class string) int {
	return severityRank[class]
}

// AnnotationRecord is the annotation source's response for one resolved variant.
type AnnotationRecord struct {
	Input                  string                  `json:"input"`
	SeqRegionName          string                  `json:"seq_region_name"`
	Start                  int64                   `json:"start"`
	End                    int64                   `json:"end"`
	Strand                 int                     `json:"strand"`
	AlleleString           string                  `json:"allele_string"`
	MostSevereConsequence  string                  `json:"most_severe_consequence"`
	TranscriptConsequences []TranscriptConsequence `json:"transcript_consequences"`
}

// Coordinates extracts the genomic coordinate quadruple used as the score-store
// lookup key. The allele string is REF/ALT; records without both alleles or a
// usable location yield ok=false.
func (r *AnnotationRecord) Coordinates() (chrom string, pos int64, ref, alt string, ok bool) {
	parts := strings.SplitN(r.AlleleString, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", 0, "", "", false
	}
	if r.SeqRegionName == "" || r.Start <= 0 {
		return "", 0, "", "", false
	}
	return r.SeqRegionName, r.Start, parts[0], parts[1], true
}

// TranscriptConsequence is one transcript's view of a variant.
type TranscriptConsequence struct {
	GeneID            string             `json:"gene_id"`
	GeneSymbol        string             `json:"gene_symbol"`
	TranscriptID      string             `json:"transcript_id"`
	Biotype           string             `json:"biotype"`
	ConsequenceTerms  []string           `json:"consequence_terms"`
	Impact            string             `json:"impact"`
	HGVSc             string             `json:"hgvsc"`
	HGVSp             string             `json:"hgvsp"`
	Canonical         int                `json:"canonical"`
	CustomAnnotations []CustomAnnotation `json:"custom_annotations,omitempty"`
}

// IsMissense reports whether any consequence term is missense_variant.
func (tc *TranscriptConsequence) IsMissense() bool {
	for _, term := range tc.ConsequenceTerms {
		if term == ConsequenceMissense {
			return true
		}
	}
	return false
}

// CustomAnnotation is a semi-structured side annotation attached to a transcript
// consequence by the annotation source, e.g. an AlphaMissense "class&score" pair.
type CustomAnnotation struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

// PathogenicityPrediction is a computed score plus a discrete class label.
type PathogenicityPrediction struct {
	Score float64 `json:"score"`
	Class string  `json:"class"`
}

// VariantContext is the consolidated functional-context record returned to the
// caller.
type VariantContext struct {
	InputVariant            string   `json:"input_variant"`
	ResolvedVariant         string   `json:"resolved_variant"`
	RequestedAssembly       string   `json:"requested_assembly"`
	GeneSymbol              string   `json:"gene_symbol,omitempty"`
	EnsemblGeneID           string   `json:"ensembl_gene_id,omitempty"`
	TranscriptID            string   `json:"transcript_id,omitempty"`
	Consequence             string   `json:"consequence,omitempty"`
	HGVSc                   string   `json:"hgvsc,omitempty"`
	HGVSp                   string   `json:"hgvsp,omitempty"`
	Impact                  string   `json:"impact,omitempty"`
	AlphaMissenseScore      *float64 `json:"alphamissense_score"`
	AlphaMissensePrediction string   `json:"alphamissense_prediction,omitempty"`
	Pathways                []string `json:"pathways"`
}
