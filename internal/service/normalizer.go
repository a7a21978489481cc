package service

import (
	"fmt"
	"strings"
)

// hgvsMarkers are the sequence-type markers accepted in pass-through notation.
var hgvsMarkers = []string{"g.", "c.", "p.", "n."}

// NormalizeIdentifier validates and rewrites a free-form variant identifier into
// the query form expected by the annotation source. It returns ok=false for
// unrecognized input. Pure function; coordinate forms are rewritten to genomic
// HGVS, rsIDs and HGVS-style strings pass through unchanged.
func NormalizeIdentifier(raw string) (string, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", false
	}

	if isRSID(cleaned) {
		return cleaned, true
	}

	if strings.Count(cleaned, ":") == 3 {
		if normalized, ok := normalizeQuadruple(cleaned); ok {
			return normalized, true
		}
	} else if strings.Count(cleaned, ":") == 1 && strings.Contains(cleaned, ">") {
		if normalized, ok := normalizeCompact(cleaned); ok {
			return normalized, true
		}
	}

	// Already HGVS-like: accession plus a sequence-type marker.
	if strings.Contains(cleaned, ":") {
		for _, marker := range hgvsMarkers {
			if strings.Contains(cleaned, marker) {
				return cleaned, true
			}
		}
	}

	return "", false
}

// isRSID reports whether the identifier is an rs accession: a case-insensitive
// "rs" prefix followed only by digits.
func isRSID(s string) bool {
	if len(s) < 3 || !strings.EqualFold(s[:2], "rs") {
		return false
	}
	return allDigits(s[2:])
}

// normalizeQuadruple rewrites CHROM:POS:REF:ALT to genomic HGVS.
func normalizeQuadruple(s string) (string, bool) {
	parts := strings.Split(s, ":")
	chrom := stripChrPrefix(strings.TrimSpace(parts[0]))
	pos := strings.TrimSpace(parts[1])
	ref := strings.TrimSpace(parts[2])
	alt := strings.TrimSpace(parts[3])

	if !allDigits(pos) || chrom == "" || ref == "" || alt == "" {
		return "", false
	}

	return fmt.Sprintf("%s:g.%s%s>%s", chrom, pos, strings.ToUpper(ref), strings.ToUpper(alt)), true
}

// normalizeCompact rewrites CHROM:POSREF>ALT to genomic HGVS. The position is
// the maximal leading digit run of the POSREF field; the reference allele is the
// letter run that follows it.
func normalizeCompact(s string) (string, bool) {
	chromPos, alt, _ := strings.Cut(s, ">")
	chromPos = strings.TrimSpace(chromPos)
	alt = strings.TrimSpace(alt)

	chrom, posRef, found := strings.Cut(chromPos, ":")
	if !found {
		return "", false
	}
	chrom = stripChrPrefix(strings.TrimSpace(chrom))

	i := 0
	for i < len(posRef) && posRef[i] >= '0' && posRef[i] <= '9' {
		i++
	}
	pos := posRef[:i]

	j := i
	for j < len(posRef) && isLetter(posRef[j]) {
		j++
	}
	ref := strings.ToUpper(posRef[i:j])

	if pos == "" || ref == "" || chrom == "" || alt == "" {
		return "", false
	}

	return fmt.Sprintf("%s:g.%s%s>%s", chrom, pos, ref, strings.ToUpper(alt)), true
}

// stripChrPrefix removes a leading chr/Chr from a chromosome name.
func stripChrPrefix(chrom string) string {
	chrom = strings.TrimPrefix(chrom, "chr")
	return strings.TrimPrefix(chrom, "Chr")
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
