package source

// peptideOnly holds the upper-case letters taken as evidence of protein.
// Several of them double as IUPAC nucleotide ambiguity codes, so a
// sequence made mostly of ambiguity codes reads as protein.
var peptideOnly = [256]bool{
	'D': true, 'E': true, 'F': true, 'H': true, 'I': true, 'K': true,
	'L': true, 'M': true, 'P': true, 'Q': true, 'R': true, 'S': true,
	'V': true, 'W': true, 'X': true, 'Y': true,
}

// proteinProbe is how many leading residues IsProtein inspects.
const proteinProbe = 100

// IsProtein reports whether the first 100 residues of seq contain any
// peptide-only letter. Lower-case letters count as nucleotides (soft
// masking).
func IsProtein(seq []byte) bool {
	for _, b := range seq[:min(len(seq), proteinProbe)] {
		if peptideOnly[b] {
			return true
		}
	}
	return false
}
