// Package accession maps raw database accession strings to canonical
// identifiers (UniProtKB accession and gene symbol).
package accession

import (
	"errors"
	"regexp"
	"strings"
)

// Identity is the canonical identification for a raw accession.
type Identity struct {
	UniProt string
	Gene    string
}

// Resolver maps a raw accession string to canonical identifiers.
// Implementations backed by a lookup service can be plugged into the
// pipeline; resolution failure is never fatal to the caller.
type Resolver interface {
	Resolve(acc string) (Identity, error)
}

// ErrUnresolved means the accession could not be mapped to a gene
// symbol. The returned Identity may still carry a UniProt accession.
var ErrUnresolved = errors.New("accession: cannot resolve")

// UniProtKB accession format, per the UniProt documentation.
var uniprotRe = regexp.MustCompile(
	`^([OPQ][0-9][A-Z0-9]{3}[0-9]|[A-NR-Z][0-9]([A-Z][A-Z0-9]{2}[0-9]){1,2})$`)

// Lexical resolves UniProtKB-style accessions without any external
// lookup. It understands FASTA-header forms (sp|P04637|P53_HUMAN,
// tr|Q9XYZ1|Q9XYZ1_MOUSE), bare entry names (P53_HUMAN) and bare
// accessions (P04637).
type Lexical struct{}

// Resolve implements Resolver.
func (Lexical) Resolve(acc string) (Identity, error) {
	var id Identity
	s := strings.TrimSpace(acc)
	if s == `` {
		return id, ErrUnresolved
	}

	// FASTA header form: db|accession|entryname
	if parts := strings.Split(s, `|`); len(parts) == 3 {
		db := strings.ToLower(parts[0])
		if db == `sp` || db == `tr` {
			id.UniProt = parts[1]
			s = parts[2]
		}
	}

	// Entry name form NAME_ORGANISM; the name part is the gene symbol
	// for reviewed entries
	if i := strings.IndexByte(s, '_'); i > 0 {
		id.Gene = s[:i]
		return id, nil
	}

	if id.UniProt == `` && uniprotRe.MatchString(s) {
		id.UniProt = s
	}
	if id.UniProt == `` {
		return id, ErrUnresolved
	}
	// Accession known but no gene symbol derivable without a lookup
	return id, ErrUnresolved
}
