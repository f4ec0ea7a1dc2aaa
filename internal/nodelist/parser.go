package nodelist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedLine indicates a node entry whose number field is not a
// non-negative integer. The loader skips such lines with a warning rather
// than aborting the whole load; callers that want stricter behavior can
// test for this error with errors.Is.
var ErrMalformedLine = errors.New("malformed nodelist line")

// eofMarker is the SUB control character that terminates a nodelist
// logically before the physical end of file.
const eofMarker = 0x1A

// maxFields is the fixed field count of a nodelist entry: the seven
// addressed fields plus the opaque flags remainder.
const maxFields = 8

// State is the hierarchical context carried across successive lines.
// Zone, Region and Host lines update it; leaf entries inherit it.
type State struct {
	Zone   int
	Net    int
	Region int
}

// Parser consumes raw nodelist lines one at a time and produces normalized
// records. It is stateful and order-dependent: each call may update the
// carried State that later calls inherit. A Parser must not be shared
// across concurrent loads.
type Parser struct {
	state State

	// Domain, FTNYear, YearDay and Source stamp every produced record.
	Domain  string
	FTNYear int
	YearDay int
	Source  string
}

// NewParser returns a parser that stamps records with the given domain.
// An empty domain falls back to DefaultDomain.
func NewParser(domain string) *Parser {
	if domain == "" {
		domain = DefaultDomain
	}
	return &Parser{Domain: domain}
}

// CarriedState returns the current carried state.
func (p *Parser) CarriedState() State {
	return p.state
}

// ParseLine parses one raw line. It returns ok=false for lines that
// produce no record: comments (leading ';'), the SUB end-of-file marker,
// and blank lines. Carried state is never modified by a skipped line.
//
// A line whose number field is not a non-negative integer returns
// ErrMalformedLine; carried state is left untouched in that case too.
func (p *Parser) ParseLine(raw string) (Record, bool, error) {
	line := strings.TrimRight(raw, "\r\n")

	if line == "" || line[0] == ';' || line[0] == eofMarker {
		return Record{}, false, nil
	}

	// Split on the first seven commas only: the flags field is the literal
	// remainder of the line and may itself contain commas.
	fields := strings.SplitN(line, ",", maxFields)

	number, err := strconv.Atoi(field(fields, 1))
	if err != nil || number < 0 {
		return Record{}, false, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	kind := EntryKind(field(fields, 0))
	node := 0
	switch kind {
	case KindZone:
		p.state.Zone = number
		p.state.Net = number
	case KindRegion:
		p.state.Region = number
		p.state.Net = number
	case KindHost:
		p.state.Net = number
	default:
		node = number
	}

	flags := " "
	if len(fields) == maxFields {
		flags = strings.TrimRight(fields[maxFields-1], "\r\n")
	}

	rec := Record{
		Type:     string(kind),
		Zone:     p.state.Zone,
		Net:      p.state.Net,
		Node:     node,
		Point:    0,
		Region:   p.state.Region,
		Name:     field(fields, 2),
		Location: field(fields, 3),
		Sysop:    field(fields, 4),
		Phone:    field(fields, 5),
		Baud:     field(fields, 6),
		Flags:    flags,
		Domain:   p.Domain,
		FTNYear:  p.FTNYear,
		YearDay:  p.YearDay,
		Source:   p.Source,
	}
	return rec, true, nil
}

// field returns fields[i] or "" when the line had fewer separable fields.
func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
