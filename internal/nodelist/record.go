// Package nodelist implements the FTN nodelist core: the line parser with
// its carried zone/net/region state, the dated-file selector, and the
// record model persisted by the loader.
package nodelist

import "strconv"

// EntryKind is the first comma-separated field of a nodelist line.
// Hierarchy-defining kinds (Zone, Region, Host) update the carried state;
// everything else is a leaf node entry.
type EntryKind string

const (
	KindZone   EntryKind = "Zone"
	KindRegion EntryKind = "Region"
	KindHost   EntryKind = "Host"
	KindHub    EntryKind = "Hub"
	KindPvt    EntryKind = "Pvt"
	KindHold   EntryKind = "Hold"
	KindDown   EntryKind = "Down"

	// KindNode is the empty first field of a plain node line.
	KindNode EntryKind = ""
)

// DefaultDomain is stamped on records when the caller supplies none.
const DefaultDomain = "fidonet"

// Record is one parsed nodelist entry, mapped 1:1 onto a table row.
// The id and updated columns are assigned by the store at insert time
// and are intentionally absent here.
type Record struct {
	Type     string `db:"type"`
	Zone     int    `db:"zone"`
	Net      int    `db:"net"`
	Node     int    `db:"node"`
	Point    int    `db:"point"`
	Region   int    `db:"region"`
	Name     string `db:"name"`
	Location string `db:"location"`
	Sysop    string `db:"sysop"`
	Phone    string `db:"phone"`
	Baud     string `db:"baud"`
	Flags    string `db:"flags"`
	Domain   string `db:"domain"`
	FTNYear  int    `db:"ftnyear"`
	YearDay  int    `db:"yearday"`
	Source   string `db:"source"`
}

// Address returns the record's FTN address in zone:net/node.point notation.
func (r Record) Address() string {
	return strconv.Itoa(r.Zone) + ":" + strconv.Itoa(r.Net) + "/" +
		strconv.Itoa(r.Node) + "." + strconv.Itoa(r.Point)
}
