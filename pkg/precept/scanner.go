package precept

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/coolbeans/rimsave/pkg/savefile"
)

// Confirmer asks the operator a yes/no question with a default answer.
type Confirmer interface {
	Confirm(prompt string, defaultAnswer bool) (bool, error)
}

// Reporter receives warnings and diagnostics produced during a scan.
type Reporter interface {
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
}

// Scanner removes duplicate precepts from ideologies, one ideology at
// a time. Each ideology gets a fresh Tracker; no state crosses from
// one ideology to the next.
type Scanner struct {
	confirm Confirmer
	report  Reporter
}

// NewScanner creates a scanner that confirms removals through confirm
// and reports warnings through report.
func NewScanner(confirm Confirmer, report Reporter) *Scanner {
	return &Scanner{confirm: confirm, report: report}
}

// Result summarizes one removal run over an ideologies list.
type Result struct {
	// Ideologies is the number of ideologies whose precepts were
	// scanned (skipped ideologies are not counted).
	Ideologies int

	// Prompted is the number of removal confirmations asked.
	Prompted int

	// Removed is the number of precept entries removed.
	Removed int

	// Residual is the number of tracked keys whose count stayed above
	// 1 after the removal pass.
	Residual int
}

// ScanAll runs the two-pass dedup over every ideology under ideos,
// mutating the tree as removals are confirmed.
func (scanner *Scanner) ScanAll(ideos *etree.Element) (*Result, error) {
	result := &Result{}
	for index, ideology := range savefile.IdeologyEntries(ideos) {
		ideoName := savefile.IdeologyName(ideology)
		if ideoName == "" {
			scanner.report.Warnf("failed to find name for ideo at position %d", index)
			continue
		}
		preceptsElement := savefile.Precepts(ideology)
		if preceptsElement == nil {
			scanner.report.Warnf("no precepts node found in ideo %s", ideoName)
			continue
		}
		if err := scanner.scanIdeology(preceptsElement, ideoName, result); err != nil {
			return nil, err
		}
		result.Ideologies++
	}
	return result, nil
}

// scanIdeology dedupes one ideology's precepts. Pass 1 establishes
// which names repeat before anything is touched; pass 2 removes
// confirmed extras, decrementing the tracker so a name whose count has
// dropped back to 1 is left alone for the rest of the pass.
func (scanner *Scanner) scanIdeology(preceptsElement *etree.Element, ideoName string, result *Result) error {
	entries := savefile.PreceptEntries(preceptsElement)
	tracker := NewTracker()

	seen := make(map[string]bool, len(entries))
	for index, entry := range entries {
		name, def, ok := scanner.identity(entry, index, ideoName)
		if !ok {
			continue
		}
		if seen[name] {
			tracker.Record(def, name)
		}
		seen[name] = true
	}

	for index, entry := range entries {
		name, def, ok := scanner.identity(entry, index, ideoName)
		if !ok {
			continue
		}
		if !tracker.HasName(name) || !tracker.HasDef(def) || tracker.CountByName(name) <= 1 {
			continue
		}

		result.Prompted++
		prompt := fmt.Sprintf("Remove precept %s with def %s from ideo %s?", name, def, ideoName)
		yes, err := scanner.confirm.Confirm(prompt, true)
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !yes {
			continue
		}

		preceptsElement.RemoveChild(entry)
		tracker.RemoveByDef(def)
		result.Removed++
	}

	for _, entry := range tracker.Entries() {
		if entry.Count > 1 {
			scanner.report.Infof("failed to remove extra precept for %s, %d more remain", entry.Key, entry.Count-1)
			result.Residual++
		}
	}
	return nil
}

// DuplicateGroup is one display name that appears more than once in an
// ideology's precepts, with every definition identifier seen for it in
// document order.
type DuplicateGroup struct {
	Ideology string
	Name     string
	Defs     []string
	Count    int
}

// DuplicatesIn reports duplicate precept names in one ideology's
// precepts list without modifying anything.
func (scanner *Scanner) DuplicatesIn(preceptsElement *etree.Element, ideoName string) []DuplicateGroup {
	counts := make(map[string]int)
	defs := make(map[string][]string)
	var order []string

	for index, entry := range savefile.PreceptEntries(preceptsElement) {
		name, def, ok := scanner.identity(entry, index, ideoName)
		if !ok {
			continue
		}
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
		defs[name] = append(defs[name], def)
	}

	var groups []DuplicateGroup
	for _, name := range order {
		if counts[name] > 1 {
			groups = append(groups, DuplicateGroup{
				Ideology: ideoName,
				Name:     name,
				Defs:     defs[name],
				Count:    counts[name],
			})
		}
	}
	return groups
}

// identity extracts the display name and definition identifier from
// one precept entry. Entries carrying a Class attribute are a
// different kind of record and are skipped silently; entries missing a
// name or def child (or its text) are reported and skipped.
func (scanner *Scanner) identity(entry *etree.Element, index int, ideoName string) (string, string, bool) {
	if entry.SelectAttr("Class") != nil {
		return "", "", false
	}

	nameElement := entry.SelectElement("name")
	if nameElement == nil {
		scanner.report.Warnf("failed to find name element for precept at position %d in ideo %s", index, ideoName)
		return "", "", false
	}
	name := nameElement.Text()
	if name == "" {
		scanner.report.Warnf("failed to find name text for precept at position %d in ideo %s", index, ideoName)
		return "", "", false
	}

	defElement := entry.SelectElement("def")
	if defElement == nil {
		scanner.report.Warnf("failed to find def element for precept at position %d in ideo %s", index, ideoName)
		return "", "", false
	}
	def := defElement.Text()
	if def == "" {
		scanner.report.Warnf("failed to find def text for precept at position %d in ideo %s", index, ideoName)
		return "", "", false
	}

	return name, def, true
}
