package constants

import (
	"context"
	"sort"

	"github.com/samber/oops"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ruledoc"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

// Declared mirrors ruledoc.ConstantDecl without importing-cycle concerns;
// the loader accepts the ruledoc type directly since constants already
// depends on ruledoc for AST traversal.
type Declared = ruledoc.ConstantDecl

// ReferencedNames scans the document's conditions and actions (top-level
// and every sub-rule) for UPPER_SNAKE_CASE identifiers (§4.9 step 2).
func ReferencedNames(doc *ruledoc.Document) []string {
	seen := make(map[string]bool)
	ScanCondition(doc.When, seen)
	ScanActions(doc.Then, seen)
	ScanActions(doc.Else, seen)
	for _, sr := range doc.Rules {
		ScanCondition(sr.When, seen)
		ScanActions(sr.Then, seen)
		ScanActions(sr.Else, seen)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MergedCodes is declared ∪ referenced (§4.9 step 2).
func MergedCodes(doc *ruledoc.Document) []string {
	merged := make(map[string]bool)
	for _, name := range ReferencedNames(doc) {
		merged[name] = true
	}
	for _, decl := range doc.Constants {
		merged[decl.Code] = true
	}
	codes := make([]string, 0, len(merged))
	for code := range merged {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// MissingConstantError reports which constant codes had neither a
// provider value nor an inline default (§4.9 step 5, §7 CONSTANT_MISSING).
type MissingConstantError struct {
	Missing []string
}

func (e *MissingConstantError) Error() string {
	return "Required constants not found in database and no default values provided"
}

// Load fetches every code in MergedCodes(doc) from provider, merges the
// result with inline defaults declared on the document, and returns the
// fully-resolved constant map ready to populate an evaluation context
// (§4.9 steps 3-6). A code present in neither the provider's stream nor
// an inline default is fatal (§4.9 step 5, §7 CONSTANT_MISSING) unless it
// was only ever referenced (never declared) — an undeclared reference
// with no provider value simply resolves to Null, since the document
// never promised a default for it.
func Load(ctx context.Context, doc *ruledoc.Document, provider Provider) (map[string]value.Value, error) {
	codes := MergedCodes(doc)
	if len(codes) == 0 {
		return map[string]value.Value{}, nil
	}

	stream, err := provider.GetConstantsByCodes(ctx, codes)
	if err != nil {
		return nil, oops.Code("CONSTANT_MISSING").Wrapf(err, "constant provider fetch failed")
	}
	fromProvider := make(map[string]value.Value, len(codes))
	for sc := range stream {
		fromProvider[sc.Code] = sc.CurrentValue
	}

	declaredDefaults := make(map[string]Declared, len(doc.Constants))
	for _, decl := range doc.Constants {
		declaredDefaults[decl.Code] = decl
	}

	resolved := make(map[string]value.Value, len(codes))
	var missing []string
	for _, code := range codes {
		if v, ok := fromProvider[code]; ok {
			resolved[code] = v
			continue
		}
		if decl, ok := declaredDefaults[code]; ok {
			if decl.HasDefault {
				resolved[code] = decl.Default
				continue
			}
			missing = append(missing, code)
			continue
		}
		// Referenced but never declared: no default was ever promised.
		resolved[code] = value.Null
	}

	if len(missing) > 0 {
		return resolved, &MissingConstantError{Missing: missing}
	}
	return resolved, nil
}
