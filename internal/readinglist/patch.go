package readinglist

import (
	"fmt"
	"time"
)

// Field is a stored reading-list attribute that an update may assign.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldBookIDs     Field = "bookIds"
	FieldUpdatedAt   Field = "updatedAt"
)

// patchable lists the fields a caller may change. updatedAt is set by Build.
var patchable = map[Field]bool{
	FieldName:        true,
	FieldDescription: true,
	FieldBookIDs:     true,
}

// Assignment is one field = value pair of an update.
type Assignment struct {
	Field Field
	Value any
}

// Patch accumulates the assignments of one partial update. Store adapters
// render it into their own update syntax.
type Patch struct {
	sets []Assignment
	seen map[Field]bool
}

// Set adds f = v. Fields outside the whitelist, and repeats, are rejected.
func (p *Patch) Set(f Field, v any) error {
	if !patchable[f] {
		return fmt.Errorf("field %q is not patchable", f)
	}
	if p.seen[f] {
		return fmt.Errorf("field %q set twice", f)
	}
	if p.seen == nil {
		p.seen = make(map[Field]bool)
	}
	p.seen[f] = true
	p.sets = append(p.sets, Assignment{Field: f, Value: v})
	return nil
}

// Build returns the accumulated assignments followed by updatedAt = now.
func (p *Patch) Build(now time.Time) []Assignment {
	out := make([]Assignment, 0, len(p.sets)+1)
	out = append(out, p.sets...)
	return append(out, Assignment{Field: FieldUpdatedAt, Value: FormatTime(now)})
}

// NewPatch builds the patch for in: only the fields present in the request.
func NewPatch(in UpdateInput) (*Patch, error) {
	p := &Patch{}
	if in.Name != nil {
		if err := p.Set(FieldName, *in.Name); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		if err := p.Set(FieldDescription, *in.Description); err != nil {
			return nil, err
		}
	}
	if in.BookIDs != nil {
		ids := *in.BookIDs
		if ids == nil {
			ids = []string{}
		}
		if err := p.Set(FieldBookIDs, ids); err != nil {
			return nil, err
		}
	}
	return p, nil
}
