package mux

import (
	"fmt"
	"strings"
)

// SegmentKind identifies the variant of a path segment.
type SegmentKind int

const (
	// SegmentConstant matches a literal path segment.
	SegmentConstant SegmentKind = iota
	// SegmentParameter matches any single segment and binds it to a name.
	SegmentParameter
	// SegmentWildcard matches any single segment without binding it.
	SegmentWildcard
	// SegmentCatchAll matches one or more trailing segments.
	SegmentCatchAll
)

// String returns the kind name.
func (k SegmentKind) String() string {
	switch k {
	case SegmentConstant:
		return "constant"
	case SegmentParameter:
		return "parameter"
	case SegmentWildcard:
		return "wildcard"
	case SegmentCatchAll:
		return "catch-all"
	default:
		return fmt.Sprintf("SegmentKind(%d)", int(k))
	}
}

// CatchAllVar is the key under which Vars stores the remainder matched by
// a catch-all segment.
const CatchAllVar = "**"

// Segment is one component of a route path.
//
// Template syntax used by ParsePath and Segment.String:
//
//	users       constant
//	{id}        parameter
//	{id:uuid}   parameter constrained by a macro
//	*           wildcard
//	**          catch-all
type Segment struct {
	Kind  SegmentKind
	Value string // literal for constants, name for parameters

	// Macro optionally constrains a parameter (see the macro list in the
	// package documentation).
	Macro string

	// Description documents a parameter.
	Description string
}

// Constant returns a literal segment.
func Constant(literal string) Segment {
	return Segment{Kind: SegmentConstant, Value: literal}
}

// Param returns a parameter segment. The name may carry a macro
// ("id:int").
func Param(name string) Segment {
	name, macro, _ := strings.Cut(name, ":")
	return Segment{Kind: SegmentParameter, Value: name, Macro: macro}
}

// Wildcard returns a segment matching any single path component.
func Wildcard() Segment {
	return Segment{Kind: SegmentWildcard}
}

// CatchAll returns a segment matching the rest of the path.
func CatchAll() Segment {
	return Segment{Kind: SegmentCatchAll}
}

// Describe returns a copy of the segment with a description attached.
// Only parameter segments carry descriptions; other kinds are returned
// unchanged.
func (s Segment) Describe(description string) Segment {
	if s.Kind != SegmentParameter {
		return s
	}
	s.Description = description
	return s
}

// String renders the segment in template syntax.
func (s Segment) String() string {
	switch s.Kind {
	case SegmentParameter:
		if s.Macro != "" {
			return "{" + s.Value + ":" + s.Macro + "}"
		}
		return "{" + s.Value + "}"
	case SegmentWildcard:
		return "*"
	case SegmentCatchAll:
		return "**"
	default:
		return s.Value
	}
}

// ParseSegment parses a single template component.
func ParseSegment(component string) (Segment, error) {
	switch {
	case component == "*":
		return Wildcard(), nil
	case component == "**":
		return CatchAll(), nil
	case strings.HasPrefix(component, "{") && strings.HasSuffix(component, "}"):
		inner := component[1 : len(component)-1]
		seg := Param(inner)
		if seg.Value == "" || strings.ContainsAny(seg.Value, "{}") {
			return Segment{}, fmt.Errorf("%w: empty or nested parameter %q", ErrInvalidTemplate, component)
		}
		if seg.Macro != "" && !IsMacro(seg.Macro) {
			return Segment{}, fmt.Errorf("%w: unknown macro %q in %q", ErrInvalidTemplate, seg.Macro, component)
		}
		return seg, nil
	case strings.ContainsAny(component, "{}"):
		return Segment{}, fmt.Errorf("%w: unbalanced braces in %q", ErrInvalidTemplate, component)
	default:
		return Constant(component), nil
	}
}

// ParsePath splits a path template into segments. Empty components
// (leading, trailing or doubled slashes) are ignored, so "/" yields no
// segments. A catch-all must be the last segment and parameter names must
// be unique.
func ParsePath(tpl string) ([]Segment, error) {
	var segments []Segment
	seen := make(map[string]bool)

	for component := range strings.SplitSeq(tpl, "/") {
		if component == "" {
			continue
		}
		seg, err := ParseSegment(component)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}

	return segments, validateSegments(segments, seen)
}

// validateSegments checks structural invariants shared by ParsePath and
// routes registered from explicit segment lists.
func validateSegments(segments []Segment, seen map[string]bool) error {
	for i, seg := range segments {
		switch seg.Kind {
		case SegmentCatchAll:
			if i != len(segments)-1 {
				return fmt.Errorf("%w: catch-all must be the last segment", ErrInvalidTemplate)
			}
		case SegmentParameter:
			if seen[seg.Value] {
				return fmt.Errorf("%w: duplicated parameter %q", ErrInvalidTemplate, seg.Value)
			}
			seen[seg.Value] = true
		}
	}
	return nil
}

// JoinSegments renders segments back into a template ("/" for none).
func JoinSegments(segments []Segment) string {
	if len(segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(seg.String())
	}
	return b.String()
}
