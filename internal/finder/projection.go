package finder

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/finder/internal/ir"
	"github.com/roach88/finder/internal/queryir"
)

var limitPattern = regexp.MustCompile(`^(?:Top|First)(\d*)$`)

// aggregatePrefixes map a segment prefix to the projection it introduces.
// CountDistinct must be tried before Count.
var aggregatePrefixes = []struct {
	prefix string
	kind   queryir.ProjectionKind
}{
	{"CountDistinct", queryir.ProjectCountDistinct},
	{"Count", queryir.ProjectCount},
	{"Distinct", queryir.ProjectDistinct},
	{"Sum", queryir.ProjectSum},
	{"Avg", queryir.ProjectAvg},
	{"Max", queryir.ProjectMax},
	{"Min", queryir.ProjectMin},
}

// ExtractProjections parses the text between a strategy prefix and By,
// e.g. "Distinct", "Top3", "SumAgeAndMaxAge".
//
// The text is split on the first boolean operator present and each
// segment resolves independently. Segments that are not recognised, or
// that name a property the entity lacks, yield nothing.
func ExtractProjections(sequence string, entity *ir.EntityMetadata) []queryir.Projection {
	if sequence == "" {
		return nil
	}

	segments := []string{sequence}
	if op, ok := findOperator(sequence); ok {
		segments = splitOperator(sequence, op)
	}

	var projections []queryir.Projection
	for _, segment := range segments {
		if p, ok := matchProjection(segment, entity); ok {
			projections = append(projections, p)
		}
	}
	return projections
}

func matchProjection(segment string, entity *ir.EntityMetadata) (queryir.Projection, bool) {
	if segment == "" {
		return queryir.Projection{}, false
	}

	if m := limitPattern.FindStringSubmatch(segment); m != nil {
		n := 1
		if m[1] != "" {
			parsed, err := strconv.Atoi(m[1])
			if err != nil || parsed < 1 {
				return queryir.Projection{}, false
			}
			n = parsed
		}
		return queryir.Projection{Kind: queryir.ProjectLimit, Limit: n}, true
	}

	for _, agg := range aggregatePrefixes {
		if !strings.HasPrefix(segment, agg.prefix) {
			continue
		}
		rest := segment[len(agg.prefix):]
		if rest == "" {
			switch agg.kind {
			case queryir.ProjectCount, queryir.ProjectCountDistinct, queryir.ProjectDistinct:
				return queryir.Projection{Kind: agg.kind}, true
			default:
				return queryir.Projection{}, false
			}
		}
		if !startsUpper(rest) {
			continue
		}
		name := ir.Decapitalize(rest)
		if _, ok := entity.PropertyByName(name); !ok {
			return queryir.Projection{}, false
		}
		return queryir.Projection{Kind: agg.kind, Property: name}, true
	}

	name := ir.Decapitalize(segment)
	if _, ok := entity.PropertyByName(name); ok {
		return queryir.Projection{Kind: queryir.ProjectProperty, Property: name}, true
	}
	return queryir.Projection{}, false
}

// projectionResult is the result type a lone projection imposes.
// ok is false when the projection leaves the result unchanged.
func projectionResult(p queryir.Projection, entity *ir.EntityMetadata) (queryir.ResultType, bool) {
	switch p.Kind {
	case queryir.ProjectCount, queryir.ProjectCountDistinct, queryir.ProjectSum, queryir.ProjectAvg:
		return queryir.ResultType{Kind: queryir.ResultNumber}, true
	case queryir.ProjectMax, queryir.ProjectMin, queryir.ProjectProperty, queryir.ProjectDistinct:
		if p.Property == "" {
			return queryir.ResultType{}, false
		}
		prop, ok := entity.PropertyByName(p.Property)
		if !ok {
			return queryir.ResultType{}, false
		}
		return queryir.ResultType{Kind: queryir.ResultProperty, Type: prop.Type}, true
	default:
		return queryir.ResultType{}, false
	}
}
