// Package gml extracts aquaculture facility polygons from WFS GML
// documents. It is a forgiving streaming scanner: anything it cannot make
// sense of is skipped, and it never returns an error.
package gml

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"go.trai.ch/fjordsync/internal/core/domain"
)

// Element names of interest within a feature member.
const (
	featureElement   = "AkvakulturFlate"
	posListElement   = "posList"
	ownerElement     = "firmanavn"
	speciesElement   = "akvaArt"
	placementElement = "akvaPlassering"
	waterElement     = "akvaVannmiljø"
)

// Parse scans a GML document and returns the facility polygons it contains,
// in document order. Features without a position list, or with fewer than
// three coordinate pairs, are dropped. A malformed document yields the
// features parsed up to the first unrecoverable fragment.
func Parse(r io.Reader) []domain.PolygonFeature {
	d := xml.NewDecoder(r)
	d.Strict = false

	var features []domain.PolygonFeature
	for {
		tok, err := d.Token()
		if err != nil {
			return features
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != featureElement {
			continue
		}
		if f, ok := parseFeature(d, start); ok {
			features = append(features, f)
		}
	}
}

// parseFeature consumes tokens up to the feature's end element.
func parseFeature(d *xml.Decoder, start xml.StartElement) (domain.PolygonFeature, bool) {
	f := domain.PolygonFeature{ID: attr(start, "id")}

	var species []string
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return domain.PolygonFeature{}, false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case posListElement:
				f.Ring = parseRing(elementText(d))
			case ownerElement:
				f.Owner = elementText(d)
			case speciesElement:
				if s := elementText(d); s != "" {
					species = append(species, s)
				}
			case placementElement:
				f.Placement = elementText(d)
			case waterElement:
				f.WaterEnvironment = elementText(d)
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}

	if len(f.Ring) < 3 {
		return domain.PolygonFeature{}, false
	}
	f.Species = strings.Join(species, ", ")
	return f, true
}

// elementText returns the character data of the current element and
// consumes its end tag.
func elementText(d *xml.Decoder) string {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return ""
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return strings.TrimSpace(sb.String())
}

// parseRing converts a whitespace-separated coordinate list into [lng, lat]
// pairs. A dangling odd value is ignored; any unparsable value voids the
// whole ring.
func parseRing(posList string) [][2]float64 {
	fields := strings.Fields(posList)
	ring := make([][2]float64, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil
		}
		ring = append(ring, [2]float64{x, y})
	}
	return ring
}

func attr(e xml.StartElement, local string) string {
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
