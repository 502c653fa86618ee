// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vsdx reads the structural skeleton of OOXML Visio drawings
// (.vsdx, .vsdm): page names and sizes plus top-level shape geometry.
// It is deliberately lossy; masters, styles, geometry sections, and
// nested group internals are out of scope.
package vsdx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
)

const (
	pagesPart = "visio/pages/pages.xml"
	pagesRels = "visio/pages/_rels/pages.xml.rels"
)

// Shape is one top-level shape on a page. Position and size are only
// meaningful when the corresponding Has flag is set.
type Shape struct {
	Name    string
	X, Y    float64
	Width   float64
	Height  float64
	HasPos  bool
	HasSize bool
}

// Page is one drawing page with its top-level shapes.
type Page struct {
	Name   string
	Width  float64
	Height float64
	Shapes []Shape
}

// Document is the structural content of a Visio drawing.
type Document struct {
	Pages []Page
}

// Reader opens documents from the filesystem. It exists so the pipeline can
// depend on an interface and tests can substitute synthetic documents.
type Reader struct{}

// Read parses the drawing at zipPath.
func (Reader) Read(zipPath string) (*Document, error) {
	return Open(zipPath)
}

// --- raw XML shapes of the OOXML parts ---

type xmlCell struct {
	N string `xml:"N,attr"`
	V string `xml:"V,attr"`
}

type xmlRel struct {
	ID string `xml:"id,attr"`
}

type xmlPage struct {
	Name  string    `xml:"Name,attr"`
	Cells []xmlCell `xml:"PageSheet>Cell"`
	Rel   xmlRel    `xml:"Rel"`
}

type xmlPages struct {
	Pages []xmlPage `xml:"Page"`
}

type xmlRelationship struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

type xmlRelationships struct {
	Rels []xmlRelationship `xml:"Relationship"`
}

type xmlShape struct {
	Name  string    `xml:"Name,attr"`
	NameU string    `xml:"NameU,attr"`
	Cells []xmlCell `xml:"Cell"`
}

type xmlPageContents struct {
	Shapes []xmlShape `xml:"Shapes>Shape"`
}

// Open reads the drawing at zipPath and returns its structural document.
func Open(zipPath string) (*Document, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", zipPath, err)
	}
	defer zr.Close()

	var pages xmlPages
	if err := decodePart(&zr.Reader, pagesPart, &pages); err != nil {
		if err == errPartMissing {
			return nil, fmt.Errorf("%s is not a Visio OOXML drawing: no %s part", zipPath, pagesPart)
		}
		return nil, err
	}

	rels, err := readRels(&zr.Reader)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	for _, xp := range pages.Pages {
		page := Page{
			Name:   xp.Name,
			Width:  cellFloat(xp.Cells, "PageWidth"),
			Height: cellFloat(xp.Cells, "PageHeight"),
		}

		if target, ok := rels[xp.Rel.ID]; ok {
			shapes, err := readShapes(&zr.Reader, target)
			if err != nil {
				return nil, fmt.Errorf("page %q: %w", xp.Name, err)
			}
			page.Shapes = shapes
		}

		doc.Pages = append(doc.Pages, page)
	}

	return doc, nil
}

// readRels maps relationship IDs to part paths under visio/pages/.
// A drawing without the rels part yields an empty map (pages then carry
// no shapes).
func readRels(zr *zip.Reader) (map[string]string, error) {
	var rels xmlRelationships
	if err := decodePart(zr, pagesRels, &rels); err != nil {
		if err == errPartMissing {
			return map[string]string{}, nil
		}
		return nil, err
	}
	m := make(map[string]string, len(rels.Rels))
	for _, r := range rels.Rels {
		m[r.ID] = path.Join("visio/pages", r.Target)
	}
	return m, nil
}

func readShapes(zr *zip.Reader, part string) ([]Shape, error) {
	var contents xmlPageContents
	if err := decodePart(zr, part, &contents); err != nil {
		if err == errPartMissing {
			return nil, nil
		}
		return nil, err
	}

	shapes := make([]Shape, 0, len(contents.Shapes))
	for _, xs := range contents.Shapes {
		s := Shape{Name: xs.Name}
		if s.Name == "" {
			s.Name = xs.NameU
		}

		var x, y, w, h float64
		var hasX, hasY, hasW, hasH bool
		x, hasX = cellLookup(xs.Cells, "PinX")
		y, hasY = cellLookup(xs.Cells, "PinY")
		w, hasW = cellLookup(xs.Cells, "Width")
		h, hasH = cellLookup(xs.Cells, "Height")

		if hasX && hasY {
			s.X, s.Y, s.HasPos = x, y, true
		}
		if hasW && hasH {
			s.Width, s.Height, s.HasSize = w, h, true
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

var errPartMissing = fmt.Errorf("part missing")

// decodePart finds a named part in the archive and XML-decodes it into v.
func decodePart(zr *zip.Reader, name string, v any) error {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening part %s: %w", name, err)
		}
		defer rc.Close()
		if err := xml.NewDecoder(rc).Decode(v); err != nil && err != io.EOF {
			return fmt.Errorf("decoding part %s: %w", name, err)
		}
		return nil
	}
	return errPartMissing
}

func cellFloat(cells []xmlCell, n string) float64 {
	v, _ := cellLookup(cells, n)
	return v
}

func cellLookup(cells []xmlCell, n string) (float64, bool) {
	for _, c := range cells {
		if c.N == n {
			v, err := strconv.ParseFloat(c.V, 64)
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}
